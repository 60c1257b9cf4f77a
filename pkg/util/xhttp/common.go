package xhttp

import (
	"net"
	stdurl "net/url"
	"strings"

	"github.com/spf13/cast"
)

// ParseHostScheme parses any address string and return host, scheme and error.
// If addr is a host/domain style string, the returned scheme will be "".
func ParseHostScheme(addr string) (string, string, error) {
	if strings.Contains(addr, "://") {
		url, err := stdurl.Parse(addr)
		if err != nil {
			return "", "", err
		}
		return url.Host, url.Scheme, nil
	}

	url, err := stdurl.Parse("https://" + addr)
	if err != nil {
		return "", "", err
	}
	return url.Host, "", nil
}

// WithDefaultPort appends port to addr when addr carries no port. A scheme
// prefix, if any, is kept. A non-positive port leaves addr untouched.
func WithDefaultPort(addr string, port int) string {
	if port <= 0 {
		return addr
	}
	prefix, hostport := "", addr
	if i := strings.Index(addr, "://"); i >= 0 {
		prefix, hostport = addr[:i+3], addr[i+3:]
	}
	hostport = strings.TrimSuffix(hostport, "/")
	if _, _, err := net.SplitHostPort(hostport); err == nil {
		return prefix + hostport
	}
	host := strings.TrimSuffix(strings.TrimPrefix(hostport, "["), "]")
	return prefix + net.JoinHostPort(host, cast.ToString(port))
}
