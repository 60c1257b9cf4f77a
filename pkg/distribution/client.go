// Package distribution is a client of the registry HTTP API v2, limited to
// the endpoints a tag pruner needs: ping, catalog, tag listing, manifest
// resolution and manifest deletion.
package distribution

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wuxler/regprune/pkg/authn"
	"github.com/wuxler/regprune/pkg/errdefs"
	"github.com/wuxler/regprune/pkg/util/xcache"
	"github.com/wuxler/regprune/pkg/util/xhttp"
	"github.com/wuxler/regprune/pkg/util/xio"
	"github.com/wuxler/regprune/pkg/xlog"
)

var _ xhttp.Client = (*Client)(nil)

// SchemeCache remembers the scheme detected for a registry host.
type SchemeCache = xcache.Cache[string]

var defaultSchemeCache = xcache.NewDiscard[string]()

// NewClient returns a client with the memory-based scheme cache.
func NewClient() *Client {
	return &Client{
		SchemeCache: xcache.NewMemory[string](),
	}
}

// Client implements [xhttp.Client] for registry requests.
type Client struct {
	// Client is the underlying HTTP client used to access the remote
	// server. If nil, http.DefaultClient is used.
	Client *http.Client

	// Header contains the custom headers to be added to each request.
	Header http.Header

	// Credentials are sent pre-emptively as basic auth on every request
	// when any of username and password is set.
	Credentials authn.Basic

	// SchemeCache caches detected schemes by host, if not set, default to
	// a cache which will discard all operations.
	SchemeCache SchemeCache
}

// Do sends request with the custom headers and credentials applied.
func (c *Client) Do(request *http.Request) (*http.Response, error) {
	for key, values := range c.Header {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	if err := c.Credentials.Authorize(request); err != nil {
		return nil, xhttp.MakeRequestError(request, err)
	}
	resp, err := c.client().Do(request)
	if err != nil {
		return nil, xhttp.MakeRequestError(request, err)
	}
	return resp, nil
}

// NewRegistry returns the [Registry] at addr, which is "host[:port]" or
// "scheme://host[:port]". Without a scheme, "https" and "http" are probed.
func (c *Client) NewRegistry(ctx context.Context, addr string) (*Registry, error) {
	host, scheme, err := xhttp.ParseHostScheme(addr)
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrInvalidParameter, fmt.Errorf("invalid registry address %q: %w", addr, err))
	}
	if host == "" {
		return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid registry address %q: missing host", addr)
	}
	switch scheme {
	case "http", "https":
	case "":
		scheme, err = c.DetectScheme(ctx, host)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid registry address %q: unsupported scheme %q", addr, scheme)
	}
	return &Registry{client: c, host: host, scheme: scheme}, nil
}

// DetectScheme sniffs whether the registry at host serves "https" or "http".
func (c *Client) DetectScheme(ctx context.Context, host string) (string, error) {
	// Probe bodies are of no interest in request dumps.
	ctx = xhttp.WithDumpMode(ctx, xhttp.DumpAll.Without(xhttp.DumpResponseBody))
	var detectErr error
	scheme, ok := c.schemeCache().Get(ctx, host, xcache.WithLoader(func(ctx context.Context, host string) (string, bool) {
		schemes := []string{"https", "http"}
		primary := &schemePinger{client: c, host: host, scheme: schemes[0]}
		fallback := &schemePinger{client: c, host: host, scheme: schemes[1]}
		isPrimary, err := xhttp.PingParallel(ctx, primary, fallback)
		if err != nil {
			detectErr = err
			return "", false
		}
		if isPrimary {
			return schemes[0], true
		}
		return schemes[1], true
	}))
	if ok {
		xlog.C(ctx).Debugf("detected scheme %q for registry %s", scheme, host)
		return scheme, nil
	}
	if detectErr == nil {
		detectErr = fmt.Errorf("no response from %s", host)
	}
	return "", errdefs.NewE(errdefs.ErrUnavailable, fmt.Errorf("unable to detect scheme of registry %s: %w", host, detectErr))
}

func (c *Client) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func (c *Client) schemeCache() SchemeCache {
	if c.SchemeCache != nil {
		return c.SchemeCache
	}
	return defaultSchemeCache
}

type schemePinger struct {
	client xhttp.Client
	host   string
	scheme string
}

func (p *schemePinger) String() string {
	return fmt.Sprintf("GET %s://%s/v2/", p.scheme, p.host)
}

func (p *schemePinger) Ping(ctx context.Context) (bool, error) {
	return ping(ctx, p.client, RouteBuilder{BaseURL: p.scheme + "://" + p.host})
}

func ping(ctx context.Context, client xhttp.Client, rb RouteBuilder) (bool, error) {
	endpoint := rb.Endpoint(RoutePing)
	req, err := endpoint.BuildRequest(ctx)
	if err != nil {
		return false, err
	}
	resp, err := client.Do(req) //nolint:bodyclose // closed by xio.CloseAndSkipError
	if err != nil {
		return false, err
	}
	defer xio.CloseAndSkipError(resp.Body)
	if err := xhttp.Success(resp, endpoint.Descriptor().SuccessCodes...); err != nil {
		return false, err
	}
	return true, nil
}
