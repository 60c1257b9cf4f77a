package xhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/wuxler/regprune/pkg/util/xcontext"
	"github.com/wuxler/regprune/pkg/xlog"
)

// DumpMode is a bitmask controlling which parts of a round trip are dumped.
type DumpMode uint8

const (
	DumpRequest DumpMode = 1 << iota
	DumpRequestBody
	DumpResponse
	DumpResponseBody

	DumpNone DumpMode = 0
	DumpAll           = DumpRequest | DumpRequestBody | DumpResponse | DumpResponseBody
)

var dumpModeNames = []lo.Tuple2[DumpMode, string]{
	{A: DumpRequest, B: "DumpRequest"},
	{A: DumpRequestBody, B: "DumpRequestBody"},
	{A: DumpResponse, B: "DumpResponse"},
	{A: DumpResponseBody, B: "DumpResponseBody"},
}

func (m DumpMode) String() string {
	names := lo.FilterMap(dumpModeNames, func(item lo.Tuple2[DumpMode, string], _ int) (string, bool) {
		return item.B, m.Has(item.A)
	})
	if len(names) == 0 {
		return "DumpNone"
	}
	return strings.Join(names, "|")
}

// Has reports whether every bit of mode is set in m.
func (m DumpMode) Has(mode DumpMode) bool {
	return mode != 0 && m&mode == mode
}

// Without returns m with the bits of modes cleared.
func (m DumpMode) Without(modes ...DumpMode) DumpMode {
	for _, mode := range modes {
		m &^= mode
	}
	return m
}

// WithDumpMode limits the dump mode of requests sent with ctx.
func WithDumpMode(ctx context.Context, mode DumpMode) context.Context {
	return xcontext.WithValue(ctx, mode)
}

// GetDumpMode returns the dump mode from the context.
func GetDumpMode(ctx context.Context) (DumpMode, bool) {
	return xcontext.GetValue[DumpMode](ctx)
}

var _ http.RoundTripper = (*DumpTransport)(nil)

// NewDumpTransport returns a new [DumpTransport] with the given inner transport.
func NewDumpTransport(inner http.RoundTripper) *DumpTransport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &DumpTransport{
		Out:         os.Stderr,
		DefaultMode: DumpAll,
		inner:       inner,
	}
}

// DumpTransport is an [http.RoundTripper] that dumps requests and responses.
// The Authorization header is always redacted.
type DumpTransport struct {
	Out         io.Writer
	DefaultMode DumpMode

	inner http.RoundTripper
}

func (m *DumpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mode := m.DefaultMode
	if value, ok := GetDumpMode(req.Context()); ok {
		mode &= value
	}
	if mode == DumpNone {
		return m.inner.RoundTrip(req)
	}

	buf := &bytes.Buffer{}
	defer func() {
		if _, err := io.Copy(m.writer(), buf); err != nil {
			xlog.C(req.Context()).Warnf("failed to dump request/response: %v", err)
		}
	}()

	if mode.Has(DumpRequest) {
		dumpRequest(buf, req, mode.Has(DumpRequestBody))
	}

	start := time.Now()
	resp, err := m.inner.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if mode.Has(DumpResponse) {
		dumpResponse(buf, resp, mode.Has(DumpResponseBody), time.Since(start))
	}
	return resp, nil
}

func (m *DumpTransport) writer() io.Writer {
	if m.Out != nil {
		return m.Out
	}
	return os.Stderr
}

func dumpRequest(w io.Writer, req *http.Request, body bool) {
	title := fmt.Sprintf("--> %s %s", req.Method, req.URL.Redacted())
	if !body {
		title += " [body redacted]"
	}

	headers := req.Header
	if req.Header.Get("Authorization") != "" {
		req.Header = req.Header.Clone()
		req.Header.Set("Authorization", "<redacted>")
	}
	b, err := httputil.DumpRequestOut(req, body)
	req.Header = headers

	writeDump(w, title, b, err)
}

func dumpResponse(w io.Writer, resp *http.Response, body bool, elapsed time.Duration) {
	req := resp.Request
	title := fmt.Sprintf("<-- %s %s %d %s", req.Method, req.URL.Redacted(), resp.StatusCode, http.StatusText(resp.StatusCode))
	if elapsed > 0 {
		title += fmt.Sprintf(" (%s)", elapsed)
	}
	if !body {
		title += " [body redacted]"
	}
	b, err := httputil.DumpResponse(resp, body)
	writeDump(w, title, b, err)
}

func writeDump(w io.Writer, title string, dumped []byte, err error) {
	_, _ = fmt.Fprintf(w, "%s\n", title)
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to dump: %v\n\n", err)
		return
	}
	_, _ = fmt.Fprintf(w, "%s\n\n", bytes.TrimSuffix(dumped, []byte("\r\n\r\n")))
}
