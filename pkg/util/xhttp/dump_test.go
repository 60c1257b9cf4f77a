package xhttp_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuxler/regprune/pkg/util/xhttp"
)

var (
	elapsedRe    = regexp.MustCompile(`\((.*?s)\)`)
	dateHeaderRe = regexp.MustCompile(`Date: .*`)
	addressRe    = regexp.MustCompile(`127.0.0.1:\d*`)
)

func normalizeDump(s string) string {
	s = elapsedRe.ReplaceAllString(s, "(<elapsed>)")
	s = dateHeaderRe.ReplaceAllString(s, "Date: <date>")
	s = addressRe.ReplaceAllString(s, "127.0.0.1:<port>")
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func TestDumpTransport_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Basic dXNlcjpwYXNz", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"name":"app","tags":["v1"]}`)
	}))
	defer server.Close()

	testcases := []struct {
		mode xhttp.DumpMode
		want string
	}{
		{
			mode: xhttp.DumpAll,
			want: `--> GET http://127.0.0.1:<port>/v2/app/tags/list
GET /v2/app/tags/list HTTP/1.1
Host: 127.0.0.1:<port>
User-Agent: Go-http-client/1.1
Authorization: <redacted>
Accept-Encoding: gzip

<-- GET http://127.0.0.1:<port>/v2/app/tags/list 200 OK (<elapsed>)
HTTP/1.1 200 OK
Content-Length: 28
Content-Type: application/json
Date: <date>

{"name":"app","tags":["v1"]}

`,
		},
		{
			mode: xhttp.DumpRequest,
			want: `--> GET http://127.0.0.1:<port>/v2/app/tags/list [body redacted]
GET /v2/app/tags/list HTTP/1.1
Host: 127.0.0.1:<port>
User-Agent: Go-http-client/1.1
Authorization: <redacted>
Accept-Encoding: gzip

`,
		},
		{
			mode: xhttp.DumpResponse,
			want: `<-- GET http://127.0.0.1:<port>/v2/app/tags/list 200 OK (<elapsed>) [body redacted]
HTTP/1.1 200 OK
Content-Length: 28
Content-Type: application/json
Date: <date>

`,
		},
		{
			mode: xhttp.DumpNone,
			want: ``,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			out := &bytes.Buffer{}
			tr := xhttp.NewDumpTransport(http.DefaultTransport.(*http.Transport).Clone())
			tr.Out = out
			client := &http.Client{Transport: tr}

			ctx := xhttp.WithDumpMode(context.Background(), tc.mode)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v2/app/tags/list", http.NoBody)
			require.NoError(t, err)
			req.SetBasicAuth("user", "pass")

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.want, normalizeDump(out.String()))
			assert.Equal(t, "Basic dXNlcjpwYXNz", req.Header.Get("Authorization"), "header restored")
		})
	}
}

func TestDumpMode(t *testing.T) {
	assert.Equal(t, "DumpNone", xhttp.DumpNone.String())
	assert.Equal(t, "DumpRequest|DumpResponse", (xhttp.DumpRequest | xhttp.DumpResponse).String())
	assert.True(t, xhttp.DumpAll.Has(xhttp.DumpResponseBody))
	assert.False(t, xhttp.DumpAll.Has(xhttp.DumpNone))

	mode := xhttp.DumpAll.Without(xhttp.DumpRequestBody, xhttp.DumpResponseBody)
	assert.Equal(t, xhttp.DumpRequest|xhttp.DumpResponse, mode)
}
