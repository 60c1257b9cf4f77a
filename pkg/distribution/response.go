package distribution

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	stdurl "net/url"
	"strings"

	"github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/wuxler/regprune/pkg/errdefs"
	"github.com/wuxler/regprune/pkg/util/xhttp"
)

// DockerContentDigestHeader carries the digest of the manifest in a response.
const DockerContentDigestHeader = "Docker-Content-Digest"

// DescriptorFromResponse generates Descriptor from a manifest response. A
// response without the Docker-Content-Digest header yields an error matching
// [errdefs.ErrNotFound].
func DescriptorFromResponse(resp *http.Response) (imgspecv1.Descriptor, error) {
	var zero imgspecv1.Descriptor

	s := resp.Header.Get(DockerContentDigestHeader)
	if s == "" {
		return zero, xhttp.MakeResponseError(resp,
			errdefs.Newf(errdefs.ErrNotFound, "missing '%s' header", DockerContentDigestHeader))
	}
	dgst, err := digest.Parse(s)
	if err != nil {
		return zero, xhttp.MakeResponseError(resp, fmt.Errorf("invalid '%s' header: %q: %w", DockerContentDigestHeader, s, err))
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		mediaType = DefaultMediaType
	}
	size := resp.ContentLength
	if size < 0 {
		size = 0
	}
	return imgspecv1.Descriptor{
		MediaType: mediaType,
		Digest:    dgst,
		Size:      size,
	}, nil
}

// errNoNextPage is returned by getNextPageURL when the response is the last page.
var errNoNextPage = errors.New("no next page")

// getNextPageURL returns the next page URL from the "Link" header of resp,
// resolved against the request URL.
func getNextPageURL(resp *http.Response) (*stdurl.URL, error) {
	link := resp.Header.Get("Link")
	if link == "" {
		return nil, errNoNextPage
	}
	if link[0] != '<' {
		return nil, fmt.Errorf("invalid 'Link' header %q: missing '<' as the first character", link)
	}
	end := strings.Index(link, ">")
	if end < 0 {
		return nil, fmt.Errorf("invalid 'Link' header %q: missing '>' character", link)
	}
	link = link[1:end]

	linkURL, err := stdurl.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid 'Link' header %q: %w", link, err)
	}
	if resp.Request == nil || resp.Request.URL == nil {
		return nil, errors.New("missing request URL in response")
	}
	return resp.Request.URL.ResolveReference(linkURL), nil
}
