package distribution

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	stdurl "net/url"

	"github.com/spf13/cast"

	"github.com/wuxler/regprune/pkg/util/xhttp"
	"github.com/wuxler/regprune/pkg/util/xio"
)

// pageIterator follows "Link" headers of a paged listing endpoint.
type pageIterator[T any] struct {
	client   xhttp.Client
	endpoint Endpoint
	options  *ListOptions
	decode   func(io.Reader) ([]T, error)

	next *stdurl.URL
	done bool
}

func newPageIterator[T any](client xhttp.Client, endpoint Endpoint, decode func(io.Reader) ([]T, error), opts ...ListOption) *pageIterator[T] {
	return &pageIterator[T]{
		client:   client,
		endpoint: endpoint,
		options:  MakeListOptions(opts...),
		decode:   decode,
	}
}

// Next called for next page. If no more items to iterate, returns error with ErrIteratorDone.
func (it *pageIterator[T]) Next(ctx context.Context) ([]T, error) {
	if it.done {
		return nil, ErrIteratorDone
	}
	if err := it.init(); err != nil {
		return nil, err
	}

	route := it.endpoint.Descriptor()
	request, err := http.NewRequestWithContext(ctx, route.Method, it.next.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := it.client.Do(request) //nolint:bodyclose // closed by xio.CloseAndSkipError
	if err != nil {
		return nil, err
	}
	defer xio.CloseAndSkipError(resp.Body)
	if err := xhttp.Success(resp, route.SuccessCodes...); err != nil {
		return nil, err
	}

	items, err := it.decode(resp.Body)
	if err != nil {
		return nil, xhttp.MakeResponseError(resp, err)
	}

	next, err := getNextPageURL(resp)
	switch {
	case errors.Is(err, errNoNextPage):
		it.done = true
	case err != nil:
		return nil, xhttp.MakeResponseError(resp, err)
	default:
		it.next = next
	}
	return items, nil
}

func (it *pageIterator[T]) init() error {
	if it.next != nil {
		return nil
	}
	url, err := it.endpoint.BuildURL()
	if err != nil {
		return err
	}
	query := url.Query()
	if it.options.Offset != "" {
		query.Set("last", it.options.Offset)
	}
	if it.options.PageSize > 0 {
		query.Set("n", cast.ToString(it.options.PageSize))
	}
	url.RawQuery = query.Encode()
	it.next = url
	return nil
}

func decodeRepositories(r io.Reader) ([]string, error) {
	var parsed struct {
		Repositories []string `json:"repositories"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	if parsed.Repositories == nil {
		return []string{}, nil
	}
	return parsed.Repositories, nil
}

func decodeTags(r io.Reader) ([]string, error) {
	var parsed struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	if parsed.Tags == nil {
		return []string{}, nil
	}
	return parsed.Tags, nil
}
