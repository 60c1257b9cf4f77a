package xhttp

import "net/http"

// Client is the interface of a http client.
type Client interface {
	Do(*http.Request) (*http.Response, error)
}

// ClientFunc adapts a function to [Client].
type ClientFunc func(*http.Request) (*http.Response, error)

// Do calls fn(req).
func (fn ClientFunc) Do(req *http.Request) (*http.Response, error) {
	return fn(req)
}
