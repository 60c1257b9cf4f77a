package distribution

import (
	"context"
)

// Registry is a handle of a remote registry with a resolved scheme.
type Registry struct {
	client *Client
	host   string
	scheme string
}

// Host returns "host[:port]" of the registry.
func (r *Registry) Host() string {
	return r.host
}

// Scheme returns "http" or "https".
func (r *Registry) Scheme() string {
	return r.scheme
}

// BaseURL returns "scheme://host[:port]".
func (r *Registry) BaseURL() string {
	return r.scheme + "://" + r.host
}

func (r *Registry) String() string {
	return r.BaseURL()
}

func (r *Registry) builder() RouteBuilder {
	return RouteBuilder{BaseURL: r.BaseURL()}
}

// Ping checks registry is accessible.
func (r *Registry) Ping(ctx context.Context) error {
	_, err := ping(ctx, r.client, r.builder())
	return err
}

// ListRepositories lists the repository names of the catalog.
func (r *Registry) ListRepositories(opts ...ListOption) Iterator[string] {
	return newPageIterator(r.client, r.builder().Endpoint(RouteCatalog), decodeRepositories, opts...)
}

// Repository returns the [Repository] by the given path which is the repository name.
func (r *Registry) Repository(path string) (*Repository, error) {
	path = normalizeRepositoryName(path)
	if err := ValidateRepositoryName(path); err != nil {
		return nil, err
	}
	return &Repository{registry: r, name: path}, nil
}
