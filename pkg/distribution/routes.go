package distribution

import (
	"context"
	"fmt"
	"net/http"
	stdurl "net/url"
	"regexp"
	"strings"

	"github.com/opencontainers/go-digest"
)

// RouteDescriptor is a descriptor for a route endpoint api.
type RouteDescriptor struct {
	// ID is the endpoint identifier from the distribution spec.
	ID string
	// Method is the HTTP method for the route endpoint api.
	Method string
	// PathPattern is the HTTP path pattern for the route endpoint api.
	PathPattern string
	// SuccessCodes is the list of HTTP status codes that indicate success.
	SuccessCodes []int
	// FailureCodes is the list of HTTP status codes that indicate failure.
	FailureCodes []int
}

var (
	// RoutePing checks the registry implements the v2 api. A 401 still proves it.
	RoutePing = RouteDescriptor{
		ID:           "end-1",
		Method:       http.MethodGet,
		PathPattern:  "/v2/",
		SuccessCodes: []int{http.StatusOK, http.StatusUnauthorized}, // 200/401
		FailureCodes: []int{http.StatusNotFound},                    // 404
	}
	// RouteCatalog lists the repositories, with optional n/last paging.
	RouteCatalog = RouteDescriptor{
		ID:           "end-x-1",
		Method:       http.MethodGet,
		PathPattern:  "/v2/_catalog",
		SuccessCodes: []int{http.StatusOK},                                   // 200
		FailureCodes: []int{http.StatusForbidden, http.StatusNotImplemented}, // 403/501
	}
	// RouteTagsList lists the tags of a repository, with optional n/last paging.
	RouteTagsList = RouteDescriptor{
		ID:           "end-8a",
		Method:       http.MethodGet,
		PathPattern:  "/v2/{name}/tags/list",
		SuccessCodes: []int{http.StatusOK},       // 200
		FailureCodes: []int{http.StatusNotFound}, // 404
	}
	// RouteManifestsGet fetches a manifest by tag or digest.
	RouteManifestsGet = RouteDescriptor{
		ID:           "end-3",
		Method:       http.MethodGet,
		PathPattern:  "/v2/{name}/manifests/{reference}",
		SuccessCodes: []int{http.StatusOK},       // 200
		FailureCodes: []int{http.StatusNotFound}, // 404
	}
	// RouteManifestsDelete deletes a manifest by digest.
	RouteManifestsDelete = RouteDescriptor{
		ID:           "end-9",
		Method:       http.MethodDelete,
		PathPattern:  "/v2/{name}/manifests/{reference}",
		SuccessCodes: []int{http.StatusAccepted}, // 202
		FailureCodes: []int{
			http.StatusNotFound,
			http.StatusBadRequest,
			http.StatusMethodNotAllowed,
		}, // 404/400/405
	}
)

// RouteBuilder fills the path parameters of a [RouteDescriptor].
type RouteBuilder struct {
	BaseURL   string
	Name      string
	Reference string
}

func (rb RouteBuilder) WithName(name string) RouteBuilder {
	rb.Name = name
	return rb
}

func (rb RouteBuilder) WithReference(reference string) RouteBuilder {
	rb.Reference = reference
	return rb
}

func (rb RouteBuilder) WithDigest(dgst digest.Digest) RouteBuilder {
	return rb.WithReference(dgst.String())
}

// Endpoint binds the builder to route.
func (rb RouteBuilder) Endpoint(route RouteDescriptor) Endpoint {
	return Endpoint{route: route, builder: rb}
}

func (rb RouteBuilder) buildPath(route RouteDescriptor) (string, error) {
	path := route.PathPattern
	for k, v := range map[string]string{"{name}": rb.Name, "{reference}": rb.Reference} {
		if v != "" {
			path = strings.ReplaceAll(path, k, v)
		}
	}
	if routePathValidateRegex.MatchString(path) {
		return "", fmt.Errorf("invalid route path: %s", path)
	}
	return path, nil
}

func (rb RouteBuilder) buildURL(route RouteDescriptor) (*stdurl.URL, error) {
	routePath, err := rb.buildPath(route)
	if err != nil {
		return nil, err
	}
	return stdurl.Parse(strings.TrimSuffix(rb.BaseURL, "/") + "/" + strings.TrimPrefix(routePath, "/"))
}

var routePathValidateRegex = regexp.MustCompile(`\{name\}|\{reference\}|/{2,}`)

// Endpoint is a route with its parameters resolved.
type Endpoint struct {
	route   RouteDescriptor
	builder RouteBuilder
}

// Descriptor returns the route of the endpoint.
func (e Endpoint) Descriptor() RouteDescriptor {
	return e.route
}

// BuildURL returns the absolute URL of the endpoint.
func (e Endpoint) BuildURL() (*stdurl.URL, error) {
	return e.builder.buildURL(e.route)
}

// BuildRequest returns a request without body for the endpoint.
func (e Endpoint) BuildRequest(ctx context.Context) (*http.Request, error) {
	url, err := e.BuildURL()
	if err != nil {
		return nil, err
	}
	return http.NewRequestWithContext(ctx, e.route.Method, url.String(), http.NoBody)
}
