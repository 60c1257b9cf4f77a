package distribution

import (
	"context"

	"github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/wuxler/regprune/pkg/errdefs"
	"github.com/wuxler/regprune/pkg/util/xhttp"
	"github.com/wuxler/regprune/pkg/util/xio"
)

// Repository is a handle of a repository in a [Registry].
type Repository struct {
	registry *Registry
	name     string
}

// Name returns the repository path, such as "library/app".
func (repo *Repository) Name() string {
	return repo.name
}

// Registry returns the registry of the repository.
func (repo *Repository) Registry() *Registry {
	return repo.registry
}

func (repo *Repository) String() string {
	return repo.registry.host + "/" + repo.name
}

func (repo *Repository) builder() RouteBuilder {
	return repo.registry.builder().WithName(repo.name)
}

// ListTags lists the tags of the repository. A repository without tags yields
// an empty page.
func (repo *Repository) ListTags(opts ...ListOption) Iterator[string] {
	return newPageIterator(repo.registry.client, repo.builder().Endpoint(RouteTagsList), decodeTags, opts...)
}

// Resolve returns the descriptor of the manifest tag points at, with the
// digest from the Docker-Content-Digest response header.
func (repo *Repository) Resolve(ctx context.Context, tag string) (imgspecv1.Descriptor, error) {
	var zero imgspecv1.Descriptor
	if err := ValidateTag(tag); err != nil {
		return zero, err
	}
	endpoint := repo.builder().WithReference(tag).Endpoint(RouteManifestsGet)
	request, err := endpoint.BuildRequest(ctx)
	if err != nil {
		return zero, err
	}
	request.Header.Set("Accept", ManifestAcceptHeader())

	resp, err := repo.registry.client.Do(request) //nolint:bodyclose // closed by xio.CloseAndSkipError
	if err != nil {
		return zero, err
	}
	defer xio.CloseAndSkipError(resp.Body)
	if err := xhttp.Success(resp, endpoint.Descriptor().SuccessCodes...); err != nil {
		return zero, err
	}
	return DescriptorFromResponse(resp)
}

// Delete deletes the manifest identified by dgst. Every tag pointing at it
// goes with it.
func (repo *Repository) Delete(ctx context.Context, dgst digest.Digest) error {
	if err := dgst.Validate(); err != nil {
		return errdefs.NewE(errdefs.ErrInvalidParameter, err)
	}
	endpoint := repo.builder().WithDigest(dgst).Endpoint(RouteManifestsDelete)
	request, err := endpoint.BuildRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := repo.registry.client.Do(request) //nolint:bodyclose // closed by xio.CloseAndLogError
	if err != nil {
		return err
	}
	defer xio.CloseAndLogError(resp.Body, "delete manifest", repo.name, dgst.String())
	return xhttp.Success(resp, endpoint.Descriptor().SuccessCodes...)
}
