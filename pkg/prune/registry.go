package prune

import (
	"context"

	"github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/wuxler/regprune/pkg/distribution"
)

//go:generate mockgen -destination=./registry_mock_test.go -package=prune_test github.com/wuxler/regprune/pkg/prune Registry,Repository

// Registry is the part of a registry client the pruner needs.
type Registry interface {
	// ListRepositories lists the repository names of the catalog.
	ListRepositories(opts ...distribution.ListOption) distribution.Iterator[string]
	// Repository returns the handle of the named repository.
	Repository(path string) (Repository, error)
}

// Repository is the part of a repository client the pruner needs.
type Repository interface {
	Name() string
	ListTags(opts ...distribution.ListOption) distribution.Iterator[string]
	Resolve(ctx context.Context, tag string) (imgspecv1.Descriptor, error)
	Delete(ctx context.Context, dgst digest.Digest) error
}

// Remote adapts a [distribution.Registry] to [Registry].
func Remote(registry *distribution.Registry) Registry {
	return remoteRegistry{registry}
}

type remoteRegistry struct {
	*distribution.Registry
}

func (r remoteRegistry) Repository(path string) (Repository, error) {
	repo, err := r.Registry.Repository(path)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
