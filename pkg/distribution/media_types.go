package distribution

import (
	"strings"

	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	MediaTypeDockerV2S2Manifest       = "application/vnd.docker.distribution.manifest.v2+json"
	MediaTypeDockerV2S2ManifestList   = "application/vnd.docker.distribution.manifest.list.v2+json"
	MediaTypeDockerV2S1Manifest       = "application/vnd.docker.distribution.manifest.v1+json"
	MediaTypeDockerV2S1SignedManifest = "application/vnd.docker.distribution.manifest.v1+prettyjws"

	// DefaultMediaType is used when a response carries no usable Content-Type.
	DefaultMediaType = "application/octet-stream"
)

// DefaultManifestMediaTypes are accepted when resolving a tag, the Docker
// schema 2 manifest first so that registries report the digest deletable
// by that tag.
var DefaultManifestMediaTypes = []string{
	MediaTypeDockerV2S2Manifest,
	MediaTypeDockerV2S2ManifestList,
	imgspecv1.MediaTypeImageManifest,
	imgspecv1.MediaTypeImageIndex,
	MediaTypeDockerV2S1Manifest,
	MediaTypeDockerV2S1SignedManifest,
}

// ManifestAcceptHeader returns media types joined by ", " which is used to set the "Accept"
// request header. When the "mediaTypes" is empty, default media types used.
func ManifestAcceptHeader(mediaTypes ...string) string {
	if len(mediaTypes) == 0 {
		mediaTypes = DefaultManifestMediaTypes
	}
	return strings.Join(mediaTypes, ", ")
}
