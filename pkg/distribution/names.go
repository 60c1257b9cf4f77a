package distribution

import (
	"regexp"
	"strings"

	"github.com/wuxler/regprune/pkg/errdefs"
)

const (
	// alphaNumeric only allows lower case characters and digits.
	alphaNumeric = `[a-z0-9]+`

	// separator allows one period, one or two underscores and multiple
	// dashes between alpha numeric atoms.
	separator = `(?:[._]|__|[-]+)`

	// tagPattern matches valid tag names, at most 128 characters.
	tagPattern = `[\w][\w.-]{0,127}`
)

var (
	// pathComponent is "alphanumeric [separator alphanumeric]*".
	pathComponent = alphaNumeric + `(?:` + separator + alphaNumeric + `)*`

	// repositoryNameRegexp matches "path-component ['/' path-component]*",
	// for example "library/ubuntu".
	repositoryNameRegexp = regexp.MustCompile(`^` + pathComponent + `(?:/` + pathComponent + `)*$`)

	tagRegexp = regexp.MustCompile(`^` + tagPattern + `$`)
)

// ValidateRepositoryName checks name is a repository path without the
// registry host.
func ValidateRepositoryName(name string) error {
	if !repositoryNameRegexp.MatchString(name) {
		return errdefs.Newf(errdefs.ErrInvalidParameter, "invalid repository name %q, not match regexp: %s",
			name, repositoryNameRegexp)
	}
	return nil
}

// ValidateTag checks tag is a well formed tag name.
func ValidateTag(tag string) error {
	if !tagRegexp.MatchString(tag) {
		return errdefs.Newf(errdefs.ErrInvalidParameter, "invalid tag format %q", tag)
	}
	return nil
}

func normalizeRepositoryName(name string) string {
	return strings.Trim(name, "/")
}
