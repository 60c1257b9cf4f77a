// Package authn authorizes requests sent to a registry.
package authn

import (
	"net/http"
)

var (
	_ Authorizer = Anonymous{}
	_ Authorizer = Basic{}
	_ Authorizer = AuthorizeFunc(nil)
)

// Authorizer authorizes HTTP requests.
type Authorizer interface {
	Authorize(req *http.Request) error
}

// AuthorizeFunc is a function that implements Authorizer.
type AuthorizeFunc func(req *http.Request) error

func (fn AuthorizeFunc) Authorize(req *http.Request) error {
	return fn(req)
}

// Anonymous is the anonymous type authorization.
type Anonymous struct{}

// Authorize implements [Authorizer] and do nothing.
func (Anonymous) Authorize(_ *http.Request) error {
	return nil
}

// NewBasic returns a basic type authorization.
func NewBasic(username string, password string) Basic {
	return Basic{
		Username: username,
		Password: password,
	}
}

// Basic is the basic type authorization.
type Basic struct {
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"-" yaml:"-"`
}

// IsEmpty reports whether neither username nor password is set.
func (auth Basic) IsEmpty() bool {
	return auth.Username == "" && auth.Password == ""
}

// Authorize implements [Authorizer]. It sets the "Authorization" header to
// "Basic <base64 of username:password>" whenever any of the two is set, and
// leaves an already authorized request untouched.
func (auth Basic) Authorize(req *http.Request) error {
	if auth.IsEmpty() || req.Header.Get("Authorization") != "" {
		return nil
	}
	req.SetBasicAuth(auth.Username, auth.Password)
	return nil
}

// String returns the username with the password redacted.
func (auth Basic) String() string {
	if auth.IsEmpty() {
		return "<anonymous>"
	}
	if auth.Password == "" {
		return auth.Username
	}
	return auth.Username + ":xxxxx"
}
