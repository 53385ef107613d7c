package types

import "net/http"

// Credential is the authentication material resolved for a registry host.
// Exactly one variant applies per lookup: BasicAuth for a decoded
// "user:secret" pair, BearerToken for a stored identity token, and Anonymous
// when the credential store has no matching entry. Anonymous is a valid
// credential, not an error; requests are attempted without authentication.
type Credential interface {
	// Apply sets the Authorization header on req for this credential.
	// Anonymous leaves the request untouched.
	Apply(req *http.Request)
}

// BasicAuth is a username/secret pair decoded from the credential store.
type BasicAuth struct {
	Username string
	Password string
}

// Apply sets HTTP basic authentication on the request.
func (b BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(b.Username, b.Password)
}

// BearerToken is a pre-issued token recorded in the credential store.
type BearerToken struct {
	Token string
}

// Apply sets the Authorization header to the bearer token.
func (t BearerToken) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+t.Token)
}

// Anonymous is the absence of stored credentials for a host.
type Anonymous struct{}

// Apply is a no-op for anonymous access.
func (Anonymous) Apply(*http.Request) {}
