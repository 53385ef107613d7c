package registry

import "errors"

// ErrRegistryUnreachable is returned when a request fails at the transport level.
var ErrRegistryUnreachable = errors.New("registry unreachable")

// ErrRepositoryNotFound is returned when the registry answers a terminal 404.
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrAuthenticationFailed is returned when the registry rejects the request
// with 401 or 403 after the bearer challenge flow has run.
var ErrAuthenticationFailed = errors.New("authentication failed")

// ErrUnexpectedResponse is returned for any other non-2xx status or a
// malformed response body.
var ErrUnexpectedResponse = errors.New("unexpected registry response")
