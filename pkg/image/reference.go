// Package image parses user-supplied container image references.
package image

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReference is returned when an image reference cannot be parsed.
var ErrInvalidReference = errors.New("invalid image reference")

// dockerHubHost is the canonical Docker Hub registry name.
const dockerHubHost = "docker.io"

// dockerHubAPIHost is the host that actually serves the Docker Hub v2 API.
const dockerHubAPIHost = "registry-1.docker.io"

// dockerHubCredentialKey is the legacy key Docker Hub credentials are stored
// under in the docker config file.
const dockerHubCredentialKey = "https://index.docker.io/v1/"

// Options configures reference parsing. Defaults are injected explicitly so
// the parser carries no process-wide registry state.
type Options struct {
	// DefaultRegistry is assumed when the reference names no registry.
	DefaultRegistry string
	// DefaultNamespace is prefixed to single-segment repositories on the
	// default registry.
	DefaultNamespace string
}

// Reference is a parsed image reference. Repository never carries a registry
// prefix; defaults are resolved once at parse time and never recomputed.
type Reference struct {
	Registry   string
	Repository string
}

// ParseReference splits input into a registry host and a repository path.
//
// The first path segment denotes a registry when it contains a dot or a colon
// or equals "localhost"; this mirrors the convention used by common image
// tooling and is a heuristic, not a protocol guarantee. Anything else is
// treated as a repository path on the default registry, and single-segment
// repositories get the default namespace prefixed ("alpine" becomes
// "library/alpine").
func ParseReference(input string, opts Options) (Reference, error) {
	if input == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrInvalidReference)
	}
	if !validReference(input) {
		return Reference{}, fmt.Errorf("%w: %q contains disallowed characters", ErrInvalidReference, input)
	}

	registry := opts.DefaultRegistry
	repository := input
	if first, rest, ok := strings.Cut(input, "/"); ok && isRegistryHost(first) {
		registry = first
		repository = rest
	}

	if repository == "" {
		return Reference{}, fmt.Errorf("%w: %q has no repository path", ErrInvalidReference, input)
	}
	if strings.Contains(repository, ":") {
		return Reference{}, fmt.Errorf("%w: %q has a colon outside the registry host", ErrInvalidReference, input)
	}

	switch strings.Count(repository, "/") {
	case 0:
		if registry == opts.DefaultRegistry && opts.DefaultNamespace != "" {
			repository = opts.DefaultNamespace + "/" + repository
		}
	case 1:
		// Namespace-qualified path, nothing to do.
	default:
		return Reference{}, fmt.Errorf("%w: %q has too many path segments", ErrInvalidReference, input)
	}

	return Reference{Registry: registry, Repository: repository}, nil
}

// isRegistryHost reports whether a leading path segment denotes a registry
// host rather than a namespace.
func isRegistryHost(segment string) bool {
	return strings.Contains(segment, ".") || strings.Contains(segment, ":") || segment == "localhost"
}

// validReference reports whether input uses only the characters allowed in an
// image reference: lowercase alphanumerics plus '.', '-', '_', '/' and ':'.
func validReference(input string) bool {
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_' || r == '/' || r == ':':
		default:
			return false
		}
	}
	return true
}

// APIHost is the host to address v2 API requests to. Docker Hub is the one
// registry whose API is not served from its canonical name.
func (r Reference) APIHost() string {
	if r.Registry == dockerHubHost {
		return dockerHubAPIHost
	}
	return r.Registry
}

// CredentialKey is the key this registry's credentials are stored under in
// the docker config file.
func (r Reference) CredentialKey() string {
	if r.Registry == dockerHubHost {
		return dockerHubCredentialKey
	}
	return r.Registry
}

// String renders the reference in registry/repository form.
func (r Reference) String() string {
	return r.Registry + "/" + r.Repository
}
