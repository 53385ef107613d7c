// Package docker resolves registry credentials from a docker-style config file.
package docker

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/toogle/docker-tags/pkg/types"
)

// ErrCredentialStoreCorrupt is returned when the credential store exists but
// cannot be parsed as a docker config file.
var ErrCredentialStoreCorrupt = errors.New("credential store is corrupt")

// configFile is the subset of the docker config file format this tool reads.
type configFile struct {
	Auths map[string]authEntry `json:"auths"`
}

// authEntry stores credentials for a single registry host.
type authEntry struct {
	Auth          string `json:"auth"`
	IdentityToken string `json:"identitytoken"`
}

// ResolveCredential looks up the credential stored for key in the config file
// at path. A missing file or a missing entry yields types.Anonymous, never an
// error; anonymous access is always worth attempting. The lookup is an exact
// string match on the stored key, with no wildcard or suffix matching.
func ResolveCredential(path, key string) (types.Credential, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Anonymous{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrCredentialStoreCorrupt, err)
	}

	var config configFile
	if err := json.Unmarshal(contents, &config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentialStoreCorrupt, err)
	}

	entry, ok := config.Auths[key]
	if !ok {
		return types.Anonymous{}, nil
	}

	if entry.IdentityToken != "" {
		return types.BearerToken{Token: entry.IdentityToken}, nil
	}
	if entry.Auth == "" {
		return types.Anonymous{}, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(entry.Auth)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 auth for %q: %w", ErrCredentialStoreCorrupt, key, err)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil, fmt.Errorf("%w: auth for %q is not a user:secret pair", ErrCredentialStoreCorrupt, key)
	}

	return types.BasicAuth{Username: username, Password: password}, nil
}
