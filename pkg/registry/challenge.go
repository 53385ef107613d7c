package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/toogle/docker-tags/pkg/types"
)

// tokenResponse is the payload returned by a registry token endpoint. Some
// registries use the OAuth2 field name instead of "token".
type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// challenge is a parsed WWW-Authenticate bearer challenge.
type challenge struct {
	realm  string
	params url.Values
}

// parseChallenge parses a header of the form
//
//	Bearer realm="https://auth.docker.io/token",service="registry.docker.io",scope="repository:library/alpine:pull"
//
// The realm becomes the token endpoint; every other parameter is forwarded to
// it as a query parameter.
func parseChallenge(header string) (*challenge, error) {
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, fmt.Errorf("unsupported authentication challenge %q", header)
	}

	ch := &challenge{params: url.Values{}}
	for _, param := range strings.Split(rest, ",") {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if key == "realm" {
			ch.realm = value
		} else {
			ch.params.Set(key, value)
		}
	}
	if ch.realm == "" {
		return nil, fmt.Errorf("no realm in authentication challenge %q", header)
	}
	return ch, nil
}

// tokenURL is the token endpoint with the challenge parameters applied.
func (ch *challenge) tokenURL() (string, error) {
	u, err := url.Parse(ch.realm)
	if err != nil {
		return "", fmt.Errorf("invalid realm %q: %w", ch.realm, err)
	}
	q := u.Query()
	for key, values := range ch.params {
		for _, value := range values {
			q.Set(key, value)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// fetchToken runs the second step of the bearer challenge: a single request
// to the advertised realm carrying the resolved credential, if any. The
// handshake is never repeated; a rejection here is terminal.
func (c *Client) fetchToken(ctx context.Context, header string, cred types.Credential) (string, error) {
	ch, err := parseChallenge(header)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	tokenURL, err := ch.tokenURL()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building token request: %w", ErrRegistryUnreachable, err)
	}
	cred.Apply(req)

	c.logger.Debug("requesting bearer token", zap.String("realm", ch.realm))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistryUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint %s answered %d",
			ErrAuthenticationFailed, ch.realm, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading token response: %w", ErrRegistryUnreachable, err)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: malformed token response from %s: %w", ErrUnexpectedResponse, ch.realm, err)
	}
	if token.Token != "" {
		return token.Token, nil
	}
	if token.AccessToken != "" {
		return token.AccessToken, nil
	}
	return "", fmt.Errorf("%w: token response from %s carries no token", ErrUnexpectedResponse, ch.realm)
}
