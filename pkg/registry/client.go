// Package registry lists image tags via the OCI Distribution protocol,
// handling the bearer-token challenge and Link-header pagination.
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

	"github.com/toogle/docker-tags/pkg/image"
	"github.com/toogle/docker-tags/pkg/types"
)

// tagsResponse is the tag-listing payload defined by the OCI Distribution
// specification.
type tagsResponse struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Client lists tags from OCI Distribution registries.
type Client struct {
	httpClient types.HTTPClientInterface
	logger     types.Logger
	pageSize   int
}

// NewClient creates a registry client over the given transport.
func NewClient(httpClient types.HTTPClientInterface, logger types.Logger, pageSize int) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		pageSize:   pageSize,
	}
}

// ListTags fetches the complete tag list for ref, following pagination until
// the registry reports no further pages. Tags are returned in server order;
// ordering them is the caller's concern. The credential is only ever sent to
// the token endpoint advertised by the registry's bearer challenge, and pages
// are fetched sequentially because pagination tokens are server-assigned.
func (c *Client) ListTags(ctx context.Context, ref image.Reference, cred types.Credential) ([]string, error) {
	if cred == nil {
		cred = types.Anonymous{}
	}

	nextURL := fmt.Sprintf("https://%s/v2/%s/tags/list?n=%d",
		ref.APIHost(), ref.Repository, c.pageSize)

	var tags []string
	var bearer string
	challenged := false
	visited := map[string]bool{}
	for nextURL != "" {
		if visited[nextURL] {
			return nil, fmt.Errorf("%w: pagination loop at %s", ErrUnexpectedResponse, nextURL)
		}
		resp, err := c.get(ctx, nextURL, bearer)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.statusCode == http.StatusOK:
			var page tagsResponse
			if err := json.Unmarshal(resp.body, &page); err != nil {
				return nil, fmt.Errorf("%w: malformed tag list from %s: %w", ErrUnexpectedResponse, nextURL, err)
			}
			// Consumed pages are remembered so a Link header pointing back
			// at one of them cannot loop the listing forever. The bearer
			// challenge retry is unaffected: it re-requests a page that was
			// never consumed.
			visited[nextURL] = true
			tags = append(tags, page.Tags...)
			c.logger.Debug("fetched tags page",
				zap.String("url", nextURL),
				zap.Int("count", len(page.Tags)))
			next, err := nextPageURL(nextURL, resp.link)
			if err != nil {
				return nil, err
			}
			nextURL = next

		case resp.statusCode == http.StatusUnauthorized && !challenged && resp.authenticate != "":
			token, err := c.fetchToken(ctx, resp.authenticate, cred)
			if err != nil {
				return nil, err
			}
			bearer = token
			challenged = true
			// Retry the same page with the fresh token.

		case resp.statusCode == http.StatusUnauthorized || resp.statusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s answered %d for %s", ErrAuthenticationFailed,
				ref.Registry, resp.statusCode, ref.Repository)

		case resp.statusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, ref)

		default:
			return nil, fmt.Errorf("%w: status %d from %s", ErrUnexpectedResponse, resp.statusCode, nextURL)
		}
	}

	return tags, nil
}

// response is the part of an HTTP response the client inspects.
type response struct {
	statusCode   int
	body         []byte
	link         string
	authenticate string
}

// get performs a single GET, optionally with a bearer token, and drains the body.
func (c *Client) get(ctx context.Context, rawURL, bearer string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", ErrRegistryUnreachable, rawURL, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %s: %w", ErrRegistryUnreachable, rawURL, err)
	}

	return &response{
		statusCode:   resp.StatusCode,
		body:         body,
		link:         resp.Header.Get("Link"),
		authenticate: resp.Header.Get("WWW-Authenticate"),
	}, nil
}

// nextPageURL resolves an RFC 5988 Link header against the current page URL.
// An empty Link header means the listing is complete.
func nextPageURL(current, link string) (string, error) {
	next := nextLink(link)
	if next == "" {
		return "", nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("%w: parsing page URL %q: %w", ErrUnexpectedResponse, current, err)
	}
	ref, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("%w: parsing Link URL %q: %w", ErrUnexpectedResponse, next, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// nextLink extracts the rel="next" target from a Link header value.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		if len(fields) < 2 {
			continue
		}
		target := strings.TrimSpace(fields[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range fields[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok {
				continue
			}
			if strings.TrimSpace(key) == "rel" && strings.Trim(strings.TrimSpace(value), `"`) == "next" {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
