// Package registry talks to the remote mod registry. Every operation returns
// a tagged Result instead of an error so callers can tell "the registry says
// no" apart from "the registry is unreachable" without sentinel errors.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"modscan/internal/logging"
)

const userAgent = "modscan/1.0"

// Client queries the primary registry.
type Client struct {
	base     string
	http     *http.Client
	attempts int
}

// New builds a client against the given base URL. A nil httpClient falls
// back to http.DefaultClient; attempts below 1 default to 3.
func New(base string, httpClient *http.Client, attempts int) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if attempts < 1 {
		attempts = 3
	}
	return &Client{base: ensureTrailingSlash(base), http: httpClient, attempts: attempts}
}

// VersionByHash looks a version up by the digest of its artifact bytes.
func (c *Client) VersionByHash(ctx context.Context, hash string) Result[Version] {
	q := url.Values{}
	q.Set("algorithm", "sha512")
	status, body, err := c.get(ctx, "version_file/"+url.PathEscape(hash), q)
	if err != nil {
		return transportError[Version](err)
	}
	if status == http.StatusNotFound || status == http.StatusGone {
		return notFound[Version]()
	}
	if status != http.StatusOK {
		return transportError[Version](fmt.Errorf("REG_HASH: status %d", status))
	}
	var v Version
	if err := json.Unmarshal(body, &v); err != nil {
		return transportError[Version](fmt.Errorf("REG_HASH: bad payload: %w", err))
	}
	return found(v)
}

// GetProject fetches a project by canonical id or slug.
func (c *Client) GetProject(ctx context.Context, idOrSlug string) Result[Project] {
	status, body, err := c.get(ctx, "project/"+url.PathEscape(idOrSlug), nil)
	if err != nil {
		return transportError[Project](err)
	}
	if status == http.StatusNotFound || status == http.StatusGone {
		return notFound[Project]()
	}
	if status != http.StatusOK {
		return transportError[Project](fmt.Errorf("REG_PROJECT: status %d", status))
	}
	var p Project
	if err := json.Unmarshal(body, &p); err != nil {
		return transportError[Project](fmt.Errorf("REG_PROJECT: bad payload: %w", err))
	}
	return found(p)
}

// ListVersions returns a project's versions in registry order, newest first.
func (c *Client) ListVersions(ctx context.Context, idOrSlug string) Result[[]Version] {
	status, body, err := c.get(ctx, "project/"+url.PathEscape(idOrSlug)+"/version", nil)
	if err != nil {
		return transportError[[]Version](err)
	}
	if status == http.StatusNotFound || status == http.StatusGone {
		return notFound[[]Version]()
	}
	if status != http.StatusOK {
		return transportError[[]Version](fmt.Errorf("REG_VERSIONS: status %d", status))
	}
	var versions []Version
	if err := json.Unmarshal(body, &versions); err != nil {
		return transportError[[]Version](fmt.Errorf("REG_VERSIONS: bad payload: %w", err))
	}
	if len(versions) == 0 {
		return notFound[[]Version]()
	}
	return found(versions)
}

// SearchProjects runs a free-text search and returns the registry's ranked
// hits.
func (c *Client) SearchProjects(ctx context.Context, query string) Result[[]SearchHit] {
	q := url.Values{}
	q.Set("query", query)
	status, body, err := c.get(ctx, "search", q)
	if err != nil {
		return transportError[[]SearchHit](err)
	}
	if status != http.StatusOK {
		return transportError[[]SearchHit](fmt.Errorf("REG_SEARCH: status %d", status))
	}
	var payload struct {
		Hits []SearchHit `json:"hits"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return transportError[[]SearchHit](fmt.Errorf("REG_SEARCH: bad payload: %w", err))
	}
	if len(payload.Hits) == 0 {
		return notFound[[]SearchHit]()
	}
	return found(payload.Hits)
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (int, []byte, error) {
	u, err := url.Parse(c.base)
	if err != nil {
		return 0, nil, fmt.Errorf("REG_HTTP: invalid base %q", c.base)
	}
	u.Path = path.Join(u.Path, endpoint)
	u.RawQuery = query.Encode()
	return getRaw(ctx, c.http, c.attempts, u.String())
}

// getRaw performs a GET with bounded retry. Network errors, 429 and 5xx are
// retried with exponential backoff, honoring Retry-After when present.
func getRaw(ctx context.Context, client *http.Client, attempts int, fullURL string) (int, []byte, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(time.Duration(1<<i) * 250 * time.Millisecond):
			}
			continue
		}
		body, readErr := readBody(resp)
		if readErr != nil {
			return 0, nil, readErr
		}
		if (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) && i < attempts-1 {
			wait := parseRetryAfter(resp.Header.Get("Retry-After"), i)
			logging.L().Debugw("registry backoff", "url", fullURL, "status", resp.StatusCode, "wait", wait)
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		return resp.StatusCode, body, nil
	}
	if lastErr != nil {
		return 0, nil, fmt.Errorf("REG_HTTP: %w", lastErr)
	}
	return 0, nil, fmt.Errorf("REG_HTTP: request failed after %d attempts", attempts)
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

func parseRetryAfter(value string, attempt int) time.Duration {
	defaultBackoff := time.Duration(1<<attempt) * 250 * time.Millisecond
	if value == "" {
		return defaultBackoff
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return defaultBackoff
	}
	if secs > 10 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}

func ensureTrailingSlash(v string) string {
	if v == "" || v[len(v)-1] == '/' {
		return v
	}
	return v + "/"
}
