package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
)

// SecondaryClient queries the independent hash-indexed mod database. It only
// knows display names; size and version stay unknown on a hit.
type SecondaryClient struct {
	base     string
	http     *http.Client
	attempts int
}

// NewSecondary builds a secondary-DB client. An empty base disables lookups:
// every call returns not-found.
func NewSecondary(base string, httpClient *http.Client, attempts int) *SecondaryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if attempts < 1 {
		attempts = 3
	}
	return &SecondaryClient{base: ensureTrailingSlash(base), http: httpClient, attempts: attempts}
}

// LookupName resolves a content digest to a display name.
func (c *SecondaryClient) LookupName(ctx context.Context, hash string) Result[string] {
	if c == nil || c.base == "" {
		return notFound[string]()
	}
	u, err := url.Parse(c.base)
	if err != nil {
		return transportError[string](fmt.Errorf("REG_SECONDARY: invalid base %q", c.base))
	}
	u.Path = path.Join(u.Path, "hash", url.PathEscape(hash))
	status, body, err := getRaw(ctx, c.http, c.attempts, u.String())
	if err != nil {
		return transportError[string](err)
	}
	if status == http.StatusNotFound {
		return notFound[string]()
	}
	if status != http.StatusOK {
		return transportError[string](fmt.Errorf("REG_SECONDARY: status %d", status))
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Name == "" {
		return notFound[string]()
	}
	return found(payload.Name)
}
