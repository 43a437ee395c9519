package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"modscan/internal/archive"
	"modscan/internal/registry"
)

// fakeRegistry routes the registry endpoints to canned JSON responses and
// counts calls so short-circuit behavior can be asserted.
type fakeRegistry struct {
	hashes   map[string]string // fingerprint -> version JSON
	projects map[string]string // id/slug -> project JSON
	versions map[string]string // id/slug -> version list JSON
	search   map[string]string // query -> search JSON
	calls    atomic.Int64
}

func (f *fakeRegistry) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		path := strings.TrimPrefix(r.URL.Path, "/")
		switch {
		case strings.HasPrefix(path, "version_file/"):
			if body, ok := f.hashes[strings.TrimPrefix(path, "version_file/")]; ok {
				fmt.Fprint(w, body)
				return
			}
		case strings.HasPrefix(path, "project/") && strings.HasSuffix(path, "/version"):
			key := strings.TrimSuffix(strings.TrimPrefix(path, "project/"), "/version")
			if body, ok := f.versions[key]; ok {
				fmt.Fprint(w, body)
				return
			}
		case strings.HasPrefix(path, "project/"):
			if body, ok := f.projects[strings.TrimPrefix(path, "project/")]; ok {
				fmt.Fprint(w, body)
				return
			}
		case path == "search":
			if body, ok := f.search[r.URL.Query().Get("query")]; ok {
				fmt.Fprint(w, body)
				return
			}
			fmt.Fprint(w, `{"hits": []}`)
			return
		}
		http.NotFound(w, r)
	}))
}

func newResolver(t *testing.T, f *fakeRegistry) (*Resolver, func()) {
	t.Helper()
	srv := f.server(t)
	return New(registry.New(srv.URL, srv.Client(), 1)), srv.Close
}

func record(path string, fingerprint string) archive.Record {
	return archive.Record{Path: path, Size: 100, Fingerprint: fingerprint}
}

func TestResolveTier1ExactHash(t *testing.T) {
	f := &fakeRegistry{
		hashes: map[string]string{
			"abc": `{"id": "v1", "project_id": "p1", "version_number": "1.0.0", "loaders": ["fabric"],
				"files": [{"filename": "example-1.0.0.jar", "size": 204800, "primary": true}]}`,
		},
		projects: map[string]string{
			"p1": `{"id": "p1", "slug": "examplemod", "title": "Example Mod"}`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/example.jar", "abc"), archive.Metadata{})
	if m.Type != MatchExactHash {
		t.Fatalf("expected ExactHash, got %q", m.Type)
	}
	if m.ExpectedSize != 204800 || m.Version != "1.0.0" || m.Slug != "examplemod" {
		t.Fatalf("unexpected match: %+v", m)
	}
	if !m.IsLatestVersion {
		t.Fatalf("hash match must set IsLatestVersion")
	}
}

func TestResolveTier1ShortCircuits(t *testing.T) {
	// Hash hit plus a mod id that would also resolve; only the hash and the
	// best-effort project call may fire.
	f := &fakeRegistry{
		hashes: map[string]string{
			"abc": `{"id": "v1", "project_id": "p1", "version_number": "1.0.0", "loaders": ["fabric"],
				"files": [{"filename": "x.jar", "size": 10, "primary": true}]}`,
		},
		projects: map[string]string{
			"p1": `{"id": "p1", "slug": "x", "title": "X"}`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/x.jar", "abc"), archive.Metadata{ID: "x"})
	if m.Type != MatchExactHash {
		t.Fatalf("expected ExactHash, got %q", m.Type)
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("expected exactly hash+project calls, got %d", got)
	}
}

func TestResolveTier2LoaderMatch(t *testing.T) {
	f := &fakeRegistry{
		projects: map[string]string{
			"examplemod": `{"id": "p1", "slug": "examplemod", "title": "Example Mod"}`,
		},
		versions: map[string]string{
			"p1": `[
				{"id": "v3", "version_number": "3.0.0", "loaders": ["forge"], "files": [{"filename": "e-3.jar", "size": 300, "primary": true}]},
				{"id": "v2", "version_number": "2.0.0", "loaders": ["fabric"], "files": [{"filename": "e-2.jar", "size": 200, "primary": true}]}
			]`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	meta := archive.Metadata{ID: "examplemod", Loader: "Fabric"}
	m := r.Resolve(context.Background(), record("mods/unrelated-name.jar", "nohash"), meta)
	if !IsLatestVersionType(m.Type) {
		t.Fatalf("expected LatestVersion type, got %q", m.Type)
	}
	if m.Version != "2.0.0" {
		t.Fatalf("expected first fabric version, got %q", m.Version)
	}
	if m.IsLatestVersion {
		t.Fatalf("second list entry is not the head")
	}
}

func TestResolveTier2HeadFallbackWhenNoLoaderMatch(t *testing.T) {
	f := &fakeRegistry{
		projects: map[string]string{
			"examplemod": `{"id": "p1", "slug": "examplemod", "title": "Example Mod"}`,
		},
		versions: map[string]string{
			"p1": `[
				{"id": "v3", "version_number": "3.0.0", "loaders": ["quilt"], "files": [{"filename": "e-3.jar", "size": 300, "primary": true}]}
			]`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/e.jar", "nohash"), archive.Metadata{ID: "examplemod"})
	if !IsLatestVersionType(m.Type) || m.Version != "3.0.0" || !m.IsLatestVersion {
		t.Fatalf("expected head fallback: %+v", m)
	}
}

func TestResolveTier2SearchFallback(t *testing.T) {
	// Direct id lookup misses; search carries an exact-slug hit (+100) behind
	// a weaker title-contains hit, and scoring must pick the slug.
	f := &fakeRegistry{
		search: map[string]string{
			"examplemod": `{"hits": [
				{"project_id": "weak", "slug": "other", "title": "The examplemod fan pack"},
				{"project_id": "p1", "slug": "examplemod", "title": "Example Mod"}
			]}`,
		},
		versions: map[string]string{
			"p1": `[{"id": "v1", "version_number": "1.0.0", "loaders": ["fabric"], "files": [{"filename": "e.jar", "size": 100, "primary": true}]}]`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/e.jar", "nohash"), archive.Metadata{ID: "examplemod"})
	if !strings.HasPrefix(m.Type, "LatestVersion") {
		t.Fatalf("expected LatestVersion match via search, got %q", m.Type)
	}
	if m.Slug != "examplemod" {
		t.Fatalf("scoring must prefer the exact slug, got %+v", m)
	}
}

func TestResolveTier3ExactFilename(t *testing.T) {
	f := &fakeRegistry{
		versions: map[string]string{
			"coolmod": `[
				{"id": "v2", "version_number": "2.0.0", "loaders": ["fabric"], "files": [{"filename": "coolmod-2.0.0.jar", "size": 222, "primary": true}]},
				{"id": "v1", "version_number": "1.0.0", "loaders": ["fabric"], "files": [{"filename": "coolmod-1.0.0.jar", "size": 111, "primary": true}]}
			]`,
		},
		projects: map[string]string{
			"coolmod": `{"id": "p9", "slug": "coolmod", "title": "Cool Mod"}`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/coolmod-1.0.0.jar", "nohash"), archive.Metadata{})
	if m.Type != MatchExactFilename {
		t.Fatalf("expected ExactFilename, got %q", m.Type)
	}
	if m.Version != "1.0.0" || m.ExpectedSize != 111 {
		t.Fatalf("wrong version selected: %+v", m)
	}
}

func TestResolveTier3StripsTempSuffix(t *testing.T) {
	f := &fakeRegistry{
		versions: map[string]string{
			"coolmod": `[{"id": "v1", "version_number": "1.0.0", "loaders": ["fabric"], "files": [{"filename": "coolmod-1.0.0.jar", "size": 111, "primary": true}]}]`,
		},
		projects: map[string]string{
			"coolmod": `{"id": "p9", "slug": "coolmod", "title": "Cool Mod"}`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/coolmod-1.0.0.jar.disabled", "nohash"), archive.Metadata{})
	if m.Type != MatchExactFilename {
		t.Fatalf("expected ExactFilename on cleaned name, got %+v", m)
	}
}

func TestResolveTier3SearchFallback(t *testing.T) {
	f := &fakeRegistry{
		search: map[string]string{
			"coolmod": `{"hits": [{"project_id": "p9", "slug": "coolmod", "title": "Cool Mod"}]}`,
		},
		versions: map[string]string{
			"p9": `[{"id": "v1", "version_number": "1.0.0", "loaders": ["forge"], "files": [{"filename": "other.jar", "size": 50, "primary": true}]}]`,
		},
	}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/CoolMod-2.1-forge.jar", "nohash"), archive.Metadata{})
	if !IsLatestVersionType(m.Type) {
		t.Fatalf("expected loader match via search fallback, got %+v", m)
	}
	if m.Loader != "Forge" {
		t.Fatalf("filename hint must set preferred loader Forge, got %q", m.Loader)
	}
}

func TestResolveNoMatchTerminal(t *testing.T) {
	f := &fakeRegistry{}
	r, done := newResolver(t, f)
	defer done()

	m := r.Resolve(context.Background(), record("mods/ghost.jar", "nohash"), archive.Metadata{})
	if m.Type != MatchNone || m.Resolved() {
		t.Fatalf("expected terminal NoMatch, got %+v", m)
	}
}

func TestResolveRegistryDownYieldsNoMatch(t *testing.T) {
	r := New(registry.New("http://127.0.0.1:1", &http.Client{}, 1))
	m := r.Resolve(context.Background(), record("mods/x.jar", "abc"), archive.Metadata{ID: "x"})
	if m.Type != MatchNone {
		t.Fatalf("unreachable registry must resolve to NoMatch, got %+v", m)
	}
}
