package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVersionByHashFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version_file/abc123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("algorithm") != "sha512" {
			t.Fatalf("expected sha512 algorithm param")
		}
		w.Write([]byte(`{
			"id": "ver1",
			"project_id": "proj1",
			"version_number": "1.0.0",
			"loaders": ["fabric"],
			"files": [{"filename": "example-1.0.0.jar", "size": 204800, "primary": true}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), 1)
	res := c.VersionByHash(context.Background(), "abc123")
	if !res.Found() {
		t.Fatalf("expected found, got %v (%v)", res.Status, res.Err)
	}
	file, ok := res.Value.PrimaryFile()
	if !ok || file.Size != 204800 {
		t.Fatalf("unexpected primary file: %+v", file)
	}
}

func TestVersionByHashNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), 1)
	res := c.VersionByHash(context.Background(), "missing")
	if res.Status != StatusNotFound {
		t.Fatalf("expected not-found, got %v", res.Status)
	}
}

func TestVersionByHashMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), 1)
	res := c.VersionByHash(context.Background(), "abc")
	if res.Status != StatusTransportError {
		t.Fatalf("expected transport error for malformed payload, got %v", res.Status)
	}
}

func TestGetProjectAndVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/project/examplemod":
			w.Write([]byte(`{"id": "proj1", "slug": "examplemod", "title": "Example Mod"}`))
		case "/project/examplemod/version":
			w.Write([]byte(`[
				{"id": "v2", "version_number": "2.0.0", "loaders": ["forge"], "files": [{"filename": "example-2.0.0.jar", "size": 2048}]},
				{"id": "v1", "version_number": "1.0.0", "loaders": ["fabric"], "files": [{"filename": "example-1.0.0.jar", "size": 1024}]}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), 1)
	proj := c.GetProject(context.Background(), "examplemod")
	if !proj.Found() || proj.Value.Slug != "examplemod" {
		t.Fatalf("unexpected project result: %+v", proj)
	}
	vers := c.ListVersions(context.Background(), "examplemod")
	if !vers.Found() || len(vers.Value) != 2 {
		t.Fatalf("unexpected versions result: %+v", vers)
	}
	if vers.Value[0].VersionNumber != "2.0.0" {
		t.Fatalf("registry order must be preserved, head was %s", vers.Value[0].VersionNumber)
	}
	if !vers.Value[1].HasLoader("Fabric") {
		t.Fatalf("loader match must be case-insensitive")
	}
}

func TestListVersionsEmptyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), 1)
	res := c.ListVersions(context.Background(), "emptyproj")
	if res.Status != StatusNotFound {
		t.Fatalf("empty version list must tag not-found, got %v", res.Status)
	}
}

func TestSearchProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "totem" {
			t.Fatalf("missing query param")
		}
		w.Write([]byte(`{"hits": [{"project_id": "p1", "slug": "totem-mod", "title": "Totem Mod"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), 1)
	res := c.SearchProjects(context.Background(), "totem")
	if !res.Found() || len(res.Value) != 1 || res.Value[0].Slug != "totem-mod" {
		t.Fatalf("unexpected search result: %+v", res)
	}
}

func TestRetryOn500ThenSuccess(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id": "proj1", "slug": "s", "title": "t"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), 3)
	res := c.GetProject(context.Background(), "s")
	if !res.Found() {
		t.Fatalf("expected success after retry, got %v (%v)", res.Status, res.Err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestUnreachableRegistryIsTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", &http.Client{}, 1)
	res := c.GetProject(context.Background(), "anything")
	if res.Status != StatusTransportError {
		t.Fatalf("expected transport error, got %v", res.Status)
	}
}
