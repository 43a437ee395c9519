// Package resolver maps an archive to its canonical registry identity
// through an ordered fallback chain: content fingerprint, declared mod id,
// then filename heuristics. Each tier runs only when the previous one found
// nothing, and registry failures never escape -- a tier that cannot answer
// simply yields to the next.
package resolver

import (
	"context"
	"path/filepath"
	"strings"

	"modscan/internal/archive"
	"modscan/internal/logging"
	"modscan/internal/registry"
)

// Resolver owns the strategy chain. All strategies share one registry
// client.
type Resolver struct {
	reg *registry.Client
}

func New(reg *registry.Client) *Resolver {
	return &Resolver{reg: reg}
}

// strategy is one resolution tier. A zero Match means "try the next tier".
type strategy func(ctx context.Context, rec archive.Record, meta archive.Metadata) Match

// Resolve runs the tiers in order and returns the first non-empty match,
// or NoMatch after the chain is exhausted. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, rec archive.Record, meta archive.Metadata) Match {
	for _, tier := range []strategy{r.byFingerprint, r.byModID, r.byFilename} {
		if m := tier(ctx, rec, meta); m.Resolved() {
			return m
		}
	}
	return NoMatch()
}

// byFingerprint is the authoritative tier: a digest hit identifies the exact
// published file, so the result is accepted unconditionally.
func (r *Resolver) byFingerprint(ctx context.Context, rec archive.Record, _ archive.Metadata) Match {
	res := r.reg.VersionByHash(ctx, rec.Fingerprint)
	if !res.Found() {
		logging.L().Debugw("fingerprint tier missed", "archive", rec.Path, "status", res.Status.String())
		return Match{}
	}
	ver := res.Value
	m := Match{
		ProjectID:       ver.ProjectID,
		Version:         ver.VersionNumber,
		Type:            MatchExactHash,
		IsLatestVersion: true,
	}
	if f, ok := ver.PrimaryFile(); ok {
		m.ExpectedSize = f.Size
	}
	if len(ver.Loaders) > 0 {
		m.Loader = ver.Loaders[0]
	}
	// Best-effort title/slug; the hash hit stands even if this call fails.
	if proj := r.reg.GetProject(ctx, ver.ProjectID); proj.Found() {
		m.Slug = proj.Value.Slug
		m.Name = proj.Value.Title
		m.URL = projectURL(proj.Value.Slug)
	} else {
		m.Name = ver.ProjectID
		m.URL = projectURL(ver.ProjectID)
	}
	return m
}

// byModID resolves through the manifest-declared id, falling back to a
// scored text search when the direct lookup knows nothing of the id.
func (r *Resolver) byModID(ctx context.Context, rec archive.Record, meta archive.Metadata) Match {
	if meta.ID == "" {
		return Match{}
	}
	loader := PreferredLoader(filepath.Base(rec.Path), meta)

	var project registry.Project
	switch proj := r.reg.GetProject(ctx, meta.ID); proj.Status {
	case registry.StatusFound:
		project = proj.Value
	case registry.StatusNotFound:
		hits := r.reg.SearchProjects(ctx, meta.ID)
		if !hits.Found() {
			return Match{}
		}
		hit, ok := bestHit(meta.ID, hits.Value)
		if !ok {
			return Match{}
		}
		project = registry.Project{ID: hit.ProjectID, Slug: hit.Slug, Title: hit.Title}
	default:
		logging.L().Debugw("id tier transport failure", "archive", rec.Path, "id", meta.ID)
		return Match{}
	}

	key := project.ID
	if key == "" {
		key = project.Slug
	}
	versions := r.reg.ListVersions(ctx, key)
	if !versions.Found() {
		return Match{}
	}
	return matchVersions(project, versions.Value, loader, "", "")
}

// byFilename is the last, least-certain tier: guess candidate slugs from
// the normalized filename, then fall back to a text search on the base name.
func (r *Resolver) byFilename(ctx context.Context, rec archive.Record, meta archive.Metadata) Match {
	filename := filepath.Base(rec.Path)
	cleaned, base := NormalizeFilename(filename)
	if base == "" {
		return Match{}
	}
	loader := PreferredLoader(filename, meta)

	rawStem := trimArchiveExt(cleaned)
	candidates := []string{base}
	if rawStem != base && rawStem != "" {
		candidates = append(candidates, rawStem)
	}
	for _, slug := range candidates {
		versions := r.reg.ListVersions(ctx, slug)
		if !versions.Found() {
			continue
		}
		project := registry.Project{Slug: slug, Title: slug}
		if proj := r.reg.GetProject(ctx, slug); proj.Found() {
			project = proj.Value
		}
		return matchVersions(project, versions.Value, loader, filename, cleaned)
	}

	hits := r.reg.SearchProjects(ctx, base)
	if !hits.Found() {
		return Match{}
	}
	top := hits.Value[0]
	versions := r.reg.ListVersions(ctx, top.ProjectID)
	if !versions.Found() {
		return Match{}
	}
	project := registry.Project{ID: top.ProjectID, Slug: top.Slug, Title: top.Title}
	return matchVersions(project, versions.Value, loader, filename, cleaned)
}

func trimArchiveExt(name string) string {
	for _, ext := range archiveExts {
		if len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// matchVersions applies the shared selection order to a version list:
// exact filename (when given), then first loader-compatible version, then
// the list head. The list arrives registry-ordered, newest first.
func matchVersions(project registry.Project, versions []registry.Version, loader, filename, cleanedFilename string) Match {
	if len(versions) == 0 {
		return Match{}
	}
	if filename != "" {
		for _, v := range versions {
			for _, f := range v.Files {
				if f.Filename == filename || f.Filename == cleanedFilename {
					return buildMatch(project, v, f.Size, MatchExactFilename, v.ID == versions[0].ID)
				}
			}
		}
	}
	for i, v := range versions {
		if v.HasLoader(loader) {
			m := buildMatch(project, v, primarySize(v), MatchLatestVersion(loader), i == 0)
			m.Loader = loader
			return m
		}
	}
	head := versions[0]
	m := buildMatch(project, head, primarySize(head), MatchLatestVersion(loader), true)
	m.Loader = loader
	return m
}

func primarySize(v registry.Version) int64 {
	if f, ok := v.PrimaryFile(); ok {
		return f.Size
	}
	return 0
}

func buildMatch(project registry.Project, v registry.Version, size int64, matchType string, isLatest bool) Match {
	name := project.Title
	if name == "" {
		name = project.Slug
	}
	slugOrID := project.Slug
	if slugOrID == "" {
		slugOrID = project.ID
	}
	loader := ""
	if len(v.Loaders) > 0 {
		loader = v.Loaders[0]
	}
	return Match{
		ProjectID:       project.ID,
		Slug:            project.Slug,
		Name:            name,
		ExpectedSize:    size,
		Version:         v.VersionNumber,
		URL:             projectURL(slugOrID),
		Loader:          loader,
		Type:            matchType,
		IsLatestVersion: isLatest,
	}
}
