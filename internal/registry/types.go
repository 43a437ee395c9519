package registry

import "strings"

// Project is the registry's canonical record for a mod.
type Project struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Version is one published release of a project, newest first in listings.
type Version struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"project_id"`
	VersionNumber string        `json:"version_number"`
	Loaders       []string      `json:"loaders"`
	Files         []VersionFile `json:"files"`
}

type VersionFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Primary  bool   `json:"primary"`
}

// PrimaryFile returns the version's primary artifact, falling back to the
// first file when none is flagged.
func (v Version) PrimaryFile() (VersionFile, bool) {
	for _, f := range v.Files {
		if f.Primary {
			return f, true
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0], true
	}
	return VersionFile{}, false
}

// HasLoader reports whether the version was published for the given loader.
func (v Version) HasLoader(loader string) bool {
	for _, l := range v.Loaders {
		if strings.EqualFold(l, loader) {
			return true
		}
	}
	return false
}

// SearchHit is one ranked result from a free-text project search.
type SearchHit struct {
	ProjectID string `json:"project_id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
}
