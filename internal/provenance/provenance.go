// Package provenance models where an archive came from. The label is
// produced by an OS-level lookup outside this pipeline and consumed here as
// opaque classification input.
package provenance

import "strings"

// Source is a known distribution origin.
type Source string

const (
	SourceModrinth   Source = "Modrinth"
	SourceCurseForge Source = "CurseForge"
	SourceGitHub     Source = "GitHub"
	SourceDirect     Source = "Direct"
	SourceUnknown    Source = "Unknown"
)

// Origin pairs the classified source with the raw URL it was derived from.
type Origin struct {
	Source Source `json:"source"`
	URL    string `json:"url,omitempty"`
}

// Classify maps a raw download URL onto a known source label. Unknown input
// (including the empty string) yields SourceUnknown with the URL preserved.
func Classify(rawURL string) Origin {
	lower := strings.ToLower(rawURL)
	origin := Origin{Source: SourceUnknown, URL: rawURL}
	switch {
	case strings.Contains(lower, "modrinth.com"), strings.Contains(lower, "cdn.modrinth"):
		origin.Source = SourceModrinth
	case strings.Contains(lower, "curseforge.com"), strings.Contains(lower, "forgecdn.net"):
		origin.Source = SourceCurseForge
	case strings.Contains(lower, "github.com"), strings.Contains(lower, "githubusercontent.com"):
		origin.Source = SourceGitHub
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		origin.Source = SourceDirect
	}
	return origin
}
