package resolver

import "strings"

// Match type tags. LatestVersion carries the loader it was matched for, so
// it is built by MatchLatestVersion rather than being a fixed constant.
const (
	MatchNone          = "NoMatch"
	MatchExactHash     = "ExactHash"
	MatchExactFilename = "ExactFilename"
	MatchSecondaryDB   = "SecondaryDB"

	latestVersionPrefix = "LatestVersion"
)

func MatchLatestVersion(loader string) string {
	return latestVersionPrefix + "(" + loader + ")"
}

// IsLatestVersionType reports whether t is any LatestVersion(loader) tag.
func IsLatestVersionType(t string) bool {
	return strings.HasPrefix(t, latestVersionPrefix)
}

// Match is the registry identity resolved for one archive. The zero value
// means "no match"; Resolved distinguishes it without inspecting fields.
type Match struct {
	ProjectID       string `json:"projectId,omitempty"`
	Slug            string `json:"slug,omitempty"`
	Name            string `json:"name,omitempty"`
	ExpectedSize    int64  `json:"expectedSize,omitempty"`
	Version         string `json:"version,omitempty"`
	URL             string `json:"url,omitempty"`
	Loader          string `json:"loader,omitempty"`
	Type            string `json:"matchType"`
	IsLatestVersion bool   `json:"isLatestVersion,omitempty"`
}

func (m Match) Resolved() bool {
	return m.Type != "" && m.Type != MatchNone
}

// NoMatch is the terminal result after every tier has failed.
func NoMatch() Match {
	return Match{Type: MatchNone}
}

func projectURL(slugOrID string) string {
	if slugOrID == "" {
		return ""
	}
	return "https://modrinth.com/mod/" + slugOrID
}
