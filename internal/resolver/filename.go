package resolver

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"modscan/internal/archive"
)

var (
	tempSuffixes = []string{".disabled", ".old", ".bak", ".tmp"}

	archiveExts = []string{".jar", ".zip"}

	// trailing -/_ + digits/dots + optional qualifier (alpha, beta, rc3,
	// snapshot, pre2, mc1.20.1, build numbers)
	versionSuffixPattern = regexp.MustCompile(
		`(?i)[-_+](?:v|mc)?[0-9][0-9.]*[a-z]?(?:[-_.+](?:alpha|beta|rc[0-9]*|snapshot|pre[0-9]*|release|build[0-9]*|mc[0-9.]+))*$`)

	loaderSuffixPattern = regexp.MustCompile(`(?i)[-_](fabric|forge)$`)
)

// NormalizeFilename reduces an archive filename to a cleaned filename (temp
// and backup suffixes removed) and a base slug usable for registry lookups
// (extension, version suffix, and loader qualifier removed, lowercased).
func NormalizeFilename(name string) (cleaned string, base string) {
	cleaned = name
	for {
		lower := strings.ToLower(cleaned)
		trimmed := false
		for _, suf := range tempSuffixes {
			if strings.HasSuffix(lower, suf) {
				cleaned = cleaned[:len(cleaned)-len(suf)]
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}

	base = cleaned
	for _, ext := range archiveExts {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	for {
		next := versionSuffixPattern.ReplaceAllString(base, "")
		next = loaderSuffixPattern.ReplaceAllString(next, "")
		if next == base {
			// The regex misses dotted prerelease forms like "-1.2.3-beta.1";
			// fall back to semver over each dash-delimited tail.
			for idx := 0; idx < len(next); idx++ {
				if next[idx] != '-' && next[idx] != '_' {
					continue
				}
				if idx > 0 && looksLikeVersion(next[idx+1:]) {
					next = next[:idx]
					break
				}
			}
		}
		if next == base || next == "" {
			break
		}
		base = next
	}
	return cleaned, strings.ToLower(base)
}

// looksLikeVersion reports whether a dash-separated filename token is a
// version rather than part of the name ("2.0.1", "v1.4", "1.19.2").
func looksLikeVersion(tok string) bool {
	if tok == "" {
		return false
	}
	if semver.IsValid("v" + strings.TrimPrefix(tok, "v")) {
		return true
	}
	for _, r := range tok {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return tok[0] >= '0' && tok[0] <= '9'
}

// PreferredLoader derives the loader used for version matching: a loader
// hint in the filename wins, then the manifest-declared loader, then Fabric.
func PreferredLoader(filename string, meta archive.Metadata) string {
	lower := strings.ToLower(filename)
	if strings.Contains(lower, "fabric") {
		return "Fabric"
	}
	if strings.Contains(lower, "forge") {
		return "Forge"
	}
	if meta.Loader != "" {
		return meta.Loader
	}
	return "Fabric"
}
