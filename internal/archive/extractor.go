package archive

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pelletier/go-toml/v2"
)

const (
	fabricManifest = "fabric.mod.json"
	forgeManifest  = "META-INF/mods.toml"
	jarManifest    = "META-INF/MANIFEST.MF"
)

// Extract reads embedded manifests out of raw archive bytes. It checks the
// Fabric manifest first, then the Forge manifest, then mixin configs and the
// jar manifest as fallbacks for still-empty fields. Malformed documents are
// skipped; Extract never fails, it just returns what it could find.
func Extract(data []byte) Metadata {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Metadata{}
	}

	if raw, ok := readEntry(zr, fabricManifest); ok {
		if meta, ok := parseFabric(raw); ok {
			return meta
		}
	}
	if raw, ok := readEntry(zr, forgeManifest); ok {
		if meta, ok := parseForge(raw); ok {
			return meta
		}
	}

	meta := Metadata{ID: mixinFallbackID(zr)}
	fillFromJarManifest(zr, &meta)
	return meta
}

func readEntry(zr *zip.Reader, name string) ([]byte, bool) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return raw, true
	}
	return nil, false
}

// parseFabric maps a fabric.mod.json document. Authors may be plain strings
// or {name, contact} objects; license may be a string or a list.
func parseFabric(raw []byte) (Metadata, bool) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Metadata{}, false
	}
	meta := Metadata{Loader: "Fabric"}
	meta.ID = stringField(doc, "id")
	meta.Name = stringField(doc, "name")
	meta.Version = cleanVersion(stringField(doc, "version"))
	meta.Description = stringField(doc, "description")
	meta.License = stringField(doc, "license")
	if meta.License == "" {
		if list, ok := doc["license"].([]any); ok && len(list) > 0 {
			if s, ok := list[0].(string); ok {
				meta.License = s
			}
		}
	}
	if list, ok := doc["authors"].([]any); ok {
		for _, item := range list {
			switch a := item.(type) {
			case string:
				meta.Authors = append(meta.Authors, a)
			case map[string]any:
				if name, ok := a["name"].(string); ok && name != "" {
					meta.Authors = append(meta.Authors, name)
				}
			}
		}
	}
	if eps, ok := doc["entrypoints"].(map[string]any); ok {
		for _, v := range eps {
			list, ok := v.([]any)
			if !ok {
				continue
			}
			for _, item := range list {
				switch e := item.(type) {
				case string:
					meta.Entrypoints = append(meta.Entrypoints, e)
				case map[string]any:
					if val, ok := e["value"].(string); ok {
						meta.Entrypoints = append(meta.Entrypoints, val)
					}
				}
			}
		}
	}
	meta.Depends = stringMap(doc, "depends")
	meta.Conflicts = stringMap(doc, "conflicts")
	if len(meta.Conflicts) == 0 {
		meta.Conflicts = stringMap(doc, "breaks")
	}
	if meta.ID == "" && meta.Name == "" {
		return Metadata{}, false
	}
	return meta, true
}

func stringField(doc map[string]any, key string) string {
	v, _ := doc[key].(string)
	return strings.TrimSpace(v)
}

func stringMap(doc map[string]any, key string) map[string]string {
	raw, ok := doc[key].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = ""
		}
	}
	return out
}

// forgeDoc is the subset of mods.toml the extractor cares about.
type forgeDoc struct {
	Mods []struct {
		ModID       string `toml:"modId"`
		DisplayName string `toml:"displayName"`
		Version     string `toml:"version"`
		Description string `toml:"description"`
		Authors     any    `toml:"authors"`
	} `toml:"mods"`
}

var forgeFieldPatterns = map[string]*regexp.Regexp{
	"modId":       regexp.MustCompile(`(?m)^\s*modId\s*=\s*"([^"]*)"`),
	"displayName": regexp.MustCompile(`(?m)^\s*displayName\s*=\s*"([^"]*)"`),
	"version":     regexp.MustCompile(`(?m)^\s*version\s*=\s*"([^"]*)"`),
	"description": regexp.MustCompile(`(?m)^\s*description\s*=\s*"([^"]*)"`),
	"authors":     regexp.MustCompile(`(?m)^\s*authors\s*=\s*"([^"]*)"`),
}

// parseForge tries a structured TOML parse first and degrades to per-field
// pattern matching when the document does not parse whole.
func parseForge(raw []byte) (Metadata, bool) {
	var doc forgeDoc
	if err := toml.Unmarshal(raw, &doc); err == nil && len(doc.Mods) > 0 {
		mod := doc.Mods[0]
		meta := Metadata{
			Loader:      "Forge",
			ID:          strings.TrimSpace(mod.ModID),
			Name:        strings.TrimSpace(mod.DisplayName),
			Version:     cleanVersion(strings.TrimSpace(mod.Version)),
			Description: strings.TrimSpace(mod.Description),
		}
		switch a := mod.Authors.(type) {
		case string:
			meta.Authors = splitAuthors(a)
		case []any:
			for _, item := range a {
				if s, ok := item.(string); ok {
					meta.Authors = append(meta.Authors, strings.TrimSpace(s))
				}
			}
		}
		if meta.ID != "" || meta.Name != "" {
			return meta, true
		}
	}

	text := string(raw)
	meta := Metadata{Loader: "Forge"}
	fields := map[string]string{}
	for key, pat := range forgeFieldPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			fields[key] = strings.TrimSpace(m[1])
		}
	}
	meta.ID = fields["modId"]
	meta.Name = fields["displayName"]
	meta.Version = cleanVersion(fields["version"])
	meta.Description = fields["description"]
	if fields["authors"] != "" {
		meta.Authors = splitAuthors(fields["authors"])
	}
	if meta.ID == "" && meta.Name == "" {
		return Metadata{}, false
	}
	return meta, true
}

func splitAuthors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mixinFallbackID derives a mod id from a mixin config's declared package:
// the second-to-last dot-segment names the mod in the common layout
// (net.example.<mod>.mixin).
func mixinFallbackID(zr *zip.Reader) string {
	for _, f := range zr.File {
		base := f.Name
		if idx := strings.LastIndex(base, "/"); idx >= 0 {
			base = base[idx+1:]
		}
		if !strings.HasSuffix(base, ".mixins.json") && !(strings.HasPrefix(base, "mixins.") && strings.HasSuffix(base, ".json")) {
			continue
		}
		raw, ok := readEntry(zr, f.Name)
		if !ok {
			continue
		}
		var doc struct {
			Package string `json:"package"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		segs := strings.Split(doc.Package, ".")
		if len(segs) >= 2 {
			return segs[len(segs)-2]
		}
	}
	return ""
}

// fillFromJarManifest fills still-empty name/version from
// Implementation-Title/Version, falling back to Specification-Title/Version.
func fillFromJarManifest(zr *zip.Reader, meta *Metadata) {
	raw, ok := readEntry(zr, jarManifest)
	if !ok {
		return
	}
	attrs := parseManifestAttrs(string(raw))
	if meta.Name == "" {
		if v := attrs["Implementation-Title"]; v != "" {
			meta.Name = v
		} else if v := attrs["Specification-Title"]; v != "" {
			meta.Name = v
		}
	}
	if meta.Version == "" {
		if v := cleanVersion(attrs["Implementation-Version"]); v != "" {
			meta.Version = v
		} else if v := cleanVersion(attrs["Specification-Version"]); v != "" {
			meta.Version = v
		}
	}
}

// parseManifestAttrs reads jar-manifest "Key: value" lines, folding the
// 72-byte continuation lines (leading space) back onto their attribute.
func parseManifestAttrs(text string) map[string]string {
	attrs := map[string]string{}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lastKey := ""
	for _, line := range lines {
		if strings.HasPrefix(line, " ") && lastKey != "" {
			attrs[lastKey] += strings.TrimRight(line[1:], "\r")
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			lastKey = ""
			continue
		}
		key := strings.TrimSpace(line[:idx])
		attrs[key] = strings.TrimSpace(line[idx+1:])
		lastKey = key
	}
	return attrs
}

// cleanVersion drops unexpanded build placeholders like ${file.jarVersion}.
func cleanVersion(v string) string {
	if strings.Contains(v, "${") {
		return ""
	}
	return v
}
