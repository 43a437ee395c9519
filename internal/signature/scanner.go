// Package signature matches a compiled cheat/malware token corpus against
// archive bytes (shallow) and archive entries (deep).
package signature

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Finding records the distinct tokens matched in one archive. Archives with
// no matches produce no Finding at all.
type Finding struct {
	Archive string   `json:"archive"`
	Tokens  []string `json:"tokens"`
}

// Scanner runs the two scan depths over a shared corpus.
type Scanner struct {
	corpus *Corpus
}

func NewScanner(c *Corpus) *Scanner {
	return &Scanner{corpus: c}
}

// Shallow decodes the raw archive bytes as text and tests every pattern.
// Every archive gets this pass.
func (s *Scanner) Shallow(path string, data []byte) *Finding {
	text := string(data)
	hits := map[string]struct{}{}
	for _, p := range s.corpus.patterns {
		if p.re.MatchString(text) {
			hits[p.Token] = struct{}{}
		}
	}
	return finding(path, hits)
}

// Deep walks every entry of the archive: entry names are matched directly,
// and entries whose name ends in .class or .json (or that are the jar
// manifest) also have their decoded content matched. Reserved for archives
// the resolver could not identify.
func (s *Scanner) Deep(path string, data []byte) (*Finding, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("SIG_DEEP: %s: %w", path, err)
	}
	hits := map[string]struct{}{}
	for _, f := range zr.File {
		if s.corpus.alternation.MatchString(f.Name) {
			s.attribute(f.Name, hits)
		}
		if !deepContentEntry(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("SIG_DEEP: %s!%s: %w", path, f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("SIG_DEEP: %s!%s: %w", path, f.Name, err)
		}
		text := string(raw)
		if s.corpus.alternation.MatchString(text) {
			s.attribute(text, hits)
		}
	}
	return finding(path, hits), nil
}

// attribute maps alternation hits back to their corpus tokens.
func (s *Scanner) attribute(text string, hits map[string]struct{}) {
	for _, p := range s.corpus.patterns {
		if p.re.MatchString(text) {
			hits[p.Token] = struct{}{}
		}
	}
}

func deepContentEntry(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".class") ||
		strings.HasSuffix(lower, ".json") ||
		name == "META-INF/MANIFEST.MF"
}

func finding(path string, hits map[string]struct{}) *Finding {
	if len(hits) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(hits))
	for tok := range hits {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return &Finding{Archive: path, Tokens: tokens}
}

// Merge combines two findings for the same archive, deduplicating tokens.
// Either side may be nil.
func Merge(a, b *Finding) *Finding {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	hits := map[string]struct{}{}
	for _, t := range a.Tokens {
		hits[t] = struct{}{}
	}
	for _, t := range b.Tokens {
		hits[t] = struct{}{}
	}
	return finding(a.Archive, hits)
}
