package pipeline

import (
	"modscan/internal/archive"
	"modscan/internal/integrity"
	"modscan/internal/provenance"
	"modscan/internal/resolver"
	"modscan/internal/signature"
)

// Result is everything the pipeline learned about one archive. The report
// layer formats it; the pipeline makes no presentation decisions.
type Result struct {
	Record   archive.Record     `json:"record"`
	Metadata archive.Metadata   `json:"metadata"`
	Match    resolver.Match     `json:"match"`
	Verdict  integrity.Verdict  `json:"verdict"`
	Finding  *signature.Finding `json:"finding,omitempty"`
	Origin   provenance.Origin  `json:"origin"`
	State    State              `json:"-"`
}

// Sets are the four classification buckets. They are overlapping views over
// the same results: a resolved archive with oversized delta and a signature
// hit appears in Verified, Tampered, and Suspicious at once.
type Sets struct {
	Verified   []string `json:"verified"`
	Unknown    []string `json:"unknown"`
	Suspicious []string `json:"suspicious"`
	Tampered   []string `json:"tampered"`
}

// Report is one run's aggregate: per-archive results in input order plus the
// classification sets.
type Report struct {
	RunID   string   `json:"runId,omitempty"`
	Results []Result `json:"results"`
	Sets    Sets     `json:"sets"`
}

func buildSets(results []Result) Sets {
	var sets Sets
	for _, r := range results {
		path := r.Record.Path
		if r.Match.Resolved() {
			sets.Verified = append(sets.Verified, path)
		} else {
			sets.Unknown = append(sets.Unknown, path)
		}
		if r.Finding != nil {
			sets.Suspicious = append(sets.Suspicious, path)
		}
		if r.Verdict.Status == integrity.Tampered {
			sets.Tampered = append(sets.Tampered, path)
		}
	}
	return sets
}
