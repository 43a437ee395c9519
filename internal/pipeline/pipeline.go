// Package pipeline drives archives end to end: extract, resolve, audit,
// scan, classify. Archives are independent, so a bounded worker pool runs
// them concurrently while the report keeps input enumeration order.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"modscan/internal/archive"
	"modscan/internal/audit"
	"modscan/internal/integrity"
	"modscan/internal/logging"
	"modscan/internal/provenance"
	"modscan/internal/registry"
	"modscan/internal/resolver"
	"modscan/internal/signature"
)

// Pipeline wires the stages together. Secondary, Audit, Progress, and
// OriginFor are optional.
type Pipeline struct {
	Resolver  *resolver.Resolver
	Secondary *registry.SecondaryClient
	Scanner   *signature.Scanner
	Threshold int64
	Workers   int
	Audit     *audit.Logger

	// Offline skips every remote lookup: all archives stay unresolved and
	// get the deep scan.
	Offline bool

	// Progress is called after each archive finishes, with completed and
	// total counts. Calls are serialized.
	Progress func(done, total int)

	// OriginFor supplies the OS-level provenance label for a path. The
	// lookup itself lives outside the pipeline.
	OriginFor func(path string) provenance.Origin
}

// Run scans every archive in dir. An unreadable directory is fatal;
// per-archive failures are isolated and land in the Unknown bucket.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Report, error) {
	paths, err := listArchives(dir)
	if err != nil {
		return nil, fmt.Errorf("PIPE_INPUT: %w", err)
	}
	return p.RunFiles(ctx, paths)
}

// RunFiles scans an explicit list of archives, preserving its order in the
// report.
func (p *Pipeline) RunFiles(ctx context.Context, paths []string) (*Report, error) {
	if p.Scanner == nil || (p.Resolver == nil && !p.Offline) {
		return nil, fmt.Errorf("PIPE_SETUP: resolver and scanner are required")
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	p.logEvent(audit.Event{Stage: "run", Status: "start", Fields: map[string]string{
		"archives": fmt.Sprintf("%d", len(paths)),
	}})

	results := make([]Result, len(paths))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	sem := make(chan struct{}, workers)
	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.processOne(ctx, path)
			if p.Progress != nil {
				mu.Lock()
				done++
				p.Progress(done, len(paths))
				mu.Unlock()
			}
		}(i, path)
	}
	wg.Wait()

	report := &Report{
		RunID:   p.Audit.RunID(),
		Results: results,
		Sets:    buildSets(results),
	}
	p.logEvent(audit.Event{Stage: "run", Status: "end", Fields: map[string]string{
		"verified":   fmt.Sprintf("%d", len(report.Sets.Verified)),
		"unknown":    fmt.Sprintf("%d", len(report.Sets.Unknown)),
		"suspicious": fmt.Sprintf("%d", len(report.Sets.Suspicious)),
		"tampered":   fmt.Sprintf("%d", len(report.Sets.Tampered)),
	}})
	return report, nil
}

// processOne walks one archive through every stage. It never fails: local
// errors degrade the result and the archive classifies as unknown.
func (p *Pipeline) processOne(ctx context.Context, path string) Result {
	res := Result{State: Pending, Match: resolver.NoMatch()}
	res.Record.Path = path
	if p.OriginFor != nil {
		res.Origin = p.OriginFor(path)
	} else {
		res.Origin = provenance.Origin{Source: provenance.SourceUnknown}
	}

	rec, data, err := archive.Load(path)
	if err != nil {
		logging.L().Warnw("archive unreadable", "path", path, "err", err)
		p.logEvent(audit.Event{Archive: path, Stage: "load", Status: "error", Message: err.Error()})
		res.State = Classified
		return res
	}
	res.Record = rec

	res.Metadata = archive.Extract(data)
	res.State = MetadataExtracted

	if p.Offline {
		res.State = Unresolved
	} else {
		res.Match = p.Resolver.Resolve(ctx, rec, res.Metadata)
		if res.Match.Resolved() {
			res.State = Resolved
		} else {
			res.State = Unresolved
			if sec := p.secondaryLookup(ctx, rec); sec.Resolved() {
				res.Match = sec
			}
		}
	}
	// Deep scan is reserved for archives no lookup could identify, the
	// secondary hash DB included.
	deepNeeded := !res.Match.Resolved()

	res.Verdict = integrity.Audit(rec.Size, res.Match.ExpectedSize, p.Threshold)
	res.State = Audited

	res.Finding = p.Scanner.Shallow(path, data)
	if deepNeeded {
		deep, err := p.Scanner.Deep(path, data)
		if err != nil {
			logging.L().Warnw("deep scan aborted", "path", path, "err", err)
			p.logEvent(audit.Event{Archive: path, Stage: "deep-scan", Status: "error", Message: err.Error()})
		} else {
			res.Finding = signature.Merge(res.Finding, deep)
		}
	}
	res.State = Scanned

	res.State = Classified
	p.logEvent(audit.Event{Archive: path, Stage: "classify", Status: classification(res), Fields: map[string]string{
		"matchType": res.Match.Type,
		"verdict":   res.Verdict.Status.String(),
	}})
	return res
}

func (p *Pipeline) secondaryLookup(ctx context.Context, rec archive.Record) resolver.Match {
	if p.Secondary == nil {
		return resolver.NoMatch()
	}
	res := p.Secondary.LookupName(ctx, rec.Fingerprint)
	if !res.Found() {
		return resolver.NoMatch()
	}
	return resolver.Match{Name: res.Value, Type: resolver.MatchSecondaryDB}
}

func classification(r Result) string {
	if r.Match.Resolved() {
		return "verified"
	}
	return "unknown"
}

func (p *Pipeline) logEvent(ev audit.Event) {
	if err := p.Audit.Log(ev); err != nil {
		logging.L().Debugw("audit log write failed", "err", err)
	}
}

// listArchives enumerates scannable files in dir, sorted by name so report
// order is deterministic. Temp and backup suffixes still count: a disabled
// mod is exactly the kind of file worth scanning.
func listArchives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isArchiveName(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isArchiveName(name string) bool {
	lower := strings.ToLower(name)
	for {
		trimmed := lower
		for _, suf := range []string{".disabled", ".old", ".bak", ".tmp"} {
			trimmed = strings.TrimSuffix(trimmed, suf)
		}
		if trimmed == lower {
			break
		}
		lower = trimmed
	}
	return strings.HasSuffix(lower, ".jar") || strings.HasSuffix(lower, ".zip")
}
