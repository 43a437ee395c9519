package resolver

import (
	"strings"

	"modscan/internal/registry"
)

// scoreHit ranks one search hit against the query. The weights favor exact
// identity matches over substring overlap; ties keep the first hit
// encountered.
func scoreHit(query string, hit registry.SearchHit) int {
	q := strings.ToLower(query)
	slug := strings.ToLower(hit.Slug)
	title := strings.ToLower(hit.Title)
	score := 0
	if slug == q {
		score += 100
	}
	if strings.EqualFold(hit.ProjectID, query) {
		score += 100
	}
	if title == q {
		score += 80
	}
	if title != q && strings.Contains(title, q) {
		score += 50
	}
	if slug != q && strings.Contains(slug, q) {
		score += 40
	}
	return score
}

// bestHit returns the highest-scoring hit, first-wins on ties.
func bestHit(query string, hits []registry.SearchHit) (registry.SearchHit, bool) {
	if len(hits) == 0 {
		return registry.SearchHit{}, false
	}
	best := hits[0]
	bestScore := scoreHit(query, hits[0])
	for _, h := range hits[1:] {
		if s := scoreHit(query, h); s > bestScore {
			bestScore = s
			best = h
		}
	}
	return best, true
}
