package modelhaven

import (
	"strings"

	"github.com/ancientnerds/relica/internal/connectors/querynorm"
)

// Scoring weights. These are contract-fixed: downstream behaviour
// (which candidates survive) depends on the exact values.
const (
	// ScoreThreshold discards candidates scoring below it.
	ScoreThreshold = 30

	scoreExact     = 100
	scorePrefix    = 80
	scoreSubstring = 60

	// overlapWeight scales the word-overlap ratio for candidates with
	// no direct match.
	overlapWeight = 50

	// countryBonus rewards the entity's country appearing in the name.
	countryBonus = 15

	// keywordBonus rewards archaeology-domain vocabulary in the name.
	keywordBonus = 10
)

// domainKeywords is the fixed archaeology vocabulary for the bonus.
var domainKeywords = []string{
	"temple", "ruins", "ruin", "amphitheater", "amphitheatre", "theatre",
	"theater", "tomb", "pyramid", "castle", "fort", "fortress", "monument",
	"statue", "archaeological", "ancient", "roman", "greek", "excavation",
	"acropolis", "necropolis",
}

// Score rates a candidate model name against the normalised query,
// 0-100. Exact match scores highest, then prefix, then substring; a
// candidate with no direct match earns partial credit from the
// proportion of query words present in its name. Country and domain
// keyword presence add fixed bonuses. The result is capped at 100.
func Score(name, query, country string) int {
	n := strings.ToLower(querynorm.Normalize(name))
	q := strings.ToLower(strings.TrimSpace(query))
	if n == "" || q == "" {
		return 0
	}

	var score int
	switch {
	case n == q:
		score = scoreExact
	case strings.HasPrefix(n, q):
		score = scorePrefix
	case strings.Contains(n, q):
		score = scoreSubstring
	default:
		score = int(wordOverlap(n, q) * overlapWeight)
	}

	if country != "" && strings.Contains(n, strings.ToLower(country)) {
		score += countryBonus
	}
	for _, kw := range domainKeywords {
		if containsWord(n, kw) {
			score += keywordBonus
			break
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// wordOverlap returns the fraction of query words present in the name.
func wordOverlap(name, query string) float64 {
	queryWords := strings.Fields(query)
	if len(queryWords) == 0 {
		return 0
	}

	nameWords := make(map[string]bool)
	for _, w := range strings.Fields(name) {
		nameWords[w] = true
	}

	matched := 0
	for _, w := range queryWords {
		if nameWords[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}

// containsWord reports whether w appears as a whole word in s.
func containsWord(s, w string) bool {
	for _, field := range strings.Fields(s) {
		if field == w {
			return true
		}
	}
	return false
}
