// Package querynorm normalises free-text entity names into the search
// terms actually sent to rate-limited third-party APIs.
//
// Site names arrive decorated for display - "Theatre of Dionysus
// (Athens)", "Carnuntum, Austria", "The Pantheon" - and the decorations
// hurt recall upstream. Normalisation strips a trailing bracketed,
// parenthetical or comma-delimited suffix, folds diacritics, drops
// leading articles and filler prepositions, and collapses whitespace.
package querynorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	trailingParen   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	trailingBracket = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)
)

// articles removed from the front of a query.
var articles = map[string]bool{
	"the": true, "a": true, "an": true,
	"la": true, "le": true, "el": true, "il": true,
}

// fillers are prepositions dropped anywhere in the query.
var fillers = map[string]bool{
	"of": true, "de": true, "del": true, "di": true,
	"da": true, "du": true, "des": true,
}

// folder strips combining marks after NFD decomposition.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the upstream search term for a raw entity name.
func Normalize(query string) string {
	q := strings.TrimSpace(query)

	// Suffix decorations: keep only the part before the first comma,
	// then strip a trailing parenthetical or bracketed qualifier.
	if i := strings.Index(q, ","); i >= 0 {
		q = q[:i]
	}
	q = trailingParen.ReplaceAllString(q, "")
	q = trailingBracket.ReplaceAllString(q, "")

	q = Fold(q)

	words := strings.Fields(q)
	for len(words) > 0 && articles[strings.ToLower(words[0])] {
		words = words[1:]
	}

	kept := words[:0]
	for _, w := range words {
		if fillers[strings.ToLower(w)] {
			continue
		}
		kept = append(kept, w)
	}

	return strings.Join(kept, " ")
}

// Fold removes diacritics ("Çatalhöyük" -> "Catalhoyuk"). Returns the
// input unchanged if the transform fails.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return out
}
