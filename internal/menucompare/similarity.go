package menucompare

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"

	"github.com/tablecraft/menu-importer/internal/entity"
)

// Classification thresholds. Configuration, not magic literals: a best-match
// score at or above ScoreExact (with no field changes) is a skip, at or above
// ScoreUpdate an update, anything lower a create.
const (
	ScoreExact  = 0.95
	ScoreUpdate = 0.70
)

// nameDominance is the name-similarity level above which the price signal is
// ignored for item matching.
const nameDominance = 0.9

// Similarity is the normalized string similarity over case-folded, trimmed
// strings: 1 - distance/max(len). Identical strings score 1.0, either-empty
// scores 0.0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	// Distance counts runes, so the normalizing length must too.
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	d := levenshtein.Distance(a, b, nil)
	return 1 - float64(d)/float64(maxLen)
}

// itemMatchScore blends name and price similarity. Once the name clearly
// matches, it dominates; otherwise price contributes a fifth of the score.
func itemMatchScore(ext entity.ExtractedItem, exist entity.ExistingItem) float64 {
	ns := Similarity(ext.Name, exist.Name)
	if ns > nameDominance {
		return ns
	}
	ps := 0.0
	if exist.Price > 0 {
		diff := ext.Price - exist.Price
		if diff < 0 {
			diff = -diff
		}
		ps = 1 - float64(diff)/float64(exist.Price)
		if ps < 0 {
			ps = 0
		}
	}
	return ns*0.8 + ps*0.2
}

// classify maps a best-match score and a has-changes signal onto an action.
// Non-decreasing in score: raising the score never demotes update/skip to
// create.
func classify(score float64, hasChanges bool) entity.DiffAction {
	switch {
	case score >= ScoreExact && !hasChanges:
		return entity.ActionSkip
	case score >= ScoreUpdate:
		return entity.ActionUpdate
	default:
		return entity.ActionCreate
	}
}
