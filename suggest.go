package lister

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SuggestSort returns the allowed sort column closest to name, for "did you
// mean" hints. It reports false when there is no allow-list or nothing is
// close enough. Matching ignores case and tolerates edits up to half the
// candidate length.
func (l *Lister) SuggestSort(name string) (string, bool) {
	return l.suggestSort(name)
}

func (l *Lister) suggestSort(name string) (string, bool) {
	if len(l.options.ValidSorts) == 0 || strings.TrimSpace(name) == "" {
		return "", false
	}
	candidates := append([]string{l.options.Sort}, l.options.ValidSorts...)
	return closest(name, candidates)
}

func closest(name string, candidates []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	best, bestDistance := "", -1
	for _, candidate := range candidates {
		distance := levenshtein.ComputeDistance(needle, strings.ToLower(candidate))
		if distance > len([]rune(candidate))/2 {
			continue
		}
		if bestDistance < 0 || distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best, bestDistance >= 0
}
