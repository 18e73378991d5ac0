package project

import (
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// suggest returns the haystack entries within maxDistance edits of needle,
// closest first.
func suggest(needle string, haystack []string, maxDistance int) []string {
	type option struct {
		s    string
		dist int
	}

	r := []rune(needle)
	var options []option
	for _, straw := range haystack {
		if straw == "" {
			continue
		}
		distance := levenshtein.DistanceForStrings(r, []rune(straw), levenshtein.DefaultOptions)
		if distance <= maxDistance {
			options = append(options, option{s: straw, dist: distance})
		}
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].dist < options[j].dist })

	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.s
	}
	return out
}
