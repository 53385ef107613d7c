// Package tagsort orders container image tags newest-first with a
// semver-aware comparator.
package tagsort

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Sort returns tags in a deterministic total order, newest first:
//
//  1. Tags that parse as semantic versions rank before tags that do not.
//     An optional leading 'v' or 'V' and omitted minor/patch components
//     are accepted ("v2" reads as 2.0.0).
//  2. Version tags order by semver precedence, descending. A release
//     outranks its own prereleases and numeric prerelease identifiers
//     compare numerically; build metadata is ignored.
//  3. Non-version tags order by plain lexicographic comparison, ascending.
//  4. Equal versions with different literal forms ("1.0.0" vs "v1.0.0")
//     order by literal form; identical strings keep their input order.
//
// When reverse is true the fully ordered list is reversed as a whole, so the
// relative layout of the two groups and their internal order stay consistent
// in both directions. The input slice is not modified.
func Sort(tags []string, reverse bool) []string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)

	// Classification is memoized for the duration of this call only, keyed
	// by the original literal. The parser accepts a lowercase 'v' prefix on
	// its own; an uppercase 'V' is stripped before parsing.
	versions := make(map[string]*semver.Version, len(sorted))
	for _, tag := range sorted {
		if _, ok := versions[tag]; ok {
			continue
		}
		v, err := semver.NewVersion(strings.TrimPrefix(tag, "V"))
		if err != nil {
			v = nil
		}
		versions[tag] = v
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := versions[sorted[i]], versions[sorted[j]]
		switch {
		case a != nil && b != nil:
			if c := a.Compare(b); c != 0 {
				return c > 0
			}
			return sorted[i] < sorted[j]
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return sorted[i] < sorted[j]
		}
	})

	if reverse {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}

	return sorted
}
