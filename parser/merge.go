package parser

import (
	"sort"
	"strings"
)

// MergeCandidates combines the two evidence sources into one list.
// Duplicates are detected by case insensitive full path; on collision
// the recycle bin entry wins since it carries the real size and
// usually the payload itself. The result is sorted newest deletion
// first.
func MergeCandidates(usn []*DeletedCandidate,
	bin []*DeletedCandidate) []*DeletedCandidate {

	byPath := make(map[string]*DeletedCandidate)
	order := []string{}

	add := func(candidate *DeletedCandidate) {
		key := strings.ToLower(candidate.FullPath)
		existing, pres := byPath[key]
		if !pres {
			byPath[key] = candidate
			order = append(order, key)
			return
		}

		if existing.Source == SourceUSN &&
			candidate.Source == SourceRecycleBin {
			byPath[key] = candidate
		}
	}

	for _, candidate := range usn {
		add(candidate)
	}
	for _, candidate := range bin {
		add(candidate)
	}

	result := make([]*DeletedCandidate, 0, len(order))
	for _, key := range order {
		result = append(result, byPath[key])
	}

	// Entries without a timestamp compare equal and keep their
	// insertion order.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DeletedMs > result[j].DeletedMs
	})

	return result
}
