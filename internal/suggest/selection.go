package suggest

import "sort"

func sortByPriority(in []Suggestion) []Suggestion {
	out := append([]Suggestion(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})
	return out
}

// dedupe drops candidates whose text repeats an earlier candidate.
func dedupe(in []Suggestion) []Suggestion {
	seen := make(map[string]struct{}, len(in))
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s.Text]; ok {
			continue
		}
		seen[s.Text] = struct{}{}
		out = append(out, s)
	}
	return out
}

// selectSuggestions takes high-priority candidates first, then fills the
// remaining slots with lower-priority candidates whose icon has not been used
// yet. The icon rule is relaxed until diversityFloor suggestions are picked.
func selectSuggestions(candidates []Suggestion, limit int) []Suggestion {
	sorted := sortByPriority(dedupe(candidates))

	picked := make([]Suggestion, 0, limit)
	seenIcons := make(map[Icon]struct{})

	for _, s := range sorted {
		if s.Priority != PriorityHigh {
			continue
		}
		picked = append(picked, s)
		seenIcons[s.Icon] = struct{}{}
		if len(picked) >= limit {
			break
		}
	}

	for _, s := range sorted {
		if len(picked) >= limit {
			break
		}
		if s.Priority == PriorityHigh {
			continue
		}
		if _, used := seenIcons[s.Icon]; !used || len(picked) < diversityFloor {
			picked = append(picked, s)
			seenIcons[s.Icon] = struct{}{}
		}
	}

	if len(picked) == 0 {
		if len(sorted) > limit {
			sorted = sorted[:limit]
		}
		return sorted
	}
	return picked
}
