package elements

import (
	"cmp"
	"slices"
)

// Selection is the consolidated element plan for one run.
type Selection struct {
	// Required holds at most one element per image, never two with the same Norm key.
	Required []string `json:"required"`
	// GlobalMust starts with Required and is back-filled by pooled frequency.
	GlobalMust []string `json:"global_must"`
}

type pooled struct {
	key   string
	text  string
	count int
}

// Consolidate merges per-image element sets. Every image first gets a chance
// to contribute one unused element (representative preferred); the global list
// is then completed up to targetTotal with the most frequent pooled candidates,
// ties going to the one seen first. Output depends only on the input order.
func Consolidate(sets []Set, targetTotal int) Selection {
	if targetTotal < 0 {
		targetTotal = 0
	}
	used := make(map[string]struct{})

	required := make([]string, 0, len(sets))
	for _, set := range sets {
		for _, text := range set.ordered() {
			key := Norm(text)
			if key == "" {
				continue
			}
			if _, seen := used[key]; seen {
				continue
			}
			used[key] = struct{}{}
			required = append(required, text)
			break
		}
	}

	global := make([]string, 0, max(targetTotal, len(required)))
	global = append(global, required...)
	for _, entry := range rankPool(sets) {
		if len(global) >= targetTotal {
			break
		}
		if _, seen := used[entry.key]; seen {
			continue
		}
		used[entry.key] = struct{}{}
		global = append(global, entry.text)
	}
	if len(global) > targetTotal {
		global = global[:targetTotal]
	}

	return Selection{Required: required, GlobalMust: global}
}

// rankPool counts candidate keys across all sets (representatives excluded)
// and orders them by descending count, keeping first-seen order on ties.
// Each key keeps the spelling it was first seen with.
func rankPool(sets []Set) []pooled {
	index := make(map[string]int)
	var pool []pooled
	for _, set := range sets {
		for _, text := range set.Candidates {
			key := Norm(text)
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				pool[i].count++
				continue
			}
			index[key] = len(pool)
			pool = append(pool, pooled{key: key, text: text, count: 1})
		}
	}
	slices.SortStableFunc(pool, func(a, b pooled) int {
		return cmp.Compare(b.count, a.count)
	})
	return pool
}
