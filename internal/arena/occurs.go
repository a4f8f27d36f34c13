package arena

// OccursCheck reports whether needle (a Blocked alias head) appears
// inside haystack reachable through Union, Intersection, or Bound
// forwarding (spec.md §3).
//
// PendingExpansion nodes are treated as opaque: a still-unexpanded alias
// application is not recursed into. This mirrors the real behavior of
// deferring the occurs check until the solver expands the application —
// recorded as an Open Question decision in DESIGN.md rather than guessed
// silently.
func (a *Arena) OccursCheck(needle, haystack TypeId) bool {
	return a.occursCheck(needle, haystack, make(map[TypeId]bool))
}

func (a *Arena) occursCheck(needle, haystack TypeId, visited map[TypeId]bool) bool {
	if needle == haystack {
		return true
	}
	if visited[haystack] {
		return false
	}
	visited[haystack] = true

	switch n := a.GetType(haystack).(type) {
	case Bound:
		return a.occursCheck(needle, n.Target, visited)
	case Union:
		for _, p := range n.Parts {
			if a.occursCheck(needle, p, visited) {
				return true
			}
		}
	case Intersection:
		for _, p := range n.Parts {
			if a.occursCheck(needle, p, visited) {
				return true
			}
		}
	}
	return false
}
