package topic

// MatchNode carries one per-part result of a match attempt, so callers
// can introspect every position rather than only knowing whether the
// whole topic matched.
type MatchNode struct {
	Matched bool
	Literal string
}

// MatchResult is the outcome of matching a registered pattern topic
// against a concrete topic.
type MatchResult struct {
	Matched bool
	Nodes   []MatchNode
}

// Match decides whether pattern matches concrete. Part counts must be
// equal; every part's predicate must succeed for the whole to match.
// The result always carries one node per pattern part (when part counts
// agree) so callers can see which positions matched even on overall
// failure.
func Match(pattern, concrete Topic) MatchResult {
	if len(pattern.parts) != len(concrete.parts) {
		return MatchResult{Matched: false}
	}

	nodes := make([]MatchNode, len(pattern.parts))
	overall := true
	for i, pp := range pattern.parts {
		cp := concrete.parts[i]
		ok := matchPart(pp, cp)
		nodes[i] = MatchNode{Matched: ok, Literal: cp.render()}
		overall = overall && ok
	}

	return MatchResult{Matched: overall, Nodes: nodes}
}

func matchPart(pattern, concrete Part) bool {
	switch pattern.Kind {
	case KindExact:
		return concrete.Kind == KindExact && concrete.Literal == pattern.Literal
	case KindAny:
		return true
	case KindRange:
		if concrete.Kind != KindExact {
			return false
		}
		for _, opt := range pattern.Options {
			if opt == concrete.Literal {
				return true
			}
		}
		return false
	case KindPattern:
		if concrete.Kind != KindExact {
			return false
		}
		return pattern.regex.MatchString(concrete.Literal)
	default:
		return false
	}
}
