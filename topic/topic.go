// Package topic implements the topic expression mini-language: parsing a
// dotted topic string into typed parts, rendering a canonical string form,
// matching a registered pattern topic against a concrete published topic,
// and an intern table that deduplicates equal topics to a shared instance.
package topic

import "strings"

// Topic is an ordered, non-empty sequence of parts plus its canonical
// string form. Topics are immutable once constructed; build one with
// Parse or MustParse.
type Topic struct {
	parts   []Part
	value   string
	isExact bool
}

// Parts returns the topic's parts in order. The returned slice must not
// be mutated by callers.
func (t Topic) Parts() []Part {
	return t.parts
}

// Value returns the canonical string form of the topic.
func (t Topic) Value() string {
	return t.value
}

// String satisfies fmt.Stringer with the canonical value.
func (t Topic) String() string {
	return t.value
}

// IsExact reports whether every part of the topic is a literal. Only
// exact topics may be published; pattern topics may only be registered.
func (t Topic) IsExact() bool {
	return t.isExact
}

// Equal reports whether two topics have the same canonical value.
func (t Topic) Equal(other Topic) bool {
	return t.value == other.value
}

// Match decides whether t, used as a registered pattern, matches the
// concrete topic c. See Match (package function) for the algorithm.
func (t Topic) Match(c Topic) MatchResult {
	return Match(t, c)
}

// Render rebuilds the canonical string form from a part slice. Exposed
// so callers can canonicalise a topic string without keeping a Topic
// value around.
func Render(parts []Part) string {
	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = p.render()
	}
	return strings.Join(rendered, ".")
}

// Parse splits s into parts and classifies each one. It returns
// ErrInvalidTopic for an empty string, an unclosed /regex/ or (range)
// span, an empty part between two dots, or a pattern whose regex fails
// to compile.
func Parse(s string) (Topic, error) {
	if s == "" {
		return Topic{}, ErrInvalidTopic
	}

	raw, err := splitParts(s)
	if err != nil {
		return Topic{}, err
	}

	parts := make([]Part, len(raw))
	isExact := true
	for i, r := range raw {
		p, err := classify(r)
		if err != nil {
			return Topic{}, err
		}
		if p.Kind != KindExact {
			isExact = false
		}
		parts[i] = p
	}

	return Topic{
		parts:   parts,
		value:   Render(parts),
		isExact: isExact,
	}, nil
}

// MustParse is Parse but panics on error. Intended for call sites where
// the topic string is a compile-time constant known to be valid.
func MustParse(s string) Topic {
	t, err := Parse(s)
	if err != nil {
		panic("topic: MustParse: " + err.Error() + ": " + s)
	}
	return t
}

// splitParts splits s on '.' into raw tokens, treating a /…/ or (…)
// span as a single token so dots inside a regex or a range list do not
// get cut. Backslash escapes are not recognised outside such spans.
func splitParts(s string) ([]string, error) {
	var parts []string
	var cur strings.Builder

	i, n := 0, len(s)
	for i < n {
		switch c := s[i]; c {
		case '/':
			end := strings.IndexByte(s[i+1:], '/')
			if end == -1 {
				return nil, ErrInvalidTopic
			}
			end += i + 1
			cur.WriteString(s[i : end+1])
			i = end + 1
		case '(':
			end := strings.IndexByte(s[i:], ')')
			if end == -1 {
				return nil, ErrInvalidTopic
			}
			cur.WriteString(s[i : i+end+1])
			i += end + 1
		case '.':
			parts = append(parts, cur.String())
			cur.Reset()
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	parts = append(parts, cur.String())
	return parts, nil
}
