package topic

import (
	"regexp"
	"strings"
)

// Kind tags the variant a Part holds.
type Kind int

const (
	// KindExact matches a concrete part byte-for-byte.
	KindExact Kind = iota
	// KindAny matches any non-empty concrete part, binding it to Name.
	KindAny
	// KindRange matches iff the concrete part equals one of Options.
	KindRange
	// KindPattern matches iff Regex fully matches the concrete part.
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindAny:
		return "any"
	case KindRange:
		return "range"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Part is one dot-separated segment of a Topic.
type Part struct {
	Kind    Kind
	Literal string   // KindExact
	Name    string   // KindAny
	Options []string // KindRange
	Source  string   // KindPattern: the raw regex text between the slashes
	regex   *regexp.Regexp
}

// Regex returns the compiled, fully-anchored regular expression for a
// KindPattern part. It is nil for every other kind.
func (p Part) Regex() *regexp.Regexp {
	return p.regex
}

// render returns the canonical string form of a single part.
func (p Part) render() string {
	switch p.Kind {
	case KindExact:
		return p.Literal
	case KindAny:
		return "{" + p.Name + "}"
	case KindRange:
		return "(" + strings.Join(p.Options, "|") + ")"
	case KindPattern:
		return "/" + p.Source + "/"
	default:
		return ""
	}
}

func newExact(s string) Part {
	return Part{Kind: KindExact, Literal: s}
}

func newAny(name string) Part {
	return Part{Kind: KindAny, Name: name}
}

func newRange(options []string) Part {
	return Part{Kind: KindRange, Options: options}
}

func newPattern(src string) (Part, error) {
	re, err := regexp.Compile("^(?:" + src + ")$")
	if err != nil {
		return Part{}, ErrInvalidTopic
	}
	return Part{Kind: KindPattern, Source: src, regex: re}, nil
}

// classify turns one raw, already-span-aware token into a typed Part,
// applying the precedence rules from the topic grammar in order.
func classify(raw string) (Part, error) {
	if raw == "" {
		return Part{}, ErrInvalidTopic
	}

	// 1. /regex/
	if len(raw) >= 3 && raw[0] == '/' && raw[len(raw)-1] == '/' {
		return newPattern(raw[1 : len(raw)-1])
	}

	// 2. (a|b|...) — empty parens fall back to Exact("()")
	if len(raw) >= 2 && raw[0] == '(' && raw[len(raw)-1] == ')' {
		inner := raw[1 : len(raw)-1]
		if inner == "" {
			return newExact(raw), nil
		}
		return newRange(strings.Split(inner, "|")), nil
	}

	// 3. +name — a bare "+" is Exact("+")
	if raw[0] == '+' {
		if len(raw) >= 2 {
			return newAny(raw[1:]), nil
		}
		return newExact(raw), nil
	}

	// 4. {name} — alias for +name
	if len(raw) >= 3 && raw[0] == '{' && raw[len(raw)-1] == '}' {
		return newAny(raw[1 : len(raw)-1]), nil
	}

	// 5. literal
	return newExact(raw), nil
}
