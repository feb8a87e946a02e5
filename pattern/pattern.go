// Package pattern models what a terminal matches: either a literal string or a regular
// expression, each with a set of modifier flags. Patterns are immutable comparable values, so
// they can be shared freely and used as map keys.
package pattern

import (
	"hash/fnv"
	"regexp"
	"strconv"
	"unicode/utf8"
)

type Kind int

const (
	kindNil Kind = iota
	Literal
	Regex
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Regex:
		return "regex"
	}
	return "<nil>"
}

type Pattern struct {
	kind  Kind
	raw   string
	flags Flags

	// Widths are derived from the fields above, so they never break equality.
	min Width
	max Width
}

func NewLiteral(raw string, flags Flags) Pattern {
	n := Width(utf8.RuneCountInString(raw))
	return Pattern{
		kind:  Literal,
		raw:   raw,
		flags: flags,
		min:   n,
		max:   n,
	}
}

// NewRegex analyzes the expression immediately, so a malformed source is reported here and not
// when the pattern is first used.
func NewRegex(raw string, flags Flags) (Pattern, error) {
	p := Pattern{
		kind:  Regex,
		raw:   raw,
		flags: flags,
	}
	min, max, err := RegexpWidth(p.ToRegexp())
	if err != nil {
		return Pattern{}, err
	}
	p.min = min
	p.max = max
	return p, nil
}

func (p Pattern) Kind() Kind {
	return p.kind
}

func (p Pattern) Raw() string {
	return p.raw
}

func (p Pattern) Flags() Flags {
	return p.flags
}

// Valid reports whether p was made by NewLiteral or NewRegex.
func (p Pattern) Valid() bool {
	return p.kind == Literal || p.kind == Regex
}

func (p Pattern) ToRegexp() string {
	return p.ToRegexpWith(ScopedGroups)
}

func (p Pattern) ToRegexpWith(e FlagEmbedding) string {
	base := p.raw
	if p.kind == Literal {
		base = regexp.QuoteMeta(p.raw)
	}
	return e.Embed(p.flags, base)
}

func (p Pattern) MinWidth() Width {
	return p.min
}

func (p Pattern) MaxWidth() Width {
	return p.max
}

// Equal compares patterns by kind, source, and flags. Two regular expressions matching the same
// language but written differently are not equal.
func (p Pattern) Equal(q Pattern) bool {
	return p.kind == q.kind && p.raw == q.raw && p.flags == q.flags
}

func (p Pattern) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(p.kind)})
	h.Write([]byte(p.raw))
	h.Write([]byte{0})
	h.Write([]byte(p.flags))
	return h.Sum64()
}

func (p Pattern) String() string {
	return strconv.Quote(p.ToRegexp())
}
