package pattern

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidFlag     = fmt.Errorf("a flag must be a single letter")
	ErrUnsupportedFlag = fmt.Errorf("a flag must be one of %v", supportedFlags)
)

// Flags Go's regexp accepts in a flag group.
const supportedFlags = "imsU"

// Flags is a set of regular expression modifiers such as `i` or `s`. Its underlying string holds
// the symbols sorted and without duplicates, so two sets containing the same symbols are equal.
type Flags string

// NoFlags is the empty set.
const NoFlags = Flags("")

func NewFlags(syms ...string) (Flags, error) {
	rs := make([]rune, 0, len(syms))
	seen := map[rune]struct{}{}
	for _, s := range syms {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || !unicode.IsLetter(r) {
			return NoFlags, fmt.Errorf("%w: %q", ErrInvalidFlag, s)
		}
		if !strings.ContainsRune(supportedFlags, r) {
			return NoFlags, fmt.Errorf("%w: %q", ErrUnsupportedFlag, s)
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		return rs[i] < rs[j]
	})
	return Flags(rs), nil
}

// ParseFlags splits a compact flag string such as "is" into symbols.
func ParseFlags(s string) (Flags, error) {
	var syms []string
	for _, r := range s {
		syms = append(syms, string(r))
	}
	return NewFlags(syms...)
}

func (f Flags) Has(sym string) bool {
	return sym != "" && strings.Contains(string(f), sym)
}

func (f Flags) Symbols() []string {
	syms := make([]string, 0, len(f))
	for _, r := range string(f) {
		syms = append(syms, string(r))
	}
	return syms
}

func (f Flags) Empty() bool {
	return f == NoFlags
}

func (f Flags) String() string {
	return string(f)
}

// FlagEmbedding decides how flags are written into a regular expression. Different regex engines
// accept different spellings, so a token table picks one strategy for its target engine.
type FlagEmbedding int

const (
	// ScopedGroups wraps the expression in `(?f:...)`, one group per flag.
	ScopedGroups FlagEmbedding = iota

	// LeadingGroups prepends `(?f)` for each flag.
	LeadingGroups
)

func (e FlagEmbedding) Embed(flags Flags, base string) string {
	v := base
	for _, sym := range flags.Symbols() {
		switch e {
		case LeadingGroups:
			v = "(?" + sym + ")" + v
		default:
			v = "(?" + sym + ":" + v + ")"
		}
	}
	return v
}

func (e FlagEmbedding) String() string {
	switch e {
	case ScopedGroups:
		return "scoped"
	case LeadingGroups:
		return "leading"
	}
	return fmt.Sprintf("FlagEmbedding(%d)", int(e))
}

// ParseFlagEmbedding accepts the names printed by FlagEmbedding.String. An empty name selects
// ScopedGroups.
func ParseFlagEmbedding(name string) (FlagEmbedding, error) {
	switch name {
	case "", "scoped":
		return ScopedGroups, nil
	case "leading":
		return LeadingGroups, nil
	}
	return ScopedGroups, fmt.Errorf("unknown flag embedding: %v", name)
}
