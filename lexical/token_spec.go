package lexical

import (
	"fmt"
	"unicode"

	"github.com/nihei9/lexdiag/pattern"
)

// DefaultPriority is the priority of a token spec created without WithPriority.
const DefaultPriority = 1

// TokenSpec binds a terminal name to a pattern. When several token specs match the same input,
// the one with the higher priority wins regardless of how long the matches are.
type TokenSpec struct {
	Name     string
	Pattern  pattern.Pattern
	Priority int
}

type TokenSpecOption func(s *TokenSpec)

func WithPriority(priority int) TokenSpecOption {
	return func(s *TokenSpec) {
		s.Priority = priority
	}
}

func NewTokenSpec(name string, p pattern.Pattern, opts ...TokenSpecOption) (*TokenSpec, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, name)
	}
	s := &TokenSpec{
		Name:     name,
		Pattern:  p,
		Priority: DefaultPriority,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenSpec) String() string {
	return fmt.Sprintf("TokenSpec(%v, %v)", s.Name, s.Pattern)
}

// TerminalPredicate tells terminal names from non-terminal names.
type TerminalPredicate func(name string) bool

// IsTerminal is the default naming convention: a terminal name contains at least one cased letter
// and no lower-case letters, such as `NUMBER` or `LPAR_2`.
func IsTerminal(name string) bool {
	cased := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
