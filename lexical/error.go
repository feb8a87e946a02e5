package lexical

import (
	"fmt"
	"strings"
)

var (
	ErrEmptyName        = fmt.Errorf("a token spec must have a name")
	ErrInvalidPattern   = fmt.Errorf("a token spec requires a pattern made by pattern.NewLiteral or pattern.NewRegex")
	ErrDuplicateName    = fmt.Errorf("duplicate token name")
	ErrUnknownIgnore    = fmt.Errorf("an ignored token must be defined in the table")
	ErrZeroWidth        = fmt.Errorf("a lexer doesn't allow zero-width terminals")
	ErrFlagsUnsupported = fmt.Errorf("the DFA lexer doesn't support pattern flags")
	ErrEmptyTable       = fmt.Errorf("a token table must have at least one token spec")
)

// UnexpectedCharError occurs when no token spec matches the input at some position.
type UnexpectedCharError struct {
	Char    rune
	Line    int
	Column  int
	Offset  int
	Allowed []string
}

func (e *UnexpectedCharError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no terminal defined for %q at line %v, column %v", e.Char, e.Line, e.Column)
	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, "; allowed: %v", strings.Join(e.Allowed, ", "))
	}
	return b.String()
}
