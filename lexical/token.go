package lexical

import "fmt"

// EOF is the type of the token a lexer yields after the last character of a source.
const EOF = "$END"

// Invalid is the type of a token covering bytes no terminal matches.
const Invalid = "<invalid>"

// UnknownOffset marks a token whose position in a source is not known.
const UnknownOffset = -1

// Token represents a token.
type Token struct {
	// Type is the name of the terminal the token belongs to.
	Type string

	// Value is the text the token covers.
	Value string

	// Line is a 1-based line number. 0 means the line is unknown.
	Line int

	// Column is a 1-based column number counted in characters. 0 means the column is unknown.
	Column int

	// Offset is the position of the first character of the token, counted in characters from the
	// beginning of the source.
	Offset int
}

// NewToken returns a token without position information.
func NewToken(typ, value string) *Token {
	return &Token{
		Type:   typ,
		Value:  value,
		Offset: UnknownOffset,
	}
}

func (t *Token) TokenType() string {
	return t.Type
}

func (t *Token) TokenValue() string {
	return t.Value
}

func (t *Token) HasOffset() bool {
	return t != nil && t.Offset >= 0
}

func (t *Token) HasPosition() bool {
	return t != nil && t.Line > 0 && t.Column > 0
}

// Equal reports whether two tokens have the same type and value. Positions are ignored.
func (t *Token) Equal(u *Token) bool {
	if t == nil || u == nil {
		return t == u
	}
	return t.Type == u.Type && t.Value == u.Value
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Token(%v, '%v')", t.Type, t.Value)
}
