// Package diag describes parse failures and classifies them against labeled examples of
// malformed input.
package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/lexdiag/lexical"
)

var (
	ErrUnsupported = fmt.Errorf("matching examples is not supported for a failure without a parser state")
	ErrNoPosition  = fmt.Errorf("the unexpected token has no position in the source text")
)

// State identifies a state of a parser automaton. The zero value means no state was recorded.
type State struct {
	id    int
	valid bool
}

func StateOf(id int) State {
	return State{
		id:    id,
		valid: true,
	}
}

func (s State) ID() (int, bool) {
	return s.id, s.valid
}

func (s State) Valid() bool {
	return s.valid
}

func (s State) String() string {
	if !s.valid {
		return "<none>"
	}
	return strconv.Itoa(s.id)
}

type Option func(e *UnexpectedToken)

func WithState(state State) Option {
	return func(e *UnexpectedToken) {
		e.State = state
	}
}

// WithConsideredRules records the grammar rules the parser was working on. They are kept only for
// diagnostics.
func WithConsideredRules(rules ...string) Option {
	return func(e *UnexpectedToken) {
		e.ConsideredRules = append([]string(nil), rules...)
	}
}

// UnexpectedToken occurs when a parser finds no valid transition for a token.
type UnexpectedToken struct {
	Token           *lexical.Token
	Expected        []string
	Line            int
	Column          int
	ConsideredRules []string
	State           State

	msg string
}

// NewUnexpectedToken makes a failure for tok, which is the index-th element of seq. seq is whatever
// the parser was reading and is used only to show some context in the message. It may be a token
// slice, a string, any other slice, a Sequence, or something else entirely; the message is built
// in every case.
//
// The message is built once here. Later changes to the arguments don't affect it.
func NewUnexpectedToken(tok *lexical.Token, expected []string, seq any, index int, opts ...Option) *UnexpectedToken {
	e := &UnexpectedToken{
		Expected: append([]string(nil), expected...),
	}
	if tok != nil {
		t := *tok
		e.Token = &t
		e.Line = t.Line
		e.Column = t.Column
	}
	for _, opt := range opts {
		opt(e)
	}

	e.msg = fmt.Sprintf("Unexpected token %v at line %v, column %v.\nExpected: %v\nContext: %v",
		e.Token, positionText(e.Line), positionText(e.Column), strings.Join(e.Expected, ", "), renderContext(seq, index))

	return e
}

func positionText(n int) string {
	if n <= 0 {
		return "?"
	}
	return strconv.Itoa(n)
}

func (e *UnexpectedToken) Error() string {
	return e.msg
}
