package diag

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// DefaultContextSpan is the number of characters Context shows on each side of a token.
const DefaultContextSpan = 10

const (
	contextLen = 5
	noContext  = "<no context>"
)

// Sequence is an indexable collection that isn't a Go slice, such as a token buffer.
type Sequence interface {
	Len() int
	At(i int) any
}

type tokenLike interface {
	TokenType() string
	TokenValue() string
}

// renderContext shows up to five elements of seq starting at index. Elements that all look like
// tokens are shown as `'value'(TYPE)`; other elements are shown as they are; a seq that can't be
// indexed yields `<no context>`.
func renderContext(seq any, index int) (ctx string) {
	defer func() {
		// A Sequence implementation may panic while being probed.
		if v := recover(); v != nil {
			ctx = noContext
		}
	}()

	switch s := seq.(type) {
	case string:
		rs := []rune(s)
		lo, hi := contextRange(len(rs), index)
		return string(rs[lo:hi])
	case []byte:
		rs := []rune(string(s))
		lo, hi := contextRange(len(rs), index)
		return string(rs[lo:hi])
	case Sequence:
		lo, hi := contextRange(s.Len(), index)
		elems := make([]any, 0, hi-lo)
		for i := lo; i < hi; i++ {
			elems = append(elems, s.At(i))
		}
		return renderElems(elems)
	}

	v := reflect.ValueOf(seq)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		lo, hi := contextRange(v.Len(), index)
		elems := make([]any, 0, hi-lo)
		for i := lo; i < hi; i++ {
			elems = append(elems, v.Index(i).Interface())
		}
		return renderElems(elems)
	}

	return noContext
}

func contextRange(n, index int) (int, int) {
	return clamp(index, 0, n), clamp(index+contextLen, 0, n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func renderElems(elems []any) string {
	toks := make([]string, 0, len(elems))
	for _, e := range elems {
		t, ok := e.(tokenLike)
		if !ok || isNil(e) {
			return fmt.Sprint(elems)
		}
		toks = append(toks, fmt.Sprintf("'%v'(%v)", t.TokenValue(), t.TokenType()))
	}
	return strings.Join(toks, " ")
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return v == nil
}

// ContextParts returns the text on the same line before and after the unexpected token, taking at
// most span characters from each side.
func (e *UnexpectedToken) ContextParts(text string, span int) (string, string, error) {
	if !e.Token.HasOffset() {
		return "", "", ErrNoPosition
	}
	if span < 0 {
		span = 0
	}

	rs := []rune(text)
	pos := clamp(e.Token.Offset, 0, len(rs))
	start := clamp(pos-span, 0, pos)
	end := clamp(pos+span, pos, len(rs))

	before := string(rs[start:pos])
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	after := string(rs[pos:end])
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		after = after[:i]
	}
	return before, after, nil
}

// Context returns two lines: the source around the unexpected token, and a caret under the token.
// text must be the complete source the token was read from.
func (e *UnexpectedToken) Context(text string, span int) (string, error) {
	before, after, err := e.ContextParts(text, span)
	if err != nil {
		return "", err
	}
	return before + after + "\n" + strings.Repeat(" ", utf8.RuneCountInString(before)) + "^\n", nil
}
