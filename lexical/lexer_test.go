package lexical

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/lexdiag/pattern"
)

func lit(t *testing.T, name, raw string, opts ...TokenSpecOption) *TokenSpec {
	t.Helper()
	s, err := NewTokenSpec(name, pattern.NewLiteral(raw, pattern.NoFlags), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func re(t *testing.T, name, raw, flags string, opts ...TokenSpecOption) *TokenSpec {
	t.Helper()
	f, err := pattern.ParseFlags(flags)
	if err != nil {
		t.Fatal(err)
	}
	p, err := pattern.NewRegex(raw, f)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewTokenSpec(name, p, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewTokenSpec(t *testing.T) {
	s, err := NewTokenSpec("NUM", pattern.NewLiteral("1", pattern.NoFlags))
	if err != nil {
		t.Fatal(err)
	}
	if s.Priority != DefaultPriority {
		t.Fatalf("unexpected default priority; want: %v, got: %v", DefaultPriority, s.Priority)
	}

	_, err = NewTokenSpec("NUM", pattern.Pattern{})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("a zero pattern must be rejected; got: %v", err)
	}

	_, err = NewTokenSpec("", pattern.NewLiteral("1", pattern.NoFlags))
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("an empty name must be rejected; got: %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
	}{
		{name: "NUMBER", terminal: true},
		{name: "LPAR_2", terminal: true},
		{name: "_WS", terminal: true},
		{name: "expr", terminal: false},
		{name: "Expr", terminal: false},
		{name: "__", terminal: false},
		{name: "", terminal: false},
	}
	for _, tt := range tests {
		if IsTerminal(tt.name) != tt.terminal {
			t.Errorf("unexpected result for %q; want: %v", tt.name, tt.terminal)
		}
	}
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		caption string
		specs   func(t *testing.T) []*TokenSpec
		opts    []TableOption
		order   []string
		err     error
	}{
		{
			caption: "higher priorities come first, then wider patterns, then longer sources, then names",
			specs: func(t *testing.T) []*TokenSpec {
				return []*TokenSpec{
					re(t, "NAME", "[a-z]+", ""),
					lit(t, "IF", "if", WithPriority(2)),
					lit(t, "EQ", "="),
					lit(t, "EQEQ", "=="),
					lit(t, "LT", "<"),
					re(t, "DIGIT", "[0-9]", ""),
				}
			},
			order: []string{"IF", "NAME", "EQEQ", "DIGIT", "EQ", "LT"},
		},
		{
			caption: "a table can't have duplicate names",
			specs: func(t *testing.T) []*TokenSpec {
				return []*TokenSpec{
					lit(t, "A", "a"),
					lit(t, "A", "b"),
				}
			},
			err: ErrDuplicateName,
		},
		{
			caption: "ignored tokens must be defined",
			specs: func(t *testing.T) []*TokenSpec {
				return []*TokenSpec{
					lit(t, "A", "a"),
				}
			},
			opts: []TableOption{Ignore("WS")},
			err:  ErrUnknownIgnore,
		},
		{
			caption: "a table can't be empty",
			specs: func(t *testing.T) []*TokenSpec {
				return nil
			},
			err: ErrEmptyTable,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			tab, err := NewTable(tt.specs(t), tt.opts...)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var names []string
			for _, s := range tab.Specs() {
				names = append(names, s.Name)
			}
			if strings.Join(names, " ") != strings.Join(tt.order, " ") {
				t.Fatalf("unexpected order; want: %v, got: %v", tt.order, names)
			}
		})
	}
}

func TestTable_Collisions(t *testing.T) {
	tab, err := NewTable([]*TokenSpec{
		lit(t, "PLUS", "+"),
		lit(t, "ADD", "+"),
		re(t, "PLUS_RE", `\+`, ""),
		lit(t, "MINUS", "-"),
	})
	if err != nil {
		t.Fatal(err)
	}
	cs := tab.Collisions()
	if len(cs) != 1 {
		t.Fatalf("unexpected collisions: %v", cs)
	}
	names := cs[pattern.NewLiteral("+", pattern.NoFlags)]
	if strings.Join(names, " ") != "ADD PLUS" {
		t.Fatalf("unexpected colliding names: %v", names)
	}
}

func TestTable_Terminals(t *testing.T) {
	tab, err := NewTable([]*TokenSpec{
		lit(t, "PLUS", "+"),
		lit(t, "minus", "-"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if ts := tab.Terminals(); len(ts) != 1 || ts[0] != "PLUS" {
		t.Fatalf("unexpected terminals: %v", ts)
	}

	tab, err = NewTable([]*TokenSpec{
		lit(t, "PLUS", "+"),
		lit(t, "minus", "-"),
	}, WithTerminalPredicate(func(name string) bool {
		return true
	}))
	if err != nil {
		t.Fatal(err)
	}
	if ts := tab.Terminals(); len(ts) != 2 {
		t.Fatalf("unexpected terminals: %v", ts)
	}
}

func TestLexer(t *testing.T) {
	tab, err := NewTable([]*TokenSpec{
		re(t, "NAME", "[a-z]+", ""),
		re(t, "IF", "if", "i", WithPriority(2)),
		re(t, "NUM", "[0-9]+", ""),
		lit(t, "PLUS", "+"),
		re(t, "WS", `[ \t\n]+`, ""),
	}, Ignore("WS"))
	if err != nil {
		t.Fatal(err)
	}
	lx, err := NewLexer(tab)
	if err != nil {
		t.Fatal(err)
	}

	toks, err := lx.Lex("IF x+12\n  ifx")
	if err != nil {
		t.Fatal(err)
	}
	expected := []*Token{
		{Type: "IF", Value: "IF", Line: 1, Column: 1, Offset: 0},
		{Type: "NAME", Value: "x", Line: 1, Column: 4, Offset: 3},
		{Type: "PLUS", Value: "+", Line: 1, Column: 5, Offset: 4},
		{Type: "NUM", Value: "12", Line: 1, Column: 6, Offset: 5},
		// The priority of IF beats the longer match of NAME.
		{Type: "IF", Value: "if", Line: 2, Column: 3, Offset: 10},
		{Type: "NAME", Value: "x", Line: 2, Column: 5, Offset: 12},
	}
	if len(toks) != len(expected) {
		t.Fatalf("unexpected token count; want: %v, got: %v (%v)", len(expected), len(toks), toks)
	}
	for i, e := range expected {
		if *toks[i] != *e {
			t.Errorf("#%v: unexpected token; want: %+v, got: %+v", i, e, toks[i])
		}
	}

	s := lx.Tokens("x")
	for i := 0; i < 3; i++ {
		tok, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
		if i > 0 && (tok.Type != EOF || tok.Offset != 1) {
			t.Fatalf("the stream must keep returning EOF; got: %+v", tok)
		}
	}
}

func TestLexer_UnexpectedChar(t *testing.T) {
	tab, err := NewTable([]*TokenSpec{
		re(t, "NUM", "[0-9]+", ""),
		lit(t, "NL", "\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	lx, err := NewLexer(tab)
	if err != nil {
		t.Fatal(err)
	}
	_, err = lx.Lex("12\n3é")
	var cerr *UnexpectedCharError
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error: %v", err)
	}
	if cerr.Char != 'é' || cerr.Line != 2 || cerr.Column != 2 || cerr.Offset != 4 {
		t.Fatalf("unexpected error position: %+v", cerr)
	}
}

func TestNewLexer_ZeroWidth(t *testing.T) {
	tab, err := NewTable([]*TokenSpec{
		re(t, "A", "a*", ""),
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewLexer(tab)
	if !errors.Is(err, ErrZeroWidth) {
		t.Fatalf("a zero-width terminal must be rejected; got: %v", err)
	}
}

func TestDFALexer(t *testing.T) {
	tab, err := NewTable([]*TokenSpec{
		re(t, "NUM", "[0-9]+", ""),
		lit(t, "PLUS", "+"),
		re(t, "WS", "[ ]+", ""),
	}, Ignore("WS"))
	if err != nil {
		t.Fatal(err)
	}
	d, err := CompileDFA(tab)
	if err != nil {
		t.Fatal(err)
	}
	s, err := d.Tokens(strings.NewReader("1 + 23?"))
	if err != nil {
		t.Fatal(err)
	}
	expected := []*Token{
		{Type: "NUM", Value: "1", Line: 1, Column: 1, Offset: 0},
		{Type: "PLUS", Value: "+", Line: 1, Column: 3, Offset: 2},
		{Type: "NUM", Value: "23", Line: 1, Column: 5, Offset: 4},
		{Type: Invalid, Value: "?", Line: 1, Column: 7, Offset: 6},
	}
	for i, e := range expected {
		tok, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
		if *tok != *e {
			t.Errorf("#%v: unexpected token; want: %+v, got: %+v", i, e, tok)
		}
	}
	tok, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Type != EOF {
		t.Fatalf("expected EOF; got: %+v", tok)
	}
}

func TestCompileDFA(t *testing.T) {
	tests := []struct {
		caption string
		specs   []*TokenSpec
		kinds   []string
	}{
		{
			caption: "a table with a single literal compiles",
			specs: []*TokenSpec{
				lit(t, "NUM", "1"),
			},
			kinds: []string{"", "NUM"},
		},
		{
			caption: "kinds follow the matching order of the table",
			specs: []*TokenSpec{
				re(t, "ID", "[a-z]+", ""),
				lit(t, "IF", "if", WithPriority(2)),
			},
			kinds: []string{"", "IF", "ID"},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			tab, err := NewTable(tt.specs)
			if err != nil {
				t.Fatal(err)
			}
			d, err := CompileDFA(tab)
			if err != nil {
				t.Fatal(err)
			}
			if d.Compiled() == nil || d.Table() != tab {
				t.Fatalf("the compiled specification must be kept with its table")
			}
			if strings.Join(d.KindNames(), ",") != strings.Join(tt.kinds, ",") {
				t.Fatalf("unexpected kinds; want: %v, got: %v", tt.kinds, d.KindNames())
			}
		})
	}
}

func TestCompileDFA_Flags(t *testing.T) {
	tab, err := NewTable([]*TokenSpec{
		re(t, "IF", "if", "i"),
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = CompileDFA(tab)
	if !errors.Is(err, ErrFlagsUnsupported) {
		t.Fatalf("flags must be rejected; got: %v", err)
	}
}
