package lexical

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

type rule struct {
	spec *TokenSpec
	re   *regexp.Regexp
}

// Lexer tokenizes sources with Go's regexp engine. At each position it tries the token specs in
// table order and takes the first one that matches. A Lexer holds no per-source state, so one
// lexer can serve many goroutines.
type Lexer struct {
	table *Table
	rules []*rule
}

func NewLexer(t *Table) (*Lexer, error) {
	rules := make([]*rule, 0, len(t.specs))
	for _, s := range t.specs {
		if s.Pattern.MinWidth() == 0 {
			return nil, fmt.Errorf("%w: %v %v", ErrZeroWidth, s.Name, s.Pattern)
		}
		re, err := regexp.Compile(`^(?:` + s.Pattern.ToRegexpWith(t.embedding) + `)`)
		if err != nil {
			return nil, fmt.Errorf("cannot compile the pattern of %v: %w", s.Name, err)
		}
		rules = append(rules, &rule{
			spec: s,
			re:   re,
		})
	}
	return &Lexer{
		table: t,
		rules: rules,
	}, nil
}

func (l *Lexer) Table() *Table {
	return l.table
}

// Tokens returns a stream of the tokens in src.
func (l *Lexer) Tokens(src string) *Stream {
	return &Stream{
		lex:  l,
		src:  src,
		line: 1,
		col:  1,
	}
}

// Lex tokenizes the whole src. The result doesn't contain the EOF token.
func (l *Lexer) Lex(src string) ([]*Token, error) {
	s := l.Tokens(src)
	var toks []*Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

type Stream struct {
	lex    *Lexer
	src    string
	ptr    int
	offset int
	line   int
	col    int
}

// Next returns the next token that isn't ignored. After the last token, it keeps returning the EOF
// token.
func (s *Stream) Next() (*Token, error) {
	for {
		if s.ptr >= len(s.src) {
			return &Token{
				Type:   EOF,
				Line:   s.line,
				Column: s.col,
				Offset: s.offset,
			}, nil
		}
		tok, err := s.scan()
		if err != nil {
			return nil, err
		}
		if s.lex.table.Ignored(tok.Type) {
			continue
		}
		return tok, nil
	}
}

func (s *Stream) scan() (*Token, error) {
	rest := s.src[s.ptr:]
	for _, r := range s.lex.rules {
		loc := r.re.FindStringIndex(rest)
		if loc == nil || loc[1] == 0 {
			continue
		}
		tok := &Token{
			Type:   r.spec.Name,
			Value:  rest[:loc[1]],
			Line:   s.line,
			Column: s.col,
			Offset: s.offset,
		}
		s.advance(tok.Value)
		return tok, nil
	}

	c, _ := utf8.DecodeRuneInString(rest)
	var allowed []string
	for _, r := range s.lex.rules {
		allowed = append(allowed, r.spec.Name)
	}
	return nil, &UnexpectedCharError{
		Char:    c,
		Line:    s.line,
		Column:  s.col,
		Offset:  s.offset,
		Allowed: allowed,
	}
}

func (s *Stream) advance(text string) {
	for _, c := range text {
		s.offset++
		if c == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
	s.ptr += len(text)
}
