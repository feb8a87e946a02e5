package driver

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/nihei9/lexdiag/lexical"
	"github.com/nihei9/lexdiag/spec"
	mldriver "github.com/nihei9/maleeni/driver"
)

var (
	ErrNoLexicalSpec   = errors.New("the grammar has no maleeni lexical specification")
	ErrUnknownTerminal = errors.New("a token type isn't a terminal of the grammar")
)

// TokenStream yields tokens whose types are terminal names of a grammar. The last token has the
// lexical.EOF type.
type TokenStream interface {
	Next() (*lexical.Token, error)
}

type tokenStream struct {
	lex       *mldriver.Lexer
	terminals []string
	maleeni   *spec.Maleeni
	offset    int
}

// NewTokenStream lexes src with the maleeni specification embedded in g.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	if g.LexicalSpecification == nil || g.LexicalSpecification.Maleeni == nil {
		return nil, ErrNoLexicalSpec
	}

	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.LexicalSpecification.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:       lex,
		terminals: g.ParsingTable.Terminals,
		maleeni:   g.LexicalSpecification.Maleeni,
	}, nil
}

func (s *tokenStream) Next() (*lexical.Token, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}

		offset := s.offset
		s.offset += utf8.RuneCount(tok.Lexeme)

		var typ string
		switch {
		case tok.EOF:
			typ = lexical.EOF
		case tok.Invalid:
			// The parsing table has no entry for the invalid type, so the parser reports it as an
			// unexpected token.
			typ = lexical.Invalid
		default:
			if s.maleeni.Skip[tok.KindID] > 0 {
				continue
			}
			typ = s.terminals[s.maleeni.KindToTerminal[tok.KindID]]
		}

		return &lexical.Token{
			Type:   typ,
			Value:  string(tok.Lexeme),
			Line:   tok.Row + 1,
			Column: tok.Col + 1,
			Offset: offset,
		}, nil
	}
}

type tableTokenStream struct {
	toks      *lexical.Stream
	terminals map[string]struct{}
}

// NewTableTokenStream lexes src with a regexp lexer. Token names must equal terminal names of g.
func NewTableTokenStream(g *spec.CompiledGrammar, lx *lexical.Lexer, src string) (TokenStream, error) {
	terms := make(map[string]struct{}, len(g.ParsingTable.Terminals))
	for _, name := range g.ParsingTable.Terminals {
		if name != "" {
			terms[name] = struct{}{}
		}
	}
	return &tableTokenStream{
		toks:      lx.Tokens(src),
		terminals: terms,
	}, nil
}

func (s *tableTokenStream) Next() (*lexical.Token, error) {
	tok, err := s.toks.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexical.EOF {
		return tok, nil
	}
	if _, ok := s.terminals[tok.Type]; !ok {
		return nil, fmt.Errorf("%w: %v at line %v, column %v", ErrUnknownTerminal, tok.Type, tok.Line, tok.Column)
	}
	return tok, nil
}
