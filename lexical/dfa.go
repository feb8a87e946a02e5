package lexical

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nihei9/lexdiag/pattern"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// DFASpecName names every lexical specification CompileDFA hands to maleeni. maleeni requires a
// snake-case identifier.
const DFASpecName = "lexdiag"

// DFASpec is a token table compiled into a maleeni DFA. Regex patterns are handed to maleeni as they
// are, so they must be written in maleeni's pattern syntax.
type DFASpec struct {
	table      *Table
	spec       *mlspec.CompiledLexSpec
	kindToSpec []*TokenSpec
}

func CompileDFA(t *Table) (*DFASpec, error) {
	entries := make([]*mlspec.LexEntry, 0, len(t.specs))
	kindToName := map[string]*TokenSpec{}
	for i, s := range t.specs {
		if !s.Pattern.Flags().Empty() {
			return nil, fmt.Errorf("%w: %v", ErrFlagsUnsupported, s.Name)
		}

		var pat string
		if s.Pattern.Kind() == pattern.Literal {
			pat = mlspec.EscapePattern(s.Pattern.Raw())
		} else {
			pat = s.Pattern.Raw()
		}

		// maleeni restricts the spelling of kind names, so token names are replaced with
		// generated ones.
		kind := fmt.Sprintf("t_%v", i+1)
		kindToName[kind] = s

		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind),
			Pattern: mlspec.LexPattern(pat),
		})
	}

	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    DFASpecName,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0], kindToName)
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr, kindToName)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}

	kindToSpec := make([]*TokenSpec, len(clspec.KindNames))
	for id, k := range clspec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		s, ok := kindToName[k.String()]
		if !ok {
			return nil, fmt.Errorf("a kind was not found in the token table: %v", k)
		}
		kindToSpec[id] = s
	}

	return &DFASpec{
		table:      t,
		spec:       clspec,
		kindToSpec: kindToSpec,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError, kindToName map[string]*TokenSpec) {
	name := cErr.Kind.String()
	if s, ok := kindToName[name]; ok {
		name = s.Name
	}
	fmt.Fprintf(w, "%v: %v", name, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

func (d *DFASpec) Table() *Table {
	return d.table
}

// Compiled returns the maleeni lexical specification. Kind IDs in it index KindNames.
func (d *DFASpec) Compiled() *mlspec.CompiledLexSpec {
	return d.spec
}

// KindNames returns the token name of each maleeni kind ID. The nil kind has an empty name.
func (d *DFASpec) KindNames() []string {
	names := make([]string, len(d.kindToSpec))
	for id, s := range d.kindToSpec {
		if s != nil {
			names[id] = s.Name
		}
	}
	return names
}

func (d *DFASpec) Tokens(src io.Reader) (*DFAStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(d.spec), src)
	if err != nil {
		return nil, err
	}
	return &DFAStream{
		spec: d,
		lex:  lex,
	}, nil
}

type DFAStream struct {
	spec   *DFASpec
	lex    *mldriver.Lexer
	offset int
}

// Next returns the next token that isn't ignored. Bytes no token spec matches come out as a token
// of the Invalid type.
func (s *DFAStream) Next() (*Token, error) {
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
			typ = EOF
		case tok.Invalid:
			typ = Invalid
		default:
			spec := s.spec.kindToSpec[tok.KindID]
			if s.spec.table.Ignored(spec.Name) {
				continue
			}
			typ = spec.Name
		}

		return &Token{
			Type:   typ,
			Value:  string(tok.Lexeme),
			Line:   tok.Row + 1,
			Column: tok.Col + 1,
			Offset: offset,
		}, nil
	}
}
