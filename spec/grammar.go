package spec

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/lexdiag/lexical"
	mlspec "github.com/nihei9/maleeni/spec"
)

// CompiledGrammar is a parsing table generated by a parser generator together with the lexical
// specification the table was built for. Generating it is not the job of this module.
type CompiledGrammar struct {
	Name                 string                `json:"name"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification"`
	ParsingTable         *ParsingTable         `json:"parsing_table"`
}

type LexicalSpecification struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	TerminalToKind []int                   `json:"terminal_to_kind"`
	Skip           []int                   `json:"skip"`
	KindAliases    []string                `json:"kind_aliases"`
}

// NewMaleeni binds a token table compiled into a DFA to the terminals of t. Each token is mapped to
// the terminal of the same name, and ignored tokens become skip kinds.
func NewMaleeni(d *lexical.DFASpec, t *ParsingTable) (*Maleeni, error) {
	termIDs := make(map[string]int, len(t.Terminals))
	for id, name := range t.Terminals {
		if name == "" || id == t.EOFSymbol || id == t.ErrorSymbol {
			continue
		}
		termIDs[name] = id
	}

	kindNames := d.KindNames()
	m := &Maleeni{
		Spec:           d.Compiled(),
		KindToTerminal: make([]int, len(kindNames)),
		TerminalToKind: make([]int, t.TerminalCount),
		Skip:           make([]int, len(kindNames)),
		KindAliases:    make([]string, t.TerminalCount),
	}
	for kind, name := range kindNames {
		if name == "" {
			continue
		}
		if d.Table().Ignored(name) {
			m.Skip[kind] = 1
			continue
		}
		term, ok := termIDs[name]
		if !ok {
			return nil, fmt.Errorf("a token has no terminal in the parsing table: %v", name)
		}
		m.KindToTerminal[kind] = term
		m.TerminalToKind[term] = kind
	}
	return m, nil
}

// ParsingTable is an LR parsing table. An action entry is negative for a shift (the negated
// destination state), positive for a reduction (the production number), and 0 for an error.
type ParsingTable struct {
	Action                  []int    `json:"action"`
	GoTo                    []int    `json:"goto"`
	StateCount              int      `json:"state_count"`
	InitialState            int      `json:"initial_state"`
	StartProduction         int      `json:"start_production"`
	LHSSymbols              []int    `json:"lhs_symbols"`
	AlternativeSymbolCounts []int    `json:"alternative_symbol_counts"`
	Terminals               []string `json:"terminals"`
	TerminalCount           int      `json:"terminal_count"`
	NonTerminals            []string `json:"non_terminals"`
	NonTerminalCount        int      `json:"non_terminal_count"`
	EOFSymbol               int      `json:"eof_symbol"`
	ErrorSymbol             int      `json:"error_symbol"`
}

func (t *ParsingTable) validate() error {
	if t.TerminalCount <= 0 || t.NonTerminalCount <= 0 {
		return fmt.Errorf("a parsing table must have terminals and non-terminals")
	}
	if len(t.Action) != t.StateCount*t.TerminalCount {
		return fmt.Errorf("the action table has %v entries; want: %v", len(t.Action), t.StateCount*t.TerminalCount)
	}
	if len(t.GoTo) != t.StateCount*t.NonTerminalCount {
		return fmt.Errorf("the goto table has %v entries; want: %v", len(t.GoTo), t.StateCount*t.NonTerminalCount)
	}
	if len(t.Terminals) != t.TerminalCount {
		return fmt.Errorf("the parsing table has %v terminal names; want: %v", len(t.Terminals), t.TerminalCount)
	}
	if len(t.LHSSymbols) != len(t.AlternativeSymbolCounts) {
		return fmt.Errorf("the numbers of LHS symbols and alternative symbol counts differ")
	}
	if t.InitialState < 0 || t.InitialState >= t.StateCount {
		return fmt.Errorf("the initial state is out of range: %v", t.InitialState)
	}
	if len(t.NonTerminals) > t.NonTerminalCount {
		return fmt.Errorf("the parsing table has %v non-terminal names; want at most: %v", len(t.NonTerminals), t.NonTerminalCount)
	}
	if t.EOFSymbol <= 0 || t.EOFSymbol >= t.TerminalCount {
		return fmt.Errorf("the EOF symbol is out of range: %v", t.EOFSymbol)
	}
	if t.ErrorSymbol < 0 || t.ErrorSymbol >= t.TerminalCount {
		return fmt.Errorf("the error symbol is out of range: %v", t.ErrorSymbol)
	}
	if t.StartProduction < 0 || t.StartProduction >= len(t.LHSSymbols) {
		return fmt.Errorf("the start production is out of range: %v", t.StartProduction)
	}
	for prod, lhs := range t.LHSSymbols {
		if lhs < 0 || lhs >= t.NonTerminalCount {
			return fmt.Errorf("the LHS symbol of production %v is out of range: %v", prod, lhs)
		}
		if t.AlternativeSymbolCounts[prod] < 0 {
			return fmt.Errorf("the alternative symbol count of production %v is negative", prod)
		}
	}
	for i, act := range t.Action {
		switch {
		case act < 0 && -act >= t.StateCount:
			return fmt.Errorf("action %v shifts to a missing state: %v", i, -act)
		case act > 0 && act >= len(t.LHSSymbols):
			return fmt.Errorf("action %v reduces by a missing production: %v", i, act)
		}
	}
	for i, next := range t.GoTo {
		if next < 0 || next >= t.StateCount {
			return fmt.Errorf("goto %v leads to a missing state: %v", i, next)
		}
	}
	return nil
}

func DecodeCompiledGrammar(r io.Reader) (*CompiledGrammar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cgram := &CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	if cgram.ParsingTable == nil {
		return nil, fmt.Errorf("a compiled grammar must have a parsing table")
	}
	err = cgram.ParsingTable.validate()
	if err != nil {
		return nil, err
	}
	return cgram, nil
}

func ReadCompiledGrammar(path string) (*CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCompiledGrammar(f)
}
