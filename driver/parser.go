package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/lexdiag/diag"
	"github.com/nihei9/lexdiag/lexical"
	"github.com/nihei9/lexdiag/spec"
)

// Number of tokens read past an unexpected token to show what follows it.
const lookaheadCount = 4

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

type ParserOption func(p *Parser) error

func MakeCST() ParserOption {
	return func(p *Parser) error {
		p.makeCST = true
		return nil
	}
}

// Parser runs an LR parsing table over a token stream. It stops at the first syntax error and
// reports it as *diag.UnexpectedToken.
type Parser struct {
	gram       *spec.CompiledGrammar
	toks       TokenStream
	termIDs    map[string]int
	stateStack []int
	semStack   []*Node
	consumed   []*lexical.Token
	cst        *Node
	makeCST    bool
}

func NewParser(gram *spec.CompiledGrammar, toks TokenStream, opts ...ParserOption) (*Parser, error) {
	termIDs := map[string]int{}
	for id, name := range gram.ParsingTable.Terminals {
		if name == "" || id == gram.ParsingTable.ErrorSymbol {
			continue
		}
		termIDs[name] = id
	}

	p := &Parser{
		gram:       gram,
		toks:       toks,
		termIDs:    termIDs,
		stateStack: []int{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse returns nil when the input is accepted. Errors of the token stream are returned as they are.
func (p *Parser) Parse() error {
	p.push(p.gram.ParsingTable.InitialState)
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for {
		act := p.lookupAction(tok)
		switch {
		case act < 0: // Shift
			p.push(act * -1)
			p.actOnShift(tok)
			p.consumed = append(p.consumed, tok)

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
		case act > 0: // Reduce
			prodNum := act

			accepted := p.reduce(prodNum)
			if accepted {
				p.actOnAccepting()

				return nil
			}

			p.actOnReduction(prodNum)
		default: // Error
			return p.unexpectedToken(tok)
		}
	}
}

func (p *Parser) tokenToTerminal(tok *lexical.Token) (int, bool) {
	if tok.Type == lexical.EOF {
		return p.gram.ParsingTable.EOFSymbol, true
	}
	term, ok := p.termIDs[tok.Type]
	return term, ok
}

func (p *Parser) lookupAction(tok *lexical.Token) int {
	term, ok := p.tokenToTerminal(tok)
	if !ok {
		return 0
	}
	termCount := p.gram.ParsingTable.TerminalCount
	return p.gram.ParsingTable.Action[p.top()*termCount+term]
}

func (p *Parser) reduce(prodNum int) bool {
	tab := p.gram.ParsingTable
	lhs := tab.LHSSymbols[prodNum]
	if lhs == tab.LHSSymbols[tab.StartProduction] {
		return true
	}
	n := tab.AlternativeSymbolCounts[prodNum]
	p.pop(n)
	nextState := tab.GoTo[p.top()*tab.NonTerminalCount+lhs]
	p.push(nextState)
	return false
}

func (p *Parser) unexpectedToken(tok *lexical.Token) error {
	seq := make([]*lexical.Token, 0, len(p.consumed)+1+lookaheadCount)
	seq = append(seq, p.consumed...)
	seq = append(seq, tok)
	index := len(seq) - 1

	// Lexical errors past the offending token only shorten the context.
	last := tok
	for i := 0; i < lookaheadCount && last.Type != lexical.EOF; i++ {
		next, err := p.toks.Next()
		if err != nil {
			break
		}
		seq = append(seq, next)
		last = next
	}

	return diag.NewUnexpectedToken(tok, p.searchLookahead(p.top()), seq, index,
		diag.WithState(diag.StateOf(p.top())),
		diag.WithConsideredRules(p.consideredRules(p.top())...))
}

func (p *Parser) actOnShift(tok *lexical.Token) {
	if !p.makeCST {
		return
	}

	term, _ := p.tokenToTerminal(tok)
	p.semStack = append(p.semStack, &Node{
		KindName: p.gram.ParsingTable.Terminals[term],
		Text:     tok.Value,
		Row:      tok.Line,
		Col:      tok.Column,
	})
}

func (p *Parser) actOnReduction(prodNum int) {
	if !p.makeCST {
		return
	}

	lhs := p.gram.ParsingTable.LHSSymbols[prodNum]

	// When an alternative is empty, `n` will be 0, and `handle` will be empty slice.
	n := p.gram.ParsingTable.AlternativeSymbolCounts[prodNum]
	handle := p.semStack[len(p.semStack)-n:]

	children := make([]*Node, len(handle))
	copy(children, handle)

	p.semStack = p.semStack[:len(p.semStack)-n]
	p.semStack = append(p.semStack, &Node{
		KindName: p.gram.ParsingTable.NonTerminals[lhs],
		Children: children,
	})
}

func (p *Parser) actOnAccepting() {
	if !p.makeCST || len(p.semStack) == 0 {
		return
	}

	p.cst = p.semStack[len(p.semStack)-1]
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

func (p *Parser) CST() *Node {
	return p.cst
}

// searchLookahead returns the names of the terminals state has an action for.
func (p *Parser) searchLookahead(state int) []string {
	tab := p.gram.ParsingTable
	var aliases []string
	if p.gram.LexicalSpecification != nil && p.gram.LexicalSpecification.Maleeni != nil {
		aliases = p.gram.LexicalSpecification.Maleeni.KindAliases
	}

	kinds := []string{}
	base := state * tab.TerminalCount
	for term := 0; term < tab.TerminalCount; term++ {
		if tab.Action[base+term] == 0 {
			continue
		}

		// Users can't write the error symbol intentionally.
		if term == tab.ErrorSymbol {
			continue
		}

		if term == tab.EOFSymbol {
			kinds = append(kinds, lexical.EOF)
			continue
		}

		if term < len(aliases) && aliases[term] != "" {
			kinds = append(kinds, aliases[term])
		} else {
			kinds = append(kinds, tab.Terminals[term])
		}
	}

	return kinds
}

// consideredRules returns the non-terminals the parser can go to from state.
func (p *Parser) consideredRules(state int) []string {
	tab := p.gram.ParsingTable
	var rules []string
	base := state * tab.NonTerminalCount
	for nt := 0; nt < tab.NonTerminalCount; nt++ {
		if tab.GoTo[base+nt] == 0 || nt >= len(tab.NonTerminals) {
			continue
		}
		rules = append(rules, tab.NonTerminals[nt])
	}
	return rules
}

// OpenFunc makes a token stream for a source text.
type OpenFunc func(src string) (TokenStream, error)

func OpenMaleeni(g *spec.CompiledGrammar) OpenFunc {
	return func(src string) (TokenStream, error) {
		return NewTokenStream(g, strings.NewReader(src))
	}
}

func OpenTable(g *spec.CompiledGrammar, lx *lexical.Lexer) OpenFunc {
	return func(src string) (TokenStream, error) {
		return NewTableTokenStream(g, lx, src)
	}
}

// ParseFunc makes a diag.ParseFunc that parses each source with a new parser. It is safe for
// concurrent use as long as open is.
func ParseFunc(g *spec.CompiledGrammar, open OpenFunc) diag.ParseFunc {
	return func(src string) error {
		toks, err := open(src)
		if err != nil {
			return err
		}
		p, err := NewParser(g, toks)
		if err != nil {
			return err
		}
		return p.Parse()
	}
}
