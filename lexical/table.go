package lexical

import (
	"fmt"
	"sort"

	"github.com/nihei9/lexdiag/pattern"
)

type TableOption func(t *Table) error

// Ignore makes a lexer drop tokens of the given types, typically whitespace and comments.
func Ignore(names ...string) TableOption {
	return func(t *Table) error {
		for _, name := range names {
			t.ignore[name] = struct{}{}
		}
		return nil
	}
}

// WithEmbedding selects how pattern flags are written for the target regex engine.
func WithEmbedding(e pattern.FlagEmbedding) TableOption {
	return func(t *Table) error {
		t.embedding = e
		return nil
	}
}

func WithTerminalPredicate(p TerminalPredicate) TableOption {
	return func(t *Table) error {
		if p == nil {
			return fmt.Errorf("a terminal predicate must not be nil")
		}
		t.isTerminal = p
		return nil
	}
}

// Table is an immutable set of token specs arranged in the order a lexer tries them.
type Table struct {
	specs      []*TokenSpec
	byName     map[string]*TokenSpec
	ignore     map[string]struct{}
	embedding  pattern.FlagEmbedding
	isTerminal TerminalPredicate
}

func NewTable(specs []*TokenSpec, opts ...TableOption) (*Table, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		byName:     map[string]*TokenSpec{},
		ignore:     map[string]struct{}{},
		embedding:  pattern.ScopedGroups,
		isTerminal: IsTerminal,
	}
	for _, s := range specs {
		if s == nil || !s.Pattern.Valid() {
			return nil, ErrInvalidPattern
		}
		if _, ok := t.byName[s.Name]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateName, s.Name)
		}
		t.byName[s.Name] = s
		t.specs = append(t.specs, s)
	}
	for _, opt := range opts {
		err := opt(t)
		if err != nil {
			return nil, err
		}
	}
	for name := range t.ignore {
		if _, ok := t.byName[name]; !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownIgnore, name)
		}
	}

	sortSpecs(t.specs)

	return t, nil
}

// sortSpecs arranges token specs so that a lexer trying them in order prefers higher priorities,
// then patterns that can match longer strings, then longer sources. Names break the remaining
// ties so that the order is deterministic.
func sortSpecs(specs []*TokenSpec) {
	sort.SliceStable(specs, func(i, j int) bool {
		a, b := specs[i], specs[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Pattern.MaxWidth() != b.Pattern.MaxWidth() {
			return a.Pattern.MaxWidth() > b.Pattern.MaxWidth()
		}
		if len(a.Pattern.Raw()) != len(b.Pattern.Raw()) {
			return len(a.Pattern.Raw()) > len(b.Pattern.Raw())
		}
		return a.Name < b.Name
	})
}

// Specs returns the token specs in matching order.
func (t *Table) Specs() []*TokenSpec {
	specs := make([]*TokenSpec, len(t.specs))
	copy(specs, t.specs)
	return specs
}

func (t *Table) Lookup(name string) (*TokenSpec, bool) {
	s, ok := t.byName[name]
	return s, ok
}

func (t *Table) Ignored(name string) bool {
	_, ok := t.ignore[name]
	return ok
}

// IgnoredNames returns the ignored token names in matching order.
func (t *Table) IgnoredNames() []string {
	var names []string
	for _, s := range t.specs {
		if t.Ignored(s.Name) {
			names = append(names, s.Name)
		}
	}
	return names
}

func (t *Table) Embedding() pattern.FlagEmbedding {
	return t.embedding
}

// Terminals returns the names satisfying the table's terminal predicate.
func (t *Table) Terminals() []string {
	var names []string
	for _, s := range t.specs {
		if t.isTerminal(s.Name) {
			names = append(names, s.Name)
		}
	}
	return names
}

// Collisions groups the names of token specs sharing an identical pattern. Only patterns used by
// two or more specs appear in the result.
func (t *Table) Collisions() map[pattern.Pattern][]string {
	byPat := map[pattern.Pattern][]string{}
	for _, s := range t.specs {
		byPat[s.Pattern] = append(byPat[s.Pattern], s.Name)
	}
	for p, names := range byPat {
		if len(names) < 2 {
			delete(byPat, p)
		}
	}
	return byPat
}
