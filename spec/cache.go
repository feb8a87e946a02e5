package spec

import (
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/nihei9/lexdiag/lexical"
	"github.com/nihei9/lexdiag/pattern"
	"github.com/vmihailenco/msgpack/v5"
)

// TableCacheExt is the file extension ReadTokenTable treats as a table cache.
const TableCacheExt = ".msgpack"

// Increment when the layout of tableCache changes.
const tableCacheSchemaVersion uint16 = 1

var ErrStaleCache = errors.New("the table cache is stale")

type tableCache struct {
	Schema    uint16
	Embedding string
	Ignore    []string
	Tokens    []cachedToken
}

// cachedToken keeps the widths computed when the cache was written. They are checked against
// freshly computed ones on load, so a cache written by a different width analysis is rejected.
type cachedToken struct {
	Name      string
	Kind      uint8
	Raw       string
	Flags     string
	Priority  int
	MinWidth  uint32
	MaxWidth  uint32
	Unbounded bool
}

// WriteTableCache writes t in msgpack. Tokens are stored in matching order.
func WriteTableCache(w io.Writer, t *lexical.Table) error {
	c := &tableCache{
		Schema:    tableCacheSchemaVersion,
		Embedding: t.Embedding().String(),
		Ignore:    t.IgnoredNames(),
	}
	for _, s := range t.Specs() {
		tok, err := newCachedToken(s)
		if err != nil {
			return err
		}
		c.Tokens = append(c.Tokens, tok)
	}
	return msgpack.NewEncoder(w).Encode(c)
}

func newCachedToken(s *lexical.TokenSpec) (cachedToken, error) {
	kind, err := safecast.Conv[uint8](int(s.Pattern.Kind()))
	if err != nil {
		return cachedToken{}, err
	}
	min, err := safecast.Conv[uint32](s.Pattern.MinWidth().Int())
	if err != nil {
		return cachedToken{}, fmt.Errorf("%v: min width: %w", s.Name, err)
	}
	tok := cachedToken{
		Name:     s.Name,
		Kind:     kind,
		Raw:      s.Pattern.Raw(),
		Flags:    s.Pattern.Flags().String(),
		Priority: s.Priority,
		MinWidth: min,
	}
	if !s.Pattern.MaxWidth().Bounded() {
		tok.Unbounded = true
		return tok, nil
	}
	tok.MaxWidth, err = safecast.Conv[uint32](s.Pattern.MaxWidth().Int())
	if err != nil {
		return cachedToken{}, fmt.Errorf("%v: max width: %w", s.Name, err)
	}
	return tok, nil
}

// ReadTableCache reads a table written by WriteTableCache. Patterns are rebuilt from their sources.
func ReadTableCache(r io.Reader) (*lexical.Table, error) {
	var c tableCache
	err := msgpack.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, err
	}
	if c.Schema != tableCacheSchemaVersion {
		return nil, fmt.Errorf("%w: schema version %v; want: %v", ErrStaleCache, c.Schema, tableCacheSchemaVersion)
	}

	emb, err := pattern.ParseFlagEmbedding(c.Embedding)
	if err != nil {
		return nil, err
	}

	specs := make([]*lexical.TokenSpec, 0, len(c.Tokens))
	for _, tok := range c.Tokens {
		s, err := tok.toTokenSpec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return lexical.NewTable(specs, lexical.Ignore(c.Ignore...), lexical.WithEmbedding(emb))
}

func (tok *cachedToken) toTokenSpec() (*lexical.TokenSpec, error) {
	flags, err := pattern.ParseFlags(tok.Flags)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", tok.Name, err)
	}

	var p pattern.Pattern
	switch pattern.Kind(tok.Kind) {
	case pattern.Literal:
		p = pattern.NewLiteral(tok.Raw, flags)
	case pattern.Regex:
		p, err = pattern.NewRegex(tok.Raw, flags)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", tok.Name, err)
		}
	default:
		return nil, fmt.Errorf("%v: unknown pattern kind: %v", tok.Name, tok.Kind)
	}

	if !tok.widthsMatch(p) {
		return nil, fmt.Errorf("%w: the widths of %v changed", ErrStaleCache, tok.Name)
	}

	return lexical.NewTokenSpec(tok.Name, p, lexical.WithPriority(tok.Priority))
}

func (tok *cachedToken) widthsMatch(p pattern.Pattern) bool {
	if p.MinWidth().Int() != int(tok.MinWidth) {
		return false
	}
	if tok.Unbounded {
		return !p.MaxWidth().Bounded()
	}
	return p.MaxWidth().Bounded() && p.MaxWidth().Int() == int(tok.MaxWidth)
}
