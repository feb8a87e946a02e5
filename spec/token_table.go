package spec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	verr "github.com/nihei9/lexdiag/error"
	"github.com/nihei9/lexdiag/lexical"
	"github.com/nihei9/lexdiag/pattern"
)

var (
	errTokenNoPattern        = fmt.Errorf("a token needs either `regex` or `literal`")
	errTokenTwoPatterns      = fmt.Errorf("a token can't have both `regex` and `literal`")
	errTokenInvalidRegex     = fmt.Errorf("invalid regular expression")
	errTokenInvalidFlags     = fmt.Errorf("invalid flags")
	errTableUnknownKeys      = fmt.Errorf("unknown keys")
	errTableInvalidEmbedding = fmt.Errorf("invalid flag embedding")
)

type tokenTableFile struct {
	Embedding string       `toml:"embedding"`
	Ignore    []string     `toml:"ignore"`
	Tokens    []tokenEntry `toml:"token"`
}

type tokenEntry struct {
	Name     string  `toml:"name"`
	Regex    *string `toml:"regex"`
	Literal  *string `toml:"literal"`
	Flags    string  `toml:"flags"`
	Priority *int    `toml:"priority"`
}

// ReadTokenTable reads a token table from a TOML file, or from a table cache when the file has
// the cache extension.
func ReadTokenTable(path string) (*lexical.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filepath.Ext(path) == TableCacheExt {
		return ReadTableCache(f)
	}

	t, err := DecodeTokenTable(f, filepath.Base(path))
	if err != nil {
		return nil, withFilePath(err, path)
	}
	return t, nil
}

// DecodeTokenTable reads a TOML token table. sourceName appears in error messages.
func DecodeTokenTable(r io.Reader, sourceName string) (*lexical.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var file tokenTableFile
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, tomlError(err, data, sourceName)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, &verr.SpecError{
			Cause:      errTableUnknownKeys,
			Detail:     joinKeys(keys),
			SourceName: sourceName,
		}
	}

	emb, err := pattern.ParseFlagEmbedding(file.Embedding)
	if err != nil {
		return nil, &verr.SpecError{
			Cause:      errTableInvalidEmbedding,
			Detail:     file.Embedding,
			SourceName: sourceName,
		}
	}

	var specs []*lexical.TokenSpec
	var errs verr.SpecErrors
	for i, e := range file.Tokens {
		s, err := e.toTokenSpec()
		if err != nil {
			errs = append(errs, &verr.SpecError{
				Cause:      err,
				Detail:     fmt.Sprintf("token #%v (%v)", i+1, e.Name),
				SourceName: sourceName,
			})
			continue
		}
		specs = append(specs, s)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	t, err := lexical.NewTable(specs, lexical.Ignore(file.Ignore...), lexical.WithEmbedding(emb))
	if err != nil {
		return nil, &verr.SpecError{
			Cause:      err,
			SourceName: sourceName,
		}
	}
	return t, nil
}

func (e *tokenEntry) toTokenSpec() (*lexical.TokenSpec, error) {
	flags, err := pattern.ParseFlags(e.Flags)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenInvalidFlags, err)
	}

	var p pattern.Pattern
	switch {
	case e.Regex != nil && e.Literal != nil:
		return nil, errTokenTwoPatterns
	case e.Regex != nil:
		p, err = pattern.NewRegex(*e.Regex, flags)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errTokenInvalidRegex, err)
		}
	case e.Literal != nil:
		p = pattern.NewLiteral(*e.Literal, flags)
	default:
		return nil, errTokenNoPattern
	}

	var opts []lexical.TokenSpecOption
	if e.Priority != nil {
		opts = append(opts, lexical.WithPriority(*e.Priority))
	}
	return lexical.NewTokenSpec(e.Name, p, opts...)
}

func tomlError(err error, data []byte, sourceName string) error {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return &verr.SpecError{
			Cause:      errors.New(perr.Message),
			SourceName: sourceName,
			Row:        perr.Position.Line,
			Col:        column(data, perr.Position.Start),
		}
	}
	return &verr.SpecError{
		Cause:      err,
		SourceName: sourceName,
	}
}

// column converts a byte offset into a 1-based column counted in characters.
func column(data []byte, offset int) int {
	if offset < 0 || offset > len(data) {
		return 0
	}
	lineStart := bytes.LastIndexByte(data[:offset], '\n') + 1
	return utf8.RuneCount(data[lineStart:offset]) + 1
}

func joinKeys(keys []toml.Key) string {
	ks := make([]string, len(keys))
	for i, k := range keys {
		ks[i] = k.String()
	}
	return strings.Join(ks, ", ")
}

func withFilePath(err error, path string) error {
	var specErr *verr.SpecError
	var specErrs verr.SpecErrors
	switch {
	case errors.As(err, &specErrs):
		for _, e := range specErrs {
			e.FilePath = path
		}
	case errors.As(err, &specErr):
		specErr.FilePath = path
	}
	return err
}
