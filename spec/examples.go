package spec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nihei9/lexdiag/diag"
	verr "github.com/nihei9/lexdiag/error"
)

var (
	errExampleNoLabel        = fmt.Errorf("an example needs a label")
	errExampleDuplicateLabel = fmt.Errorf("duplicate label")
	errExampleNoInputs       = fmt.Errorf("an example needs at least one input")
	errExampleInputsNotArray = fmt.Errorf("`inputs` must be an array of strings")
)

type examplesFile struct {
	Examples []exampleEntry `toml:"example"`
}

type exampleEntry struct {
	Label string `toml:"label"`

	// Inputs is decoded loosely so that `inputs = "1 +"` can be told apart from a missing key.
	Inputs any `toml:"inputs"`
}

// ReadExamples reads an example catalog. Labels keep the order of the file.
func ReadExamples(path string) (diag.Examples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	es, err := DecodeExamples(f, filepath.Base(path))
	if err != nil {
		return nil, withFilePath(err, path)
	}
	return es, nil
}

func DecodeExamples(r io.Reader, sourceName string) (diag.Examples, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var file examplesFile
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

	var es diag.Examples
	var errs verr.SpecErrors
	seen := map[string]struct{}{}
	for i, e := range file.Examples {
		detail := fmt.Sprintf("example #%v", i+1)
		if e.Label == "" {
			errs = append(errs, &verr.SpecError{
				Cause:      errExampleNoLabel,
				Detail:     detail,
				SourceName: sourceName,
			})
			continue
		}
		detail = fmt.Sprintf("%v (%v)", detail, e.Label)
		if _, ok := seen[e.Label]; ok {
			errs = append(errs, &verr.SpecError{
				Cause:      errExampleDuplicateLabel,
				Detail:     detail,
				SourceName: sourceName,
			})
			continue
		}
		seen[e.Label] = struct{}{}

		inputs, err := e.inputs()
		if err != nil {
			errs = append(errs, &verr.SpecError{
				Cause:      err,
				Detail:     detail,
				SourceName: sourceName,
			})
			continue
		}
		es = append(es, diag.Example{
			Label:  e.Label,
			Inputs: inputs,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return es, nil
}

func (e *exampleEntry) inputs() ([]string, error) {
	switch v := e.Inputs.(type) {
	case nil:
		return nil, errExampleNoInputs
	case []any:
		if len(v) == 0 {
			return nil, errExampleNoInputs
		}
		inputs := make([]string, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, errExampleInputsNotArray
			}
			inputs[i] = s
		}
		return inputs, nil
	}
	return nil, errExampleInputsNotArray
}
