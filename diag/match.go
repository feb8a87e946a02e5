package diag

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ParseFunc parses src and returns the failure, if any.
type ParseFunc func(src string) error

// Example is a group of malformed inputs sharing a human-assigned label.
type Example struct {
	Label  string
	Inputs []string
}

// Examples is ordered; earlier labels win ties.
type Examples []Example

// ExamplesFromMap orders the labels of m alphabetically.
func ExamplesFromMap(m map[string][]string) Examples {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	es := make(Examples, 0, len(labels))
	for _, label := range labels {
		es = append(es, Example{
			Label:  label,
			Inputs: m[label],
		})
	}
	return es
}

type verdict int

const (
	verdictNone verdict = iota
	verdictWeak
	verdictExact
)

// judge replays src. A failure at the same state is a weak match, and a failure at the same state
// on an equal token is an exact match. Anything else, including a panic in parse, tells nothing.
func (e *UnexpectedToken) judge(parse ParseFunc, src string) (v verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = verdictNone
		}
	}()

	var ut *UnexpectedToken
	if !errors.As(parse(src), &ut) {
		return verdictNone
	}
	if ut.State != e.State {
		return verdictNone
	}
	if ut.Token.Equal(e.Token) {
		return verdictExact
	}
	return verdictWeak
}

// MatchExamples returns the label of the examples that fail the same way as e. Examples are
// replayed through parse in order. The first input failing at the same state on an equal token
// decides the label at once. Otherwise the first input failing at the same state does. ok is false
// when no input fails at the same state.
func (e *UnexpectedToken) MatchExamples(parse ParseFunc, examples Examples) (label string, ok bool, err error) {
	if !e.State.Valid() {
		return "", false, ErrUnsupported
	}

	for _, ex := range examples {
		for _, src := range ex.Inputs {
			switch e.judge(parse, src) {
			case verdictExact:
				return ex.Label, true, nil
			case verdictWeak:
				if !ok {
					label, ok = ex.Label, true
				}
			}
		}
	}
	return label, ok, nil
}

// MatchExamplesConcurrently replays the examples on up to jobs goroutines. It returns the same
// result as MatchExamples; parse must be safe for concurrent use.
func (e *UnexpectedToken) MatchExamplesConcurrently(ctx context.Context, parse ParseFunc, examples Examples, jobs int) (string, bool, error) {
	if !e.State.Valid() {
		return "", false, ErrUnsupported
	}

	type replay struct {
		label string
		src   string
	}
	var rs []replay
	for _, ex := range examples {
		for _, src := range ex.Inputs {
			rs = append(rs, replay{
				label: ex.Label,
				src:   src,
			})
		}
	}
	if len(rs) == 0 {
		return "", false, nil
	}

	verdicts := make([]verdict, len(rs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(rs))))
	for i, r := range rs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = e.judge(parse, r.src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", false, err
	}

	var label string
	var ok bool
	for i, v := range verdicts {
		switch v {
		case verdictExact:
			return rs[i].label, true, nil
		case verdictWeak:
			if !ok {
				label, ok = rs[i].label, true
			}
		}
	}
	return label, ok, nil
}
