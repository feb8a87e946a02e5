package tester

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/nihei9/lexdiag/diag"
	"github.com/nihei9/lexdiag/lexical"
)

// Outcome is what happened when an example input was parsed.
type Outcome int

const (
	// Diagnosed means the input failed with a state, so it can take part in matching.
	Diagnosed Outcome = iota

	// Stateless means the input failed, but without a state. MatchExamples can't use it.
	Stateless

	// Accepted means the input is not malformed at all.
	Accepted

	// Unrelated means the input failed with an error other than an unexpected token, such as a
	// lexical error.
	Unrelated
)

func (o Outcome) String() string {
	switch o {
	case Diagnosed:
		return "diagnosed"
	case Stateless:
		return "stateless"
	case Accepted:
		return "accepted"
	case Unrelated:
		return "unrelated"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

type Result struct {
	Label   string
	Input   string
	Outcome Outcome

	// Failure is set when Outcome is Diagnosed or Stateless.
	Failure *diag.UnexpectedToken

	// Error is set when Outcome is Unrelated.
	Error error
}

func (r *Result) Passed() bool {
	return r.Outcome == Diagnosed
}

func (r *Result) String() string {
	if r.Passed() {
		return fmt.Sprintf("Passed %v: %q", r.Label, r.Input)
	}

	const indent1 = "    "

	var msg string
	switch r.Outcome {
	case Accepted:
		msg = "the input was accepted"
	case Stateless:
		msg = fmt.Sprintf("the failure has no state:\n%v", r.Failure)
	default:
		msg = fmt.Sprintf("%v", r.Error)
	}
	msgLines := strings.Split(msg, "\n")
	return fmt.Sprintf("Failed %v: %q:\n%v%v", r.Label, r.Input, indent1, strings.Join(msgLines, "\n"+indent1))
}

// Tester parses every input of an example catalog.
type Tester struct {
	Parse    diag.ParseFunc
	Examples diag.Examples
}

func (t *Tester) Run() []*Result {
	var rs []*Result
	for _, ex := range t.Examples {
		for _, src := range ex.Inputs {
			rs = append(rs, runExample(t.Parse, ex.Label, src))
		}
	}
	return rs
}

func runExample(parse diag.ParseFunc, label, src string) (r *Result) {
	r = &Result{
		Label: label,
		Input: src,
	}
	defer func() {
		if v := recover(); v != nil {
			r.Outcome = Unrelated
			r.Failure = nil
			r.Error = fmt.Errorf("the parser panicked: %v\n%v", v, string(debug.Stack()))
		}
	}()

	err := parse(src)
	if err == nil {
		r.Outcome = Accepted
		return r
	}

	var ut *diag.UnexpectedToken
	if !errors.As(err, &ut) {
		r.Outcome = Unrelated
		r.Error = err
		return r
	}
	r.Failure = ut
	if ut.State.Valid() {
		r.Outcome = Diagnosed
	} else {
		r.Outcome = Stateless
	}
	return r
}

// Conflict is a set of inputs under different labels that fail at the same state on equal tokens.
// Only the earliest label can ever be chosen for such a failure.
type Conflict struct {
	State   diag.State
	Token   *lexical.Token
	Labels  []string
	Results []*Result
}

func (c *Conflict) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conflict at state %v on %v: %v", c.State, c.Token, strings.Join(c.Labels, ", "))
	for _, r := range c.Results {
		fmt.Fprintf(&b, "\n    %v: %q", r.Label, r.Input)
	}
	return b.String()
}

type fingerprint struct {
	state diag.State
	token bool
	typ   string
	value string
}

func fingerprintOf(ut *diag.UnexpectedToken) fingerprint {
	fp := fingerprint{
		state: ut.State,
	}
	if ut.Token != nil {
		fp.token = true
		fp.typ = ut.Token.Type
		fp.value = ut.Token.Value
	}
	return fp
}

// Conflicts finds diagnosed results sharing a fingerprint across labels. Conflicts are ordered by
// the first result involved.
func Conflicts(results []*Result) []*Conflict {
	var order []fingerprint
	groups := map[fingerprint][]*Result{}
	for _, r := range results {
		if r.Outcome != Diagnosed {
			continue
		}
		fp := fingerprintOf(r.Failure)
		if _, ok := groups[fp]; !ok {
			order = append(order, fp)
		}
		groups[fp] = append(groups[fp], r)
	}

	var cs []*Conflict
	for _, fp := range order {
		rs := groups[fp]
		var labels []string
		seen := map[string]struct{}{}
		for _, r := range rs {
			if _, ok := seen[r.Label]; ok {
				continue
			}
			seen[r.Label] = struct{}{}
			labels = append(labels, r.Label)
		}
		if len(labels) < 2 {
			continue
		}
		cs = append(cs, &Conflict{
			State:   fp.state,
			Token:   rs[0].Failure.Token,
			Labels:  labels,
			Results: rs,
		})
	}
	return cs
}
