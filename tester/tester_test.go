package tester

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/lexdiag/diag"
	"github.com/nihei9/lexdiag/lexical"
)

func fakeParse(src string) error {
	switch src {
	case "1 +", "2 +":
		return diag.NewUnexpectedToken(lexical.NewToken(lexical.EOF, ""), []string{"NUM"}, src, 0, diag.WithState(diag.StateOf(3)))
	case "+":
		return diag.NewUnexpectedToken(lexical.NewToken("PLUS", "+"), []string{"NUM"}, src, 0, diag.WithState(diag.StateOf(0)))
	case "1 1":
		return diag.NewUnexpectedToken(lexical.NewToken("NUM", "1"), []string{"PLUS"}, src, 0, diag.WithState(diag.StateOf(2)))
	case "stateless":
		return diag.NewUnexpectedToken(lexical.NewToken("X", "x"), nil, src, 0)
	case "?":
		return &lexical.UnexpectedCharError{Char: '?', Line: 1, Column: 1}
	case "crash":
		panic("parser bug")
	}
	return nil
}

func TestTester_Run(t *testing.T) {
	tr := &Tester{
		Parse: fakeParse,
		Examples: diag.Examples{
			{Label: "missing operand", Inputs: []string{"1 +", "1 + 2"}},
			{Label: "broken", Inputs: []string{"stateless", "?", "crash"}},
		},
	}
	rs := tr.Run()

	tests := []struct {
		label   string
		input   string
		outcome Outcome
		report  string
	}{
		{label: "missing operand", input: "1 +", outcome: Diagnosed, report: `Passed missing operand: "1 +"`},
		{label: "missing operand", input: "1 + 2", outcome: Accepted, report: "Failed missing operand: \"1 + 2\":\n    the input was accepted"},
		{label: "broken", input: "stateless", outcome: Stateless, report: "Failed broken: \"stateless\":\n    the failure has no state:"},
		{label: "broken", input: "?", outcome: Unrelated, report: "Failed broken: \"?\":\n    no terminal defined for '?'"},
		{label: "broken", input: "crash", outcome: Unrelated, report: "Failed broken: \"crash\":\n    the parser panicked: parser bug"},
	}
	if len(rs) != len(tests) {
		t.Fatalf("unexpected result count; want: %v, got: %v", len(tests), len(rs))
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			r := rs[i]
			if r.Label != tt.label || r.Input != tt.input {
				t.Fatalf("unexpected example; want: %v %q, got: %v %q", tt.label, tt.input, r.Label, r.Input)
			}
			if r.Outcome != tt.outcome {
				t.Fatalf("unexpected outcome; want: %v, got: %v", tt.outcome, r.Outcome)
			}
			if !strings.HasPrefix(r.String(), tt.report) {
				t.Fatalf("unexpected report; want prefix: %q, got: %q", tt.report, r.String())
			}
			if r.Passed() != (tt.outcome == Diagnosed) {
				t.Fatalf("only diagnosed examples pass")
			}
		})
	}
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		caption  string
		examples diag.Examples
		labels   [][]string
	}{
		{
			caption: "inputs failing the same way under different labels conflict",
			examples: diag.Examples{
				{Label: "A", Inputs: []string{"1 +", "+"}},
				{Label: "B", Inputs: []string{"2 +"}},
			},
			labels: [][]string{{"A", "B"}},
		},
		{
			caption: "inputs failing the same way under one label don't conflict",
			examples: diag.Examples{
				{Label: "A", Inputs: []string{"1 +", "2 +"}},
				{Label: "B", Inputs: []string{"+"}},
			},
		},
		{
			caption: "different states don't conflict",
			examples: diag.Examples{
				{Label: "A", Inputs: []string{"1 +"}},
				{Label: "B", Inputs: []string{"+"}},
				{Label: "C", Inputs: []string{"1 1"}},
			},
		},
		{
			caption: "undiagnosed inputs are left out",
			examples: diag.Examples{
				{Label: "A", Inputs: []string{"stateless", "1 + 2"}},
				{Label: "B", Inputs: []string{"stateless", "1 + 2"}},
			},
		},
		{
			caption: "conflicts are ordered by their first input",
			examples: diag.Examples{
				{Label: "A", Inputs: []string{"+", "1 +"}},
				{Label: "B", Inputs: []string{"2 +"}},
				{Label: "C", Inputs: []string{"+"}},
			},
			labels: [][]string{{"A", "C"}, {"A", "B"}},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			tr := &Tester{
				Parse:    fakeParse,
				Examples: tt.examples,
			}
			cs := Conflicts(tr.Run())
			if len(cs) != len(tt.labels) {
				t.Fatalf("unexpected conflicts; want: %v, got: %v", tt.labels, cs)
			}
			for j, c := range cs {
				if strings.Join(c.Labels, ",") != strings.Join(tt.labels[j], ",") {
					t.Fatalf("unexpected labels; want: %v, got: %v", tt.labels[j], c.Labels)
				}
				if !strings.HasPrefix(c.String(), "Conflict at state ") {
					t.Fatalf("unexpected report: %v", c)
				}
			}
		})
	}
}
