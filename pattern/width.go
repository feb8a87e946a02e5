package pattern

import (
	"math"
	"regexp/syntax"
	"strconv"
)

// Width is a number of characters a pattern can match.
type Width int

// Unbounded is the width of patterns such as `a+` whose matches have no upper length limit.
// It compares greater than every finite width.
const Unbounded = Width(math.MaxInt)

func (w Width) Bounded() bool {
	return w != Unbounded
}

func (w Width) Int() int {
	return int(w)
}

func (w Width) String() string {
	if !w.Bounded() {
		return "inf"
	}
	return strconv.Itoa(int(w))
}

func addWidth(a, b Width) Width {
	if !a.Bounded() || !b.Bounded() || a > Unbounded-b {
		return Unbounded
	}
	return a + b
}

func mulWidth(w Width, n int) Width {
	if n == 0 || w == 0 {
		return 0
	}
	if !w.Bounded() || w > Unbounded/Width(n) {
		return Unbounded
	}
	return w * Width(n)
}

// RegexpWidth returns the minimum and maximum number of characters a string matched by expr
// can have. The expression uses Go's regular expression syntax.
func RegexpWidth(expr string) (Width, Width, error) {
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return 0, 0, err
	}
	min, max := treeWidth(re)
	return min, max, nil
}

func treeWidth(re *syntax.Regexp) (Width, Width) {
	switch re.Op {
	case syntax.OpLiteral:
		n := Width(len(re.Rune))
		return n, n
	case syntax.OpCharClass, syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return 1, 1
	case syntax.OpCapture:
		return treeWidth(re.Sub[0])
	case syntax.OpStar:
		_, max := treeWidth(re.Sub[0])
		return 0, unboundedUnlessEmpty(max)
	case syntax.OpPlus:
		min, max := treeWidth(re.Sub[0])
		return min, unboundedUnlessEmpty(max)
	case syntax.OpQuest:
		_, max := treeWidth(re.Sub[0])
		return 0, max
	case syntax.OpRepeat:
		min, max := treeWidth(re.Sub[0])
		lo := mulWidth(min, re.Min)
		if re.Max < 0 {
			return lo, unboundedUnlessEmpty(max)
		}
		return lo, mulWidth(max, re.Max)
	case syntax.OpConcat:
		var lo, hi Width
		for _, sub := range re.Sub {
			min, max := treeWidth(sub)
			lo = addWidth(lo, min)
			hi = addWidth(hi, max)
		}
		return lo, hi
	case syntax.OpAlternate:
		lo, hi := Unbounded, Width(0)
		for _, sub := range re.Sub {
			min, max := treeWidth(sub)
			if min < lo {
				lo = min
			}
			if max > hi {
				hi = max
			}
		}
		if len(re.Sub) == 0 {
			lo = 0
		}
		return lo, hi
	}

	// Anchors, boundaries, empty matches, and no-match all consume nothing.
	return 0, 0
}

// An unbounded repetition of something that always matches the empty string still matches
// nothing but the empty string.
func unboundedUnlessEmpty(max Width) Width {
	if max == 0 {
		return 0
	}
	return Unbounded
}
