// Package dice parses and evaluates NdM roll expressions.
package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Bounds on roll expressions. Rolls outside these produce ErrRange rather
// than unbounded work.
const (
	MaxCount = 100
	MinSides = 2
	MaxSides = 1000
)

var (
	// ErrParse is returned for expressions that are not of the form NdM.
	ErrParse = errors.New("not a roll")
	// ErrRange is returned for well-formed expressions outside the bounds.
	ErrRange = errors.New("roll out of range")
)

// Result is the outcome of evaluating a roll expression.
type Result struct {
	// Rolls is each individual die outcome, in the order rolled.
	Rolls []int
	// Sum is the total of Rolls.
	Sum int
}

func (r Result) String() string {
	if len(r.Rolls) == 1 {
		return strconv.Itoa(r.Sum)
	}
	b := make([]string, len(r.Rolls))
	for i, v := range r.Rolls {
		b[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s = %d", strings.Join(b, "+"), r.Sum)
}

// Parse interprets an expression of the form <count>d<sides>, like "2d20".
// The d is case-insensitive and surrounding whitespace is ignored.
func Parse(expr string) (count, sides int, err error) {
	s := strings.TrimSpace(expr)
	l, r, ok := strings.Cut(s, "d")
	if !ok {
		l, r, ok = strings.Cut(s, "D")
	}
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q has no d", ErrParse, expr)
	}
	count, err = strconv.Atoi(l)
	if err != nil || count <= 0 {
		return 0, 0, fmt.Errorf("%w: bad die count %q", ErrParse, l)
	}
	sides, err = strconv.Atoi(r)
	if err != nil || sides <= 0 {
		return 0, 0, fmt.Errorf("%w: bad side count %q", ErrParse, r)
	}
	if count > MaxCount {
		return 0, 0, fmt.Errorf("%w: at most %d dice", ErrRange, MaxCount)
	}
	if sides < MinSides || sides > MaxSides {
		return 0, 0, fmt.Errorf("%w: sides must be in [%d, %d]", ErrRange, MinSides, MaxSides)
	}
	return count, sides, nil
}

// Roll parses expr and rolls it. Each die is an independent uniform draw
// from [1, sides] using the process-wide generator, so concurrent rolls
// never correlate.
func Roll(expr string) (Result, error) {
	count, sides, err := Parse(expr)
	if err != nil {
		return Result{}, err
	}
	r := Result{Rolls: make([]int, count)}
	for i := range r.Rolls {
		v := rand.IntN(sides) + 1
		r.Rolls[i] = v
		r.Sum += v
	}
	return r, nil
}
