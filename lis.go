// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import "fmt"

// Direction selects the strict order a subsequence must follow.
type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

// noPredecessor is stored in M[0], and therefore in P[k] for every
// element that starts a subsequence.
const noPredecessor = -1

func (d Direction) String() string {
	switch d {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts the names returned by String, plus the
// abbreviations "lis" and "lds".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "increasing", "inc", "lis":
		return Increasing, nil
	case "decreasing", "dec", "lds":
		return Decreasing, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// precedes reports whether a may appear immediately before b in a
// subsequence ordered by d.
func (d Direction) precedes(a, b int) bool {
	if d == Decreasing {
		return a > b
	}
	return a < b
}

// Step describes the table update made for one input element.
type Step struct {
	Index       int // index into X
	Value       int // X[Index]
	Length      int // length of the longest subsequence ending at Index
	Predecessor int // P[Index], or -1
	Best        int // L after this step
}

// Observer is called after each element is processed. It must not
// modify the engine.
type Observer func(e *Engine, step Step)

// Engine finds a longest strictly monotonic subsequence using patience
// sorting. Tables are rebuilt by each call to Run, so an Engine can be
// reused, but not by concurrent callers.
type Engine struct {
	Direction Direction
	Observer  Observer

	n int
	x func(int) int
	m []int // m[j] == index k such that x(k) is the best tail of any subsequence with length j found so far
	p []int // p[k] == index of predecessor of x(k) in the longest subsequence ending at x(k)
	l int   // length of longest subsequence found so far
}

// Run scans X(0)..X(n-1) and returns the indexes of a longest
// subsequence, in ascending order.
func (e *Engine) Run(n int, x func(int) int) []int {
	e.initialize(n, x)
	for i := 0; i < n; i++ {
		e.extend(i)
	}
	return e.Indexes()
}

func (e *Engine) initialize(n int, x func(int) int) {
	e.n = n
	e.x = x
	e.m = make([]int, n+1)
	e.p = make([]int, n)
	e.m[0] = noPredecessor
	e.l = 0
}

// extend must be called exactly once for each index, in ascending
// order, after initialize.
func (e *Engine) extend(i int) {
	newL := e.search(i)
	e.p[i] = e.m[newL-1]
	e.m[newL] = i
	if newL > e.l {
		e.l = newL
	}
	if e.Observer != nil {
		e.Observer(e, Step{
			Index:       i,
			Value:       e.x(i),
			Length:      newL,
			Predecessor: e.p[i],
			Best:        e.l,
		})
	}
}

// search returns 1 + the largest j <= L such that x(m[j]) can precede
// x(i). Rounding mid up keeps lo one past the last such j when the
// loop ends.
func (e *Engine) search(i int) int {
	xi := e.x(i)
	lo, hi := 1, e.l
	for lo <= hi {
		mid := (lo + hi + 1) / 2
		if e.Direction.precedes(e.x(e.m[mid]), xi) {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Len returns the length of the longest subsequence found so far.
func (e *Engine) Len() int {
	return e.l
}

// Indexes returns the indexes of the longest subsequence found so far.
// It does not modify the engine and can be called any number of times.
func (e *Engine) Indexes() []int {
	ret := make([]int, e.l)
	if e.l == 0 {
		return ret
	}
	for k, i := e.m[e.l], len(ret)-1; i >= 0; k, i = e.p[k], i-1 {
		ret[i] = k
	}
	return ret
}

// Values is like Indexes, but returns the corresponding values.
func (e *Engine) Values() []int {
	ret := e.Indexes()
	for i, k := range ret {
		ret[i] = e.x(k)
	}
	return ret
}

// longestSubsequence returns the indexes of a longest subsequence of
// X(0)..X(srclen-1) that is strictly monotonic in direction dir.
func longestSubsequence(srclen int, X func(int) int, dir Direction) []int {
	e := Engine{Direction: dir}
	return e.Run(srclen, X)
}

// Longest returns a longest subsequence of x that is strictly
// monotonic in direction dir. When several exist, the same one is
// returned every time for the same input.
func Longest(x []int, dir Direction) []int {
	e := Engine{Direction: dir}
	e.Run(len(x), func(i int) int { return x[i] })
	return e.Values()
}

func LongestIncreasing(x []int) []int { return Longest(x, Increasing) }

func LongestDecreasing(x []int) []int { return Longest(x, Decreasing) }

// Verify returns an error unless s is a subsequence of x and strictly
// monotonic in direction dir.
func Verify(x, s []int, dir Direction) error {
	for i := 1; i < len(s); i++ {
		if !dir.precedes(s[i-1], s[i]) {
			return fmt.Errorf("not %s at position %d: %d, %d", dir, i, s[i-1], s[i])
		}
	}
	j := 0
	for _, v := range x {
		if j < len(s) && s[j] == v {
			j++
		}
	}
	if j < len(s) {
		return fmt.Errorf("not a subsequence: element %d (%d) not found in order", j, s[j])
	}
	return nil
}
