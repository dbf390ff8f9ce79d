/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"math"
	"sort"
)

// tol is the tolerance for floats to be considered equal; big enough to
// absorb rounding error, small enough that point differences on a page
// aren't visible. Grounded on the teacher's extractor/text_utils.go TOL.
const tol = 1.0e-6

func isZero(x float64) bool {
	return math.Abs(x) < tol
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// variationCoefficient returns stddev/mean, the dimensionless measure of
// spread used by isTableRowLike's "regular spacing" test (spec.md §4.4).
func variationCoefficient(xs []float64) float64 {
	m := mean(xs)
	if isZero(m) {
		return 0
	}
	return stddev(xs) / m
}

// median returns the median of a sorted copy of xs.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// quartiles returns (Q1, Q3) of a sorted copy of xs using the
// median-of-halves method.
func quartiles(xs []float64) (q1, q3 float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n == 1 {
		return s[0], s[0]
	}
	mid := n / 2
	lower := s[:mid]
	var upper []float64
	if n%2 == 0 {
		upper = s[mid:]
	} else {
		upper = s[mid+1:]
	}
	return median(lower), median(upper)
}

// modeWithinRange returns the most frequent value among xs that lies within
// [lo, hi], inclusive, breaking ties toward the smaller value. Used by
// FontAnalyzer.analyzeDistribution (spec.md §4.2: "mode within the
// inter-quartile range ... break ties toward smaller size").
func modeWithinRange(xs []float64, lo, hi float64) float64 {
	counts := map[float64]int{}
	var inRange []float64
	for _, x := range xs {
		if x >= lo-tol && x <= hi+tol {
			counts[x]++
			inRange = append(inRange, x)
		}
	}
	if len(inRange) == 0 {
		return median(xs)
	}
	sort.Float64s(inRange)
	best := inRange[0]
	bestCount := counts[best]
	for _, x := range inRange {
		if counts[x] > bestCount {
			best = x
			bestCount = counts[x]
		}
	}
	return best
}

// distinctSorted returns the distinct values of xs, rounded to two decimal
// places, in ascending order.
func distinctSorted(xs []float64) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, x := range xs {
		r := math.Round(x*100) / 100
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Float64s(out)
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
