// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i := 1; i < len(values); i++ {
		if value := values[i]; value > max {
			max = value
			indices = []int{i}
		} else if value == max {
			indices = append(indices, i)
		}
	}
	return
}

// ArgMax returns the index of the first maximum value in values.
// Ties are broken towards the lowest index.
func ArgMax(values ...float64) int {
	_, indices := MaxSlice(values)
	return indices[0]
}

// Linspace returns num evenly spaced values over [start, stop]. If num
// is 1, only start is returned. If num is less than 1, nil is returned.
func Linspace(start, stop float64, num int) []float64 {
	if num < 1 {
		return nil
	}
	if num == 1 {
		return []float64{start}
	}

	return floats.Span(make([]float64, num), start, stop)
}

// CartesianProduct returns the cartesian product of the given axes.
// The last axis varies fastest, so that
//
//		CartesianProduct([]float64{0, 1}, []float64{5, 6})
//
// returns [[0 5] [0 6] [1 5] [1 6]].
func CartesianProduct(axes ...[]float64) [][]float64 {
	if len(axes) == 0 {
		return nil
	}

	product := [][]float64{{}}
	for _, axis := range axes {
		next := make([][]float64, 0, len(product)*len(axis))
		for _, prefix := range product {
			for _, value := range axis {
				point := make([]float64, len(prefix), len(prefix)+1)
				copy(point, prefix)
				next = append(next, append(point, value))
			}
		}
		product = next
	}
	return product
}

// MaxAbsDiff returns the largest absolute elementwise difference
// between a and b, which must have equal length.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("maxabsdiff: slices must have equal length")
	}
	var diff float64
	for i := range a {
		diff = math.Max(diff, math.Abs(a[i]-b[i]))
	}
	return diff
}

// Softmax returns the softmax of values
func Softmax(values []float64) []float64 {
	lse := floats.LogSumExp(values)

	probs := make([]float64, len(values))
	for i, v := range values {
		probs[i] = math.Exp(v - lse)
	}
	return probs
}
