package utils

import (
	"math"
	"slices"
)

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Contains[T comparable](slice []T, item T) bool {
	return FindIndex(slice, item) >= 0
}

// Argmax returns the index of the largest value. Ties go to the lowest index.
func Argmax(values []float64) int {
	if len(values) == 0 {
		panic("argmax of empty slice")
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

// ArgmaxOf returns the candidate index with the largest value, scanning
// candidates in ascending order so that ties go to the lowest index.
func ArgmaxOf(values []float64, candidates []int) int {
	if len(candidates) == 0 {
		panic("argmax over no candidates")
	}
	best := -1
	bestValue := math.Inf(-1)
	if !slices.IsSorted(candidates) {
		candidates = slices.Sorted(slices.Values(candidates))
	}
	for _, c := range candidates {
		if best == -1 || values[c] > bestValue {
			best = c
			bestValue = values[c]
		}
	}
	return best
}

func Max(values []float64) float64 {
	return values[Argmax(values)]
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
