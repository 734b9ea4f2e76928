// Package metrics holds the small numeric helpers shared by the formula
// libraries and the overall-score aggregator.
package metrics

import "math"

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
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

// Weighted is one value with its weight.
type Weighted struct {
	Value  float64
	Weight float64
}

// WeightedMean returns sum(value*weight)/sum(weight) and false when the
// weights sum to zero.
func WeightedMean(items []Weighted) (float64, bool) {
	sum, total := 0.0, 0.0
	for _, it := range items {
		sum += it.Value * it.Weight
		total += it.Weight
	}
	if total == 0 {
		return 0, false
	}
	return sum / total, true
}

// WeightedSum returns sum(value*weight) without normalizing.
func WeightedSum(items []Weighted) float64 {
	sum := 0.0
	for _, it := range items {
		sum += it.Value * it.Weight
	}
	return sum
}

// Variance computes the population variance of a float64 slice.
// Returns 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Cap clamps v to [0,100].
func Cap(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
