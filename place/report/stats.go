// Package report summarizes placement quality for humans and tools.
package report

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Number is any value Histogram can bucket.
type Number interface {
	constraints.Integer | constraints.Float
}

// NetStats describes the distribution of per-net HPWL values.
type NetStats struct {
	Nets   int     `json:"nets"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	Max    float64 `json:"max"`
}

// ComputeNetStats summarizes values. An empty input yields a zero NetStats.
func ComputeNetStats(values []float64) NetStats {
	if len(values) == 0 {
		return NetStats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	ns := NetStats{
		Nets:  len(sorted),
		Total: floats.Sum(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Max:   floats.Max(sorted),
	}
	if len(sorted) > 1 {
		ns.StdDev = stat.StdDev(sorted, nil)
	}
	return ns
}

// Bin is one histogram bucket covering [Lo, Hi). The last bin includes Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets values into n equal-width bins spanning [min, max].
// All-equal values land in a single bin.
func Histogram[T Number](in []T, n int) []Bin {
	if len(in) == 0 || n < 1 {
		return nil
	}
	values := make([]float64, len(in))
	for i, v := range in {
		values[i] = float64(v)
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(values)}}
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi
	for _, v := range values {
		i := int(math.Floor((v - lo) / width))
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}
