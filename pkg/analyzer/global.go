package analyzer

import (
	"math"
	"slices"
	"time"

	"github.com/ethpandaops/segmentoor/pkg/parser"
)

// GlobalStats contains dataset-wide statistics over all matched entries.
type GlobalStats struct {
	Events         int              `json:"events"`
	Partitions     int              `json:"partitions"`
	MinMS          int64            `json:"min_ms"`
	MaxMS          int64            `json:"max_ms"`
	AverageMS      float64          `json:"avg_ms"`
	MedianMS       int64            `json:"median_ms"`
	P95MS          int64            `json:"p95_ms"`
	P99MS          int64            `json:"p99_ms"`
	TotalMS        int64            `json:"total_ms"`
	SeverityCounts map[Severity]int `json:"severity_counts"`
	Slowest        *RankedEntry     `json:"slowest"`
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
}

// globalStats computes the dataset-wide statistics. ranked must be the
// duration-descending entry ranking; its first element is the slowest
// roll. Must not be called with zero entries.
func globalStats(
	entries []parser.Entry,
	ranked []RankedEntry,
	partitions int,
	thresholds Thresholds,
) *GlobalStats {
	n := len(entries)

	sorted := make([]int64, n)
	for i := range entries {
		sorted[i] = entries[i].DurationMS
	}

	slices.Sort(sorted)

	var sum int64
	for _, d := range sorted {
		sum += d
	}

	counts := map[Severity]int{
		SeverityOK:       0,
		SeverityModerate: 0,
		SeveritySlow:     0,
	}
	for _, d := range sorted {
		counts[thresholds.Classify(d)]++
	}

	from := entries[0].Timestamp
	to := entries[0].Timestamp

	for i := 1; i < n; i++ {
		ts := entries[i].Timestamp
		if ts.Before(from) {
			from = ts
		}

		if ts.After(to) {
			to = ts
		}
	}

	slowest := ranked[0]

	return &GlobalStats{
		Events:         n,
		Partitions:     partitions,
		MinMS:          sorted[0],
		MaxMS:          sorted[n-1],
		AverageMS:      round1(float64(sum) / float64(n)),
		MedianMS:       sorted[n/2],
		P95MS:          sorted[int(float64(n)*0.95)],
		P99MS:          sorted[p99Index(n)],
		TotalMS:        sum,
		SeverityCounts: counts,
		Slowest:        &slowest,
		From:           from,
		To:             to,
	}
}

// p99Index clamps the raw p99 index, which can reach n for some input
// sizes. The p95 index never does, so it has no clamp.
func p99Index(n int) int {
	idx := int(float64(n) * 0.99)
	if idx > n-1 {
		idx = n - 1
	}

	return idx
}

// round1 rounds to one fractional digit.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
