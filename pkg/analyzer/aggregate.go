package analyzer

import (
	"slices"
	"sort"

	"github.com/ethpandaops/segmentoor/pkg/parser"
)

// PartitionStats contains the aggregated roll statistics for a single
// partition.
type PartitionStats struct {
	Rank      int      `json:"rank"`
	Partition string   `json:"partition"`
	Count     int      `json:"count"`
	Durations []int64  `json:"durations"`
	Offsets   []int64  `json:"offsets"`
	MinMS     int64    `json:"min_ms"`
	MaxMS     int64    `json:"max_ms"`
	AverageMS float64  `json:"avg_ms"`
	MedianMS  int64    `json:"median_ms"`
	TotalMS   int64    `json:"total_ms"`
	Severity  Severity `json:"severity"`
}

// AggregatePartitions groups entries by partition name and computes the
// per-partition statistics, ranked by maximum roll duration descending.
// Partitions with an equal maximum keep the order in which they were
// first encountered while scanning the entries.
func AggregatePartitions(entries []parser.Entry, thresholds Thresholds) []*PartitionStats {
	byPartition := make(map[string]*PartitionStats)
	order := make([]string, 0)

	for i := range entries {
		e := &entries[i]

		ps, ok := byPartition[e.Partition]
		if !ok {
			ps = &PartitionStats{Partition: e.Partition}
			byPartition[e.Partition] = ps
			order = append(order, e.Partition)
		}

		ps.Durations = append(ps.Durations, e.DurationMS)
		ps.Offsets = append(ps.Offsets, e.Offset)
	}

	stats := make([]*PartitionStats, 0, len(order))

	for _, name := range order {
		ps := byPartition[name]

		slices.Sort(ps.Durations)

		ps.Count = len(ps.Durations)
		ps.MinMS = ps.Durations[0]
		ps.MaxMS = ps.Durations[ps.Count-1]

		var sum int64
		for _, d := range ps.Durations {
			sum += d
		}

		ps.TotalMS = sum
		ps.AverageMS = round1(float64(sum) / float64(ps.Count))
		// Upper median: the element at the integer midpoint of the
		// ascending durations, not an averaged midpoint.
		ps.MedianMS = ps.Durations[ps.Count/2]
		ps.Severity = thresholds.Classify(ps.MaxMS)

		stats = append(stats, ps)
	}

	// Stable so equal maxima keep first-encounter order.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].MaxMS > stats[j].MaxMS
	})

	for i := range stats {
		stats[i].Rank = i + 1
	}

	return stats
}
