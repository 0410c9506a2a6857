// Package analyzer computes the segment roll report from parsed
// entries: the duration-ranked entry listing, per-partition statistics,
// dataset-wide statistics and the duration distribution histogram.
package analyzer

import (
	"sort"

	"github.com/ethpandaops/segmentoor/pkg/parser"
)

// RankedEntry is a parsed entry with its position in the
// duration-descending ranking and its severity tier.
type RankedEntry struct {
	Rank int `json:"rank"`

	parser.Entry

	Severity Severity `json:"severity"`
}

// Report is the complete renderer-agnostic analysis result. It is built
// once from an entry snapshot and never mutated afterwards.
type Report struct {
	// Entries is ranked by duration descending; equal durations keep
	// their original parse order.
	Entries []RankedEntry `json:"entries"`

	// Partitions is ranked by maximum duration descending.
	Partitions []*PartitionStats `json:"partitions"`

	// Global is nil when there are no entries.
	Global *GlobalStats `json:"global,omitempty"`

	// Distribution follows the bucket definition order.
	Distribution []BucketCount `json:"distribution"`
}

// Options bundles the analysis parameters.
type Options struct {
	Thresholds Thresholds
	Buckets    []BucketDef
	BarWidth   int
}

// DefaultOptions returns the standard thresholds, buckets and bar width.
func DefaultOptions() Options {
	return Options{
		Thresholds: DefaultThresholds(),
		Buckets:    DefaultBuckets(),
		BarWidth:   DefaultBarWidth,
	}
}

// Build assembles the report from a snapshot of parsed entries. It is
// deterministic: building twice from the same snapshot yields identical
// results, and the input slice is not modified.
func Build(entries []parser.Entry, opts Options) *Report {
	ranked := rankEntries(entries, opts.Thresholds)

	partitions := AggregatePartitions(entries, opts.Thresholds)

	durations := make([]int64, len(entries))
	for i := range entries {
		durations[i] = entries[i].DurationMS
	}

	report := &Report{
		Entries:      ranked,
		Partitions:   partitions,
		Distribution: Bucketize(durations, opts.Buckets, opts.BarWidth),
	}

	if len(entries) > 0 {
		report.Global = globalStats(entries, ranked, len(partitions), opts.Thresholds)
	}

	return report
}

// rankEntries sorts a copy of the entries by duration descending. The
// sort is stable: equal durations keep their parse order.
func rankEntries(entries []parser.Entry, thresholds Thresholds) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	for i := range entries {
		ranked[i] = RankedEntry{
			Entry:    entries[i],
			Severity: thresholds.Classify(entries[i].DurationMS),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DurationMS > ranked[j].DurationMS
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
