package analyzer

import "math"

// UnboundedMS marks a bucket with no upper limit.
const UnboundedMS int64 = -1

// DefaultBarWidth is the display width the visual weight is scaled to.
const DefaultBarWidth = 30

// BucketDef is one fixed duration range of the distribution histogram.
// Membership is inclusive on both ends; HiMS == UnboundedMS means the
// bucket has no upper limit. The full bucket set must partition
// [0, inf) with no gaps and no overlaps.
type BucketDef struct {
	Label string `json:"label"`
	LoMS  int64  `json:"lo_ms"`
	HiMS  int64  `json:"hi_ms"`
}

// Contains reports whether a duration falls into the bucket.
func (b BucketDef) Contains(durationMS int64) bool {
	if durationMS < b.LoMS {
		return false
	}

	return b.HiMS == UnboundedMS || durationMS <= b.HiMS
}

// DefaultBuckets returns the standard roll duration partition.
func DefaultBuckets() []BucketDef {
	return []BucketDef{
		{Label: "0-2 ms", LoMS: 0, HiMS: 2},
		{Label: "3-5 ms", LoMS: 3, HiMS: 5},
		{Label: "6-10 ms", LoMS: 6, HiMS: 10},
		{Label: "11-50 ms", LoMS: 11, HiMS: 50},
		{Label: "51-100 ms", LoMS: 51, HiMS: 100},
		{Label: "101-500 ms", LoMS: 101, HiMS: 500},
		{Label: "501-1000 ms", LoMS: 501, HiMS: 1000},
		{Label: "1001-5000 ms", LoMS: 1001, HiMS: 5000},
		{Label: "5000+ ms", LoMS: 5001, HiMS: UnboundedMS},
	}
}

// BucketCount is the per-run result for one bucket.
type BucketCount struct {
	BucketDef

	Count int `json:"count"`

	// Percentage is the bucket's share of all durations, rounded to
	// one fractional digit. Zero when there are no durations at all.
	Percentage float64 `json:"percentage"`

	// Weight is the bucket count scaled against the largest bucket,
	// rounded to the nearest integer of the display width. Renderers
	// draw it directly without further computation.
	Weight int `json:"weight"`
}

// Bucketize counts durations per bucket and derives percentage and
// visual weight. The output always follows the definition order.
func Bucketize(durations []int64, defs []BucketDef, width int) []BucketCount {
	counts := make([]BucketCount, len(defs))
	for i, def := range defs {
		counts[i] = BucketCount{BucketDef: def}
	}

	for _, d := range durations {
		for i := range counts {
			if counts[i].Contains(d) {
				counts[i].Count++

				break
			}
		}
	}

	maxCount := 1
	for i := range counts {
		if counts[i].Count > maxCount {
			maxCount = counts[i].Count
		}
	}

	for i := range counts {
		if len(durations) > 0 {
			pct := float64(counts[i].Count) / float64(len(durations)) * 100
			counts[i].Percentage = round1(pct)
		}

		counts[i].Weight = int(math.Round(
			float64(counts[i].Count) / float64(maxCount) * float64(width),
		))
	}

	return counts
}
