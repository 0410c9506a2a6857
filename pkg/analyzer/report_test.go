package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/segmentoor/pkg/parser"
)

func TestBuild_EntriesRankedByDurationDescending(t *testing.T) {
	rep := Build(makeEntries("orders-0", 5, 1500, 50, 1200, 900), DefaultOptions())
	require.Len(t, rep.Entries, 5)

	wantDurations := []int64{1500, 1200, 900, 50, 5}
	wantSeverities := []Severity{
		SeveritySlow, SeveritySlow, SeverityModerate, SeverityOK, SeverityOK,
	}

	for i, e := range rep.Entries {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, wantDurations[i], e.DurationMS)
		assert.Equal(t, wantSeverities[i], e.Severity)
	}
}

func TestBuild_EqualDurationsKeepParseOrder(t *testing.T) {
	entries := makeEntries("t-0", 100, 100, 100)

	rep := Build(entries, DefaultOptions())
	require.Len(t, rep.Entries, 3)

	// Offsets encode the parse order in makeEntries.
	assert.Equal(t, int64(0), rep.Entries[0].Offset)
	assert.Equal(t, int64(1000), rep.Entries[1].Offset)
	assert.Equal(t, int64(2000), rep.Entries[2].Offset)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	entries := makeEntries("t-0", 900, 5, 1500)

	snapshot := make([]parser.Entry, len(entries))
	copy(snapshot, entries)

	Build(entries, DefaultOptions())

	assert.Equal(t, snapshot, entries)
}

func TestBuild_Idempotent(t *testing.T) {
	entries := append(makeEntries("a-0", 5, 1500, 50), makeEntries("b-0", 900, 1200)...)

	first := Build(entries, DefaultOptions())
	second := Build(entries, DefaultOptions())

	assert.Equal(t, first, second)
}

func TestBuild_Empty(t *testing.T) {
	rep := Build(nil, DefaultOptions())

	assert.Empty(t, rep.Entries)
	assert.Empty(t, rep.Partitions)
	assert.Nil(t, rep.Global)
	require.Len(t, rep.Distribution, len(DefaultBuckets()))

	for _, bc := range rep.Distribution {
		assert.Equal(t, 0, bc.Count)
	}
}

func TestBuild_EntryCountMatchesAcrossViews(t *testing.T) {
	entries := append(makeEntries("a-0", 1, 200, 3000), makeEntries("b-0", 40, 50)...)

	rep := Build(entries, DefaultOptions())

	assert.Len(t, rep.Entries, len(entries))

	partitionTotal := 0
	for _, ps := range rep.Partitions {
		partitionTotal += ps.Count
	}

	assert.Equal(t, len(entries), partitionTotal)

	bucketTotal := 0
	for _, bc := range rep.Distribution {
		bucketTotal += bc.Count
	}

	assert.Equal(t, len(entries), bucketTotal)
}

func TestBuild_CustomOptions(t *testing.T) {
	opts := Options{
		Thresholds: Thresholds{ModerateMS: 10, SlowMS: 100},
		Buckets: []BucketDef{
			{Label: "fast", LoMS: 0, HiMS: 9},
			{Label: "rest", LoMS: 10, HiMS: UnboundedMS},
		},
		BarWidth: 10,
	}

	rep := Build(makeEntries("t-0", 5, 50), opts)

	require.Len(t, rep.Distribution, 2)
	assert.Equal(t, 1, rep.Distribution[0].Count)
	assert.Equal(t, 1, rep.Distribution[1].Count)
	assert.Equal(t, SeverityOK, rep.Entries[1].Severity)
	assert.Equal(t, SeverityModerate, rep.Entries[0].Severity)
}
