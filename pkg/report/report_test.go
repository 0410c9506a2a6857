package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/segmentoor/pkg/analyzer"
	"github.com/ethpandaops/segmentoor/pkg/parser"
)

func testArtifact(t *testing.T) *Artifact {
	t.Helper()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	durations := []int64{5, 1500, 50, 1200, 900}

	entries := make([]parser.Entry, len(durations))
	for i, d := range durations {
		entries[i] = parser.Entry{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Partition:  "orders-0",
			Dir:        "/data",
			Offset:     int64(i),
			DurationMS: d,
		}
	}

	return &Artifact{
		Meta: Meta{
			GeneratedAt: base.Add(time.Hour),
			Source:      "server.log",
			Lines:       10,
			Matched:     len(entries),
			Skipped:     2,
		},
		Report: analyzer.Build(entries, analyzer.DefaultOptions()),
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	artifact := testArtifact(t)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(path, artifact))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Artifact
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "server.log", decoded.Meta.Source)
	assert.Equal(t, 5, decoded.Meta.Matched)
	assert.Equal(t, 2, decoded.Meta.Skipped)

	require.NotNil(t, decoded.Report.Global)
	assert.Equal(t, int64(1500), decoded.Report.Global.MaxMS)
	assert.Len(t, decoded.Report.Entries, 5)
	assert.Equal(t, int64(1500), decoded.Report.Entries[0].DurationMS)
}

func TestWriteJSON_BadPath(t *testing.T) {
	err := WriteJSON(filepath.Join(t.TempDir(), "missing", "report.json"), testArtifact(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing report file")
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(testArtifact(t), 0)

	assert.Contains(t, md, "# Segment Roll Report: server.log")
	assert.Contains(t, md, "## Dashboard")
	assert.Contains(t, md, "## Slowest Roll")
	assert.Contains(t, md, "## Partitions by Max Roll Duration")
	assert.Contains(t, md, "## Rolled Segments by Duration")
	assert.Contains(t, md, "## Duration Distribution")

	assert.Contains(t, md, "| Total Roll Events | 5 |")
	assert.Contains(t, md, "| Average | 731.0 ms |")
	assert.Contains(t, md, "| Median | 900 ms |")
	assert.Contains(t, md, "| Skipped | 2 |")
	assert.Contains(t, md, "`orders-0`")
}

func TestMarkdown_TopNCapsEntries(t *testing.T) {
	md := Markdown(testArtifact(t), 2)

	assert.Contains(t, md, "## Rolled Segments by Duration (top 2 of 5)")
	// Rank 3 must not appear in the ranked entry table rows.
	assert.Contains(t, md, "| 1 | `orders-0` | 1500 |")
	assert.Contains(t, md, "| 2 | `orders-0` | 1200 |")
	assert.NotContains(t, md, "| 3 | `orders-0` | 900 |")
}

func TestMarkdown_DistributionBars(t *testing.T) {
	md := Markdown(testArtifact(t), 0)

	// Two entries land in 1001-5000; that bucket carries the widest
	// bar of the default width.
	assert.Contains(t, md, strings.Repeat("█", analyzer.DefaultBarWidth))
}

func TestMarkdown_EmptyReport(t *testing.T) {
	artifact := &Artifact{
		Meta:   Meta{Source: "server.log"},
		Report: analyzer.Build(nil, analyzer.DefaultOptions()),
	}

	md := Markdown(artifact, 0)

	assert.Contains(t, md, "# Segment Roll Report: server.log")
	assert.NotContains(t, md, "## Dashboard")
	assert.NotContains(t, md, "## Slowest Roll")
	assert.Contains(t, md, "## Duration Distribution")
}

func TestCollectHostInfo(t *testing.T) {
	info := CollectHostInfo()
	if info == nil {
		t.Skip("host info not available")
	}

	assert.NotEmpty(t, info.Hostname)
}
