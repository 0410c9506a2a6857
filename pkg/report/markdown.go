package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"

	"github.com/ethpandaops/segmentoor/pkg/analyzer"
)

// Markdown renders the artifact as a markdown summary. topN caps the
// ranked entry table; 0 means all entries. The partition, dashboard and
// distribution sections are always complete.
func Markdown(artifact *Artifact, topN int) string {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "# Segment Roll Report: %s\n\n", artifact.Meta.Source)

	writeMeta(sb, &artifact.Meta)
	writeDashboard(sb, artifact.Report.Global)
	writeSlowest(sb, artifact.Report.Global)
	writePartitions(sb, artifact.Report.Partitions)
	writeEntries(sb, artifact.Report.Entries, topN)
	writeDistribution(sb, artifact.Report.Distribution)

	return sb.String()
}

func writeMeta(sb *strings.Builder, meta *Meta) {
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|---|---|\n")
	fmt.Fprintf(sb, "| Generated | %s |\n",
		meta.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(sb, "| Lines read | %d |\n", meta.Lines)
	fmt.Fprintf(sb, "| Matched | %d |\n", meta.Matched)
	fmt.Fprintf(sb, "| Skipped | %d |\n", meta.Skipped)

	if meta.Host != nil && meta.Host.Hostname != "" {
		fmt.Fprintf(sb, "| Host | %s |\n", meta.Host.Hostname)
	}

	sb.WriteByte('\n')
}

func writeDashboard(sb *strings.Builder, g *analyzer.GlobalStats) {
	if g == nil {
		return
	}

	sb.WriteString("## Dashboard\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|---|---|\n")
	fmt.Fprintf(sb, "| Total Roll Events | %d |\n", g.Events)
	fmt.Fprintf(sb, "| Unique Partitions | %d |\n", g.Partitions)
	fmt.Fprintf(sb, "| Time Range | %s to %s (%s) |\n",
		g.From.Format("2006-01-02 15:04:05"),
		g.To.Format("2006-01-02 15:04:05"),
		units.HumanDuration(g.To.Sub(g.From)))
	fmt.Fprintf(sb, "| Minimum | %d ms |\n", g.MinMS)
	fmt.Fprintf(sb, "| Maximum | %d ms |\n", g.MaxMS)
	fmt.Fprintf(sb, "| Average | %.1f ms |\n", g.AverageMS)
	fmt.Fprintf(sb, "| Median | %d ms |\n", g.MedianMS)
	fmt.Fprintf(sb, "| P95 | %d ms |\n", g.P95MS)
	fmt.Fprintf(sb, "| P99 | %d ms |\n", g.P99MS)
	fmt.Fprintf(sb, "| Total Roll Time | %d ms (%.2f sec) |\n",
		g.TotalMS, float64(g.TotalMS)/1000)
	fmt.Fprintf(sb, "| OK | %d |\n", g.SeverityCounts[analyzer.SeverityOK])
	fmt.Fprintf(sb, "| MODERATE | %d |\n", g.SeverityCounts[analyzer.SeverityModerate])
	fmt.Fprintf(sb, "| SLOW | %d |\n", g.SeverityCounts[analyzer.SeveritySlow])
	sb.WriteByte('\n')
}

func writeSlowest(sb *strings.Builder, g *analyzer.GlobalStats) {
	if g == nil || g.Slowest == nil {
		return
	}

	s := g.Slowest

	sb.WriteString("## Slowest Roll\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|---|---|\n")
	fmt.Fprintf(sb, "| Partition | `%s` |\n", s.Partition)
	fmt.Fprintf(sb, "| Duration | %d ms (%.2f sec) |\n",
		s.DurationMS, float64(s.DurationMS)/1000)
	fmt.Fprintf(sb, "| Offset | %d |\n", s.Offset)
	fmt.Fprintf(sb, "| When | %s |\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	sb.WriteByte('\n')
}

func writePartitions(sb *strings.Builder, partitions []*analyzer.PartitionStats) {
	if len(partitions) == 0 {
		return
	}

	sb.WriteString("## Partitions by Max Roll Duration\n\n")
	sb.WriteString("| Rank | Partition | Rolls | Max (ms) | Min (ms) | Avg (ms) | Median (ms) | Total (ms) | Status |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")

	for _, p := range partitions {
		fmt.Fprintf(sb, "| %d | `%s` | %d | %d | %d | %.1f | %d | %d | %s |\n",
			p.Rank, p.Partition, p.Count, p.MaxMS, p.MinMS,
			p.AverageMS, p.MedianMS, p.TotalMS, p.Severity)
	}

	sb.WriteByte('\n')
}

func writeEntries(sb *strings.Builder, entries []analyzer.RankedEntry, topN int) {
	if len(entries) == 0 {
		return
	}

	shown := entries
	if topN > 0 && topN < len(entries) {
		shown = entries[:topN]
	}

	if len(shown) < len(entries) {
		fmt.Fprintf(sb, "## Rolled Segments by Duration (top %d of %d)\n\n",
			len(shown), len(entries))
	} else {
		sb.WriteString("## Rolled Segments by Duration\n\n")
	}

	sb.WriteString("| Rank | Partition | Duration (ms) | Duration (sec) | Offset | Date | Time | Status |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|\n")

	for _, e := range shown {
		fmt.Fprintf(sb, "| %d | `%s` | %d | %.3f | %d | %s | %s | %s |\n",
			e.Rank, e.Partition, e.DurationMS, float64(e.DurationMS)/1000,
			e.Offset,
			e.Timestamp.Format("2006-01-02"),
			e.Timestamp.Format("15:04:05"),
			e.Severity)
	}

	sb.WriteByte('\n')
}

func writeDistribution(sb *strings.Builder, buckets []analyzer.BucketCount) {
	if len(buckets) == 0 {
		return
	}

	sb.WriteString("## Duration Distribution\n\n")
	sb.WriteString("| Range | Count | Percentage | Visual |\n")
	sb.WriteString("|---|---|---|---|\n")

	for _, b := range buckets {
		fmt.Fprintf(sb, "| %s | %d | %.1f%% | %s |\n",
			b.Label, b.Count, b.Percentage, strings.Repeat("█", b.Weight))
	}

	sb.WriteByte('\n')
}

// WriteMarkdown renders the artifact and writes it to the given path.
func WriteMarkdown(path string, artifact *Artifact, topN int) error {
	if err := os.WriteFile(path, []byte(Markdown(artifact, topN)), 0644); err != nil {
		return fmt.Errorf("writing markdown summary: %w", err)
	}

	return nil
}
