package main

import (
	"fmt"
	"time"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/segmentoor/pkg/analyzer"
	"github.com/ethpandaops/segmentoor/pkg/config"
	"github.com/ethpandaops/segmentoor/pkg/parser"
	"github.com/ethpandaops/segmentoor/pkg/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a broker log and generate the report",
	Long: `Parse a Kafka broker log, aggregate the segment roll events and
write the report artifact. Exits non-zero when the input cannot be read
or contains no matching entries.`,
	RunE: runAnalyze,
}

var (
	inputPath       string
	outputPath      string
	markdownPath    string
	partitionFilter string
	topEntries      int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&inputPath, "input", config.DefaultInput,
		"broker log file to analyze")
	analyzeCmd.Flags().StringVar(&outputPath, "output", "",
		"report output path (default from config: "+config.DefaultOutput+")")
	analyzeCmd.Flags().StringVar(&markdownPath, "markdown", "",
		"also write a markdown summary to this path")
	analyzeCmd.Flags().StringVar(&partitionFilter, "filter", "",
		"only include partitions matching this glob")
	analyzeCmd.Flags().IntVar(&topEntries, "top", 0,
		"cap the ranked entry table in the markdown summary (0 = all)")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.WithField("input", inputPath).Info("Parsing broker log")

	res, err := parser.ParseFile(inputPath)
	if err != nil {
		return fmt.Errorf("input not readable: %w", err)
	}

	entries := res.Entries

	if cfg.Analysis.PartitionFilter != "" {
		entries, err = filterEntries(entries, cfg.Analysis.PartitionFilter)
		if err != nil {
			return err
		}
	}

	if res.Skipped > 0 {
		log.WithField("skipped", res.Skipped).
			Warn("Lines contained the roll marker but did not match the grammar")
	}

	if len(entries) == 0 {
		return fmt.Errorf("no %q entries found in %s", parser.Marker, inputPath)
	}

	rep := analyzer.Build(entries, cfg.AnalyzerOptions())

	artifact := &report.Artifact{
		Meta: report.Meta{
			GeneratedAt: time.Now().UTC(),
			Source:      inputPath,
			Lines:       res.Lines,
			Matched:     len(entries),
			Skipped:     res.Skipped,
			Host:        report.CollectHostInfo(),
		},
		Report: rep,
	}

	if err := report.WriteJSON(cfg.Report.Output, artifact); err != nil {
		return err
	}

	if cfg.Report.Markdown != "" {
		if err := report.WriteMarkdown(
			cfg.Report.Markdown, artifact, cfg.Analysis.TopEntries,
		); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"entries":    len(entries),
		"partitions": len(rep.Partitions),
		"skipped":    res.Skipped,
		"output":     cfg.Report.Output,
	}).Info("Report generated")

	return nil
}

// loadConfig loads the config file (or the defaults) and merges the
// analyze flags on top. Flags win over config values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		cfg = loaded
	}

	if outputPath != "" {
		cfg.Report.Output = outputPath
	}

	if markdownPath != "" {
		cfg.Report.Markdown = markdownPath
	}

	if partitionFilter != "" {
		cfg.Analysis.PartitionFilter = partitionFilter
	}

	if cmd.Flags().Changed("top") {
		cfg.Analysis.TopEntries = topEntries
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// filterEntries drops entries whose partition does not match the glob.
func filterEntries(entries []parser.Entry, pattern string) ([]parser.Entry, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid partition filter %q: %w", pattern, err)
	}

	kept := make([]parser.Entry, 0, len(entries))

	for _, e := range entries {
		if g.Match(e.Partition) {
			kept = append(kept, e)
		}
	}

	return kept, nil
}
