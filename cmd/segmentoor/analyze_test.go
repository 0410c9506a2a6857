package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/segmentoor/pkg/parser"
	"github.com/ethpandaops/segmentoor/pkg/report"
)

const rollLine = `[2024-01-15 10:23:45,123] INFO [MergedLog partition=orders-0, dir=/data] Rolled new log segment at offset 100 in 250 ms.`

// setupAnalyze resets the command flag state and points the analyze
// command at a fresh temp workspace.
func setupAnalyze(t *testing.T, logContent string) (input, output string) {
	t.Helper()

	log = logrus.New()
	log.SetOutput(os.Stdout)

	dir := t.TempDir()
	input = filepath.Join(dir, "server.log")
	output = filepath.Join(dir, "report.json")

	require.NoError(t, os.WriteFile(input, []byte(logContent), 0o644))

	cfgFile = ""
	inputPath = input
	outputPath = output
	markdownPath = ""
	partitionFilter = ""
	topEntries = 0

	return input, output
}

func TestRunAnalyze_WritesReport(t *testing.T) {
	_, output := setupAnalyze(t, rollLine+"\n"+rollLine+"\n")

	require.NoError(t, runAnalyze(analyzeCmd, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var artifact report.Artifact
	require.NoError(t, json.Unmarshal(data, &artifact))

	assert.Equal(t, 2, artifact.Meta.Matched)
	assert.Len(t, artifact.Report.Entries, 2)
	require.NotNil(t, artifact.Report.Global)
	assert.Equal(t, int64(250), artifact.Report.Global.MaxMS)
}

func TestRunAnalyze_MarkdownSummary(t *testing.T) {
	_, output := setupAnalyze(t, rollLine+"\n")
	markdownPath = filepath.Join(filepath.Dir(output), "summary.md")

	require.NoError(t, runAnalyze(analyzeCmd, nil))

	data, err := os.ReadFile(markdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Dashboard")
}

func TestRunAnalyze_MissingInput(t *testing.T) {
	_, output := setupAnalyze(t, rollLine+"\n")
	inputPath = filepath.Join(t.TempDir(), "nope.log")

	err := runAnalyze(analyzeCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input not readable")
	assert.NoFileExists(t, output)
}

func TestRunAnalyze_NoMatchingEntries(t *testing.T) {
	_, output := setupAnalyze(t, "just some broker noise\nanother line\n")

	err := runAnalyze(analyzeCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no")
	assert.Contains(t, err.Error(), parser.Marker)
	assert.NoFileExists(t, output)
}

func TestRunAnalyze_FilterExcludesEverything(t *testing.T) {
	_, output := setupAnalyze(t, rollLine+"\n")
	partitionFilter = "payments-*"

	err := runAnalyze(analyzeCmd, nil)
	require.Error(t, err)
	assert.NoFileExists(t, output)
}

func TestFilterEntries(t *testing.T) {
	entries := []parser.Entry{
		{Partition: "orders-0"},
		{Partition: "payments-1"},
		{Partition: "orders-7"},
	}

	kept, err := filterEntries(entries, "orders-*")
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "orders-0", kept[0].Partition)
	assert.Equal(t, "orders-7", kept[1].Partition)
}

func TestFilterEntries_BadPattern(t *testing.T) {
	_, err := filterEntries(nil, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid partition filter")
}
