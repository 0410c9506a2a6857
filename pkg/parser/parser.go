// Package parser extracts segment roll events from Kafka broker logs.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Marker is the literal phrase every segment roll line contains. It is
// used as a cheap pre-check so the regex only runs on candidate lines.
const Marker = "Rolled new log segment at"

// maxLineSize bounds the scanner buffer. Broker log lines are short, but
// a corrupt file must not abort the run with a token-too-long error.
const maxLineSize = 1024 * 1024

// lineRe matches a complete segment roll line:
//
//	[2024-01-15 10:23:45,123] INFO [MergedLog partition=topic-0, dir=/data/kafka] Rolled new log segment at offset 4711 in 52 ms.
var lineRe = regexp.MustCompile(
	`\[(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2},\d+)\]` +
		`\s+INFO\s+` +
		`\[MergedLog\s+partition=([\w.-]+?),` +
		`\s*dir=([^\]]+)\]` +
		`\s+Rolled new log segment at offset\s+(\d+)` +
		`\s+in\s+(\d+)\s+ms\.`,
)

// ParseFile opens and parses a broker log file.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return res, nil
}

// Parse reads the stream line by line and collects every line matching
// the segment roll grammar. Lines that contain the marker but fail the
// full grammar are counted in Result.Skipped and otherwise ignored; all
// other lines are ignored silently. Only stream-level read failures are
// returned as errors.
func Parse(r io.Reader) (*Result, error) {
	res := &Result{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		res.Lines++

		line := scanner.Text()
		if !strings.Contains(line, Marker) {
			continue
		}

		// The input may contain bytes that are not valid UTF-8.
		// Substitute them instead of failing the run.
		line = strings.ToValidUTF8(line, "�")

		entry, ok := parseLine(line)
		if !ok {
			res.Skipped++

			continue
		}

		res.Entries = append(res.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning input: %w", err)
	}

	return res, nil
}

// parseLine matches a single candidate line against the full grammar.
func parseLine(line string) (Entry, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	ts, err := parseTimestamp(m[1])
	if err != nil {
		return Entry{}, false
	}

	offset, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	duration, err := strconv.ParseInt(m[5], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Timestamp:  ts,
		Partition:  m[2],
		Dir:        strings.TrimSpace(m[3]),
		Offset:     offset,
		DurationMS: duration,
	}, true
}

// parseTimestamp parses a broker log timestamp of the form
// "2006-01-02 15:04:05,000". The digits after the comma are a fraction
// of a second; the result is truncated to millisecond precision.
func parseTimestamp(s string) (time.Time, error) {
	base, frac, ok := strings.Cut(s, ",")
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp %q: missing fraction", s)
	}

	// The grammar allows multiple spaces between date and time.
	fields := strings.Fields(base)
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("timestamp %q: malformed date/time", s)
	}

	t, err := time.Parse("2006-01-02 15:04:05", fields[0]+" "+fields[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}

	ms, err := fractionMillis(frac)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}

	return t.Add(time.Duration(ms) * time.Millisecond), nil
}

// fractionMillis converts sub-second digits to milliseconds. "1" means
// a tenth of a second, "123" is 123ms, longer fractions are truncated.
func fractionMillis(frac string) (int64, error) {
	if frac == "" {
		return 0, fmt.Errorf("empty sub-second fraction")
	}

	if len(frac) > 3 {
		frac = frac[:3]
	}

	n, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing sub-second fraction: %w", err)
	}

	for i := len(frac); i < 3; i++ {
		n *= 10
	}

	return n, nil
}
