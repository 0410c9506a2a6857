package parser

import "time"

// Entry is one parsed segment roll event from a broker log.
// Entries are value types and are never mutated after parsing.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Partition  string    `json:"partition"`
	Dir        string    `json:"dir"`
	Offset     int64     `json:"offset"`
	DurationMS int64     `json:"duration_ms"`
}

// Result holds the outcome of parsing a log stream.
type Result struct {
	// Entries contains the matched events in input order.
	Entries []Entry

	// Lines is the total number of lines read.
	Lines int

	// Skipped counts lines that contained the event marker but did not
	// satisfy the full line grammar. Those lines are dropped without
	// failing the run; the count makes the drop observable.
	Skipped int
}
