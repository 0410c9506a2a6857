package analyzer

// Severity is the three-tier classification of a roll duration.
type Severity string

const (
	SeverityOK       Severity = "OK"
	SeverityModerate Severity = "MODERATE"
	SeveritySlow     Severity = "SLOW"
)

// Thresholds holds the duration boundaries between severity tiers.
// They are passed in explicitly rather than read from package state so
// callers and tests control them.
type Thresholds struct {
	ModerateMS int64 `json:"moderate_ms"`
	SlowMS     int64 `json:"slow_ms"`
}

// DefaultThresholds returns the standard tier boundaries: 100ms and 1s.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ModerateMS: 100,
		SlowMS:     1000,
	}
}

// Classify maps a duration to its severity tier. It is applied both to
// individual entries and to a partition's maximum duration.
func (t Thresholds) Classify(durationMS int64) Severity {
	switch {
	case durationMS >= t.SlowMS:
		return SeveritySlow
	case durationMS >= t.ModerateMS:
		return SeverityModerate
	default:
		return SeverityOK
	}
}
