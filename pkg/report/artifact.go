// Package report wraps an analysis result into a report artifact and
// renders it. The analyzer output stays renderer-agnostic; everything
// presentation-adjacent (run metadata, host info, serialization) lives
// here.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/ethpandaops/segmentoor/pkg/analyzer"
)

// Meta describes a single report generation run. It is kept out of
// analyzer.Report so the analysis itself stays deterministic.
type Meta struct {
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	Lines       int       `json:"lines"`
	Matched     int       `json:"matched"`
	Skipped     int       `json:"skipped"`
	Host        *HostInfo `json:"host,omitempty"`
}

// HostInfo identifies the machine the report was generated on.
type HostInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version,omitempty"`
	KernelVersion   string `json:"kernel_version,omitempty"`
	Arch            string `json:"arch,omitempty"`
}

// CollectHostInfo gathers host metadata. Best-effort: returns nil when
// the information is unavailable.
func CollectHostInfo() *HostInfo {
	info, err := host.Info()
	if err != nil {
		return nil
	}

	return &HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Arch:            info.KernelArch,
	}
}

// Artifact is the complete report file content.
type Artifact struct {
	Meta   Meta             `json:"meta"`
	Report *analyzer.Report `json:"report"`
}

// WriteJSON writes the artifact as indented JSON to the given path.
func WriteJSON(path string, artifact *Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}

	return nil
}
