// Package findings holds the domain model for container image vulnerability
// findings and the pure filter/aggregate operations the report pipeline is
// built on. Nothing in this package performs I/O.
package findings

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies the risk of a single finding. The zero value is
// SeverityUnknown so unrecognized scanner output never gains weight.
type Severity int

const (
	// SeverityUnknown covers findings without a recognized severity rating.
	SeverityUnknown Severity = iota
	// SeverityLow identifies low-risk findings.
	SeverityLow
	// SeverityMedium identifies medium-risk findings.
	SeverityMedium
	// SeverityHigh identifies high-risk findings.
	SeverityHigh
	// SeverityCritical identifies the most severe findings.
	SeverityCritical
)

// Severities returns all severity levels in display order, highest first.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityUnknown}
}

// String returns the canonical upper-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a string identifier into a Severity value.
// It is strict: names outside the enum are rejected so configuration
// mistakes fail fast instead of silently matching nothing.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	case "UNKNOWN":
		return SeverityUnknown, nil
	default:
		return SeverityUnknown, fmt.Errorf("unsupported severity %q", raw)
	}
}

// NormalizeSeverity maps a raw scanner severity onto the enum. Values the
// scanner emits that we do not recognize become SeverityUnknown; a single
// bad record must not block reporting on the rest.
func NormalizeSeverity(raw string) Severity {
	s, err := ParseSeverity(raw)
	if err != nil {
		return SeverityUnknown
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It is lenient because
// it sits on the wire-decoding path.
func (s *Severity) UnmarshalText(text []byte) error {
	*s = NormalizeSeverity(string(text))
	return nil
}

// Finding is one vulnerability instance tied to a package within a scanned image.
type Finding struct {
	ID               string   `json:"id"`
	PackageName      string   `json:"package_name"`
	InstalledVersion string   `json:"installed_version"`
	FixedVersion     string   `json:"fixed_version,omitempty"`
	Severity         Severity `json:"severity"`
	Title            string   `json:"title,omitempty"`
	Description      string   `json:"description,omitempty"`
	Target           string   `json:"target"`
	PrimaryURL       string   `json:"primary_url,omitempty"`
	References       []string `json:"references,omitempty"`
	CweIDs           []string `json:"cwe_ids,omitempty"`
}

// Fixed reports whether a remediated package version is available.
func (f Finding) Fixed() bool {
	return f.FixedVersion != ""
}

// ScanResult is the complete scanner output for one image reference.
// It is owned by a single pipeline run and immutable once produced; the
// finding order is whatever the underlying scan emitted.
type ScanResult struct {
	ImageRef  string    `json:"image_ref"`
	Scanner   string    `json:"scanner,omitempty"`
	ScannedAt time.Time `json:"scanned_at"`
	Findings  []Finding `json:"findings"`
}
