package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskcal/internal/domain"
)

// Format identifies an import or export encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatCSV, FormatTSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidFormat, s)
}

// Structured reports whether f encodes a whole Bundle.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Delimiter returns the field separator of a tabular format.
func (f Format) Delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// Bundle is the full exportable data set.
type Bundle struct {
	ExportedAt  time.Time      `json:"exportedAt" yaml:"exportedAt"`
	WeeklyGoals domain.Goals   `json:"weeklyGoals" yaml:"weeklyGoals"`
	DailyGoals  domain.Goals   `json:"dailyGoals" yaml:"dailyGoals"`
	Events      []*domain.Task `json:"events" yaml:"events"`
}

// EncodeBundle serializes b in a structured format.
func EncodeBundle(b *Bundle, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json bundle: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return nil, fmt.Errorf("encode yaml bundle: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml bundle: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q is not a structured format", domain.ErrInvalidFormat, f)
}

// DecodeBundle parses a structured bundle and validates every task.
// Missing collections decode as empty.
func DecodeBundle(data []byte, f Format) (*Bundle, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.ErrEmptyFile
	}

	var b Bundle
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("%w: decode json bundle: %w", domain.ErrInvalidFormat, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("%w: decode yaml bundle: %w", domain.ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q is not a structured format", domain.ErrInvalidFormat, f)
	}

	if b.Events == nil {
		b.Events = []*domain.Task{}
	}
	b.WeeklyGoals = b.WeeklyGoals.Clone()
	b.DailyGoals = b.DailyGoals.Clone()
	for _, t := range b.Events {
		if t != nil && t.Comments == nil {
			t.Comments = []domain.Comment{}
		}
	}
	if err := domain.ValidateTasks(b.Events); err != nil {
		return nil, fmt.Errorf("validate bundle: %w", err)
	}
	return &b, nil
}
