// Package report saves a YAML summary of a conversion next to its output.
package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/nconklindev/codeplug/internal/types"
)

// Report is the on-disk form of a conversion result.
type Report struct {
	Mode           string    `yaml:"mode"`
	Input          string    `yaml:"input"`
	Output         string    `yaml:"output"`
	SourceSheet    string    `yaml:"source_sheet"`
	TargetSheet    string    `yaml:"target_sheet"`
	Rows           int       `yaml:"rows"`
	Columns        int       `yaml:"columns"`
	Headers        []string  `yaml:"headers"`
	ColumnsAdded   []string  `yaml:"columns_added,omitempty"`
	ColumnsRemoved []string  `yaml:"columns_removed,omitempty"`
	Timestamp      time.Time `yaml:"timestamp"`
}

// New builds a report from a result, stamped with now.
func New(res *types.ConversionResult, now time.Time) Report {
	return Report{
		Mode:           string(res.Mode),
		Input:          res.InputFile,
		Output:         res.OutputFile,
		SourceSheet:    res.SourceSheet,
		TargetSheet:    res.TargetSheet,
		Rows:           res.RowsProcessed,
		Columns:        len(res.Headers),
		Headers:        res.Headers,
		ColumnsAdded:   res.ColumnsAdded,
		ColumnsRemoved: res.ColumnsRemoved,
		Timestamp:      now.UTC(),
	}
}

// Write saves r as YAML at path.
func Write(path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}
