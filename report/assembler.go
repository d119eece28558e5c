package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Format selects a report output backend.
type Format string

const (
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat classifies a format whose backend failed or is not
// known. Other requested formats for the same document still succeed.
var ErrUnsupportedFormat = errors.New("unsupported report format")

type UnsupportedFormatError struct {
	Format Format
	Err    error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format %s unavailable: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("format %s unavailable", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// Artifact is one emitted output file.
type Artifact struct {
	Path   string
	Format Format
}

// Assembler writes a document's artifacts into an output directory.
type Assembler struct {
	OutputDir string
	Now       func() time.Time // defaults to time.Now
}

func NewAssembler(outputDir string) *Assembler {
	return &Assembler{OutputDir: outputDir, Now: time.Now}
}

// Emit renders the document in every requested format. A backend failure is
// recorded and skipped; the remaining formats still produce artifacts. The
// returned error slice is the per-format failure list, not a fatal condition.
func (a *Assembler) Emit(ctx context.Context, doc *Document, formats []Format) ([]Artifact, []error) {
	var artifacts []Artifact
	var failures []error

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			return artifacts, failures
		}

		path, err := a.emitOne(doc, format)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		artifacts = append(artifacts, Artifact{Path: path, Format: format})
	}

	return artifacts, failures
}

func (a *Assembler) emitOne(doc *Document, format Format) (string, error) {
	switch format {
	case FormatHTML:
		path := filepath.Join(a.OutputDir, doc.Prefix+".html")
		content, err := RenderHTML(doc, a.Now())
		if err != nil {
			return "", &UnsupportedFormatError{Format: format, Err: err}
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return path, nil

	case FormatXLSX:
		path := filepath.Join(a.OutputDir, doc.Prefix+".xlsx")
		if err := RenderXLSX(doc, path); err != nil {
			return "", err
		}
		return path, nil

	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

// SummarySection folds the run's skipped items and warnings into a final
// report section so partial output is always accounted for.
func SummarySection(index int, warnings []error) Section {
	section := Section{
		Title:   "Run Warnings",
		Index:   index,
		Kind:    Tabular,
		Columns: []string{"#", "Warning"},
	}
	for i, warning := range warnings {
		section.Rows = append(section.Rows, Row{fmt.Sprintf("%d", i+1), warning.Error()})
	}
	if len(warnings) == 0 {
		section.Rows = append(section.Rows, Row{"-", "none"})
	}
	return section
}
