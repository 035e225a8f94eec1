package stats

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"eann/internal/model"
)

// WriteGenerationsCSV writes a header row followed by one row per
// generation.
func WriteGenerationsCSV(w io.Writer, rows []model.GenerationDiagnostics) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing generations: %w", err)
	}
	return nil
}

func ReadGenerationsCSV(r io.Reader) ([]model.GenerationDiagnostics, error) {
	var rows []model.GenerationDiagnostics
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("reading generations: %w", err)
	}
	return rows, nil
}

// GenerationWriter streams diagnostics as they are produced, writing the
// header only with the first row.
type GenerationWriter struct {
	w             io.Writer
	headerWritten bool
}

func NewGenerationWriter(w io.Writer) *GenerationWriter {
	return &GenerationWriter{w: w}
}

func (gw *GenerationWriter) Write(diagnostics model.GenerationDiagnostics) error {
	records := []model.GenerationDiagnostics{diagnostics}

	if !gw.headerWritten {
		if err := gocsv.Marshal(records, gw.w); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
		gw.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, gw.w); err != nil {
		return fmt.Errorf("writing generation: %w", err)
	}
	return nil
}
