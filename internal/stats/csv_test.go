package stats

import (
	"bytes"
	"strings"
	"testing"

	"eann/internal/model"
)

func TestWriteGenerationsCSV(t *testing.T) {
	rows := []model.GenerationDiagnostics{
		{Generation: 1, BestEvaluation: 2.5, MeanEvaluation: 1.25},
		{Generation: 2, BestEvaluation: 3, MeanEvaluation: 2},
	}
	var buf bytes.Buffer
	if err := WriteGenerationsCSV(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "generation,best_evaluation,mean_evaluation") {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	decoded, err := ReadGenerationsCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(decoded) != 2 || decoded[0].BestEvaluation != 2.5 || decoded[1].Generation != 2 {
		t.Fatalf("unexpected decoded rows: %+v", decoded)
	}
}

func TestGenerationWriterWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewGenerationWriter(&buf)
	for generation := 1; generation <= 3; generation++ {
		if err := w.Write(model.GenerationDiagnostics{Generation: generation}); err != nil {
			t.Fatalf("write generation %d: %v", generation, err)
		}
	}

	out := buf.String()
	if n := strings.Count(out, "generation,"); n != 1 {
		t.Fatalf("expected one header row, found %d in %q", n, out)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 4 {
		t.Fatalf("expected header plus three rows, got %q", out)
	}
}
