package storage

import (
	"context"

	"github.com/google/uuid"

	"eann/internal/model"
)

// Store persists run summaries and per-generation diagnostics. Populations
// are never stored.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns runs ordered by start time, then id.
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	AppendGeneration(ctx context.Context, runID string, diagnostics model.GenerationDiagnostics) error
	// GetGenerations returns a run's diagnostics ordered by generation.
	GetGenerations(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}

// NewRunID returns a random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CurrentVersion stamps records written by this build.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}
