package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord describes one evolution run. Populations are never persisted;
// a run only keeps its configuration summary and the best weights found.
type RunRecord struct {
	VersionedRecord
	ID             string    `json:"id"`
	Scape          string    `json:"scape"`
	Topology       []int     `json:"topology"`
	PopulationSize int       `json:"population_size"`
	Seed           int64     `json:"seed"`
	Generations    int       `json:"generations"`
	BestEvaluation float64   `json:"best_evaluation"`
	BestWeights    []float64 `json:"best_weights,omitempty"`
	// HoldoutEvaluations scores BestWeights on the validation and test
	// windows of scapes that have them, keyed by mode.
	HoldoutEvaluations map[string]float64 `json:"holdout_evaluations,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at,omitempty"`
}

// GenerationDiagnostics summarizes one scored generation.
type GenerationDiagnostics struct {
	Generation     int     `json:"generation" csv:"generation"`
	BestEvaluation float64 `json:"best_evaluation" csv:"best_evaluation"`
	MeanEvaluation float64 `json:"mean_evaluation" csv:"mean_evaluation"`
	MinEvaluation  float64 `json:"min_evaluation" csv:"min_evaluation"`
	StdEvaluation  float64 `json:"std_evaluation" csv:"std_evaluation"`
	BestFitness    float64 `json:"best_fitness" csv:"best_fitness"`
	MinFitness     float64 `json:"min_fitness" csv:"min_fitness"`
}
