package storage

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"eann/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	generations map[string][]model.GenerationDiagnostics
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.generations = make(map[string][]model.GenerationDiagnostics)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return model.RunRecord{}, false, nil
	}
	return copyRun(run), true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, copyRun(run))
	}
	slices.SortFunc(runs, compareRuns)
	return runs, nil
}

func (s *MemoryStore) AppendGeneration(_ context.Context, runID string, diagnostics model.GenerationDiagnostics) error {
	if runID == "" {
		return errors.New("run id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	history := s.generations[runID]
	// a repeated generation replaces the earlier row
	if i := slices.IndexFunc(history, func(d model.GenerationDiagnostics) bool {
		return d.Generation == diagnostics.Generation
	}); i >= 0 {
		history[i] = diagnostics
		return nil
	}
	history = append(history, diagnostics)
	slices.SortFunc(history, func(a, b model.GenerationDiagnostics) int {
		return cmp.Compare(a.Generation, b.Generation)
	})
	s.generations[runID] = history
	return nil
}

func (s *MemoryStore) GetGenerations(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.generations[runID]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(history), true, nil
}

func copyRun(run model.RunRecord) model.RunRecord {
	run.Topology = slices.Clone(run.Topology)
	run.BestWeights = slices.Clone(run.BestWeights)
	run.HoldoutEvaluations = maps.Clone(run.HoldoutEvaluations)
	return run
}

func compareRuns(a, b model.RunRecord) int {
	if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
