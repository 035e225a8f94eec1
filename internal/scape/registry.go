package scape

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"eann/internal/scapeid"
)

var (
	ErrScapeExists   = errors.New("scape already registered")
	ErrScapeNotFound = errors.New("scape not found")
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Scape{}
)

func init() {
	initializeBuiltInScapes()
}

func initializeBuiltInScapes() {
	MustRegister(XORScape{})
	MustRegister(RegressionMimicScape{})
	MustRegister(CartPoleLiteScape{})
}

func Register(s Scape) error {
	if s == nil {
		return errors.New("scape is required")
	}
	name := s.Name()
	if name == "" {
		return errors.New("scape name is required")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		return fmt.Errorf("%w: %s", ErrScapeExists, name)
	}
	registry[name] = s
	return nil
}

func MustRegister(s Scape) {
	if err := Register(s); err != nil {
		panic(err)
	}
}

// Lookup accepts registered names and their aliases, such as
// "regression_mimic" or "scape_xor_sim".
func Lookup(name string) (Scape, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if s, ok := registry[name]; ok {
		return s, nil
	}
	names := make([]string, 0, len(registry))
	for registered := range registry {
		names = append(names, registered)
	}
	sort.Strings(names)
	if canonical, ok := scapeid.Match(name, names); ok {
		return registry[canonical], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrScapeNotFound, name)
}

func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetRegistryForTests() {
	registryMu.Lock()
	registry = map[string]Scape{}
	registryMu.Unlock()
	initializeBuiltInScapes()
}
