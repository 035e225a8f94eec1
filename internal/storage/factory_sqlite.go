//go:build sqlite

package storage

// DefaultStoreKind is the backend the CLI uses when none is configured.
func DefaultStoreKind() string {
	return "sqlite"
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}
