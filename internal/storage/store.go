package storage

import (
	"context"
	"time"

	"jrewrite/internal/semantic"
)

// Store combines type index persistence and the run cache.
type Store interface {
	TypeStore
	RunCache
	Close() error
}

// TypeStore persists the cross-unit type index between runs.
type TypeStore interface {
	// SaveTypes replaces the stored declarations with types.
	SaveTypes(ctx context.Context, types []semantic.TypeInfo) error

	// LoadTypes returns every stored declaration.
	LoadTypes(ctx context.Context) ([]semantic.TypeInfo, error)

	// FindTypesByFile returns the declarations that originate in one file.
	FindTypesByFile(ctx context.Context, path string) ([]semantic.TypeInfo, error)
}

// RunCache remembers which units a recipe left unchanged, so that unchanged
// content can be skipped next time.
type RunCache interface {
	// RecordRun upserts the outcome of one recipe on one unit.
	RecordRun(ctx context.Context, rec RunRecord) error

	// LookupRun finds the outcome recorded for the same content and recipe.
	LookupRun(ctx context.Context, path, contentHash, fingerprint string) (*RunRecord, error)

	// DeleteRuns forgets every outcome recorded for paths.
	DeleteRuns(ctx context.Context, paths []string) error
}

// RunRecord is the cached outcome of applying a recipe to a unit.
type RunRecord struct {
	Path        string    `json:"path"`
	ContentHash string    `json:"contentHash"`
	Fingerprint string    `json:"fingerprint"`
	Changed     bool      `json:"changed"`
	Edits       int       `json:"edits"`
	Passes      []string  `json:"passes,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}
