// Package store persists option values keyed by the classifier's
// (section, name) pair. Values travel as type-tagged JSON records; the engine
// rejects a restore whose tag does not match the target option, so a stale or
// corrupt book never silently coerces a value.
package store

import (
	"context"
	"encoding/json"
	"time"

	options "github.com/goliatone/go-appoptions"
)

// Ref identifies one persisted option value.
type Ref struct {
	Section string
	Name    string
}

// Record is the persisted form of one option value.
type Record struct {
	Type      options.StorageType `json:"type"`
	Value     json.RawMessage     `json:"value"`
	UpdatedAt time.Time           `json:"updated_at,omitempty"`
}

// Store loads and saves option records. Implementations must treat Delete of
// a missing ref as a no-op.
type Store interface {
	Save(ctx context.Context, ref Ref, record Record) error
	Load(ctx context.Context, ref Ref) (Record, bool, error)
	Delete(ctx context.Context, ref Ref) error
	List(ctx context.Context) ([]Ref, error)
}
