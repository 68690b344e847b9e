// Package store provides durable persistence for the resume document: a
// single named snapshot slot with debounced writes, tolerant restore, and
// explicit reset.
package store

import (
	"context"
	"errors"
)

// DefaultSlot is the snapshot slot name used by the editor, matching the
// key the original storage used.
const DefaultSlot = "resume-data"

// ErrNotFound reports that the snapshot slot holds no data.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a single named key-value slot holding the serialized resume
// document. It is the only resource shared across sessions; last writer
// wins and no cross-session locking is provided.
type Snapshot interface {
	// Load reads the current snapshot bytes, or ErrNotFound when the slot
	// is empty.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the snapshot contents.
	Save(ctx context.Context, data []byte) error
	// Delete erases the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}
