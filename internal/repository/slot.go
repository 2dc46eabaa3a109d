package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a slot key has never been written or was deleted.
var ErrNotFound = errors.New("slot not found")

// Slot is one entry of the flat key/value store.
type Slot struct {
	Key       string
	Value     string
	Revision  int64
	UpdatedAt time.Time
}

// SlotRepo is a durable flat key/value store. Put overwrites the whole value
// and returns the new revision.
type SlotRepo interface {
	Get(ctx context.Context, key string) (*Slot, error)
	Put(ctx context.Context, key, value string) (int64, error)
	Delete(ctx context.Context, key string) error
}
