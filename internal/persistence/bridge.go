// Package persistence serialises the itinerary snapshot into a single
// key/value slot and rehydrates it at startup.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/geomingle/internal/db"
	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/repository"
)

// StorageKey is the slot holding the serialised snapshot.
const StorageKey = "geomingle-itineraries"

// Bridge writes snapshots to durable storage. Failures are logged and
// swallowed: the in-memory store stays authoritative for the session.
type Bridge struct {
	uow    db.UnitOfWork
	slots  func(db.DBTX) repository.SlotRepo
	reader repository.SlotRepo
	key    string
	logger *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(b *Bridge) { b.key = key }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBridge creates a Bridge storing into the slots table of database.
func NewBridge(database db.DBTX, uow db.UnitOfWork, opts ...Option) *Bridge {
	b := &Bridge{
		uow: uow,
		slots: func(tx db.DBTX) repository.SlotRepo {
			return repository.NewSQLiteSlotRepo(tx)
		},
		reader: repository.NewSQLiteSlotRepo(database),
		key:    StorageKey,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// document is the persisted layout: { "itineraries": [...] }.
type document struct {
	Itineraries []domain.Itinerary `json:"itineraries"`
}

// Save persists the snapshot. It never returns an error to the caller.
func (b *Bridge) Save(ctx context.Context, s domain.Snapshot) {
	if err := b.save(ctx, s); err != nil {
		b.logger.ErrorContext(ctx, "persist_snapshot_failed", "key", b.key, "error", err.Error())
	}
}

func (b *Bridge) save(ctx context.Context, s domain.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	return b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := b.slots(tx).Put(ctx, b.key, string(data))
		return err
	})
}

// Load returns the persisted snapshot. ok is false when the key is missing
// or the stored document cannot be parsed.
func (b *Bridge) Load(ctx context.Context) (domain.Snapshot, bool) {
	slot, err := b.reader.Get(ctx, b.key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			b.logger.ErrorContext(ctx, "load_snapshot_failed", "key", b.key, "error", err.Error())
		}
		return domain.Snapshot{}, false
	}
	s, err := Decode([]byte(slot.Value))
	if err != nil {
		b.logger.WarnContext(ctx, "discarding_corrupt_snapshot", "key", b.key, "revision", slot.Revision, "error", err.Error())
		return domain.Snapshot{}, false
	}
	return s, true
}

// OnTransition flushes every store transition.
func (b *Bridge) OnTransition(ctx context.Context, _ string, next domain.Snapshot) {
	b.Save(ctx, next)
}

// Encode serialises a snapshot into the persisted JSON layout.
func Encode(s domain.Snapshot) ([]byte, error) {
	doc := document{Itineraries: s.Itineraries}
	if doc.Itineraries == nil {
		doc.Itineraries = []domain.Itinerary{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// ErrMalformed is returned by Decode for data that is not a snapshot document.
var ErrMalformed = errors.New("malformed snapshot document")

// Decode parses the persisted layout. A bare JSON array of itineraries, as
// written by earlier versions, is accepted too. The result is normalised.
func Decode(data []byte) (domain.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err == nil {
		if doc.Itineraries == nil {
			return domain.Snapshot{}, fmt.Errorf("%w: missing itineraries", ErrMalformed)
		}
		return domain.Snapshot{Itineraries: doc.Itineraries}.Normalize(), nil
	}

	var legacy []domain.Itinerary
	if err := json.Unmarshal(data, &legacy); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if legacy == nil {
		return domain.Snapshot{}, fmt.Errorf("%w: null document", ErrMalformed)
	}
	return domain.Snapshot{Itineraries: legacy}.Normalize(), nil
}
