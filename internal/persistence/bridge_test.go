package persistence

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/repository"
	"github.com/alexanderramin/geomingle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBridge(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewBridge(database, testutil.NewTestUoW(database), opts...)
}

func TestBridge_RoundTrip(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()
	snap := testutil.NewScenarioSnapshot()

	b.Save(ctx, snap)
	got, ok := b.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, snap, got)
}

func TestBridge_LoadMissing(t *testing.T) {
	b := newTestBridge(t)
	_, ok := b.Load(context.Background())
	assert.False(t, ok)
}

func TestBridge_LoadCorrupt(t *testing.T) {
	database := testutil.NewTestDB(t)
	b := NewBridge(database, testutil.NewTestUoW(database))
	ctx := context.Background()

	for _, raw := range []string{`{not json`, `null`, `{}`, `42`} {
		_, err := repository.NewSQLiteSlotRepo(database).Put(ctx, StorageKey, raw)
		require.NoError(t, err)
		_, ok := b.Load(ctx)
		assert.False(t, ok, "document %q should be rejected", raw)
	}
}

func TestBridge_LoadLegacyArray(t *testing.T) {
	database := testutil.NewTestDB(t)
	b := NewBridge(database, testutil.NewTestUoW(database))
	ctx := context.Background()

	legacy := `[{"id":"default-itinerary","title":"My Custom Plan","activities":[
		{"id":"1","itineraryId":"default-itinerary","time":"7:00 PM","description":"Dinner","isCustom":true}]},
		{"id":"ai-itinerary-abc","title":"Your One Day Plan in Paris","prompt":"art","activities":[]}]`
	_, err := repository.NewSQLiteSlotRepo(database).Put(ctx, StorageKey, legacy)
	require.NoError(t, err)

	got, ok := b.Load(ctx)
	require.True(t, ok)
	require.Len(t, got.Itineraries, 2)
	assert.Equal(t, domain.KindDefault, got.Itineraries[0].Kind)
	assert.Equal(t, domain.KindGenerated, got.Itineraries[1].Kind)
	assert.Equal(t, "art", got.Itineraries[1].Prompt)
	assert.Equal(t, "Dinner", got.Itineraries[0].Activities[0].Description)
}

func TestBridge_SaveFailureIsSwallowed(t *testing.T) {
	database := testutil.NewTestDB(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	uow := &testutil.FailingUoW{DB: database, FailOn: 1, Err: errors.New("disk quota exceeded")}
	b := NewBridge(database, uow, WithLogger(logger))
	ctx := context.Background()

	assert.NotPanics(t, func() { b.Save(ctx, domain.InitialSnapshot()) })
	assert.Contains(t, logs.String(), "persist_snapshot_failed")
	assert.Contains(t, logs.String(), "disk quota exceeded")

	_, ok := b.Load(ctx)
	assert.False(t, ok, "failed write must not leave a partial slot")
}

func TestBridge_CustomKeyIsolation(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	a := NewBridge(database, uow, WithKey("a"))
	b := NewBridge(database, uow, WithKey("b"))
	ctx := context.Background()

	a.Save(ctx, testutil.NewScenarioSnapshot())
	_, ok := b.Load(ctx)
	assert.False(t, ok)
}

func TestEncode_ShapesDocument(t *testing.T) {
	data, err := Encode(domain.Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"itineraries":[]}`, string(data))

	data, err = Encode(domain.InitialSnapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"itineraries":[{"id":"default-itinerary","kind":"default","title":"My Custom Plan","activities":[]}]}`, string(data))
}
