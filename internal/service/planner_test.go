package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/generation"
	"github.com/alexanderramin/geomingle/internal/geo"
	"github.com/alexanderramin/geomingle/internal/persistence"
	"github.com/alexanderramin/geomingle/internal/store"
	"github.com/alexanderramin/geomingle/internal/testutil"
	"github.com/alexanderramin/geomingle/internal/validate"
)

type plannerFixture struct {
	planner *Planner
	store   *store.Store
	bridge  *persistence.Bridge
	gen     *testutil.FakeGenerator
	photos  *testutil.FakePhotos
}

func newPlannerFixture(t *testing.T, opts ...PlannerOption) *plannerFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	bridge := persistence.NewBridge(database, testutil.NewTestUoW(database))
	st := store.New(bridge, bridge)
	st.Load(context.Background())

	f := &plannerFixture{
		store:  st,
		bridge: bridge,
		gen:    &testutil.FakeGenerator{Activities: parisProposals()},
		photos: &testutil.FakePhotos{},
	}
	opts = append([]PlannerOption{WithIDs(testutil.SeqIDs("id"))}, opts...)
	f.planner = NewPlanner(Deps{
		Store:     st,
		Validator: validate.New(domain.Clock12h),
		Generator: f.gen,
		Photos:    f.photos,
		Detector:  geo.StaticDetector("Paris"),
	}, opts...)
	return f
}

func parisProposals() []domain.ProposedActivity {
	return []domain.ProposedActivity{
		{Time: "9:00 AM", Description: "Breakfast", Location: "Café de Flore", ImageHint: "paris cafe"},
		{Time: "11:00 AM", Description: "Louvre visit", Location: "Louvre", ImageHint: "louvre pyramid"},
		{Time: "3:00 PM", Description: "Take a walk"},
	}
}

func (f *plannerFixture) persisted(t *testing.T) domain.Snapshot {
	t.Helper()
	snap, ok := f.bridge.Load(context.Background())
	require.True(t, ok)
	return snap
}

func TestPlanner_ParisScenario(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()

	dinner, err := f.planner.AddActivity(ctx, "Dinner", "7:00 PM")
	require.NoError(t, err)
	assert.True(t, dinner.IsCustom)
	assert.Equal(t, domain.DefaultItineraryID, dinner.ItineraryID)

	gen, err := f.planner.Generate(ctx, "Paris", "art and coffee")
	require.NoError(t, err)
	gen.Wait()

	snap := f.planner.Snapshot()
	require.Len(t, snap.Itineraries, 2)
	paris := snap.Itineraries[1]
	assert.Equal(t, "Your One Day Plan in Paris", paris.Title)
	assert.Equal(t, "art and coffee", paris.Prompt)
	assert.Equal(t, domain.KindGenerated, paris.Kind)
	require.Len(t, paris.Activities, 3)
	assert.Equal(t, testutil.PhotoURL("Café de Flore, Paris"), paris.Activities[0].ImageURL)
	assert.Equal(t, testutil.PhotoURL("Louvre, Paris"), paris.Activities[1].ImageURL)
	assert.Empty(t, paris.Activities[2].ImageURL, "no location, no lookup")
	assert.ElementsMatch(t, []string{"Café de Flore, Paris", "Louvre, Paris"}, f.photos.Queries())

	// Drag the Louvre visit onto the dinner card.
	louvre := paris.Activities[1]
	require.NoError(t, f.planner.Move(ctx, louvre.ID, dinner.ID))

	snap = f.planner.Snapshot()
	def, _ := snap.Itinerary(domain.DefaultItineraryID)
	require.Len(t, def.Activities, 2)
	assert.Equal(t, louvre.ID, def.Activities[0].ID)
	assert.Equal(t, domain.DefaultItineraryID, def.Activities[0].ItineraryID)
	assert.Equal(t, dinner.ID, def.Activities[1].ID)

	// Deleting the generated plan cascades and leaves the moved activity.
	require.NoError(t, f.planner.RemoveItinerary(ctx, paris.ID))
	snap = f.planner.Snapshot()
	require.Len(t, snap.Itineraries, 1)
	assert.Equal(t, 2, snap.ActivityCount())
	assert.NoError(t, snap.CheckIntegrity())

	want, err := persistence.Encode(snap)
	require.NoError(t, err)
	got, err := persistence.Encode(f.persisted(t))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestPlanner_GenerateFailureLeavesStoreUntouched(t *testing.T) {
	f := newPlannerFixture(t)
	f.gen.Err = errors.Join(generation.ErrGenerationFailed, errors.New("model offline"))
	before := f.store.Current()
	version := f.store.Version()

	gen, err := f.planner.Generate(context.Background(), "Paris", "anything")
	assert.Nil(t, gen)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.Equal(t, before, f.store.Current())
	assert.Equal(t, version, f.store.Version())
}

func TestPlanner_GenerateDetectsCity(t *testing.T) {
	f := newPlannerFixture(t)
	gen, err := f.planner.QuickPlan(context.Background(), "  ")
	require.NoError(t, err)
	gen.Wait()

	calls := f.gen.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Paris", calls[0].City)
	assert.Equal(t, generation.QuickPlanPreference, calls[0].Preference)
}

func TestPlanner_PhotoForDeletedActivityIsDiscarded(t *testing.T) {
	f := newPlannerFixture(t)
	f.photos.Gate = make(chan struct{})
	ctx := context.Background()

	gen, err := f.planner.Generate(ctx, "Paris", "art and coffee")
	require.NoError(t, err)

	// The plan is visible before any photo arrives.
	it, ok := f.planner.Snapshot().Itinerary(gen.Itinerary.ID)
	require.True(t, ok)
	require.Len(t, it.Activities, 3)

	require.NoError(t, f.planner.RemoveActivity(ctx, it.Activities[0].ID))
	close(f.photos.Gate)
	gen.Wait()

	it, _ = f.planner.Snapshot().Itinerary(gen.Itinerary.ID)
	require.Len(t, it.Activities, 2)
	assert.Equal(t, testutil.PhotoURL("Louvre, Paris"), it.Activities[0].ImageURL)
	_, found := f.planner.Snapshot().FindActivity(gen.Itinerary.Activities[0].ID)
	assert.False(t, found, "late photo must not resurrect the activity")
}

func TestPlanner_PhotosAfterItineraryDeleted(t *testing.T) {
	f := newPlannerFixture(t, WithPhotoConcurrency(1))
	f.photos.Gate = make(chan struct{})
	ctx := context.Background()

	gen, err := f.planner.Generate(ctx, "Paris", "art and coffee")
	require.NoError(t, err)
	require.NoError(t, f.planner.RemoveItinerary(ctx, gen.Itinerary.ID))
	close(f.photos.Gate)
	gen.Wait()

	snap := f.planner.Snapshot()
	assert.Len(t, snap.Itineraries, 1)
	assert.NoError(t, snap.CheckIntegrity())
}

func TestPlanner_AddActivityValidation(t *testing.T) {
	f := newPlannerFixture(t)
	before := f.store.Version()

	_, err := f.planner.AddActivity(context.Background(), "ab", "7:00 PM")
	assert.ErrorIs(t, err, validate.ErrInvalidInput)
	_, err = f.planner.AddActivity(context.Background(), "Dinner", "19:00")
	assert.ErrorIs(t, err, validate.ErrInvalidInput)

	assert.Equal(t, before, f.store.Version(), "rejected input never reaches the store")
}

func TestPlanner_AddRecreatesDefault(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()
	f.store.Replace(ctx, domain.Snapshot{Itineraries: []domain.Itinerary{}})

	act, err := f.planner.AddActivity(ctx, "Picnic", "12:00 PM")
	require.NoError(t, err)

	def, ok := f.planner.Snapshot().Itinerary(domain.DefaultItineraryID)
	require.True(t, ok)
	assert.Equal(t, domain.DefaultItineraryTitle, def.Title)
	assert.Equal(t, act.ID, def.Activities[0].ID)
}

func TestPlanner_RemoveDefaultRefused(t *testing.T) {
	f := newPlannerFixture(t)
	err := f.planner.RemoveItinerary(context.Background(), domain.DefaultItineraryID)
	assert.ErrorIs(t, err, ErrProtectedItinerary)
	_, ok := f.planner.Snapshot().Itinerary(domain.DefaultItineraryID)
	assert.True(t, ok)
}

func TestPlanner_UnknownTargets(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.planner.RemoveActivity(ctx, "nope"), ErrActivityNotFound)
	assert.ErrorIs(t, f.planner.UpdateTime(ctx, "nope", "9:00 AM"), ErrActivityNotFound)
	assert.ErrorIs(t, f.planner.RemoveItinerary(ctx, "nope"), ErrItineraryNotFound)
	assert.ErrorIs(t, f.planner.Move(ctx, "nope", domain.DefaultItineraryID), ErrDropTarget)
	_, err := f.planner.Summarize(ctx, "nope")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestPlanner_UpdateTimeKeepsPosition(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()
	first, err := f.planner.AddActivity(ctx, "Breakfast", "8:00 AM")
	require.NoError(t, err)
	_, err = f.planner.AddActivity(ctx, "Lunch", "1:00 PM")
	require.NoError(t, err)

	require.NoError(t, f.planner.UpdateTime(ctx, first.ID, " 11:00 PM "))

	def, _ := f.planner.Snapshot().Itinerary(domain.DefaultItineraryID)
	assert.Equal(t, first.ID, def.Activities[0].ID)
	assert.Equal(t, "11:00 PM", def.Activities[0].Time)

	assert.ErrorIs(t, f.planner.UpdateTime(ctx, first.ID, "late"), validate.ErrInvalidInput)
}

func TestPlanner_Reorder(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()
	a, _ := f.planner.AddActivity(ctx, "First", "8:00 AM")
	b, _ := f.planner.AddActivity(ctx, "Second", "9:00 AM")

	require.NoError(t, f.planner.Reorder(ctx, domain.DefaultItineraryID, 0, 1))
	def, _ := f.planner.Snapshot().Itinerary(domain.DefaultItineraryID)
	assert.Equal(t, []string{b.ID, a.ID}, []string{def.Activities[0].ID, def.Activities[1].ID})

	assert.ErrorIs(t, f.planner.Reorder(ctx, "nope", 0, 1), ErrItineraryNotFound)
}

func TestPlanner_SummarizeFallsBack(t *testing.T) {
	f := newPlannerFixture(t)
	act, err := f.planner.AddActivity(context.Background(), "Long walk by the river. Bring water.", "4:00 PM")
	require.NoError(t, err)

	got, err := f.planner.Summarize(context.Background(), act.ID)
	require.NoError(t, err)
	assert.Equal(t, "Long walk by the river.", got)
}

func TestPlanner_ObservesUseCases(t *testing.T) {
	var buf bytes.Buffer
	f := newPlannerFixture(t, WithUseCaseObserver(NewLogUseCaseObserver(&buf)))

	_, err := f.planner.AddActivity(context.Background(), "ab", "7:00 PM")
	require.Error(t, err)
	_, err = f.planner.AddActivity(context.Background(), "Dinner", "7:00 PM")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "use_case=add-activity")
	assert.Contains(t, out, "success=false")
	assert.Contains(t, out, "success=true")
}

func TestPlanner_DefaultsWithoutCollaborators(t *testing.T) {
	database := testutil.NewTestDB(t)
	bridge := persistence.NewBridge(database, testutil.NewTestUoW(database))
	st := store.New(bridge, bridge)
	st.Load(context.Background())
	p := NewPlanner(Deps{Store: st})

	assert.Equal(t, geo.FallbackCity, p.DetectCity(context.Background()))
	_, err := p.Generate(context.Background(), "Paris", "food")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)

	got, err := p.SearchCities(context.Background(), "par", 5)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
