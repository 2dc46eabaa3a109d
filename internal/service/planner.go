package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/generation"
	"github.com/alexanderramin/geomingle/internal/geo"
	"github.com/alexanderramin/geomingle/internal/places"
	"github.com/alexanderramin/geomingle/internal/store"
	"github.com/alexanderramin/geomingle/internal/validate"
)

var (
	// ErrProtectedItinerary is returned when deleting the default itinerary.
	ErrProtectedItinerary = errors.New("the default itinerary cannot be removed")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrItineraryNotFound  = errors.New("itinerary not found")
	ErrDropTarget         = errors.New("drop target does not resolve to a move")
)

const defaultPhotoConcurrency = 4

// Deps are the collaborators a Planner drives.
type Deps struct {
	Store      *store.Store
	Validator  *validate.Validator
	Generator  generation.ItineraryGenerator
	Summarizer generation.Summarizer
	Photos     places.Resolver
	Detector   geo.Detector
	Searcher   geo.Searcher
}

// PlannerOption customises a Planner.
type PlannerOption func(*Planner)

// WithIDs overrides id generation.
func WithIDs(ids domain.IDGenerator) PlannerOption {
	return func(p *Planner) { p.ids = ids }
}

// WithPhotoConcurrency bounds concurrent photo lookups per generated plan.
func WithPhotoConcurrency(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.photoConcurrency = n
		}
	}
}

// WithUseCaseObserver sets the use case observer.
func WithUseCaseObserver(o UseCaseObserver) PlannerOption {
	return func(p *Planner) { p.observer = useCaseObserverOrNoop([]UseCaseObserver{o}) }
}

// WithLogger sets the logger for discarded asynchronous results.
func WithLogger(l *slog.Logger) PlannerOption {
	return func(p *Planner) { p.logger = l }
}

// Planner runs the itinerary use cases. Every mutation is a domain
// operation dispatched through the store.
type Planner struct {
	store            *store.Store
	validator        *validate.Validator
	generator        generation.ItineraryGenerator
	summarizer       generation.Summarizer
	photos           places.Resolver
	detector         geo.Detector
	searcher         geo.Searcher
	ids              domain.IDGenerator
	photoConcurrency int
	observer         UseCaseObserver
	logger           *slog.Logger
}

// NewPlanner wires a Planner. Missing collaborators fall back to offline
// behaviour: placeholder photos, the fallback city and deterministic
// summaries.
func NewPlanner(deps Deps, opts ...PlannerOption) *Planner {
	p := &Planner{
		store:            deps.Store,
		validator:        deps.Validator,
		generator:        deps.Generator,
		summarizer:       deps.Summarizer,
		photos:           deps.Photos,
		detector:         deps.Detector,
		searcher:         deps.Searcher,
		ids:              domain.NewID,
		photoConcurrency: defaultPhotoConcurrency,
		observer:         NoopUseCaseObserver{},
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if p.validator == nil {
		p.validator = validate.New(domain.Clock12h)
	}
	if p.generator == nil {
		p.generator = generation.NewItineraryGenerator(nil, p.validator)
	}
	if p.summarizer == nil {
		p.summarizer = generation.NewSummarizer(nil)
	}
	if p.photos == nil {
		p.photos = places.PlaceholderResolver{}
	}
	if p.detector == nil {
		p.detector = geo.StaticDetector(geo.FallbackCity)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns a copy of the current state.
func (p *Planner) Snapshot() domain.Snapshot { return p.store.Current() }

// Clock reports the configured time format.
func (p *Planner) Clock() domain.Clock { return p.validator.Clock() }

// AddActivity validates and appends a custom activity to the default
// itinerary.
func (p *Planner) AddActivity(ctx context.Context, description, at string) (act domain.Activity, err error) {
	defer p.track(ctx, "add-activity", time.Now(), map[string]any{"time": at}, &err)

	in, err := p.validator.Activity(validate.ActivityInput{Description: description, Time: at})
	if err != nil {
		return domain.Activity{}, err
	}
	op := domain.NewAddCustomActivity(in.Description, in.Time, "", p.ids)
	next, _ := p.store.Dispatch(ctx, op)
	act, _ = next.FindActivity(op.ActivityID)
	return act, nil
}

// RemoveActivity deletes an activity from whichever itinerary holds it.
func (p *Planner) RemoveActivity(ctx context.Context, activityID string) (err error) {
	defer p.track(ctx, "remove-activity", time.Now(), map[string]any{"activity": activityID}, &err)

	owner, ok := p.store.Current().OwnerOf(activityID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, activityID)
	}
	p.store.Dispatch(ctx, domain.RemoveActivity{ActivityID: activityID, ItineraryID: owner})
	return nil
}

// RemoveItinerary deletes a generated itinerary with all its activities.
func (p *Planner) RemoveItinerary(ctx context.Context, itineraryID string) (err error) {
	defer p.track(ctx, "remove-itinerary", time.Now(), map[string]any{"itinerary": itineraryID}, &err)

	it, ok := p.store.Current().Itinerary(itineraryID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItineraryNotFound, itineraryID)
	}
	if it.IsDefault() {
		return ErrProtectedItinerary
	}
	p.store.Dispatch(ctx, domain.RemoveItinerary{ItineraryID: itineraryID})
	return nil
}

// UpdateTime validates and rewrites an activity's time without moving it.
func (p *Planner) UpdateTime(ctx context.Context, activityID, at string) (err error) {
	defer p.track(ctx, "update-time", time.Now(), map[string]any{"activity": activityID}, &err)

	at, err = p.validator.Time(at)
	if err != nil {
		return err
	}
	owner, ok := p.store.Current().OwnerOf(activityID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, activityID)
	}
	p.store.Dispatch(ctx, domain.UpdateActivityTime{ActivityID: activityID, ItineraryID: owner, Time: at})
	return nil
}

// Move drops activityID onto target, which names either an itinerary (the
// end of its list) or another activity (that activity's position).
func (p *Planner) Move(ctx context.Context, activityID, target string) (err error) {
	defer p.track(ctx, "move", time.Now(), map[string]any{"activity": activityID, "target": target}, &err)

	op, ok := domain.ResolveDrop(p.store.Current(), activityID, target)
	if !ok {
		return fmt.Errorf("%w: %s onto %s", ErrDropTarget, activityID, target)
	}
	p.store.Dispatch(ctx, op)
	return nil
}

// Reorder moves the activity at from to position to within one itinerary.
func (p *Planner) Reorder(ctx context.Context, itineraryID string, from, to int) (err error) {
	defer p.track(ctx, "reorder", time.Now(), map[string]any{"itinerary": itineraryID, "from": from, "to": to}, &err)

	if _, ok := p.store.Current().Itinerary(itineraryID); !ok {
		return fmt.Errorf("%w: %s", ErrItineraryNotFound, itineraryID)
	}
	p.store.Dispatch(ctx, domain.Reorder{ItineraryID: itineraryID, From: from, To: to})
	return nil
}

// Generation tracks the photo lookups started for a generated itinerary.
type Generation struct {
	Itinerary domain.Itinerary
	done      chan struct{}
}

// Wait blocks until every photo lookup for the itinerary has been applied
// or discarded.
func (g *Generation) Wait() { <-g.done }

// Done is closed once photo enrichment finishes.
func (g *Generation) Done() <-chan struct{} { return g.done }

// Generate asks the generator for a plan and inserts it as one new
// itinerary. Photos for activities with a location are resolved in the
// background and attached as they arrive. On generator failure nothing is
// inserted.
func (p *Planner) Generate(ctx context.Context, city, preference string) (gen *Generation, err error) {
	fields := map[string]any{"city": city}
	defer p.track(ctx, "generate", time.Now(), fields, &err)

	city = strings.TrimSpace(city)
	if city == "" {
		city = p.DetectCity(ctx)
		fields["city"] = city
	}

	plan, err := p.generator.Generate(ctx, city, preference)
	if err != nil {
		return nil, err
	}

	op := domain.NewBulkInsertGenerated(plan.City, plan.Preference, plan.Activities, p.ids)
	p.store.Dispatch(ctx, op)
	fields["activities"] = len(op.Itinerary.Activities)

	gen = &Generation{Itinerary: op.Itinerary, done: make(chan struct{})}
	go p.enrich(context.WithoutCancel(ctx), plan.City, op.Itinerary, gen.done)
	return gen, nil
}

// QuickPlan generates a balanced plan without a user preference.
func (p *Planner) QuickPlan(ctx context.Context, city string) (*Generation, error) {
	return p.Generate(ctx, city, generation.QuickPlanPreference)
}

func (p *Planner) enrich(ctx context.Context, city string, it domain.Itinerary, done chan<- struct{}) {
	defer close(done)

	var g errgroup.Group
	g.SetLimit(p.photoConcurrency)
	for _, act := range lo.Filter(it.Activities, func(a domain.Activity, _ int) bool { return a.HasLocation() }) {
		act := act
		g.Go(func() error {
			url := p.photos.ResolvePhoto(ctx, act.Location+", "+city)
			_, changed := p.store.Dispatch(ctx, domain.AttachImage{
				ActivityID:  act.ID,
				ItineraryID: it.ID,
				ImageURL:    url,
			})
			if !changed {
				p.logger.Info("photo_result_discarded", "activity", act.ID, "itinerary", it.ID)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Summarize condenses an activity's details. It never fails for a known
// activity.
func (p *Planner) Summarize(ctx context.Context, activityID string) (string, error) {
	act, ok := p.store.Current().FindActivity(activityID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrActivityNotFound, activityID)
	}
	details := act.Description
	if act.Location != "" {
		details = act.Location + ": " + details
	}
	return p.summarizer.Summarize(ctx, details), nil
}

// DetectCity returns the user's city, or the fallback city.
func (p *Planner) DetectCity(ctx context.Context) string {
	return p.detector.DetectCity(ctx)
}

// SearchCities suggests cities matching query.
func (p *Planner) SearchCities(ctx context.Context, query string, limit int) ([]geo.Suggestion, error) {
	if p.searcher == nil {
		return nil, nil
	}
	return p.searcher.SearchCities(ctx, query, limit)
}
