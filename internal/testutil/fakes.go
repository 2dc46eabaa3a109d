package testutil

import (
	"context"
	"net/url"
	"sync"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/generation"
)

// FakeGenerator returns a canned plan or error and records requests.
type FakeGenerator struct {
	Activities []domain.ProposedActivity
	Err        error

	mu    sync.Mutex
	calls []GenerateCall
}

// GenerateCall is one recorded Generate request.
type GenerateCall struct {
	City       string
	Preference string
}

func (g *FakeGenerator) Generate(_ context.Context, city, preference string) (*generation.Plan, error) {
	g.mu.Lock()
	g.calls = append(g.calls, GenerateCall{City: city, Preference: preference})
	g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	return &generation.Plan{City: city, Preference: preference, Activities: g.Activities}, nil
}

// Calls returns the recorded requests.
func (g *FakeGenerator) Calls() []GenerateCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GenerateCall(nil), g.calls...)
}

// FakePhotos resolves every query to PhotoURL(query). When Gate is set,
// lookups block until it is closed.
type FakePhotos struct {
	Gate chan struct{}

	mu      sync.Mutex
	queries []string
}

// PhotoURL is the URL FakePhotos returns for query.
func PhotoURL(query string) string {
	return "https://photos.test/" + url.PathEscape(query)
}

func (f *FakePhotos) ResolvePhoto(_ context.Context, query string) string {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.Gate != nil {
		<-f.Gate
	}
	return PhotoURL(query)
}

// Queries returns the recorded lookups.
func (f *FakePhotos) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}
