// Package generation turns a city and a free-text preference into a
// proposed day plan, and condenses activity details into short summaries.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/llm"
	"github.com/alexanderramin/geomingle/internal/validate"
)

// ErrGenerationFailed is returned when no usable plan could be produced.
// The cause is wrapped alongside it.
var ErrGenerationFailed = errors.New("itinerary generation failed")

// QuickPlanPreference is the preference used when the user asks for a
// plan without describing one.
const QuickPlanPreference = "A balanced and interesting day with 3 to 5 activities."

// Plan is a validated generated day plan.
type Plan struct {
	City       string
	Preference string
	Activities []domain.ProposedActivity
}

// ItineraryGenerator produces a plan for a city.
type ItineraryGenerator interface {
	Generate(ctx context.Context, city, preference string) (*Plan, error)
}

type llmGenerator struct {
	client    llm.LLMClient
	validator *validate.Validator
}

// NewItineraryGenerator returns a generator backed by client. A nil client
// yields a generator that always fails with llm.ErrUnavailable.
func NewItineraryGenerator(client llm.LLMClient, v *validate.Validator) ItineraryGenerator {
	if v == nil {
		v = validate.New(domain.Clock12h)
	}
	return &llmGenerator{client: client, validator: v}
}

type planPayload struct {
	Activities []domain.ProposedActivity `json:"activities"`
}

func (g *llmGenerator) Generate(ctx context.Context, city, preference string) (*Plan, error) {
	city = strings.TrimSpace(city)
	preference = strings.TrimSpace(preference)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", ErrGenerationFailed)
	}
	if preference == "" {
		preference = QuickPlanPreference
	}
	if g.client == nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, llm.ErrUnavailable)
	}

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskGenerateItinerary,
		SystemPrompt: itinerarySystemPrompt,
		UserPrompt:   itineraryUserPrompt(city, preference),
		JSONMode:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	payload, err := llm.ExtractJSON(resp.Text, func(p planPayload) error {
		return g.validator.Plan(p.Activities)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return &Plan{
		City:       city,
		Preference: preference,
		Activities: normalize(payload.Activities),
	}, nil
}

// normalize trims every field and drops a hint that has no location to
// illustrate.
func normalize(acts []domain.ProposedActivity) []domain.ProposedActivity {
	out := make([]domain.ProposedActivity, len(acts))
	for i, a := range acts {
		a.Time = strings.TrimSpace(a.Time)
		a.Description = strings.TrimSpace(a.Description)
		a.Location = strings.TrimSpace(a.Location)
		a.ImageHint = strings.TrimSpace(a.ImageHint)
		if a.Location == "" {
			a.ImageHint = ""
		}
		out[i] = a
	}
	return out
}

func itineraryUserPrompt(city, preference string) string {
	return fmt.Sprintf("City: %s\nRequest: %q", city, preference)
}

const itinerarySystemPrompt = `You are a travel planner. Build a plan for one day in the given city that satisfies the user's request.

Route: order the activities so they form one sensible, continuous path through the city. Never send the user back and forth across town. Never suggest the same place or activity twice.

Meals: include breakfast, lunch and dinner. For every meal name a specific, well-known restaurant in that city and use its name as the location.

Count: if the request asks for "3 to 5 activities", return between 3 and 5 activities in total.

Each activity has:
- "time": a friendly time such as "9:00 AM" or "1:30 PM".
- "description": what the user will do.
- "location": the short name of the place, only when the activity has a specific named venue.
- "imageHint": two or three words for a stock photo of that place, only when "location" is present.

If an activity has no specific venue (for example "take a walk"), omit "location" and "imageHint". Do not invent places.

Respond with JSON only, in this shape:
{"activities":[{"time":"9:00 AM","description":"...","location":"...","imageHint":"..."}]}`
