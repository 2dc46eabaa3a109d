package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIntegrity is wrapped by every CheckIntegrity failure.
var ErrIntegrity = errors.New("snapshot integrity violated")

// CheckIntegrity verifies the referential invariants: itinerary ids are unique,
// every activity id appears exactly once, every activity's ItineraryID names the
// itinerary that contains it, and descriptions are non-empty.
func (s Snapshot) CheckIntegrity() error {
	itineraries := make(map[string]bool, len(s.Itineraries))
	activities := make(map[string]string)

	for _, it := range s.Itineraries {
		if it.ID == "" {
			return fmt.Errorf("%w: itinerary with empty id", ErrIntegrity)
		}
		if itineraries[it.ID] {
			return fmt.Errorf("%w: duplicate itinerary %s", ErrIntegrity, it.ID)
		}
		itineraries[it.ID] = true

		for _, a := range it.Activities {
			if prev, dup := activities[a.ID]; dup {
				return fmt.Errorf("%w: activity %s appears in %s and %s", ErrIntegrity, a.ID, prev, it.ID)
			}
			activities[a.ID] = it.ID
			if a.ItineraryID != it.ID {
				return fmt.Errorf("%w: activity %s references %s but lives in %s", ErrIntegrity, a.ID, a.ItineraryID, it.ID)
			}
			if strings.TrimSpace(a.Description) == "" {
				return fmt.Errorf("%w: activity %s has empty description", ErrIntegrity, a.ID)
			}
		}
	}
	return nil
}

// Normalize repairs a rehydrated snapshot: it infers missing kinds from the
// reserved id, drops duplicate itineraries and activities (first wins), and
// re-points each activity at the itinerary that contains it.
func (s Snapshot) Normalize() Snapshot {
	out := Snapshot{Itineraries: make([]Itinerary, 0, len(s.Itineraries))}
	seenIt := make(map[string]bool, len(s.Itineraries))
	seenAct := make(map[string]bool)

	for _, it := range s.Itineraries {
		if it.ID == "" || seenIt[it.ID] {
			continue
		}
		seenIt[it.ID] = true

		if it.Kind == "" {
			if it.ID == DefaultItineraryID {
				it.Kind = KindDefault
			} else {
				it.Kind = KindGenerated
			}
		}

		acts := make([]Activity, 0, len(it.Activities))
		for _, a := range it.Activities {
			if a.ID == "" || seenAct[a.ID] || strings.TrimSpace(a.Description) == "" {
				continue
			}
			seenAct[a.ID] = true
			a.ItineraryID = it.ID
			acts = append(acts, a)
		}
		it.Activities = acts
		out.Itineraries = append(out.Itineraries, it)
	}
	return out
}
