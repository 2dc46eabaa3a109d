package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/alexanderramin/geomingle/internal/domain"
)

var (
	// ErrNoMatch is returned when a reference matches no itinerary or activity.
	ErrNoMatch = errors.New("no match")
	// ErrAmbiguous is returned when an id prefix matches more than one entry.
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// resolveItinerary resolves an itinerary reference which can be:
//   - a 1-based display position ("2")
//   - "default" for My Custom Plan
//   - a full id or a unique id prefix
func resolveItinerary(s domain.Snapshot, ref string) (domain.Itinerary, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n > 0 {
		if n > len(s.Itineraries) {
			return domain.Itinerary{}, fmt.Errorf("itinerary #%d: %w", n, ErrNoMatch)
		}
		return s.Itineraries[n-1], nil
	}
	if ref == "default" {
		ref = domain.DefaultItineraryID
	}
	ids := lo.Map(s.Itineraries, func(it domain.Itinerary, _ int) string { return it.ID })
	id, err := matchPrefix(ids, ref)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("itinerary %q: %w", ref, err)
	}
	it, _ := s.Itinerary(id)
	return it, nil
}

// resolveActivity resolves an activity reference which can be:
//   - a positional reference "itinerary.activity" as shown by list ("2.3")
//   - a full id or a unique id prefix
func resolveActivity(s domain.Snapshot, ref string) (domain.Activity, error) {
	ref = strings.TrimSpace(ref)
	if i, j, ok := parsePosition(ref); ok {
		if i >= len(s.Itineraries) || j >= len(s.Itineraries[i].Activities) {
			return domain.Activity{}, fmt.Errorf("activity %s: %w", ref, ErrNoMatch)
		}
		return s.Itineraries[i].Activities[j], nil
	}
	id, err := matchPrefix(activityIDs(s), ref)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("activity %q: %w", ref, err)
	}
	act, _ := s.FindActivity(id)
	return act, nil
}

// resolveTarget resolves a move target to an itinerary or activity id.
// Positions follow the list output: "2" is an itinerary, "2.3" an activity.
func resolveTarget(s domain.Snapshot, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if _, _, ok := parsePosition(ref); ok {
		act, err := resolveActivity(s, ref)
		return act.ID, err
	}
	if n, err := strconv.Atoi(ref); (err == nil && n > 0) || ref == "default" {
		it, err := resolveItinerary(s, ref)
		return it.ID, err
	}
	ids := lo.Map(s.Itineraries, func(it domain.Itinerary, _ int) string { return it.ID })
	id, err := matchPrefix(append(ids, activityIDs(s)...), ref)
	if err != nil {
		return "", fmt.Errorf("target %q: %w", ref, err)
	}
	return id, nil
}

func activityIDs(s domain.Snapshot) []string {
	return lo.FlatMap(s.Itineraries, func(it domain.Itinerary, _ int) []string {
		return lo.Map(it.Activities, func(a domain.Activity, _ int) string { return a.ID })
	})
}

// matchPrefix returns the id equal to ref, or the single id starting with it.
func matchPrefix(ids []string, ref string) (string, error) {
	if ref == "" {
		return "", ErrNoMatch
	}
	if lo.Contains(ids, ref) {
		return ref, nil
	}
	found := lo.Filter(ids, func(id string, _ int) bool { return strings.HasPrefix(id, ref) })
	switch len(found) {
	case 0:
		return "", ErrNoMatch
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w (%d matches)", ErrAmbiguous, len(found))
	}
}

// parsePosition parses "i.j" into zero-based indices.
func parsePosition(ref string) (int, int, bool) {
	left, right, ok := strings.Cut(ref, ".")
	if !ok {
		return 0, 0, false
	}
	i, err1 := strconv.Atoi(left)
	j, err2 := strconv.Atoi(right)
	if err1 != nil || err2 != nil || i < 1 || j < 1 {
		return 0, 0, false
	}
	return i - 1, j - 1, true
}
