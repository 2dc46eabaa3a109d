package domain

// ResolveDrop turns a drag-and-drop gesture into a mutation. activeID is the
// dragged activity; overID is whatever it was dropped on, which may name an
// itinerary (drop onto the list: append at its end) or an activity (drop
// onto an item: take its position). Containment is checked in that order.
// ok is false when either owner cannot be resolved or the drop changes nothing.
func ResolveDrop(s Snapshot, activeID, overID string) (Operation, bool) {
	if overID == "" || activeID == overID {
		return nil, false
	}
	fromID, found := s.OwnerOf(activeID)
	if !found {
		return nil, false
	}

	toID := ""
	if _, isItinerary := s.Itinerary(overID); isItinerary {
		toID = overID
	} else if owner, isActivity := s.OwnerOf(overID); isActivity {
		toID = owner
	}
	if toID == "" {
		return nil, false
	}

	src, _ := s.Itinerary(fromID)
	dst, _ := s.Itinerary(toID)
	overIndex := dst.IndexOf(overID)

	if fromID == toID {
		oldIndex := src.IndexOf(activeID)
		target := overIndex
		if target < 0 {
			target = len(src.Activities) - 1
		}
		if target == oldIndex {
			return nil, false
		}
		return Reorder{ItineraryID: fromID, From: oldIndex, To: target}, true
	}

	target := overIndex
	if target < 0 {
		target = EndOfList
	}
	return MoveBetween{
		ActivityID:      activeID,
		FromItineraryID: fromID,
		ToItineraryID:   toID,
		TargetIndex:     target,
	}, true
}
