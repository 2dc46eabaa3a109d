package domain

// Snapshot is the ordered collection of all itineraries held by the session.
// Order is display order; generated itineraries append at the end.
type Snapshot struct {
	Itineraries []Itinerary `json:"itineraries"`
}

// InitialSnapshot is the fresh-start state: one empty default itinerary.
func InitialSnapshot() Snapshot {
	return Snapshot{Itineraries: []Itinerary{NewDefaultItinerary()}}
}

// Clone returns a deep copy; the result shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Itineraries: make([]Itinerary, len(s.Itineraries))}
	for i, it := range s.Itineraries {
		out.Itineraries[i] = it.clone()
	}
	return out
}

// Itinerary returns the itinerary with the given id.
func (s Snapshot) Itinerary(id string) (Itinerary, bool) {
	if i := s.itineraryIndex(id); i >= 0 {
		return s.Itineraries[i], true
	}
	return Itinerary{}, false
}

// FindActivity locates an activity anywhere in the snapshot.
func (s Snapshot) FindActivity(activityID string) (Activity, bool) {
	for _, it := range s.Itineraries {
		if i := it.IndexOf(activityID); i >= 0 {
			return it.Activities[i], true
		}
	}
	return Activity{}, false
}

// OwnerOf returns the id of the itinerary containing the activity.
func (s Snapshot) OwnerOf(activityID string) (string, bool) {
	for _, it := range s.Itineraries {
		if it.IndexOf(activityID) >= 0 {
			return it.ID, true
		}
	}
	return "", false
}

// ActivityCount is the total number of activities across all itineraries.
func (s Snapshot) ActivityCount() int {
	n := 0
	for _, it := range s.Itineraries {
		n += len(it.Activities)
	}
	return n
}

// HasContent reports whether any itinerary holds at least one activity.
func (s Snapshot) HasContent() bool {
	return s.ActivityCount() > 0
}

func (s Snapshot) itineraryIndex(id string) int {
	for i, it := range s.Itineraries {
		if it.ID == id {
			return i
		}
	}
	return -1
}
