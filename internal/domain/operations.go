package domain

// Operation is a pure transformation from one snapshot to the next.
// Apply never mutates its input; an operation whose target no longer
// exists returns the input unchanged.
type Operation interface {
	Name() string
	Apply(s Snapshot) Snapshot
}

// ProposedActivity is one entry of a generated plan before it is stamped
// with ids and inserted.
type ProposedActivity struct {
	Time        string `json:"time" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location,omitempty"`
	ImageHint   string `json:"imageHint,omitempty"`
}

// AddCustomActivity appends a user-entered activity to the default itinerary,
// recreating the default itinerary at the end of the list if it was removed.
type AddCustomActivity struct {
	ActivityID  string
	Description string
	Time        string
	Location    string
}

// NewAddCustomActivity builds an AddCustomActivity with a fresh activity id.
func NewAddCustomActivity(description, time, location string, ids IDGenerator) AddCustomActivity {
	return AddCustomActivity{
		ActivityID:  ids.next(),
		Description: description,
		Time:        time,
		Location:    location,
	}
}

func (op AddCustomActivity) Name() string { return "add_custom_activity" }

func (op AddCustomActivity) Apply(s Snapshot) Snapshot {
	if _, exists := s.FindActivity(op.ActivityID); exists {
		return s
	}
	act := Activity{
		ID:          op.ActivityID,
		ItineraryID: DefaultItineraryID,
		Time:        op.Time,
		Description: op.Description,
		IsCustom:    true,
		Location:    op.Location,
	}

	next := s.Clone()
	i := next.itineraryIndex(DefaultItineraryID)
	if i < 0 {
		def := NewDefaultItinerary()
		def.Activities = append(def.Activities, act)
		next.Itineraries = append(next.Itineraries, def)
		return next
	}
	next.Itineraries[i].Activities = append(next.Itineraries[i].Activities, act)
	return next
}

// RemoveActivity deletes one activity from an itinerary. Idempotent.
type RemoveActivity struct {
	ActivityID  string
	ItineraryID string
}

func (op RemoveActivity) Name() string { return "remove_activity" }

func (op RemoveActivity) Apply(s Snapshot) Snapshot {
	i := s.itineraryIndex(op.ItineraryID)
	if i < 0 {
		return s
	}
	j := s.Itineraries[i].IndexOf(op.ActivityID)
	if j < 0 {
		return s
	}
	next := s.Clone()
	acts := next.Itineraries[i].Activities
	next.Itineraries[i].Activities = append(acts[:j:j], acts[j+1:]...)
	return next
}

// RemoveItinerary deletes an itinerary and, with it, all of its activities.
// Callers are responsible for refusing to remove the default itinerary.
type RemoveItinerary struct {
	ItineraryID string
}

func (op RemoveItinerary) Name() string { return "remove_itinerary" }

func (op RemoveItinerary) Apply(s Snapshot) Snapshot {
	i := s.itineraryIndex(op.ItineraryID)
	if i < 0 {
		return s
	}
	next := s.Clone()
	next.Itineraries = append(next.Itineraries[:i:i], next.Itineraries[i+1:]...)
	return next
}

// UpdateActivityTime rewrites an activity's time in place. The sequence
// order is left untouched: positions are user intent, not derived from time.
type UpdateActivityTime struct {
	ActivityID  string
	ItineraryID string
	Time        string
}

func (op UpdateActivityTime) Name() string { return "update_activity_time" }

func (op UpdateActivityTime) Apply(s Snapshot) Snapshot {
	i, j := s.locate(op.ItineraryID, op.ActivityID)
	if j < 0 || s.Itineraries[i].Activities[j].Time == op.Time {
		return s
	}
	next := s.Clone()
	next.Itineraries[i].Activities[j].Time = op.Time
	return next
}

// Reorder moves one activity to a new position within the same itinerary,
// shifting the activities in between.
type Reorder struct {
	ItineraryID string
	From        int
	To          int
}

func (op Reorder) Name() string { return "reorder" }

func (op Reorder) Apply(s Snapshot) Snapshot {
	i := s.itineraryIndex(op.ItineraryID)
	if i < 0 {
		return s
	}
	n := len(s.Itineraries[i].Activities)
	if op.From < 0 || op.From >= n || op.To < 0 || op.To >= n || op.From == op.To {
		return s
	}
	next := s.Clone()
	next.Itineraries[i].Activities = arrayMove(next.Itineraries[i].Activities, op.From, op.To)
	return next
}

// EndOfList is the MoveBetween target index meaning "append".
const EndOfList = -1

// MoveBetween transfers an activity from one itinerary to another, inserting
// it at TargetIndex in the destination, or at the end when TargetIndex is
// EndOfList or out of range.
type MoveBetween struct {
	ActivityID      string
	FromItineraryID string
	ToItineraryID   string
	TargetIndex     int
}

func (op MoveBetween) Name() string { return "move_between" }

func (op MoveBetween) Apply(s Snapshot) Snapshot {
	from, j := s.locate(op.FromItineraryID, op.ActivityID)
	to := s.itineraryIndex(op.ToItineraryID)
	if j < 0 || to < 0 {
		return s
	}
	if from == to {
		target := op.TargetIndex
		if target < 0 || target >= len(s.Itineraries[from].Activities) {
			target = len(s.Itineraries[from].Activities) - 1
		}
		return Reorder{ItineraryID: op.FromItineraryID, From: j, To: target}.Apply(s)
	}

	next := s.Clone()
	src := next.Itineraries[from].Activities
	moved := src[j]
	next.Itineraries[from].Activities = append(src[:j:j], src[j+1:]...)

	moved.ItineraryID = op.ToItineraryID
	dst := next.Itineraries[to].Activities
	at := op.TargetIndex
	if at < 0 || at > len(dst) {
		at = len(dst)
	}
	out := make([]Activity, 0, len(dst)+1)
	out = append(out, dst[:at]...)
	out = append(out, moved)
	out = append(out, dst[at:]...)
	next.Itineraries[to].Activities = out
	return next
}

// BulkInsertGenerated appends a complete generated itinerary. The itinerary
// is built in full at construction time so insertion is all-or-nothing.
type BulkInsertGenerated struct {
	Itinerary Itinerary
}

// NewBulkInsertGenerated stamps every proposed activity with a fresh id and
// the new itinerary's id.
func NewBulkInsertGenerated(city, prompt string, proposed []ProposedActivity, ids IDGenerator) BulkInsertGenerated {
	itineraryID := ids.next()
	acts := make([]Activity, 0, len(proposed))
	for _, p := range proposed {
		acts = append(acts, Activity{
			ID:          ids.next(),
			ItineraryID: itineraryID,
			Time:        p.Time,
			Description: p.Description,
			IsCustom:    false,
			Location:    p.Location,
			ImageHint:   p.ImageHint,
		})
	}
	return BulkInsertGenerated{Itinerary: Itinerary{
		ID:         itineraryID,
		Kind:       KindGenerated,
		Title:      GeneratedTitle(city),
		Activities: acts,
		Prompt:     prompt,
		City:       city,
	}}
}

func (op BulkInsertGenerated) Name() string { return "bulk_insert_generated" }

func (op BulkInsertGenerated) Apply(s Snapshot) Snapshot {
	if s.itineraryIndex(op.Itinerary.ID) >= 0 {
		return s
	}
	next := s.Clone()
	next.Itineraries = append(next.Itineraries, op.Itinerary.clone())
	return next
}

// AttachImage sets the image URL of an activity if, and only if, it still
// exists. A late photo result never creates or resurrects an activity.
type AttachImage struct {
	ActivityID  string
	ItineraryID string
	ImageURL    string
}

func (op AttachImage) Name() string { return "attach_image" }

func (op AttachImage) Apply(s Snapshot) Snapshot {
	i, j := s.locate(op.ItineraryID, op.ActivityID)
	if j < 0 || op.ImageURL == "" || s.Itineraries[i].Activities[j].ImageURL == op.ImageURL {
		return s
	}
	next := s.Clone()
	next.Itineraries[i].Activities[j].ImageURL = op.ImageURL
	return next
}

// locate returns the itinerary and activity indexes; j is -1 when either is missing.
func (s Snapshot) locate(itineraryID, activityID string) (int, int) {
	i := s.itineraryIndex(itineraryID)
	if i < 0 {
		return -1, -1
	}
	return i, s.Itineraries[i].IndexOf(activityID)
}

func arrayMove(acts []Activity, from, to int) []Activity {
	moved := acts[from]
	out := make([]Activity, 0, len(acts))
	out = append(out, acts[:from]...)
	out = append(out, acts[from+1:]...)
	out = append(out[:to], append([]Activity{moved}, out[to:]...)...)
	return out
}
