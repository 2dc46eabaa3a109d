package domain

// ItineraryKind distinguishes the always-present custom plan from generated ones.
type ItineraryKind string

const (
	KindDefault   ItineraryKind = "default"
	KindGenerated ItineraryKind = "generated"
)

// DefaultItineraryID is the reserved id of the itinerary holding manually added activities.
const DefaultItineraryID = "default-itinerary"

// DefaultItineraryTitle is the display title of the default itinerary.
const DefaultItineraryTitle = "My Custom Plan"

// Activity is one planned event within an itinerary.
type Activity struct {
	ID          string `json:"id"`
	ItineraryID string `json:"itineraryId"`
	Time        string `json:"time"`
	Description string `json:"description"`
	IsCustom    bool   `json:"isCustom"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageHint   string `json:"imageHint,omitempty"`
}

// HasLocation reports whether the activity names a specific venue.
func (a Activity) HasLocation() bool {
	return a.Location != ""
}

// Itinerary is a named, ordered collection of activities.
type Itinerary struct {
	ID         string        `json:"id"`
	Kind       ItineraryKind `json:"kind"`
	Title      string        `json:"title"`
	Activities []Activity    `json:"activities"`
	Prompt     string        `json:"prompt,omitempty"`
	City       string        `json:"city,omitempty"`
}

// IsDefault reports whether this is the reserved custom-plan itinerary.
func (it Itinerary) IsDefault() bool {
	return it.Kind == KindDefault
}

// IndexOf returns the position of the activity with the given id, or -1.
func (it Itinerary) IndexOf(activityID string) int {
	for i, a := range it.Activities {
		if a.ID == activityID {
			return i
		}
	}
	return -1
}

// NewDefaultItinerary returns an empty default itinerary.
func NewDefaultItinerary() Itinerary {
	return Itinerary{
		ID:         DefaultItineraryID,
		Kind:       KindDefault,
		Title:      DefaultItineraryTitle,
		Activities: []Activity{},
	}
}

// GeneratedTitle is the display title of a plan generated for city.
func GeneratedTitle(city string) string {
	return "Your One Day Plan in " + city
}

func (it Itinerary) clone() Itinerary {
	out := it
	out.Activities = make([]Activity, len(it.Activities))
	copy(out.Activities, it.Activities)
	return out
}
