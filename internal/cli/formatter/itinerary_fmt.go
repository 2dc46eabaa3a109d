package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/geo"
)

const descriptionWidth = 48

// ActivityRef is the positional reference shown next to an activity, e.g. "2.3".
func ActivityRef(itinerary, activity int) string {
	return fmt.Sprintf("%d.%d", itinerary+1, activity+1)
}

// FormatSnapshot renders every itinerary in display order.
func FormatSnapshot(s domain.Snapshot, clock domain.Clock) string {
	if len(s.Itineraries) == 0 {
		return Dim("No itineraries.") + "\n"
	}
	parts := make([]string, 0, len(s.Itineraries))
	for i, it := range s.Itineraries {
		parts = append(parts, FormatItinerary(it, i, clock))
	}
	return strings.Join(parts, "\n")
}

// FormatItinerary renders one itinerary with its timeline and an activity table.
func FormatItinerary(it domain.Itinerary, index int, clock domain.Clock) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s  %s\n",
		StyleHeader.Render(fmt.Sprintf("%d", index+1)),
		Bold(it.Title),
		KindBadge(it.Kind),
		TruncID(it.ID),
	)
	if it.Prompt != "" {
		fmt.Fprintf(&b, "   %s\n", Dim(fmt.Sprintf("%q", it.Prompt)))
	}
	fmt.Fprintf(&b, "   %s\n", FormatTimeline(domain.TimelineSummary(it.Activities, clock)))

	if len(it.Activities) == 0 {
		fmt.Fprintf(&b, "   %s\n", Dim("(no activities)"))
		return b.String()
	}

	rows := make([][]string, 0, len(it.Activities))
	for j, a := range it.Activities {
		rows = append(rows, activityRow(a, index, j))
	}
	table := RenderTable([]string{"#", "ID", "TIME", "ACTIVITY", "LOCATION", ""}, rows)
	for _, line := range strings.Split(strings.TrimRight(table, "\n"), "\n") {
		b.WriteString("   " + line + "\n")
	}
	return b.String()
}

func activityRow(a domain.Activity, itinerary, activity int) []string {
	location := Dim("--")
	if a.HasLocation() {
		location = a.Location
		if a.ImageURL != "" {
			location += " " + StyleGreen.Render("◆")
		}
	}
	desc := Truncate(a.Description, descriptionWidth)
	if a.IsCustom {
		desc += " " + Dim("(custom)")
	}
	return []string{
		ActivityRef(itinerary, activity),
		TruncID(a.ID),
		a.Time,
		desc,
		location,
		MealBadge(domain.MealOf(a.Description)),
	}
}

// FormatSuggestions renders city search results.
func FormatSuggestions(suggestions []geo.Suggestion) string {
	if len(suggestions) == 0 {
		return Dim("No matching cities.") + "\n"
	}
	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []string{s.City, Dim(s.DisplayName)})
	}
	return RenderTable([]string{"CITY", "PLACE"}, rows)
}

// FormatSummary renders an activity summary in a titled box.
func FormatSummary(a domain.Activity, summary string) string {
	title := a.Description
	if a.HasLocation() {
		title = a.Location
	}
	return RenderBox(Truncate(title, descriptionWidth), summary)
}
