package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Clock selects how activity times are entered and displayed.
type Clock string

const (
	Clock12h Clock = "12h"
	Clock24h Clock = "24h"
)

var (
	clock12Pattern = regexp.MustCompile(`(?i)^(0?[1-9]|1[0-2]):([0-5][0-9])\s?(AM|PM)$`)
	clock24Pattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)
)

// ParseTimeOfDay parses "h:mm AM/PM" or "HH:MM" into minutes after midnight.
func ParseTimeOfDay(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if m := clock12Pattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		h %= 12
		if strings.EqualFold(m[3], "PM") {
			h += 12
		}
		return h*60 + mm, true
	}
	if m := clock24Pattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		return h*60 + mm, true
	}
	return 0, false
}

// MatchesClock reports whether s is a valid time in the given clock's input format.
func MatchesClock(s string, clock Clock) bool {
	s = strings.TrimSpace(s)
	if clock == Clock24h {
		return clock24Pattern.MatchString(s)
	}
	return clock12Pattern.MatchString(s)
}

// FormatTimeOfDay renders minutes after midnight in the given clock.
func FormatTimeOfDay(minutes int, clock Clock) string {
	h, m := minutes/60, minutes%60
	if clock == Clock24h {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// Timeline summarises the span of an itinerary's activities. Fields are empty
// when no activity time could be parsed; Duration is empty for a zero span.
type Timeline struct {
	Start    string
	End      string
	Duration string
}

// Empty reports whether no activity time was parseable.
func (t Timeline) Empty() bool {
	return t.Start == ""
}

// TimelineSummary computes the earliest and latest parseable activity times
// and the span between them. Unparseable times are ignored.
func TimelineSummary(activities []Activity, clock Clock) Timeline {
	minT, maxT, found := 0, 0, false
	for _, a := range activities {
		t, ok := ParseTimeOfDay(a.Time)
		if !ok {
			continue
		}
		if !found || t < minT {
			minT = t
		}
		if !found || t > maxT {
			maxT = t
		}
		found = true
	}
	if !found {
		return Timeline{}
	}
	return Timeline{
		Start:    FormatTimeOfDay(minT, clock),
		End:      FormatTimeOfDay(maxT, clock),
		Duration: FormatSpan(maxT - minT),
	}
}

// FormatSpan renders a minute count as "2h 30m", "2h" or "45m"; zero renders empty.
func FormatSpan(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return strings.Join(parts, " ")
}
