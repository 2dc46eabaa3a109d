package domain

import "regexp"

// Meal is the meal an activity describes, if any.
type Meal string

const (
	MealNone      Meal = ""
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
)

var mealPattern = regexp.MustCompile(`(?i)breakfast|lunch|dinner`)

// MealOf reports the first meal word in an activity description.
func MealOf(description string) Meal {
	m := mealPattern.FindString(description)
	switch {
	case m == "":
		return MealNone
	case len(m) == len("breakfast"):
		return MealBreakfast
	case len(m) == len("lunch"):
		return MealLunch
	default:
		return MealDinner
	}
}
