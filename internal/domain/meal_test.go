package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMealOf(t *testing.T) {
	tests := []struct {
		desc string
		want Meal
	}{
		{"Breakfast at Café de Flore", MealBreakfast},
		{"Quick LUNCH by the river", MealLunch},
		{"Dinner, then lunch plans for tomorrow", MealDinner},
		{"Visit the Louvre", MealNone},
		{"", MealNone},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, MealOf(tt.desc))
		})
	}
}
