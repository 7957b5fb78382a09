package mealplan_test

import (
	"testing"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/stretchr/testify/assert"
)

func TestTranslateDietName(t *testing.T) {
	tests := []struct {
		label  string
		want   string
		wantOK bool
	}{
		{label: "gluten free", want: "Gluten Free", wantOK: true},
		{label: "Lacto Ovo Vegetarian", want: "Lacto-Vegetarian", wantOK: true},
		{label: "pescatarian", want: "Pescetarian", wantOK: true},
		{label: "fodmap friendly", want: "Low FODMAP", wantOK: true},
		{label: "whole 30", want: "Whole30", wantOK: true},
		{label: "dairy free", wantOK: false},
		{label: "  ", wantOK: false},
		{label: "MEDITERRANEAN", want: "Mediterranean", wantOK: true},
	}
	for _, tt := range tests {
		got, ok := mealplan.TranslateDietName(tt.label)
		assert.Equal(t, tt.wantOK, ok, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}
}

func TestTranslateDietNamesDeduplicates(t *testing.T) {
	got := mealplan.TranslateDietNames([]string{
		"paleolithic", "primal", "paleo", "dairy free", "pescatarian", "pescetarian",
	})

	assert.Equal(t, []string{"Paleo", "Primal", "Pescetarian"}, got)
}
