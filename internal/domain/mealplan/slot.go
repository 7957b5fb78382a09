// Package mealplan contains the domain logic for multi-day meal plan generation:
// calorie allocation, preference normalization and daily slot assembly.
package mealplan

import (
	"fmt"
	"strings"
)

// MealSlot identifies a meal within a day. The ordinal is persisted.
type MealSlot int

const (
	SlotBreakfast MealSlot = iota
	SlotLunch
	SlotDinner
)

// Slots lists every slot in generation order. Dinner sourcing depends on
// lunch having been sourced first.
var Slots = [...]MealSlot{SlotBreakfast, SlotLunch, SlotDinner}

// String returns the upper-case slot name
func (s MealSlot) String() string {
	switch s {
	case SlotBreakfast:
		return "BREAKFAST"
	case SlotLunch:
		return "LUNCH"
	case SlotDinner:
		return "DINNER"
	default:
		return fmt.Sprintf("MealSlot(%d)", int(s))
	}
}

// Valid reports whether s is one of the three known slots
func (s MealSlot) Valid() bool {
	return s >= SlotBreakfast && s <= SlotDinner
}

// MealType returns the lower-case label stored on persisted meal items
func (s MealSlot) MealType() string {
	switch s {
	case SlotBreakfast:
		return "breakfast"
	case SlotLunch:
		return "lunch"
	case SlotDinner:
		return "dinner"
	default:
		return ""
	}
}

// ParseMealSlot converts an ordinal into a MealSlot
func ParseMealSlot(ordinal int) (MealSlot, error) {
	s := MealSlot(ordinal)
	if !s.Valid() {
		return 0, fmt.Errorf("invalid meal slot %d", ordinal)
	}
	return s, nil
}

// ParseMealSlotName converts a case-insensitive meal type label into a MealSlot
func ParseMealSlotName(name string) (MealSlot, error) {
	for _, s := range Slots {
		if strings.EqualFold(name, s.MealType()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("invalid meal slot %q", name)
}

// CaloriePercentages is the share of the daily goal assigned to each slot.
// The values sum to exactly 1.0.
var CaloriePercentages = map[MealSlot]float64{
	SlotBreakfast: 0.25,
	SlotLunch:     0.40,
	SlotDinner:    0.35,
}

// DishTypeConfig maps a meal type to the dish-type tags accepted from the
// local catalog and the dish type sent to the external catalog.
type DishTypeConfig struct {
	LocalDishTypes   []string
	ExternalDishType string
}

// MealTypeDishTypes is keyed by meal type label.
var MealTypeDishTypes = map[string]DishTypeConfig{
	"breakfast":   {LocalDishTypes: []string{"breakfast"}, ExternalDishType: "breakfast"},
	"lunch":       {LocalDishTypes: []string{"main course", "salad", "soup"}, ExternalDishType: "main course"},
	"dinner":      {LocalDishTypes: []string{"main course", "salad", "soup"}, ExternalDishType: "main course"},
	"main course": {LocalDishTypes: []string{"main course", "salad", "soup"}, ExternalDishType: "main course"},
	"snack":       {LocalDishTypes: []string{"snack", "fingerfood"}, ExternalDishType: "snack"},
	"dessert":     {LocalDishTypes: []string{"dessert"}, ExternalDishType: "dessert"},
	"salad":       {LocalDishTypes: []string{"salad"}, ExternalDishType: "salad"},
	"beverage":    {LocalDishTypes: []string{"beverage", "drink"}, ExternalDishType: "beverage"},
	"appetizer":   {LocalDishTypes: []string{"appetizer", "side dish"}, ExternalDishType: "appetizer"},
	"soup":        {LocalDishTypes: []string{"soup"}, ExternalDishType: "soup"},
	"side dish":   {LocalDishTypes: []string{"side dish"}, ExternalDishType: "side dish"},
}

// DishTypes returns the dish type configuration for the slot
func (s MealSlot) DishTypes() DishTypeConfig {
	return MealTypeDishTypes[s.MealType()]
}
