package mealplan

import (
	"errors"
	"fmt"
)

// Generation failure kinds. Both are client-correctable.
var (
	ErrInsufficientRecipeVariety = errors.New("insufficient recipe variety")
	ErrPreferencesTooStrict      = errors.New("preferences too strict")
)

// GenerationError describes why a plan could not be produced
type GenerationError struct {
	Kind   error
	Slot   *MealSlot
	Detail string
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	if e.Slot != nil {
		return fmt.Sprintf("%s for %s: %s", e.Kind, e.Slot, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap exposes the kind to errors.Is
func (e *GenerationError) Unwrap() error {
	return e.Kind
}

// NewInsufficientVarietyError reports an empty candidate pool for slot
func NewInsufficientVarietyError(slot MealSlot) error {
	return &GenerationError{
		Kind:   ErrInsufficientRecipeVariety,
		Slot:   &slot,
		Detail: "no recipes match your preferences, try adjusting them",
	}
}

func tooStrict(detail string) error {
	return &GenerationError{Kind: ErrPreferencesTooStrict, Detail: detail}
}
