package mealplan

import "github.com/google/uuid"

// Recipe is a catalog recipe as seen by the generator. Recipes imported from
// the external catalog carry an ExternalID; user-authored ones do not and are
// never offered for generation.
type Recipe struct {
	ID           uuid.UUID
	ExternalID   *int64
	Title        string
	Calories     *float64
	DishTypes    []string
	Diets        []string
	Cuisines     []string
	Vegetarian   bool
	Vegan        bool
	GlutenFree   bool
	DairyFree    bool
	LowFodmap    bool
	ImageURL     string
	ReadyMinutes int
	Servings     int
	Summary      string
}

// IsCatalogRecipe reports whether the recipe came from the external catalog
func (r Recipe) IsCatalogRecipe() bool {
	return r.ExternalID != nil
}

// IDSet is a set of recipe identifiers
type IDSet map[uuid.UUID]struct{}

// NewIDSet builds a set from ids
func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id
func (s IDSet) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

// Has reports membership
func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the members in unspecified order
func (s IDSet) Slice() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// Clone returns a copy of the set
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}
