// Package domain defines the core types and interfaces for the pantry.
// All other packages depend on domain; domain depends on nothing internal.
package domain

import (
	"fmt"
	"strings"
)

// Ingredient is an amount of a named grocery a recipe calls for. It is not
// linked to any batch in the ledger.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     Unit
}

// Recipe is a named, portion-scaled list of ingredients plus its text.
type Recipe struct {
	Name         string
	Description  string
	Instructions string
	Ingredients  []Ingredient
	Portions     float64
}

// NewRecipe validates and creates a recipe. The ingredient slice is copied
// so later scaling never touches the caller's values.
func NewRecipe(name, description, instructions string, ingredients []Ingredient, portions float64) (*Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: recipe name is empty", ErrInvalidArgument)
	}
	if !positive(portions) {
		return nil, fmt.Errorf("%w: portions must be a positive number, got %g", ErrInvalidArgument, portions)
	}
	for i, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return nil, fmt.Errorf("%w: ingredient %d has no name", ErrInvalidArgument, i+1)
		}
		if !positive(ing.Quantity) {
			return nil, fmt.Errorf("%w: ingredient %q needs a positive quantity", ErrInvalidArgument, ing.Name)
		}
	}

	return &Recipe{
		Name:         name,
		Description:  description,
		Instructions: instructions,
		Ingredients:  append([]Ingredient(nil), ingredients...),
		Portions:     portions,
	}, nil
}

// SetPortions rescales every ingredient linearly to the new portion count.
func (r *Recipe) SetPortions(portions float64) error {
	if !positive(portions) {
		return fmt.Errorf("%w: portions must be a positive number, got %g", ErrInvalidArgument, portions)
	}
	ratio := portions / r.Portions
	for i := range r.Ingredients {
		r.Ingredients[i].Quantity *= ratio
	}
	r.Portions = portions
	return nil
}

// String renders the recipe for display.
func (r *Recipe) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%g portions)\n", r.Name, r.Portions)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", r.Description)
	}
	b.WriteString("Ingredients:\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "  - %s: %g %s\n", ing.Name, ing.Quantity, ing.Unit)
	}
	if r.Instructions != "" {
		fmt.Fprintf(&b, "Instructions:\n  %s\n", r.Instructions)
	}
	return b.String()
}
