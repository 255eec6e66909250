// Package recipe provides the recipe book: named recipes checked against
// and cooked from a pantry.
package recipe

import (
	"fmt"
	"sync"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Book stores recipes by unique name, in insertion order. It does not own
// the pantry it reads from and cooks against. Safe for concurrent access.
type Book struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	order   []string
	pantry  domain.Pantry
	log     *logger.Logger
}

// New creates an empty book bound to pantry.
func New(pantry domain.Pantry, log *logger.Logger) *Book {
	return &Book{
		recipes: make(map[string]*domain.Recipe),
		pantry:  pantry,
		log:     log,
	}
}

// AddRecipe stores a new recipe. An existing recipe with the same name is
// left untouched and ErrAlreadyExists is returned.
func (b *Book) AddRecipe(name, description, instructions string, ingredients []domain.Ingredient, portions float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.recipes[name]; ok {
		return fmt.Errorf("recipe %q: %w", name, domain.ErrAlreadyExists)
	}
	r, err := domain.NewRecipe(name, description, instructions, ingredients, portions)
	if err != nil {
		return fmt.Errorf("recipe %q: %w", name, err)
	}

	b.recipes[name] = r
	b.order = append(b.order, name)
	b.log.Info("recipe added: %s (%d ingredients, %g portions)", name, len(r.Ingredients), r.Portions)
	return nil
}

// GetRecipe returns the stored recipe by name.
func (b *Book) GetRecipe(name string) (*domain.Recipe, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.get(name)
}

// Names returns every recipe name in the order they were added.
func (b *Book) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.order...)
}

// Scale changes a stored recipe's portion count, rescaling its ingredients.
func (b *Book) Scale(name string, portions float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, err := b.get(name)
	if err != nil {
		return err
	}
	if err := r.SetPortions(portions); err != nil {
		return fmt.Errorf("recipe %q: %w", name, err)
	}
	b.log.Debug("recipe %s scaled to %g portions", name, portions)
	return nil
}

// CheckAvailability reports whether the pantry currently holds at least the
// required amount of every ingredient.
func (b *Book) CheckAvailability(name string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, err := b.get(name)
	if err != nil {
		return false, err
	}

	var ok bool
	err = b.pantry.View(func(inv domain.Inventory) error {
		ok, err = available(inv, r)
		return err
	})
	return ok, err
}

// SuggestAvailable lists, in insertion order, every recipe that could be
// cooked right now.
func (b *Book) SuggestAvailable() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []string
	err := b.pantry.View(func(inv domain.Inventory) error {
		for _, name := range b.order {
			ok, err := available(inv, b.recipes[name])
			if err != nil {
				return fmt.Errorf("recipe %q: %w", name, err)
			}
			if ok {
				out = append(out, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.log.Debug("suggesting %d of %d recipes", len(out), len(b.order))
	return out, nil
}

// Prepare removes every ingredient of the recipe from the pantry. The
// availability check and the removals run under one exclusive pantry
// transaction, so either every ingredient is consumed or none is.
func (b *Book) Prepare(name string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, err := b.get(name)
	if err != nil {
		return err
	}

	err = b.pantry.Update(func(inv domain.Inventory) error {
		ok, err := available(inv, r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("cannot prepare %q: %w", name, domain.ErrInsufficientIngredients)
		}
		for _, ing := range r.Ingredients {
			if err := inv.RemoveQuantity(ing.Name, ing.Quantity); err != nil {
				// Unreachable after the check above while the lock is held.
				return fmt.Errorf("removing %s for %q: %w", ing.Name, name, err)
			}
		}
		return nil
	})
	if err != nil {
		b.log.Warn("prepare %s: %v", name, err)
		return err
	}

	b.log.Info("prepared %s", name)
	return nil
}

func (b *Book) get(name string) (*domain.Recipe, error) {
	r, ok := b.recipes[name]
	if !ok {
		b.log.Debug("recipe not found: %s", name)
		return nil, fmt.Errorf("recipe %q: %w", name, domain.ErrNotFound)
	}
	return r, nil
}

// available stops at the first grocery the inventory cannot cover. A
// grocery listed on several lines must cover their sum.
func available(inv domain.Inventory, r *domain.Recipe) (bool, error) {
	need := make(map[string]float64, len(r.Ingredients))
	var order []string
	for _, ing := range r.Ingredients {
		if _, seen := need[ing.Name]; !seen {
			order = append(order, ing.Name)
		}
		need[ing.Name] += ing.Quantity
	}

	for _, name := range order {
		have, err := inv.TotalQuantity(name)
		if err != nil {
			return false, err
		}
		if have < need[name] {
			return false, nil
		}
	}
	return true, nil
}
