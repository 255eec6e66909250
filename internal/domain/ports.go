package domain

import "context"

// Inventory is the quantity view of the pantry a recipe book needs.
type Inventory interface {
	TotalQuantity(name string) (float64, error)
	RemoveQuantity(name string, amount float64) error
}

// Pantry is an Inventory that can run several operations as one unit.
// View runs fn under a shared lock, Update under an exclusive one; fn must
// use the Inventory it is handed, not the Pantry itself.
type Pantry interface {
	View(fn func(inv Inventory) error) error
	Update(fn func(inv Inventory) error) error
}

// CommandParser converts raw console input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}
