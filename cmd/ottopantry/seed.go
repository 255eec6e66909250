package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/recipe"
	"github.com/hammamikhairi/ottopantry/internal/storage"
)

// seed stocks a small demo pantry and one recipe that it can cover.
func seed(ledger *storage.Ledger, book *recipe.Book, now time.Time) error {
	stock := []struct {
		name   string
		qty    float64
		unit   domain.Unit
		expiry time.Time
		price  string
	}{
		{"Milk", 2, domain.UnitLitre, now.AddDate(0, 0, 5), "1.50"},
		{"Flour", 1, domain.UnitKilogram, now.AddDate(0, 3, 0), "2.00"},
		{"Eggs", 0.5, domain.UnitKilogram, now.AddDate(0, 0, 10), "0.10"},
	}
	for _, s := range stock {
		b, err := domain.NewBatch(s.name, s.qty, s.unit, s.expiry, decimal.RequireFromString(s.price))
		if err != nil {
			return err
		}
		if err := ledger.Add(b); err != nil {
			return err
		}
	}

	return book.AddRecipe("Pancakes", "Delicious pancakes", "Mix ingredients and fry on a pan.",
		[]domain.Ingredient{
			{Name: "Milk", Quantity: 1, Unit: domain.UnitLitre},
			{Name: "Flour", Quantity: 0.5, Unit: domain.UnitKilogram},
			{Name: "Eggs", Quantity: 0.1, Unit: domain.UnitKilogram},
		}, 4)
}
