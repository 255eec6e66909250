package recipe

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
	"github.com/hammamikhairi/ottopantry/internal/storage"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func setupBook(t *testing.T) (*Book, *storage.Ledger) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	ledger := storage.NewLedger(log)
	stock := []struct {
		name string
		qty  float64
		unit domain.Unit
		days int
	}{
		{"Milk", 2, domain.UnitLitre, 5},
		{"Flour", 1, domain.UnitKilogram, 90},
		{"Eggs", 0.5, domain.UnitKilogram, 10},
	}
	for _, s := range stock {
		b, err := domain.NewBatch(s.name, s.qty, s.unit, now.AddDate(0, 0, s.days), decimal.NewFromInt(1))
		if err != nil {
			t.Fatalf("new batch %s: %v", s.name, err)
		}
		if err := ledger.Add(b); err != nil {
			t.Fatalf("add %s: %v", s.name, err)
		}
	}
	return New(ledger, log), ledger
}

func pancakes() []domain.Ingredient {
	return []domain.Ingredient{
		{Name: "Milk", Quantity: 1, Unit: domain.UnitLitre},
		{Name: "Flour", Quantity: 0.5, Unit: domain.UnitKilogram},
	}
}

func quantity(t *testing.T, l *storage.Ledger, name string) float64 {
	t.Helper()
	q, err := l.TotalQuantity(name)
	if err != nil {
		t.Fatalf("total %s: %v", name, err)
	}
	return q
}

func TestAddRecipe(t *testing.T) {
	book, _ := setupBook(t)

	if err := book.AddRecipe("Pancakes", "Fluffy", "Mix and fry.", pancakes(), 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	tests := []struct {
		name     string
		recipe   string
		portions float64
		wantErr  error
	}{
		{"duplicate", "Pancakes", 2, domain.ErrAlreadyExists},
		{"zero portions", "Crepes", 0, domain.ErrInvalidArgument},
		{"negative portions", "Waffles", -1, domain.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := book.AddRecipe(tt.recipe, "other", "other", nil, tt.portions)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	r, err := book.GetRecipe("Pancakes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.Description != "Fluffy" || r.Portions != 4 || len(r.Ingredients) != 2 {
		t.Fatalf("stored recipe was altered: %+v", r)
	}
	if names := book.Names(); !reflect.DeepEqual(names, []string{"Pancakes"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestUnknownRecipe(t *testing.T) {
	book, _ := setupBook(t)

	if _, err := book.GetRecipe("Soup"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetRecipe: expected ErrNotFound, got %v", err)
	}
	if _, err := book.CheckAvailability("Soup"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("CheckAvailability: expected ErrNotFound, got %v", err)
	}
	if err := book.Prepare("Soup"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Prepare: expected ErrNotFound, got %v", err)
	}
	if err := book.Scale("Soup", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Scale: expected ErrNotFound, got %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	book, _ := setupBook(t)

	tests := []struct {
		name        string
		ingredients []domain.Ingredient
		want        bool
	}{
		{"all covered", pancakes(), true},
		{"exact amount", []domain.Ingredient{{Name: "Milk", Quantity: 2}}, true},
		{"one short", []domain.Ingredient{{Name: "Milk", Quantity: 1}, {Name: "Eggs", Quantity: 0.6}}, false},
		{"missing grocery", []domain.Ingredient{{Name: "Butter", Quantity: 0.1}}, false},
		{"no ingredients", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := book.AddRecipe(tt.name, "", "", tt.ingredients, 1); err != nil {
				t.Fatalf("add: %v", err)
			}
			got, err := book.CheckAvailability(tt.name)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if got != tt.want {
				t.Fatalf("available = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggestAvailableKeepsInsertionOrder(t *testing.T) {
	book, _ := setupBook(t)

	recipes := []struct {
		name        string
		ingredients []domain.Ingredient
	}{
		{"Porridge", []domain.Ingredient{{Name: "Milk", Quantity: 0.5}}},
		{"Omelette", []domain.Ingredient{{Name: "Eggs", Quantity: 1}}},
		{"Pancakes", pancakes()},
		{"Bread", []domain.Ingredient{{Name: "Flour", Quantity: 0.8}}},
	}
	for _, r := range recipes {
		if err := book.AddRecipe(r.name, "", "", r.ingredients, 2); err != nil {
			t.Fatalf("add %s: %v", r.name, err)
		}
	}

	got, err := book.SuggestAvailable()
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	want := []string{"Porridge", "Pancakes", "Bread"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("suggest = %v, want %v", got, want)
	}
}

func TestPreparePancakes(t *testing.T) {
	book, ledger := setupBook(t)
	if err := book.AddRecipe("Pancakes", "Delicious pancakes", "Mix ingredients and fry on a pan.", pancakes(), 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	ok, err := book.CheckAvailability("Pancakes")
	if err != nil || !ok {
		t.Fatalf("expected Pancakes available, got %v, %v", ok, err)
	}
	if err := book.Prepare("Pancakes"); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	if got := quantity(t, ledger, "Milk"); got != 1 {
		t.Errorf("Milk = %g, want 1", got)
	}
	if got := quantity(t, ledger, "Flour"); got != 0.5 {
		t.Errorf("Flour = %g, want 0.5", got)
	}
	if got := quantity(t, ledger, "Eggs"); got != 0.5 {
		t.Errorf("Eggs changed: %g", got)
	}

	// Second and third batch: the third one runs out of flour and milk.
	if err := book.Prepare("Pancakes"); err != nil {
		t.Fatalf("second prepare: %v", err)
	}
	if names := ledger.Names(); !reflect.DeepEqual(names, []string{"Eggs"}) {
		t.Errorf("expected only Eggs left, got %v", names)
	}
	err = book.Prepare("Pancakes")
	if !errors.Is(err, domain.ErrInsufficientIngredients) || !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInsufficientIngredients, got %v", err)
	}
}

func TestPrepareUnavailableLeavesPantryUnchanged(t *testing.T) {
	book, ledger := setupBook(t)
	ingredients := []domain.Ingredient{
		{Name: "Milk", Quantity: 1},
		{Name: "Flour", Quantity: 0.5},
		{Name: "Eggs", Quantity: 3},
	}
	if err := book.AddRecipe("Cake", "", "", ingredients, 8); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := book.Prepare("Cake"); !errors.Is(err, domain.ErrInsufficientIngredients) {
		t.Fatalf("expected ErrInsufficientIngredients, got %v", err)
	}
	for name, want := range map[string]float64{"Milk": 2, "Flour": 1, "Eggs": 0.5} {
		if got := quantity(t, ledger, name); got != want {
			t.Errorf("%s = %g, want %g (partial consumption)", name, got, want)
		}
	}
}

func TestPrepareRepeatedIngredient(t *testing.T) {
	tests := []struct {
		name      string
		lines     []float64
		wantOK    bool
		wantMilkL float64
	}{
		{"sum exceeds stock", []float64{1.5, 1.5}, false, 2},
		{"sum fits stock", []float64{1.5, 0.5}, true, 0},
		{"sum leaves some", []float64{0.75, 0.5}, true, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, ledger := setupBook(t)
			var ingredients []domain.Ingredient
			for _, q := range tt.lines {
				ingredients = append(ingredients, domain.Ingredient{Name: "Milk", Quantity: q, Unit: domain.UnitLitre})
			}
			if err := book.AddRecipe("Custard", "", "", ingredients, 2); err != nil {
				t.Fatalf("add: %v", err)
			}

			ok, err := book.CheckAvailability("Custard")
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("available = %v, want %v", ok, tt.wantOK)
			}

			err = book.Prepare("Custard")
			if tt.wantOK && err != nil {
				t.Fatalf("prepare: %v", err)
			}
			if !tt.wantOK && !errors.Is(err, domain.ErrInsufficientIngredients) {
				t.Fatalf("expected ErrInsufficientIngredients, got %v", err)
			}
			if got := quantity(t, ledger, "Milk"); math.Abs(got-tt.wantMilkL) > storage.Tolerance {
				t.Errorf("Milk = %g, want %g", got, tt.wantMilkL)
			}
		})
	}
}

func TestScale(t *testing.T) {
	book, _ := setupBook(t)
	ingredients := []domain.Ingredient{{Name: "Flour", Quantity: 500, Unit: domain.UnitGram}}
	if err := book.AddRecipe("Bread", "", "", ingredients, 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := book.Scale("Bread", 2); err != nil {
		t.Fatalf("scale: %v", err)
	}
	r, _ := book.GetRecipe("Bread")
	if r.Ingredients[0].Quantity != 250 || r.Portions != 2 {
		t.Fatalf("scaled recipe = %+v", r)
	}
	for _, bad := range []float64{0, math.NaN(), math.Inf(1)} {
		if err := book.Scale("Bread", bad); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("Scale(%g): expected ErrInvalidArgument, got %v", bad, err)
		}
	}
	if r.Ingredients[0].Quantity != 250 || r.Portions != 2 {
		t.Fatalf("rejected scale changed the recipe: %+v", r)
	}
	ok, err := book.CheckAvailability("Bread")
	if err != nil || ok {
		t.Fatalf("250 flour against 1 in stock reported %v, %v", ok, err)
	}
}

func TestPrepareConcurrentNeverOverdraws(t *testing.T) {
	book, ledger := setupBook(t)
	if err := book.AddRecipe("Latte", "", "", []domain.Ingredient{{Name: "Milk", Quantity: 0.3}}, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		served int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := book.Prepare("Latte")
			switch {
			case err == nil:
				mu.Lock()
				served++
				mu.Unlock()
			case !errors.Is(err, domain.ErrInsufficientIngredients):
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// 2 litres cover six lattes.
	if served != 6 {
		t.Fatalf("served %d lattes, want 6", served)
	}
	if left := quantity(t, ledger, "Milk"); left < 0 || math.Abs(left-0.2) > 1e-9 {
		t.Fatalf("milk left = %g, want 0.2", left)
	}
}
