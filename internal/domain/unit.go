package domain

import (
	"fmt"
	"strings"
)

// Unit is the unit of measure a batch or ingredient is counted in.
// Units are never converted into one another.
type Unit int

const (
	UnitGram Unit = iota
	UnitKilogram
	UnitLitre
	UnitPiece
)

// String returns the lowercase unit name.
func (u Unit) String() string {
	switch u {
	case UnitGram:
		return "gram"
	case UnitKilogram:
		return "kilogram"
	case UnitLitre:
		return "litre"
	case UnitPiece:
		return "piece"
	default:
		return "unknown"
	}
}

// Valid reports whether u is one of the declared units.
func (u Unit) Valid() bool {
	return u >= UnitGram && u <= UnitPiece
}

// unitNames maps accepted spellings to units.
var unitNames = map[string]Unit{
	"gram":      UnitGram,
	"grams":     UnitGram,
	"g":         UnitGram,
	"kilogram":  UnitKilogram,
	"kilograms": UnitKilogram,
	"kg":        UnitKilogram,
	"litre":     UnitLitre,
	"litres":    UnitLitre,
	"liter":     UnitLitre,
	"l":         UnitLitre,
	"piece":     UnitPiece,
	"pieces":    UnitPiece,
	"pc":        UnitPiece,
	"pcs":       UnitPiece,
}

// ParseUnit converts a unit name (case-insensitive) to a Unit.
func ParseUnit(s string) (Unit, error) {
	if u, ok := unitNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidArgument, s)
}
