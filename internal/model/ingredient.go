package model

import "time"

// Ingredient is a purchasable raw material priced per package.
type Ingredient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`

	// MeasurementValue is the quantity contained in one package, in Unit.
	MeasurementValue float64 `json:"measurement_value"`

	// CurrentPrice is the price of one package.
	CurrentPrice float64   `json:"current_price"`
	CurrentStock float64   `json:"current_stock"`
	MinStock     float64   `json:"min_stock"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UnitPrice returns the price of one Unit of the ingredient, or 0 when the
// package size is unknown.
func (i *Ingredient) UnitPrice() float64 {
	if i == nil || i.MeasurementValue <= 0 {
		return 0
	}
	return i.CurrentPrice / i.MeasurementValue
}

// LowStock reports whether stock is at or below the alert threshold.
func (i *Ingredient) LowStock() bool {
	return i.CurrentStock <= i.MinStock
}

// IngredientPatch holds fields that can be updated on an ingredient.
type IngredientPatch struct {
	Name             *string
	Unit             *string
	MeasurementValue *float64
	CurrentPrice     *float64
	CurrentStock     *float64
	MinStock         *float64
}
