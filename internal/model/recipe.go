package model

import "time"

// RecipeCategory selects the margin applied to a recipe's suggested price.
type RecipeCategory string

const (
	CategoryCakes    RecipeCategory = "cakes"
	CategoryCupcakes RecipeCategory = "cupcakes"
	CategoryCookies  RecipeCategory = "cookies"
	CategoryBreads   RecipeCategory = "breads"
	CategoryPastries RecipeCategory = "pastries"
	CategoryIcings   RecipeCategory = "icings"
	CategoryFillings RecipeCategory = "fillings"
	CategoryOther    RecipeCategory = "other"
)

// RecipeCategories lists every known category in display order.
var RecipeCategories = []RecipeCategory{
	CategoryCakes, CategoryCupcakes, CategoryCookies, CategoryBreads,
	CategoryPastries, CategoryIcings, CategoryFillings, CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c RecipeCategory) Valid() bool {
	for _, known := range RecipeCategories {
		if c == known {
			return true
		}
	}
	return false
}

// RecipeDifficulty is a display hint only.
type RecipeDifficulty string

const (
	DifficultyEasy   RecipeDifficulty = "easy"
	DifficultyMedium RecipeDifficulty = "medium"
	DifficultyHard   RecipeDifficulty = "hard"
)

// Recipe is a preparation made of ingredients and other recipes.
type Recipe struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Category        RecipeCategory   `json:"category"`
	Difficulty      RecipeDifficulty `json:"difficulty,omitempty"`
	GeneratedAmount float64          `json:"generated_amount"`
	GeneratedUnit   string           `json:"generated_unit"`
	Servings        int              `json:"servings"`

	// PreparationTimeMinutes covers this recipe's own steps only.
	// Sub-recipe labor is carried by the sub-recipe's own cost.
	PreparationTimeMinutes float64      `json:"preparation_time_minutes"`
	Items                  []RecipeItem `json:"recipe_items"`
	Steps                  []RecipeStep `json:"steps,omitempty"`
	Notes                  string       `json:"notes,omitempty"`
	IsActive               bool         `json:"is_active"`

	// Last persisted cost calculation. Zero until the first recalculation.
	TotalCost         float64    `json:"total_cost"`
	CostPerServing    float64    `json:"cost_per_serving"`
	LaborCost         float64    `json:"labor_cost"`
	SuggestedPrice    float64    `json:"suggested_price"`
	CostsCalculatedAt *time.Time `json:"costs_calculated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PortionSize returns the output quantity of one serving.
func (r *Recipe) PortionSize() float64 {
	if r.Servings <= 0 {
		return r.GeneratedAmount
	}
	return r.GeneratedAmount / float64(r.Servings)
}

// ApplyLoadDefaults normalizes values read from storage: a non-positive
// generated amount or serving count loads as 1 and an empty unit as grams.
func (r *Recipe) ApplyLoadDefaults() {
	if r.GeneratedAmount <= 0 {
		r.GeneratedAmount = 1
	}
	if r.Servings <= 0 {
		r.Servings = 1
	}
	if r.GeneratedUnit == "" {
		r.GeneratedUnit = "g"
	}
	if r.Category == "" {
		r.Category = CategoryOther
	}
}

// StepsDuration sums the time of all steps in minutes.
func StepsDuration(steps []RecipeStep) float64 {
	total := 0.0
	for _, s := range steps {
		total += s.TimeMinutes
	}
	return total
}

// RecipeStep is one instruction line.
type RecipeStep struct {
	ID          string  `json:"id"`
	StepNumber  int     `json:"step_number"`
	Instruction string  `json:"instruction"`
	TimeMinutes float64 `json:"time_minutes"`
	Notes       string  `json:"notes,omitempty"`
}

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	Category RecipeCategory
	Search   string
}
