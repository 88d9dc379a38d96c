package model

import "time"

// RecipeSettings holds the pricing parameters shared by all recipes.
type RecipeSettings struct {
	ID string `json:"id"`

	// LaborHourRate is the currency cost of one hour of work.
	LaborHourRate float64 `json:"labor_hour_rate"`

	// DefaultMargin is a percentage (150 means +150%).
	DefaultMargin     float64                    `json:"default_margin"`
	MarginsByCategory map[RecipeCategory]float64 `json:"margins_by_category"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

// DefaultSettingsID marks settings that were never stored.
const DefaultSettingsID = "default"

// DefaultRecipeSettings returns the settings used until an operator saves
// their own.
func DefaultRecipeSettings() *RecipeSettings {
	return &RecipeSettings{
		ID:            DefaultSettingsID,
		LaborHourRate: 25,
		DefaultMargin: 150,
		MarginsByCategory: map[RecipeCategory]float64{
			CategoryCakes:    150,
			CategoryCupcakes: 180,
			CategoryCookies:  200,
			CategoryBreads:   120,
			CategoryPastries: 160,
			CategoryIcings:   300,
			CategoryFillings: 250,
			CategoryOther:    150,
		},
	}
}

// MarginFor returns the margin percentage for category, falling back to
// DefaultMargin when the category has no (or a zero) entry.
func (s *RecipeSettings) MarginFor(category RecipeCategory) float64 {
	if m, ok := s.MarginsByCategory[category]; ok && m != 0 {
		return m
	}
	return s.DefaultMargin
}

// LaborCost converts minutes of work into currency.
func (s *RecipeSettings) LaborCost(minutes float64) float64 {
	return minutes / 60 * s.LaborHourRate
}

// RecipeSettingsPatch holds fields that can be updated on the settings.
type RecipeSettingsPatch struct {
	LaborHourRate     *float64
	DefaultMargin     *float64
	MarginsByCategory map[RecipeCategory]float64
}
