package model

import "time"

// CostReport points at a stored snapshot of a cost breakdown.
type CostReport struct {
	RecipeID  string         `json:"recipe_id"`
	Key       string         `json:"key"`
	URL       string         `json:"url"`
	CreatedAt time.Time      `json:"created_at"`
	Costs     *CostBreakdown `json:"costs"`
}
