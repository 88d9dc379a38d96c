package model

import "time"

// CostIssue tags an item whose contribution was degraded to zero.
type CostIssue string

const (
	IssueIngredientNotFound CostIssue = "ingredient_not_found"
	IssueRecipeNotFound     CostIssue = "recipe_not_found"
	IssueCircularReference  CostIssue = "circular_reference"
	IssueMaxDepthExceeded   CostIssue = "max_depth_exceeded"
	IssueMissingReference   CostIssue = "missing_reference"
	IssueZeroYield          CostIssue = "zero_generated_amount"
)

// CostBreakdown is the computed cost report for one recipe. Values are not
// rounded.
type CostBreakdown struct {
	RecipeID         string         `json:"recipe_id"`
	RecipeName       string         `json:"recipe_name"`
	Category         RecipeCategory `json:"category"`
	IngredientCost   float64        `json:"ingredient_cost"`
	SubRecipeCost    float64        `json:"sub_recipe_cost"`
	TotalItemCost    float64        `json:"total_item_cost"`
	LaborCost        float64        `json:"labor_cost"`
	TotalCost        float64        `json:"total_cost"`
	CostPerServing   float64        `json:"cost_per_serving"`
	Margin           float64        `json:"margin"`
	SuggestedPrice   float64        `json:"suggested_price"`
	ProfitAmount     float64        `json:"profit_amount"`
	ProfitPercentage float64        `json:"profit_percentage"`
	Servings         int            `json:"servings"`
	GeneratedAmount  float64        `json:"generated_amount"`
	GeneratedUnit    string         `json:"generated_unit"`
	ItemCosts        []ItemCost     `json:"item_costs"`
	CalculatedAt     time.Time      `json:"calculated_at"`
}

// ItemCost mirrors one RecipeItem in a breakdown.
type ItemCost struct {
	ItemID   string   `json:"item_id"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	RefID    string   `json:"ref_id"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	UnitCost float64  `json:"unit_cost"`
	Cost     float64  `json:"cost"`

	// Recipe items only.
	ProportionUsed     *float64       `json:"proportion_used,omitempty"`
	SubRecipeBreakdown *CostBreakdown `json:"sub_recipe_breakdown,omitempty"`

	Issue CostIssue `json:"issue,omitempty"`
}

// Degraded reports whether the item was zeroed instead of costed.
func (c ItemCost) Degraded() bool { return c.Issue != "" }

// DegradedItems walks the breakdown tree and returns every degraded entry.
func (b *CostBreakdown) DegradedItems() []ItemCost {
	var out []ItemCost
	for _, ic := range b.ItemCosts {
		if ic.Degraded() {
			out = append(out, ic)
		}
		if ic.SubRecipeBreakdown != nil {
			out = append(out, ic.SubRecipeBreakdown.DegradedItems()...)
		}
	}
	return out
}
