package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/momentocake/backend/internal/costing"
	"github.com/momentocake/backend/internal/model"
)

var errCyclesFound = errors.New("circular sub-recipe references found")

func writeJSON(w io.Writer, b *model.CostBreakdown) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func writeText(w io.Writer, b *model.CostBreakdown) error {
	p := &printer{w: w}
	p.printf("%s (%s)  yield %s %s, %d servings\n",
		b.RecipeName, b.RecipeID, formatAmount(b.GeneratedAmount), b.GeneratedUnit, b.Servings)
	p.items(b.ItemCosts, 1)
	p.printf("\n")
	p.printf("ingredients       %10.4f\n", b.IngredientCost)
	p.printf("sub-recipes       %10.4f\n", b.SubRecipeCost)
	p.printf("labor             %10.4f\n", b.LaborCost)
	p.printf("total             %10.4f\n", b.TotalCost)
	p.printf("per serving       %10.4f\n", b.CostPerServing)
	p.printf("suggested price   %10.4f  (margin %s%%)\n", b.SuggestedPrice, formatAmount(b.Margin))

	if degraded := b.DegradedItems(); len(degraded) > 0 {
		p.printf("\n%d item(s) costed as zero\n", len(degraded))
	}
	return p.err
}

// printer keeps the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) items(items []model.ItemCost, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, ic := range items {
		name := ic.Name
		if name == "" {
			name = ic.RefID
		}
		p.printf("%s- %s  %s %s  %.4f", indent, name, formatAmount(ic.Quantity), ic.Unit, ic.Cost)
		if ic.ProportionUsed != nil && !ic.Degraded() {
			p.printf("  (%.2f%% of batch)", *ic.ProportionUsed*100)
		}
		if ic.Degraded() {
			p.printf("  [%s]", ic.Issue)
		}
		p.printf("\n")
		if ic.SubRecipeBreakdown != nil {
			p.items(ic.SubRecipeBreakdown.ItemCosts, depth+1)
		}
	}
}

func writeCycles(w io.Writer, edges []costing.CycleEdge) error {
	if len(edges) == 0 {
		_, err := fmt.Fprintln(w, "no circular references")
		return err
	}
	p := &printer{w: w}
	for _, e := range edges {
		p.printf("%s uses %s: %s\n", e.RecipeID, e.SubRecipeID, strings.Join(e.Path, " -> "))
	}
	if p.err != nil {
		return p.err
	}
	return fmt.Errorf("%w: %d", errCyclesFound, len(edges))
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
