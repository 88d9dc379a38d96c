// Package catalog loads recipes, ingredients and pricing settings from a
// YAML file so costs can be computed without a database.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog wraps every structural problem found while loading.
var ErrInvalidCatalog = errors.New("invalid catalog")

type settingsDoc struct {
	LaborHourRate     *float64                         `yaml:"labor_hour_rate"`
	DefaultMargin     *float64                         `yaml:"default_margin"`
	MarginsByCategory map[model.RecipeCategory]float64 `yaml:"margins_by_category"`
}

type ingredientDoc struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	Unit             string  `yaml:"unit"`
	MeasurementValue float64 `yaml:"measurement_value"`
	CurrentPrice     float64 `yaml:"current_price"`
}

type itemDoc struct {
	Ingredient string  `yaml:"ingredient"`
	Recipe     string  `yaml:"recipe"`
	Quantity   float64 `yaml:"quantity"`
	Unit       string  `yaml:"unit"`
	Notes      string  `yaml:"notes"`
}

type stepDoc struct {
	Instruction string  `yaml:"instruction"`
	TimeMinutes float64 `yaml:"time_minutes"`
}

type recipeDoc struct {
	ID                     string               `yaml:"id"`
	Name                   string               `yaml:"name"`
	Category               model.RecipeCategory `yaml:"category"`
	GeneratedAmount        float64              `yaml:"generated_amount"`
	GeneratedUnit          string               `yaml:"generated_unit"`
	Servings               int                  `yaml:"servings"`
	PreparationTimeMinutes *float64             `yaml:"preparation_time_minutes"`
	Items                  []itemDoc            `yaml:"items"`
	Steps                  []stepDoc            `yaml:"steps"`
}

type document struct {
	Settings    *settingsDoc    `yaml:"settings"`
	Ingredients []ingredientDoc `yaml:"ingredients"`
	Recipes     []recipeDoc     `yaml:"recipes"`
}

// Catalog is an immutable in-memory set of recipes and ingredients. It
// satisfies costing.RecipeLookup, costing.IngredientLookup and
// costing.SettingsProvider.
type Catalog struct {
	recipes     map[string]*model.Recipe
	ingredients map[string]*model.Ingredient
	settings    *model.RecipeSettings
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a Catalog from YAML. Settings not present in the document
// keep their default values.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		recipes:     make(map[string]*model.Recipe, len(doc.Recipes)),
		ingredients: make(map[string]*model.Ingredient, len(doc.Ingredients)),
		settings:    model.DefaultRecipeSettings(),
	}

	if s := doc.Settings; s != nil {
		if s.LaborHourRate != nil {
			c.settings.LaborHourRate = *s.LaborHourRate
		}
		if s.DefaultMargin != nil {
			c.settings.DefaultMargin = *s.DefaultMargin
		}
		for cat, m := range s.MarginsByCategory {
			c.settings.MarginsByCategory[cat] = m
		}
	}

	for i, d := range doc.Ingredients {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: ingredient #%d has no id", ErrInvalidCatalog, i+1)
		}
		if _, dup := c.ingredients[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate ingredient id %q", ErrInvalidCatalog, d.ID)
		}
		name := d.Name
		if name == "" {
			name = d.ID
		}
		unit := d.Unit
		if unit == "" {
			unit = "g"
		}
		c.ingredients[d.ID] = &model.Ingredient{
			ID:               d.ID,
			Name:             name,
			Unit:             unit,
			MeasurementValue: d.MeasurementValue,
			CurrentPrice:     d.CurrentPrice,
			IsActive:         true,
		}
	}

	for i, d := range doc.Recipes {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: recipe #%d has no id", ErrInvalidCatalog, i+1)
		}
		if _, dup := c.recipes[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate recipe id %q", ErrInvalidCatalog, d.ID)
		}
		r, err := d.toRecipe()
		if err != nil {
			return nil, err
		}
		c.recipes[d.ID] = r
	}
	c.denormalizeNames()
	return c, nil
}

// denormalizeNames copies referenced names onto items, as stored recipes
// carry them.
func (c *Catalog) denormalizeNames() {
	for _, r := range c.recipes {
		for i := range r.Items {
			it := &r.Items[i]
			if it.Ingredient != nil {
				if ing, ok := c.ingredients[it.Ingredient.IngredientID]; ok {
					it.Ingredient.Name = ing.Name
				}
			}
			if it.SubRecipe != nil {
				if sub, ok := c.recipes[it.SubRecipe.SubRecipeID]; ok {
					it.SubRecipe.Name = sub.Name
				}
			}
		}
	}
}

func (d recipeDoc) toRecipe() (*model.Recipe, error) {
	r := &model.Recipe{
		ID:              d.ID,
		Name:            d.Name,
		Category:        d.Category,
		GeneratedAmount: d.GeneratedAmount,
		GeneratedUnit:   d.GeneratedUnit,
		Servings:        d.Servings,
		IsActive:        true,
	}
	if r.Name == "" {
		r.Name = d.ID
	}

	for i, s := range d.Steps {
		r.Steps = append(r.Steps, model.RecipeStep{
			ID:          fmt.Sprintf("%s-step-%d", d.ID, i+1),
			StepNumber:  i + 1,
			Instruction: s.Instruction,
			TimeMinutes: s.TimeMinutes,
		})
	}
	if d.PreparationTimeMinutes != nil {
		r.PreparationTimeMinutes = *d.PreparationTimeMinutes
	} else {
		r.PreparationTimeMinutes = model.StepsDuration(r.Steps)
	}

	for i, it := range d.Items {
		id := fmt.Sprintf("%s-item-%d", d.ID, i+1)
		unit := it.Unit
		if unit == "" {
			unit = "g"
		}
		var item model.RecipeItem
		switch {
		case it.Ingredient != "" && it.Recipe != "":
			return nil, fmt.Errorf("%w: recipe %q item %d names both an ingredient and a recipe", ErrInvalidCatalog, d.ID, i+1)
		case it.Ingredient != "":
			item = model.NewIngredientItem(id, it.Ingredient, it.Quantity, unit)
		case it.Recipe != "":
			item = model.NewSubRecipeItem(id, it.Recipe, it.Quantity, unit)
		default:
			return nil, fmt.Errorf("%w: recipe %q item %d names neither an ingredient nor a recipe", ErrInvalidCatalog, d.ID, i+1)
		}
		item.Notes = it.Notes
		item.SortOrder = i
		r.Items = append(r.Items, item)
	}

	r.ApplyLoadDefaults()
	return r, nil
}

// GetRecipe returns the recipe with id or an error wrapping
// repository.ErrNotFound.
func (c *Catalog) GetRecipe(_ context.Context, id string) (*model.Recipe, error) {
	r, ok := c.recipes[id]
	if !ok {
		return nil, fmt.Errorf("catalog recipe %q: %w", id, repository.ErrNotFound)
	}
	return r, nil
}

// GetIngredient returns the ingredient with id or an error wrapping
// repository.ErrNotFound.
func (c *Catalog) GetIngredient(_ context.Context, id string) (*model.Ingredient, error) {
	i, ok := c.ingredients[id]
	if !ok {
		return nil, fmt.Errorf("catalog ingredient %q: %w", id, repository.ErrNotFound)
	}
	return i, nil
}

// GetSettings returns the catalog's pricing settings.
func (c *Catalog) GetSettings(_ context.Context) (*model.RecipeSettings, error) {
	return c.settings, nil
}

// Recipes returns every recipe sorted by id.
func (c *Catalog) Recipes() []*model.Recipe {
	out := make([]*model.Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
