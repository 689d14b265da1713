package prompt

import (
	"errors"
	"strconv"
	"strings"

	"github.com/recipegenie/backend/internal/wizard"
)

// ErrTemplateMissing reports an empty prompt template. Detected at startup
// by config validation; kept here so a Builder constructed directly still
// fails fast instead of emitting a broken prompt.
var ErrTemplateMissing = errors.New("prompt template is not configured")

// Template placeholder tokens.
const (
	tokenIngredients  = "__INGREDIENTS__"
	tokenAppliances   = "__APPLIANCES__"
	tokenSpices       = "__SPICES__"
	tokenPreference   = "__PREFERENCE__"
	tokenDiet         = "__DIET__"
	tokenAllergies    = "__ALLERGIES__"
	tokenTime         = "__TIME__"
	tokenMeal         = "__MEAL__"
	tokenLanguageName = "__LANGUAGE_NAME__"
	tokenLanguageCode = "__LANGUAGE_CODE__"
	tokenRecipeCount  = "__RECIPE_COUNT__"
)

// Builder fills the configured prompt template from wizard answers. Pure;
// safe for concurrent use.
type Builder struct {
	template string
}

// NewBuilder returns a Builder for the given template.
func NewBuilder(template string) (*Builder, error) {
	if strings.TrimSpace(template) == "" {
		return nil, ErrTemplateMissing
	}
	return &Builder{template: template}, nil
}

// Build produces the model prompt for one generation request. Each
// multi-valued question's selections and custom additions are joined into
// one comma-separated clause; an empty clause becomes the literal "None".
// Single quotes in the template are normalized to double quotes so the
// embedded JSON schema instruction stays valid.
func (b *Builder) Build(form wizard.FormData, custom wizard.CustomInputs, langCode string) string {
	out := strings.ReplaceAll(b.template, "'", "\"")

	replacements := []struct {
		token string
		value string
	}{
		{tokenIngredients, clause(form, custom, wizard.StepIngredients)},
		{tokenAppliances, clause(form, custom, wizard.StepAppliances)},
		{tokenSpices, clause(form, custom, wizard.StepSpices)},
		{tokenPreference, form.FoodType},
		{tokenDiet, clause(form, custom, wizard.StepDiet)},
		{tokenAllergies, clause(form, custom, wizard.StepAllergies)},
		{tokenTime, form.Time},
		{tokenMeal, form.MealType},
		{tokenLanguageName, LanguageName(langCode)},
		{tokenLanguageCode, langCode},
	}
	for _, r := range replacements {
		out = strings.Replace(out, r.token, r.value, 1)
	}

	count := form.RecipeCount
	if count <= 0 {
		count = wizard.DefaultRecipeCount
	}
	return strings.ReplaceAll(out, tokenRecipeCount, strconv.Itoa(count))
}

func clause(form wizard.FormData, custom wizard.CustomInputs, stepID string) string {
	selected := strings.Join(form.SelectionsFor(stepID), ", ")
	extra := strings.TrimSpace(custom.For(stepID))

	switch {
	case selected != "" && extra != "":
		return selected + ", " + extra
	case selected != "":
		return selected
	case extra != "":
		return extra
	default:
		return "None"
	}
}
