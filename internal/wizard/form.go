package wizard

// FormData holds the wizard answers, one field per step. Multi-select steps
// keep an ordered set of option labels; single-select steps keep one value.
type FormData struct {
	Ingredients []string `json:"ingredients"`
	Appliances  []string `json:"appliances"`
	Spices      []string `json:"spices"`
	FoodType    string   `json:"foodType"`
	Diet        []string `json:"diet"`
	Allergies   []string `json:"allergies"`
	Time        string   `json:"time"`
	MealType    string   `json:"mealType"`
	RecipeCount int      `json:"recipeCount"`
}

// CustomInputs carries the free-text additions per step, comma-separated raw
// strings merged with the selections at prompt time.
type CustomInputs struct {
	Ingredients string `json:"ingredients"`
	Appliances  string `json:"appliances"`
	Spices      string `json:"spices"`
	FoodType    string `json:"foodType"`
	Diet        string `json:"diet"`
	Allergies   string `json:"allergies"`
	Time        string `json:"time"`
	MealType    string `json:"mealType"`
}

// DefaultRecipeCount is the initial recipe count selection.
const DefaultRecipeCount = 2

// NewFormData returns the empty defaults a fresh wizard starts from.
func NewFormData() FormData {
	return FormData{
		Ingredients: []string{},
		Appliances:  []string{},
		Spices:      []string{},
		Diet:        []string{},
		Allergies:   []string{},
		RecipeCount: DefaultRecipeCount,
	}
}

// Clone returns a structural deep copy, so a reset never aliases the slices
// of a previous session.
func (f FormData) Clone() FormData {
	out := f
	out.Ingredients = append([]string{}, f.Ingredients...)
	out.Appliances = append([]string{}, f.Appliances...)
	out.Spices = append([]string{}, f.Spices...)
	out.Diet = append([]string{}, f.Diet...)
	out.Allergies = append([]string{}, f.Allergies...)
	return out
}

// SelectionsFor returns the selected values for a step id. Single-select
// steps yield a zero- or one-element slice.
func (f FormData) SelectionsFor(stepID string) []string {
	switch stepID {
	case StepIngredients:
		return f.Ingredients
	case StepAppliances:
		return f.Appliances
	case StepSpices:
		return f.Spices
	case StepFoodType:
		return singleton(f.FoodType)
	case StepDiet:
		return f.Diet
	case StepAllergies:
		return f.Allergies
	case StepTime:
		return singleton(f.Time)
	case StepMealType:
		return singleton(f.MealType)
	}
	return nil
}

// Toggle flips membership of an option in a multi-select step. It is a no-op
// for unknown or single-select step ids.
func (f *FormData) Toggle(stepID, option string) {
	switch stepID {
	case StepIngredients:
		f.Ingredients = toggle(f.Ingredients, option)
	case StepAppliances:
		f.Appliances = toggle(f.Appliances, option)
	case StepSpices:
		f.Spices = toggle(f.Spices, option)
	case StepDiet:
		f.Diet = toggle(f.Diet, option)
	case StepAllergies:
		f.Allergies = toggle(f.Allergies, option)
	}
}

// Select sets the value of a single-select step. No-op for multi-select ids.
func (f *FormData) Select(stepID, option string) {
	switch stepID {
	case StepFoodType:
		f.FoodType = option
	case StepTime:
		f.Time = option
	case StepMealType:
		f.MealType = option
	}
}

// For returns the free-text addition for a step id.
func (c CustomInputs) For(stepID string) string {
	switch stepID {
	case StepIngredients:
		return c.Ingredients
	case StepAppliances:
		return c.Appliances
	case StepSpices:
		return c.Spices
	case StepFoodType:
		return c.FoodType
	case StepDiet:
		return c.Diet
	case StepAllergies:
		return c.Allergies
	case StepTime:
		return c.Time
	case StepMealType:
		return c.MealType
	}
	return ""
}

// Set stores the free-text addition for a step id.
func (c *CustomInputs) Set(stepID, text string) {
	switch stepID {
	case StepIngredients:
		c.Ingredients = text
	case StepAppliances:
		c.Appliances = text
	case StepSpices:
		c.Spices = text
	case StepFoodType:
		c.FoodType = text
	case StepDiet:
		c.Diet = text
	case StepAllergies:
		c.Allergies = text
	case StepTime:
		c.Time = text
	case StepMealType:
		c.MealType = text
	}
}

func toggle(set []string, option string) []string {
	for i, v := range set {
		if v == option {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, option)
}

func singleton(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
