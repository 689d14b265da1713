package wizard

// SelectionType distinguishes steps that collect one value from steps that
// collect a set.
type SelectionType string

const (
	SingleSelect SelectionType = "single"
	MultiSelect  SelectionType = "multi"
)

// Step identifiers, in wizard order.
const (
	StepIngredients = "ingredients"
	StepAppliances  = "appliances"
	StepSpices      = "spices"
	StepFoodType    = "foodType"
	StepDiet        = "diet"
	StepAllergies   = "allergies"
	StepTime        = "time"
	StepMealType    = "mealType"
)

// StepConfig describes one wizard question. Static; never mutated at runtime.
type StepConfig struct {
	ID          string        `json:"id"`
	TitleKey    string        `json:"title_key"`
	SubtitleKey string        `json:"subtitle_key"`
	Type        SelectionType `json:"type"`
	Options     []string      `json:"options"`
	Icon        string        `json:"icon"`
}

var IngredientsList = []string{
	"Potato (Aloo)", "Onion (Pyaaz)", "Tomato", "Paneer", "Chicken", "Eggs",
	"Rice", "Atta (Wheat Flour)", "Dal (Lentils)", "Besan", "Spinach (Palak)",
	"Cauliflower (Gobi)", "Carrot", "Peas (Matar)", "Milk", "Curd (Dahi)",
	"Bread", "Maggi/Pasta",
}

var AppliancesList = []string{
	"Gas Stove", "Induction", "Microwave", "OTG", "Air Fryer",
	"Pressure Cooker", "Blender/Mixer", "No-Flame/Basic",
}

var SpicesList = []string{
	"Haldi (Turmeric)", "Red Chilli Powder", "Garam Masala", "Jeera (Cumin)",
	"Dhania Powder", "Mustard Seeds (Rai)", "Hing", "Ginger/Garlic",
	"Curry Leaves", "Black Pepper", "Salt",
}

var OilsList = []string{
	"Refined Oil", "Mustard Oil", "Ghee", "Butter", "Olive Oil",
}

var FoodTypeList = []string{"Vegetarian", "Non-Vegetarian", "Eggitarian"}

var DietList = []string{
	"Healthy", "Diet Friendly", "Protein Rich", "Comfort Food",
	"Kids Friendly", "Quick & Easy",
}

var AllergiesList = []string{
	"Dairy", "Gluten", "Nuts", "Soy", "Eggs", "Seafood", "No allergies",
}

var TimeList = []string{"Under 10 mins", "10–20 mins", "20–40 mins", "40+ mins"}

var MealList = []string{"Breakfast", "Lunch", "Dinner", "Snacks"}

// Steps is the ordered wizard configuration.
var Steps = []StepConfig{
	{ID: StepIngredients, TitleKey: "ingredients", SubtitleKey: "ingredients", Type: MultiSelect, Options: IngredientsList, Icon: "refrigerator"},
	{ID: StepAppliances, TitleKey: "appliances", SubtitleKey: "appliances", Type: MultiSelect, Options: AppliancesList, Icon: "zap"},
	{ID: StepSpices, TitleKey: "spices", SubtitleKey: "spices", Type: MultiSelect, Options: append(append([]string{}, SpicesList...), OilsList...), Icon: "flame"},
	{ID: StepFoodType, TitleKey: "foodType", SubtitleKey: "foodType", Type: SingleSelect, Options: FoodTypeList, Icon: "leaf"},
	{ID: StepDiet, TitleKey: "diet", SubtitleKey: "diet", Type: MultiSelect, Options: DietList, Icon: "star"},
	{ID: StepAllergies, TitleKey: "allergies", SubtitleKey: "allergies", Type: MultiSelect, Options: AllergiesList, Icon: "alert-circle"},
	{ID: StepTime, TitleKey: "time", SubtitleKey: "time", Type: SingleSelect, Options: TimeList, Icon: "clock"},
	{ID: StepMealType, TitleKey: "mealType", SubtitleKey: "mealType", Type: SingleSelect, Options: MealList, Icon: "utensils"},
}

// StepCount is the number of configured wizard steps.
func StepCount() int { return len(Steps) }

// StepByID returns the configuration for a step id.
func StepByID(id string) (StepConfig, bool) {
	for _, s := range Steps {
		if s.ID == id {
			return s, true
		}
	}
	return StepConfig{}, false
}
