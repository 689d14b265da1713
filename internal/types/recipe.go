package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Nutrition holds display-ready nutrition strings as returned by the model.
type Nutrition struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fats     string `json:"fats"`
	Vitamins string `json:"vitamins"`
}

// Ingredient accepts both forms the model emits for an ingredient entry:
// a plain string, or a structured {item, quantity, notes} object.
type Ingredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		i.Item = str
		i.Quantity = ""
		i.Notes = ""
		return nil
	}

	var obj struct {
		Item     string `json:"item"`
		Quantity string `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Item != "" {
		i.Item = obj.Item
		i.Quantity = obj.Quantity
		i.Notes = obj.Notes
		return nil
	}

	return fmt.Errorf("invalid ingredient format: %s", string(data))
}

func (i Ingredient) MarshalJSON() ([]byte, error) {
	if i.Quantity == "" && i.Notes == "" {
		return json.Marshal(i.Item)
	}
	type alias Ingredient
	return json.Marshal(alias(i))
}

// String renders the ingredient as a single display line.
func (i Ingredient) String() string {
	var b strings.Builder
	if i.Quantity != "" {
		b.WriteString(i.Quantity)
		b.WriteString(" ")
	}
	b.WriteString(i.Item)
	if i.Notes != "" {
		b.WriteString(" (")
		b.WriteString(i.Notes)
		b.WriteString(")")
	}
	return b.String()
}

// Recipe is one generated recipe as parsed from the model response.
// Immutable once parsed; ID is assigned server-side so that two recipes
// sharing a title remain distinguishable.
type Recipe struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Suitability string       `json:"suitability"`
	MatchReason string       `json:"matchReason"`
	Ingredients []Ingredient `json:"ingredients"`
	Method      []string     `json:"method"`
	Time        string       `json:"time"`
	Difficulty  string       `json:"difficulty"`
	Variations  string       `json:"variations,omitempty"`
	Nutrition   Nutrition    `json:"nutrition"`
}
