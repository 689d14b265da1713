package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StringArray stores a string slice as a JSON column.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// JSONMap stores an arbitrary JSON object column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// SavedRecipe is a user's bookmarked copy of a generated recipe. The title is
// the bookmark key: toggling a title that is already saved removes it.
type SavedRecipe struct {
	ID          uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string      `gorm:"size:255;not null;index" json:"title"`
	Suitability string      `gorm:"size:255" json:"suitability"`
	MatchReason string      `gorm:"type:text" json:"matchReason"`
	Ingredients StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Method      StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"method"`
	Time        string      `gorm:"size:50" json:"time"`
	Difficulty  string      `gorm:"size:50" json:"difficulty"`
	Variations  string      `gorm:"type:text" json:"variations,omitempty"`
	Calories    string      `gorm:"size:50" json:"calories"`
	Protein     string      `gorm:"size:50" json:"protein"`
	Carbs       string      `gorm:"size:50" json:"carbs"`
	Fats        string      `gorm:"size:50" json:"fats"`
	Vitamins    string      `gorm:"size:255" json:"vitamins"`
	SavedAt     time.Time   `json:"saved_at"`
}

// RecipeRequest is an append-only log entry recorded for each successful
// generation, mirroring what the user asked for and what it cost.
type RecipeRequest struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Request    JSONMap   `gorm:"type:jsonb;not null;default:'{}'" json:"request"`
	CreditCost int       `gorm:"not null" json:"credit_cost"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreditPurchase tracks a checkout started through the payment gateway.
type CreditPurchase struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanID     int       `gorm:"not null" json:"plan_id"`
	Credits    int       `gorm:"not null" json:"credits"`
	AmountINR  int       `gorm:"not null" json:"amount_inr"`
	Status     string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	GatewayRef string    `gorm:"size:255" json:"gateway_ref"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Purchase statuses.
const (
	PurchasePending   = "pending"
	PurchaseInitiated = "initiated"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)
