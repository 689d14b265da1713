package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"" json:"-"` // empty for federated accounts
	GoogleID     string         `gorm:"index" json:"-"`
	PhotoURL     string         `gorm:"size:255" json:"photo_url"`
	PhoneNumber  string         `gorm:"size:20" json:"phone_number"`
}

// Plan tiers determining the daily request ceiling.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// UserProfile is the per-user quota record. RequestsUsed is lazily reset to
// zero on the first read after LastRequestDate rolls past midnight; purchased
// credits never expire.
type UserProfile struct {
	ID               uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID           uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	DisplayName      string    `gorm:"size:255" json:"display_name"`
	Email            string    `gorm:"size:255" json:"email"`
	PlanTier         string    `gorm:"size:10;not null;default:'free'" json:"plan_tier"`
	RequestsUsed     int       `gorm:"not null;default:0" json:"requests_used"`
	LastRequestDate  string    `gorm:"size:10" json:"last_request_date"` // YYYY-MM-DD
	PurchasedCredits int       `gorm:"not null;default:0" json:"purchased_credits"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
