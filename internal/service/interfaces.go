package service

import (
	"context"

	"github.com/recipegenie/backend/internal/types"
	"github.com/recipegenie/backend/internal/wizard"
)

// SessionStore persists shell sessions.
type SessionStore interface {
	Create(ctx context.Context) (*wizard.Session, error)
	Get(ctx context.Context, id string) (*wizard.Session, error)
	Save(ctx context.Context, session *wizard.Session) error
	Delete(ctx context.Context, id string) error
}

// RecipeGenerator produces recipes from a prompt.
type RecipeGenerator interface {
	Generate(ctx context.Context, prompt string, count int) ([]types.Recipe, error)
}

var (
	_ SessionStore    = (*SessionService)(nil)
	_ RecipeGenerator = (*GeminiService)(nil)
)
