package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipegenie/backend/internal/models"
	"github.com/recipegenie/backend/internal/types"
)

func savedPayload(title string) gin.H {
	return gin.H{"recipe": types.Recipe{
		Title:       title,
		Suitability: "Quick",
		Ingredients: []types.Ingredient{{Item: "rice", Quantity: "1 cup"}},
		Method:      []string{"cook"},
		Time:        "20 mins",
		Difficulty:  "Easy",
	}}
}

func TestSavedRecipesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/saved-recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = env.do(t, http.MethodPost, "/api/v1/saved-recipes/toggle", "", savedPayload("Dal"))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestToggleEndpointSavesAndRemoves(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Asha", "asha@example.com")

	resp := env.do(t, http.MethodPost, "/api/v1/saved-recipes/toggle", token, savedPayload("Jeera Rice"))
	require.Equal(t, http.StatusOK, resp.Code)
	var toggle ToggleSaveResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &toggle))
	assert.True(t, toggle.Saved)

	resp = env.do(t, http.MethodGet, "/api/v1/saved-recipes", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Recipes []models.SavedRecipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Jeera Rice", list.Recipes[0].Title)

	// Same title toggles the bookmark off.
	resp = env.do(t, http.MethodPost, "/api/v1/saved-recipes/toggle", token, savedPayload("Jeera Rice"))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &toggle))
	assert.False(t, toggle.Saved)

	resp = env.do(t, http.MethodGet, "/api/v1/saved-recipes", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Empty(t, list.Recipes)
}

func TestToggleRejectsUntitledRecipe(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Asha", "asha@example.com")

	resp := env.do(t, http.MethodPost, "/api/v1/saved-recipes/toggle", token, savedPayload(""))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "Asha", "asha@example.com")

	_, err := env.profiles.FetchOrCreate(userID, "Asha", "asha@example.com")
	require.NoError(t, err)
	require.NoError(t, env.profiles.Debit(userID, 3))

	resp := env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body ProfileResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, models.TierFree, body.Profile.PlanTier)
	assert.Equal(t, 8, body.DailyLimit)
	assert.Equal(t, 5, body.Remaining)
	assert.Equal(t, "asha@example.com", body.User.Email)
}
