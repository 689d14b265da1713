package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipegenie/backend/internal/models"
	"github.com/recipegenie/backend/internal/service"
	"github.com/recipegenie/backend/internal/wizard"
)

func TestCreateSessionStartsOnLanding(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, wizard.ScreenLanding, state.Session.Screen)
	assert.Equal(t, wizard.StepIngredients, state.CurrentStep.ID)
	assert.Equal(t, 8, state.StepCount)
}

func TestListStepsAndLanguages(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/wizard/steps", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ingredients")

	w = env.do(t, http.MethodGet, "/api/v1/wizard/languages", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hindi")
}

func TestNextBlockedOnUnansweredStep(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	id := decodeState(t, w).Session.ID

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSubmitAuthenticatedGeneratesResults(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "Asha", "asha@example.com")
	id := env.newWizardSession(t, token, 4)

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", token, gin.H{"language": "hi"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	state := decodeState(t, resp)
	assert.Equal(t, wizard.ScreenResults, state.Session.Screen)
	require.Len(t, state.Session.Recipes, 4)
	assert.False(t, state.Session.LimitHit)

	assert.Equal(t, 1, env.generator.calls)
	assert.Equal(t, 4, env.generator.lastCount)
	assert.Contains(t, env.generator.lastPrompt, "Paneer")
	assert.Contains(t, env.generator.lastPrompt, "Dinner")
	assert.Contains(t, env.generator.lastPrompt, "Count: 4")

	// ceil(4/2)=2 debited against today's quota.
	profile, err := env.profiles.FetchOrCreate(userID, "Asha", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, profile.RequestsUsed)

	// The request was logged.
	var logged int64
	env.db.Model(&models.RecipeRequest{}).Where("user_id = ?", userID).Count(&logged)
	assert.EqualValues(t, 1, logged)
}

func TestSubmitUnauthenticatedRoutesToLogin(t *testing.T) {
	env := newTestEnv(t)
	id := env.newWizardSession(t, "", 2)

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	state := decodeState(t, resp)
	assert.Equal(t, wizard.ScreenLogin, state.Session.Screen)
	assert.Equal(t, wizard.IntentGenerate, state.Session.Intent)
	assert.Zero(t, env.generator.calls, "no generation before authentication")

	// Login resumes the generate intent automatically.
	token, _ := env.register(t, "Asha", "asha@example.com")
	resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/login", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	state = decodeState(t, resp)
	assert.Equal(t, wizard.ScreenResults, state.Session.Screen)
	assert.Equal(t, wizard.IntentNone, state.Session.Intent)
	assert.Equal(t, 1, env.generator.calls)
	assert.Len(t, state.Session.Recipes, 2)
}

func TestSubmitOverQuotaShowsLimitModal(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "Asha", "asha@example.com")

	// Free tier limit is 8; 6 used + cost 3 must be refused.
	_, err := env.profiles.FetchOrCreate(userID, "Asha", "asha@example.com")
	require.NoError(t, err)
	require.NoError(t, env.profiles.Debit(userID, 6))

	id := env.newWizardSession(t, token, 6)
	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	state := decodeState(t, resp)
	assert.Equal(t, wizard.ScreenWizard, state.Session.Screen)
	assert.True(t, state.Session.LimitHit)
	assert.Zero(t, env.generator.calls)

	profile, err := env.profiles.FetchOrCreate(userID, "Asha", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, 6, profile.RequestsUsed, "refused request must not debit")
}

func TestSubmitExactQuotaBoundaryAllowed(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "Asha", "asha@example.com")

	_, err := env.profiles.FetchOrCreate(userID, "Asha", "asha@example.com")
	require.NoError(t, err)
	require.NoError(t, env.profiles.Debit(userID, 5))

	// used=5, cost=ceil(6/2)=3, 5+3=8 fits the free limit exactly.
	id := env.newWizardSession(t, token, 6)
	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	state := decodeState(t, resp)
	assert.Equal(t, wizard.ScreenResults, state.Session.Screen)
	assert.Equal(t, 1, env.generator.calls)
}

func TestGenerationFailureReturnsToWizard(t *testing.T) {
	env := newTestEnv(t)
	env.generator.err = service.ErrServiceBusy
	token, _ := env.register(t, "Asha", "asha@example.com")
	id := env.newWizardSession(t, token, 2)

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	session, err := env.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, wizard.ScreenWizard, session.Screen)
	assert.NotEmpty(t, session.Message)
	assert.Empty(t, session.Recipes)
}

func TestGenerationFailureKeepsStaleResults(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Asha", "asha@example.com")
	id := env.newWizardSession(t, token, 2)

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Walk back onto the last step and fail the second attempt; the old
	// results stay visible with the error layered over them.
	session, err := env.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	session.Screen = wizard.ScreenWizard
	require.NoError(t, env.sessions.Save(context.Background(), session))

	env.generator.err = service.ErrInvalidFormat
	resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	session, err = env.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, wizard.ScreenResults, session.Screen)
	assert.NotEmpty(t, session.Message)
	assert.Len(t, session.Recipes, 2)
}

func TestResetRestoresDefaultsFromAnyDepth(t *testing.T) {
	env := newTestEnv(t)
	id := env.newWizardSession(t, "", 6)

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/reset", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	state := decodeState(t, resp)
	assert.Equal(t, wizard.ScreenWizard, state.Session.Screen)
	assert.Equal(t, 0, state.Session.Machine.Step)
	assert.Equal(t, wizard.NewFormData(), state.Session.Machine.Form)
	assert.Equal(t, wizard.CustomInputs{}, state.Session.Machine.Custom)
}

func TestBackFloorsAtFirstStep(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	id := decodeState(t, w).Session.ID

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/back", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, decodeState(t, resp).Session.Machine.Step)
}

func TestViewSavedRequiresLoginWithResumeIntent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	id := decodeState(t, w).Session.ID

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/view-saved", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	state := decodeState(t, resp)
	assert.Equal(t, wizard.ScreenLogin, state.Session.Screen)
	assert.Equal(t, wizard.IntentResume, state.Session.Intent)

	// Resume intent returns to the wizard, not generation.
	token, _ := env.register(t, "Asha", "asha@example.com")
	resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/login", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	state = decodeState(t, resp)
	assert.Equal(t, wizard.ScreenWizard, state.Session.Screen)
	assert.Zero(t, env.generator.calls)

	resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/view-saved", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, wizard.ScreenSavedRecipes, decodeState(t, resp).Session.Screen)
}

func TestLogoutClearsUserState(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Asha", "asha@example.com")
	id := env.newWizardSession(t, token, 2)

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	state := decodeState(t, resp)
	assert.Empty(t, state.Session.UserID)
	assert.Equal(t, wizard.ScreenLanding, state.Session.Screen)
	assert.Empty(t, state.Session.Recipes)
	assert.Equal(t, wizard.NewFormData(), state.Session.Machine.Form)
}

func TestToggleRejectsSingleSelectStep(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	id := decodeState(t, w).Session.ID

	resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/toggle", "",
		gin.H{"step": wizard.StepFoodType, "option": "Vegetarian"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/select", "",
		gin.H{"step": wizard.StepIngredients, "option": "Rice"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/sessions/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
