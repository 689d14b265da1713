package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipegenie/backend/internal/prompt"
	"github.com/recipegenie/backend/internal/service"
	"github.com/recipegenie/backend/internal/testhelpers"
	"github.com/recipegenie/backend/internal/types"
	"github.com/recipegenie/backend/internal/wizard"
)

// fakeSessions is an in-memory SessionStore.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*wizard.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*wizard.Session)}
}

func (f *fakeSessions) Create(ctx context.Context) (*wizard.Session, error) {
	session := wizard.NewSession(uuid.New().String())
	return session, f.Save(ctx, session)
}

func (f *fakeSessions) Get(_ context.Context, id string) (*wizard.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sessions[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeSessions) Save(_ context.Context, session *wizard.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

// fakeGenerator records calls and returns canned recipes or an error.
type fakeGenerator struct {
	recipes    []types.Recipe
	err        error
	calls      int
	lastPrompt string
	lastCount  int
}

func (f *fakeGenerator) Generate(_ context.Context, promptText string, count int) ([]types.Recipe, error) {
	f.calls++
	f.lastPrompt = promptText
	f.lastCount = count
	if f.err != nil {
		return nil, f.err
	}
	out := f.recipes
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

func generatedRecipes(n int) []types.Recipe {
	out := make([]types.Recipe, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.Recipe{
			ID:    uuid.New().String(),
			Title: fmt.Sprintf("Recipe %d", i+1),
			Time:  "20 mins",
		})
	}
	return out
}

// testEnv wires the full handler graph on sqlite with fakes for redis-backed
// and outbound pieces.
type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	sessions  *fakeSessions
	generator *fakeGenerator
	auth      *service.AuthService
	profiles  *service.ProfileService
	recipes   *service.RecipeService
}

const testTemplate = "Ingredients: __INGREDIENTS__. Meal: __MEAL__. Count: __RECIPE_COUNT__."

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	logger := zap.NewNop()

	authSvc := service.NewAuthService(db, "test-secret", logger)
	profileSvc := service.NewProfileService(db, logger)
	recipeSvc := service.NewRecipeService(db, nil, logger)
	sessions := newFakeSessions()
	generator := &fakeGenerator{recipes: generatedRecipes(4)}

	builder, err := prompt.NewBuilder(testTemplate)
	require.NoError(t, err)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	NewAuthHandler(authSvc, logger).RegisterRoutes(v1)
	NewWizardHandler(sessions, profileSvc, recipeSvc, generator, authSvc, builder, nil, logger).RegisterRoutes(v1)
	NewProfileHandler(profileSvc, authSvc, logger).RegisterRoutes(v1)
	NewSavedRecipeHandler(recipeSvc, authSvc, logger).RegisterRoutes(v1)

	return &testEnv{
		router:    engine,
		db:        db,
		sessions:  sessions,
		generator: generator,
		auth:      authSvc,
		profiles:  profileSvc,
		recipes:   recipeSvc,
	}
}

// register creates an account and returns its bearer token and user id.
func (e *testEnv) register(t *testing.T, name, email string) (string, uuid.UUID) {
	t.Helper()
	token, err := e.auth.Register(name, email, "password123")
	require.NoError(t, err)
	claims, err := e.auth.ValidateToken(token)
	require.NoError(t, err)
	return token, claims.UserID
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) SessionState {
	t.Helper()
	var state SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state), "body: %s", w.Body.String())
	require.NotNil(t, state.Session)
	return state
}

// newWizardSession creates a session and walks it to the last step with
// every step answered, leaving recipe count at count.
func (e *testEnv) newWizardSession(t *testing.T, token string, count int) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/sessions", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeState(t, w).Session.ID

	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/start", token, nil).Code)

	answers := []struct {
		endpoint string
		step     string
		option   string
	}{
		{"/toggle", wizard.StepIngredients, "Paneer"},
		{"/toggle", wizard.StepAppliances, "Gas Stove"},
		{"/toggle", wizard.StepSpices, "Haldi (Turmeric)"},
		{"/select", wizard.StepFoodType, "Vegetarian"},
		{"/toggle", wizard.StepDiet, "Healthy"},
		{"/toggle", wizard.StepAllergies, "No allergies"},
		{"/select", wizard.StepTime, "20–40 mins"},
		{"/select", wizard.StepMealType, "Dinner"},
	}
	for i, a := range answers {
		resp := e.do(t, http.MethodPost, base+a.endpoint, token, gin.H{"step": a.step, "option": a.option})
		require.Equal(t, http.StatusOK, resp.Code, "answer %s", a.step)
		if i < len(answers)-1 {
			resp = e.do(t, http.MethodPost, base+"/next", token, nil)
			require.Equal(t, http.StatusOK, resp.Code, "advance past %s", a.step)
		}
	}

	resp := e.do(t, http.MethodPost, base+"/recipe-count", token, gin.H{"count": count})
	require.Equal(t, http.StatusOK, resp.Code)
	return id
}
