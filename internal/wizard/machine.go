package wizard

import (
	"fmt"

	"github.com/recipegenie/backend/internal/types"
)

// Screen names for the application shell.
type Screen string

const (
	ScreenLanding      Screen = "landing"
	ScreenWizard       Screen = "wizard"
	ScreenLogin        Screen = "login"
	ScreenGenerating   Screen = "generating"
	ScreenResults      Screen = "results"
	ScreenSavedRecipes Screen = "saved-recipes"
)

// LoginIntent records why the shell moved to the login screen, so a
// successful sign-in can resume the right flow.
type LoginIntent string

const (
	IntentNone     LoginIntent = ""
	IntentGenerate LoginIntent = "generate"
	IntentResume   LoginIntent = "resume"
)

// ErrStepIncomplete reports an Advance attempt on an unanswered step.
var ErrStepIncomplete = fmt.Errorf("current step is incomplete")

// Machine is the wizard's answer-collecting state machine. Pure state, no
// I/O; the session service persists it between requests.
type Machine struct {
	Step   int          `json:"step"`
	Form   FormData     `json:"form"`
	Custom CustomInputs `json:"custom"`
}

// NewMachine returns a machine positioned on the first step with empty
// defaults.
func NewMachine() Machine {
	return Machine{Step: 0, Form: NewFormData()}
}

// Current returns the configuration of the step the machine is on.
func (m *Machine) Current() StepConfig {
	if m.Step < 0 || m.Step >= len(Steps) {
		return Steps[0]
	}
	return Steps[m.Step]
}

// StepValid reports whether the current step's answer satisfies its
// validity predicate: at least one selection, or non-empty custom text.
func (m *Machine) StepValid() bool {
	step := m.Current()
	if len(m.Form.SelectionsFor(step.ID)) > 0 {
		return true
	}
	return m.Custom.For(step.ID) != ""
}

// Advance moves to the next step. On the last step it does not move; it
// returns submit=true to signal that generation should run. Returns
// ErrStepIncomplete when the current step fails its validity predicate.
func (m *Machine) Advance() (submit bool, err error) {
	if !m.StepValid() {
		return false, ErrStepIncomplete
	}
	if m.Step >= len(Steps)-1 {
		return true, nil
	}
	m.Step++
	return false, nil
}

// Retreat moves one step back, flooring at the first step.
func (m *Machine) Retreat() {
	if m.Step > 0 {
		m.Step--
	}
}

// Reset restores the machine to a fresh state. The form is rebuilt from
// defaults, never shared with the previous answers.
func (m *Machine) Reset() {
	m.Step = 0
	m.Form = NewFormData()
	m.Custom = CustomInputs{}
}

// Session is the per-user shell state: which screen is showing, the wizard
// machine, the latest results and any inline message. It is the single
// store the handlers read and mutate.
type Session struct {
	ID       string         `json:"id"`
	UserID   string         `json:"user_id,omitempty"`
	Screen   Screen         `json:"screen"`
	Intent   LoginIntent    `json:"intent,omitempty"`
	LimitHit bool           `json:"limit_hit,omitempty"`
	Message  string         `json:"message,omitempty"`
	Machine  Machine        `json:"machine"`
	Recipes  []types.Recipe `json:"recipes,omitempty"`
}

// NewSession returns a session on the landing screen with a fresh machine.
func NewSession(id string) *Session {
	return &Session{ID: id, Screen: ScreenLanding, Machine: NewMachine()}
}

// StartOver resets the wizard answers and returns the shell to the wizard
// screen, discarding results and any transient flags.
func (s *Session) StartOver() {
	s.Machine.Reset()
	s.Screen = ScreenWizard
	s.Intent = IntentNone
	s.LimitHit = false
	s.Message = ""
	s.Recipes = nil
}

// ClearUser drops all user-derived state on sign-out: identity, answers,
// results; the shell returns to landing.
func (s *Session) ClearUser() {
	s.UserID = ""
	s.Machine.Reset()
	s.Screen = ScreenLanding
	s.Intent = IntentNone
	s.LimitHit = false
	s.Message = ""
	s.Recipes = nil
}
