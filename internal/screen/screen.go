package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sattutor/internal/adaptive"
	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/abhisek/sattutor/internal/tutor"
	"github.com/abhisek/sattutor/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeCapturer is implemented by screens that handle Esc themselves
// while CapturesEscape reports true, e.g. to leave a text prompt.
type EscapeCapturer interface {
	CapturesEscape() bool
}

// Deps are the long-lived collaborators shared by every screen. Events
// may be nil when no local store is open.
type Deps struct {
	Service    tutor.Service
	Users      auth.Provider
	Controller *adaptive.Controller
	Events     store.EventRepo
	Topics     []string
}

// UserID returns the signed-in user, or "" when anonymous.
func (d Deps) UserID() string {
	if d.Users == nil {
		return ""
	}
	id, _ := d.Users.CurrentUser()
	return id
}
