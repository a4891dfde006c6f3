package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/adaptive"
	"github.com/abhisek/sattutor/internal/router"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/screens/home"
	"github.com/abhisek/sattutor/internal/screens/practice"
	"github.com/abhisek/sattutor/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screen.Deps
	router *router.Router
	start  tea.Cmd // Init of screens pushed before the program starts
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen. Every screen
// shares one adaptive controller so settings survive between sessions.
func newAppModel(deps screen.Deps) AppModel {
	if deps.Controller == nil {
		deps.Controller = adaptive.NewController(deps.Users, adaptive.Params{})
	}
	return AppModel{
		deps:   deps,
		router: router.New(home.New(deps)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.start != nil {
		return m.start
	}
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscapeCapturer); ok && c.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case router.PopScreenMsg, router.PopToRootMsg:
		// Back on the home screen its stats may be stale.
		cmd := m.router.Update(msg)
		if m.router.Depth() == 1 {
			return m, tea.Batch(cmd, m.router.Active().Init())
		}
		return m, cmd
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) status() layout.Status {
	p := m.deps.Controller.Params()
	return layout.Status{
		User:       m.deps.UserID(),
		Difficulty: p.ManualDifficulty,
		Adaptive:   p.AdaptiveMode,
	}
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program on the home screen.
func Run(deps screen.Deps) error {
	return run(newAppModel(deps))
}

// RunPractice starts the program with a practice session open. Leaving the
// session returns to the home screen.
func RunPractice(deps screen.Deps) error {
	return run(newPracticeModel(deps))
}

func newPracticeModel(deps screen.Deps) AppModel {
	m := newAppModel(deps)
	root := m.router.Active().Init()
	m.start = tea.Batch(root, m.router.Push(practice.New(m.deps)))
	return m
}

func run(m AppModel) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
