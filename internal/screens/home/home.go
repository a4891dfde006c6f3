package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/router"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/screens/history"
	"github.com/abhisek/sattutor/internal/screens/leaderboard"
	"github.com/abhisek/sattutor/internal/screens/performance"
	"github.com/abhisek/sattutor/internal/screens/practice"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/abhisek/sattutor/internal/ui/components"
	"github.com/abhisek/sattutor/internal/ui/theme"
)

const titleArt = ` ███████╗ █████╗ ████████╗
 ██╔════╝██╔══██╗╚══██╔══╝
 ███████╗███████║   ██║
 ╚════██║██╔══██║   ██║
 ███████║██║  ██║   ██║
 ╚══════╝╚═╝  ╚═╝   ╚═╝   T U T O R`

const titleCompact = "S · A · T   T U T O R"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// localStats summarizes attempts recorded on this machine.
type localStats struct {
	answered int
	accuracy float64
	points   int
}

type statsLoadedMsg struct {
	stats localStats
	err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   screen.Deps
	menu   components.Menu
	stats  *localStats
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}
	items := []components.MenuItem{
		{Label: "PRACTICE", Action: push(func() screen.Screen { return practice.New(deps) })},
		{Label: "PERFORMANCE", Action: push(func() screen.Screen { return performance.New(deps) })},
		{Label: "LEADERBOARD", Action: push(func() screen.Screen { return leaderboard.New(deps) })},
		{Label: "HISTORY", Action: push(func() screen.Screen { return history.New(deps) }), Disabled: deps.Events == nil},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

// Init loads local attempt stats when a store is available.
func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.Events == nil {
		return nil
	}
	repo := h.deps.Events
	userID := h.deps.UserID()
	if userID == "" {
		userID = session.AnonymousUser
	}
	return func() tea.Msg {
		records, err := repo.QueryAttempts(context.Background(), userID, store.QueryOpts{})
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		attempts := analytics.ValidateAttempts(session.AttemptsFromStore(records))
		sum := analytics.Summarize(attempts)
		return statsLoadedMsg{stats: localStats{
			answered: sum.TotalQuestions,
			accuracy: sum.Accuracy,
			points:   analytics.Points(attempts),
		}}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		st := msg.stats
		h.stats = &st
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 100
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, h.renderStatsBar(cw, compact))
	sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(h.menu.View(buttonWidth)))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func renderTitle(cw int, compact bool) string {
	art := titleArt
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render(art))
}

// renderStatsBar shows local totals and the next milestone.
func (h *HomeScreen) renderStatsBar(cw int, compact bool) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var stats string
	switch {
	case h.errMsg != "":
		stats = lipgloss.NewStyle().Foreground(theme.Error).Render("stats unavailable: " + h.errMsg)
	case h.stats == nil:
		stats = dim.Render("no local history yet")
	default:
		m := analytics.NextMilestone(h.stats.points)
		next := "all milestones achieved"
		if !m.Achieved {
			next = fmt.Sprintf("%.0f%% to %s", m.Percent, m.Label)
		}
		answered := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
			Render(fmt.Sprintf("%d ANSWERED", h.stats.answered))
		acc := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("%.0f%% ACCURACY", h.stats.accuracy))
		pts := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("%d PTS", h.stats.points))
		if compact {
			stats = fmt.Sprintf("%s  %s  %s", answered, acc, pts)
		} else {
			stats = fmt.Sprintf("%s  %s  %s  %s", answered, acc, pts, dim.Render(next))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}
