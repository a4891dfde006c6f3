package practice

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/chat"
	"github.com/abhisek/sattutor/internal/router"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/screens/summary"
	sess "github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/ui/components"
	"github.com/abhisek/sattutor/internal/ui/layout"
)

// inputMode is what the text prompt, if any, is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputChat
	inputTopic
)

// PracticeScreen implements screen.Screen for a practice session.
type PracticeScreen struct {
	deps    screen.Deps
	machine *sess.Machine
	thread  *chat.Thread

	topics   []string
	topicIdx int

	mode  inputMode
	input components.TextInput

	busy        string // in-flight call description
	hintPending bool
	elapsed     time.Duration
	warning     string
	errMsg      string
	last    *analytics.Attempt
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.EscapeCapturer = (*PracticeScreen)(nil)

// New creates a practice screen with a fresh session machine.
func New(deps screen.Deps) *PracticeScreen {
	cfg := sess.Config{
		Service:    deps.Service,
		Controller: deps.Controller,
		Users:      deps.Users,
	}
	if deps.Events != nil {
		cfg.Sink = sess.StoreSink{Repo: deps.Events}
	}
	m := sess.New(cfg)

	topics := deps.Topics
	if len(topics) == 0 {
		topics = DefaultTopics
	}
	m.SelectTopic(topics[0])

	return &PracticeScreen{
		deps:    deps,
		machine: m,
		thread:  chat.New(deps.Service, m, deps.Users),
		topics:  topics,
		input:   components.NewTextInput("", 500),
	}
}

// DefaultTopics are offered when no topic list is configured.
var DefaultTopics = []string{
	"Algebra",
	"Advanced Math",
	"Problem Solving and Data Analysis",
	"Geometry and Trigonometry",
	"Reading Comprehension",
	"Grammar and Usage",
}

func (s *PracticeScreen) Init() tea.Cmd {
	userID := s.deps.UserID()
	if userID == "" {
		return nil
	}
	thread := s.thread
	return func() tea.Msg {
		return historyLoadedMsg{Err: thread.LoadHistory(context.Background(), userID)}
	}
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

// CapturesEscape is always true: Esc leaves a prompt or ends the session.
func (s *PracticeScreen) CapturesEscape() bool {
	return true
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.mode != inputNone {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	switch s.machine.Phase() {
	case sess.PhaseAnswering:
		return []layout.KeyHint{
			{Key: "A-E", Description: "Choose"},
			{Key: "1-5", Description: "Confidence"},
			{Key: "Enter", Description: "Submit"},
			{Key: "?", Description: "Hint"},
			{Key: "/", Description: "Chat"},
		}
	case sess.PhaseResolved:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "?", Description: "Hint"},
			{Key: "/", Description: "Chat"},
			{Key: "Esc", Description: "End"},
		}
	case sess.PhaseIdle:
		return []layout.KeyHint{
			{Key: "←→", Description: "Topic"},
			{Key: "Enter", Description: "Start"},
			{Key: "m", Description: "Adaptive"},
			{Key: "+/-", Description: "Level"},
			{Key: "Esc", Description: "End"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "End"}}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionReadyMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.warning = ""
		s.hintPending = false
		s.last = nil
		s.elapsed = 0
		if msg.Effect.Has(sess.EffectStartTimer) {
			return s, tickCmd(s.machine.Token())
		}
		return s, nil

	case submittedMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		attempt := msg.Attempt
		s.last = &attempt
		s.elapsed = time.Duration(attempt.TimeTakenSeconds) * time.Second
		return s, nil

	case hintMsg:
		// The card renders the machine's hint, which a failure clears.
		switch {
		case errors.Is(msg.Err, sess.ErrNoActiveQuestion):
			// stale: the question changed while the hint was in flight
		case msg.Err != nil:
			s.hintPending = false
			s.errMsg = msg.Err.Error()
		default:
			s.hintPending = false
			s.errMsg = ""
		}
		return s, nil

	case chatReplyMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.input.SetValue(s.thread.Input())
		return s, nil

	case historyLoadedMsg:
		if msg.Err != nil {
			s.warning = "Chat history unavailable"
		}
		return s, nil

	case tickMsg:
		return s.handleTick(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.mode != inputNone {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// handleTick refreshes the readout. Ticks never change session state.
func (s *PracticeScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.Token != s.machine.Token() {
		return s, nil
	}
	switch s.machine.Phase() {
	case sess.PhaseAnswering, sess.PhaseSubmitting:
		s.elapsed = s.machine.Elapsed(msg.At)
		return s, tickCmd(msg.Token)
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.mode != inputNone {
		return s.handlePromptKey(msg)
	}

	if key == "esc" {
		return s.endSession()
	}

	switch s.machine.Phase() {
	case sess.PhaseIdle, sess.PhaseResolved:
		return s.handleBetweenQuestions(key)
	case sess.PhaseAnswering:
		return s.handleAnswering(key)
	}
	return s, nil
}

func (s *PracticeScreen) handleBetweenQuestions(key string) (screen.Screen, tea.Cmd) {
	ctrl := s.machine.Controller()
	switch key {
	case "enter", "n":
		return s, s.generate()
	case "left", "h":
		s.topicIdx = (s.topicIdx + len(s.topics) - 1) % len(s.topics)
		s.machine.SelectTopic(s.topics[s.topicIdx])
	case "right", "l":
		s.topicIdx = (s.topicIdx + 1) % len(s.topics)
		s.machine.SelectTopic(s.topics[s.topicIdx])
	case "t":
		s.openPrompt(inputTopic, "Custom topic")
		return s, s.input.Init()
	case "m":
		ctrl.SetAdaptiveMode(!ctrl.Params().AdaptiveMode)
	case "x":
		ctrl.SetChallengeMode(!ctrl.Params().ChallengeMode)
	case "+", "=":
		s.setDifficulty(ctrl.Params().ManualDifficulty + 1)
	case "-":
		s.setDifficulty(ctrl.Params().ManualDifficulty - 1)
	case "?":
		return s, s.hint()
	case "/":
		return s, s.openChat()
	}
	return s, nil
}

func (s *PracticeScreen) handleAnswering(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter":
		return s, s.submit()
	case "?":
		return s, s.hint()
	case "/":
		return s, s.openChat()
	case "up", "down":
		s.moveSelection(key == "down")
		return s, nil
	case "1", "2", "3", "4", "5":
		_ = s.machine.SetConfidence(int(key[0] - '0'))
		return s, nil
	}
	if len(key) == 1 {
		if err := s.machine.SelectAnswer(key); err == nil {
			s.errMsg = ""
		}
	}
	return s, nil
}

func (s *PracticeScreen) handlePromptKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if s.mode == inputChat {
			s.thread.SetInput(s.input.Value())
		}
		s.mode = inputNone
		return s, nil
	case "enter":
		text := s.input.Value()
		if s.mode == inputTopic {
			s.mode = inputNone
			if t := strings.TrimSpace(text); t != "" {
				s.machine.SelectTopic(t)
				s.topics = append(s.topics, t)
				s.topicIdx = len(s.topics) - 1
			}
			return s, nil
		}
		s.thread.SetInput(text)
		return s, s.sendChat(text)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) openPrompt(mode inputMode, placeholder string) {
	s.mode = mode
	s.input = components.NewTextInput(placeholder, 500)
}

func (s *PracticeScreen) openChat() tea.Cmd {
	if _, ok := s.machine.ActiveQuestionID(); !ok {
		s.errMsg = sess.ErrNoActiveQuestion.Error()
		return nil
	}
	s.openPrompt(inputChat, "Ask the tutor about this question")
	s.input.SetValue(s.thread.Input())
	return s.input.Init()
}

func (s *PracticeScreen) setDifficulty(level int) {
	if err := s.machine.Controller().SetManualDifficulty(level); err != nil {
		s.warning = err.Error()
	}
}

func (s *PracticeScreen) moveSelection(down bool) {
	st := s.machine.State()
	if st.Question == nil {
		return
	}
	keys := components.ChoiceList{Choices: st.Question.Choices}.Keys()
	idx := -1
	for i, k := range keys {
		if k == st.UserAnswer {
			idx = i
		}
	}
	switch {
	case down && idx < len(keys)-1:
		idx++
	case !down && idx > 0:
		idx--
	case idx < 0:
		idx = 0
	}
	_ = s.machine.SelectAnswer(keys[idx])
}

func (s *PracticeScreen) generate() tea.Cmd {
	s.busy = "Generating question..."
	s.errMsg = ""
	m := s.machine
	return func() tea.Msg {
		eff, err := m.Generate(context.Background(), "")
		return questionReadyMsg{Effect: eff, Err: err}
	}
}

func (s *PracticeScreen) submit() tea.Cmd {
	if !s.machine.State().Answered() {
		s.errMsg = sess.ErrNoAnswer.Error()
		return nil
	}
	s.busy = "Submitting..."
	m := s.machine
	return func() tea.Msg {
		attempt, eff, err := m.Submit(context.Background())
		return submittedMsg{Attempt: attempt, Effect: eff, Err: err}
	}
}

func (s *PracticeScreen) hint() tea.Cmd {
	s.hintPending = true
	m := s.machine
	return func() tea.Msg {
		h, err := m.RequestHint(context.Background())
		return hintMsg{Hint: h, Err: err}
	}
}

func (s *PracticeScreen) sendChat(text string) tea.Cmd {
	s.busy = "Waiting for the tutor..."
	thread := s.thread
	return func() tea.Msg {
		msg, err := thread.Send(context.Background(), text)
		return chatReplyMsg{Message: msg, Err: err}
	}
}

// endSession records the session end and shows its summary in place of
// this screen.
func (s *PracticeScreen) endSession() (screen.Screen, tea.Cmd) {
	sum := s.machine.End(context.Background())
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

// tickCmd returns a 1-second tick tagged with the question token.
func tickCmd(token uint64) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{Token: token, At: t}
	})
}
