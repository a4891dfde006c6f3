package practice

import (
	"time"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/chat"
	sess "github.com/abhisek/sattutor/internal/session"
)

// questionReadyMsg is sent when a generate call returns.
type questionReadyMsg struct {
	Effect sess.Effect
	Err    error
}

// submittedMsg is sent when a submit call returns.
type submittedMsg struct {
	Attempt analytics.Attempt
	Effect  sess.Effect
	Err     error
}

// hintMsg carries a hint, or the reason there is none.
type hintMsg struct {
	Hint string
	Err  error
}

// chatReplyMsg is sent when the tutor answers a chat message.
type chatReplyMsg struct {
	Message *chat.Message
	Err     error
}

// historyLoadedMsg is sent once stored chat history has been fetched.
type historyLoadedMsg struct {
	Err error
}

// tickMsg drives the elapsed-time readout. Token is the question token the
// timer was started for; a tick for any other token ends the loop.
type tickMsg struct {
	Token uint64
	At    time.Time
}
