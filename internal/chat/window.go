// Package chat implements per-chat conversation state and the message
// pipeline that gates, contextualizes, and dispatches inbound messages
// to the AI client. All state here is in-memory only; a restart clears
// every window and the group reply log by design.
package chat

// Role tags one conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message unit.
type Turn struct {
	Role Role
	Text string
}

// WindowSize is the number of most-recent turns submitted to the AI
// endpoint on each call.
const WindowSize = 10

// Window is the bounded conversation history for one chat. Appends are
// unbounded; only the last WindowSize turns form the AI payload.
// A Window is not safe for concurrent use; Sessions serializes access.
type Window struct {
	turns []Turn
}

// Append adds a turn at the end of the history.
func (w *Window) Append(role Role, text string) {
	w.turns = append(w.turns, Turn{Role: role, Text: text})
}

// Last returns the most recent n turns in original order. The returned
// slice is a copy and safe to hand to the AI client.
func (w *Window) Last(n int) []Turn {
	if n <= 0 || len(w.turns) == 0 {
		return nil
	}
	if len(w.turns) > n {
		return append([]Turn(nil), w.turns[len(w.turns)-n:]...)
	}
	return append([]Turn(nil), w.turns...)
}

// Len reports the total number of appended turns.
func (w *Window) Len() int { return len(w.turns) }

// Reset clears the history.
func (w *Window) Reset() { w.turns = nil }
