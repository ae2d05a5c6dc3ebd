package chat_test

import (
	"fmt"
	"testing"

	"github.com/sybersc/cyberbot/internal/chat"
)

func TestWindowKeepsLastTen(t *testing.T) {
	t.Parallel()

	var w chat.Window
	for i := 1; i <= 12; i++ {
		w.Append(chat.RoleUser, fmt.Sprintf("t%d", i))
	}

	got := w.Last(chat.WindowSize)
	if len(got) != chat.WindowSize {
		t.Fatalf("Last(%d) returned %d turns", chat.WindowSize, len(got))
	}
	for i, turn := range got {
		want := fmt.Sprintf("t%d", i+3)
		if turn.Text != want {
			t.Errorf("turn %d = %q, want %q", i, turn.Text, want)
		}
	}
}

func TestWindowLastShorterThanHistory(t *testing.T) {
	t.Parallel()

	var w chat.Window
	w.Append(chat.RoleUser, "hello")
	w.Append(chat.RoleAssistant, "hi")

	got := w.Last(chat.WindowSize)
	if len(got) != 2 {
		t.Fatalf("got %d turns, want 2", len(got))
	}
	if got[0].Role != chat.RoleUser || got[1].Role != chat.RoleAssistant {
		t.Errorf("turn order not preserved: %+v", got)
	}
}

func TestWindowLastReturnsCopy(t *testing.T) {
	t.Parallel()

	var w chat.Window
	w.Append(chat.RoleUser, "original")

	got := w.Last(1)
	got[0].Text = "mutated"

	if again := w.Last(1); again[0].Text != "original" {
		t.Errorf("window was mutated through the returned slice")
	}
}

func TestWindowReset(t *testing.T) {
	t.Parallel()

	var w chat.Window
	w.Append(chat.RoleUser, "hello")
	w.Reset()

	if w.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", w.Len())
	}
}
