package chat_test

import (
	"testing"
	"time"

	"github.com/sybersc/cyberbot/internal/chat"
)

func TestReplyLogRecordAndLookup(t *testing.T) {
	t.Parallel()

	log := chat.NewReplyLog()
	log.Record(-100, 5, "what is go", "a language")

	entry, ok := log.Lookup(-100, 5)
	if !ok {
		t.Fatal("Lookup returned false for a recorded entry")
	}
	if entry.Question != "what is go" || entry.Answer != "a language" {
		t.Errorf("entry = %+v", entry)
	}

	if _, ok := log.Lookup(-100, 6); ok {
		t.Error("Lookup found an entry that was never recorded")
	}
	if _, ok := log.Lookup(-200, 5); ok {
		t.Error("Lookup crossed chat boundaries")
	}
}

func TestReplyLogSweepEvictsOldEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	log := chat.NewReplyLogWithClock(func() time.Time { return now })

	log.Record(-100, 1, "old q", "old a")
	now = now.Add(25 * time.Hour)
	log.Record(-100, 2, "fresh q", "fresh a")

	removed := log.Sweep(chat.ReplyMaxAge)
	if removed != 1 {
		t.Fatalf("Sweep removed %d entries, want 1", removed)
	}
	if _, ok := log.Lookup(-100, 1); ok {
		t.Error("stale entry survived the sweep")
	}
	if _, ok := log.Lookup(-100, 2); !ok {
		t.Error("fresh entry was evicted")
	}
}

func TestReplyLogSweepDropsEmptyChats(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	log := chat.NewReplyLogWithClock(func() time.Time { return now })

	log.Record(-100, 1, "q", "a")
	now = now.Add(25 * time.Hour)

	log.Sweep(chat.ReplyMaxAge)
	if log.Len() != 0 {
		t.Errorf("Len() = %d after full sweep, want 0", log.Len())
	}
}
