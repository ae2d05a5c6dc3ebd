package chat

import (
	"sync"
	"time"
)

// ReplyMaxAge is how long a group reply-correlation entry stays alive.
const ReplyMaxAge = 24 * time.Hour

// ReplyEntry records one bot answer in a group so a later reply to that
// message can reconstruct its context.
type ReplyEntry struct {
	Question string
	Answer   string
	At       time.Time
}

// ReplyLog is the short-lived reply-correlation table for group chats,
// keyed by chat id then bot message id. The handler path and the sweep
// task both mutate it, so every access takes the lock.
type ReplyLog struct {
	mu    sync.Mutex
	chats map[int64]map[int]ReplyEntry
	now   func() time.Time
}

func NewReplyLog() *ReplyLog {
	return &ReplyLog{
		chats: make(map[int64]map[int]ReplyEntry),
		now:   time.Now,
	}
}

// NewReplyLogWithClock is used by tests to control entry timestamps.
func NewReplyLogWithClock(now func() time.Time) *ReplyLog {
	l := NewReplyLog()
	l.now = now
	return l
}

// Record stores the question/answer pair under the bot's message id.
func (l *ReplyLog) Record(chatID int64, messageID int, question, answer string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, ok := l.chats[chatID]
	if !ok {
		entries = make(map[int]ReplyEntry)
		l.chats[chatID] = entries
	}
	entries[messageID] = ReplyEntry{Question: question, Answer: answer, At: l.now()}
}

// Lookup returns the entry for a bot message a user replied to.
func (l *ReplyLog) Lookup(chatID int64, messageID int) (ReplyEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.chats[chatID][messageID]
	return entry, ok
}

// Sweep removes entries older than maxAge and drops any chat whose
// table becomes empty. Returns the number of removed entries.
func (l *ReplyLog) Sweep(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxAge)
	removed := 0
	for chatID, entries := range l.chats {
		for id, entry := range entries {
			if entry.At.Before(cutoff) || entry.At.Equal(cutoff) {
				delete(entries, id)
				removed++
			}
		}
		if len(entries) == 0 {
			delete(l.chats, chatID)
		}
	}
	return removed
}

// Len reports the total number of live entries across all chats.
func (l *ReplyLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, entries := range l.chats {
		total += len(entries)
	}
	return total
}
