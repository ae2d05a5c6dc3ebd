package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sybersc/cyberbot/internal/store"
)

func newTestStore(t *testing.T, opts ...store.Option) store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "db.json"), nil, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func mustAddUser(t *testing.T, s store.Store, id int64) {
	t.Helper()
	if _, err := s.AddUser(id, "user", "User"); err != nil {
		t.Fatalf("AddUser(%d) error = %v", id, err)
	}
}

func TestNewMissingFileStartsEmpty(t *testing.T) {
	t.Parallel()

	s, err := store.New(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := s.TotalUsers(); got != 0 {
		t.Errorf("TotalUsers() = %d, want 0", got)
	}
	if stats := s.Stats(); stats.TotalMessages != 0 || stats.TotalImages != 0 {
		t.Errorf("Stats() = %+v, want zero", stats)
	}
}

func TestNewCorruptFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.New(path, nil); err == nil {
		t.Fatal("New() with corrupt file succeeded, want error")
	}
}

func TestAddUserIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	created, err := s.AddUser(42, "alice", "Alice")
	if err != nil || !created {
		t.Fatalf("AddUser() = (%v, %v), want (true, nil)", created, err)
	}
	created, err = s.AddUser(42, "other", "Other")
	if err != nil || created {
		t.Fatalf("second AddUser() = (%v, %v), want (false, nil)", created, err)
	}

	u, ok := s.User(42)
	if !ok {
		t.Fatal("User(42) not found")
	}
	if u.Username != "alice" {
		t.Errorf("Username = %q, want %q (no overwrite on duplicate insert)", u.Username, "alice")
	}
	if u.MessageCount != 0 {
		t.Errorf("MessageCount = %d, want 0 before any activity", u.MessageCount)
	}
}

func TestRecordActivityFirstContactScenario(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	mustAddUser(t, s, 7)

	before := s.Stats()
	if err := s.RecordActivity(7, store.ActivityText); err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}

	u, _ := s.User(7)
	if u.MessageCount != 1 {
		t.Errorf("MessageCount = %d, want 1", u.MessageCount)
	}
	if got := s.Stats().TotalMessages - before.TotalMessages; got != 1 {
		t.Errorf("TotalMessages delta = %d, want 1", got)
	}
}

func TestRecordActivityUnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.RecordActivity(99, store.ActivityText); err == nil {
		t.Error("RecordActivity() for unknown user succeeded, want error")
	}
}

func TestStatisticsMatchUserCounterSums(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	mustAddUser(t, s, 1)
	mustAddUser(t, s, 2)

	for range 3 {
		if err := s.RecordActivity(1, store.ActivityText); err != nil {
			t.Fatal(err)
		}
	}
	for range 2 {
		if err := s.RecordActivity(2, store.ActivityImage); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RecordActivity(2, store.ActivityText); err != nil {
		t.Fatal(err)
	}

	var msgSum, imgSum int64
	for _, id := range s.ListUserIDs() {
		u, _ := s.User(id)
		msgSum += u.MessageCount
		imgSum += u.ImageCount
	}
	stats := s.Stats()
	if stats.TotalMessages != msgSum {
		t.Errorf("TotalMessages = %d, sum of user counters = %d", stats.TotalMessages, msgSum)
	}
	if stats.TotalImages != imgSum {
		t.Errorf("TotalImages = %d, sum of user counters = %d", stats.TotalImages, imgSum)
	}
}

func TestBanUnbanIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	changed, err := s.BanUser(5)
	if err != nil || !changed {
		t.Fatalf("BanUser() = (%v, %v), want (true, nil)", changed, err)
	}
	if !s.IsBanned(5) {
		t.Error("IsBanned(5) = false after ban")
	}
	changed, err = s.BanUser(5)
	if err != nil || changed {
		t.Fatalf("repeat BanUser() = (%v, %v), want (false, nil)", changed, err)
	}

	changed, err = s.UnbanUser(5)
	if err != nil || !changed {
		t.Fatalf("UnbanUser() = (%v, %v), want (true, nil)", changed, err)
	}
	if s.IsBanned(5) {
		t.Error("IsBanned(5) = true after unban")
	}
	changed, err = s.UnbanUser(5)
	if err != nil || changed {
		t.Fatalf("repeat UnbanUser() = (%v, %v), want (false, nil)", changed, err)
	}
}

func TestBanAndPremiumMayOverlap(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.BanUser(8); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPremium(8); err != nil {
		t.Fatal(err)
	}
	if !s.IsBanned(8) || !s.IsPremium(8) {
		t.Errorf("membership = (banned=%v, premium=%v), want both true", s.IsBanned(8), s.IsPremium(8))
	}
}

func TestImageQuota(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	now := day
	s := newTestStore(t, store.WithClock(func() time.Time { return now }))
	mustAddUser(t, s, 10)

	for i := range store.DailyImageLimit {
		if !s.CanSendImage(10) {
			t.Fatalf("CanSendImage() = false after %d images, want true", i)
		}
		if err := s.RecordActivity(10, store.ActivityImage); err != nil {
			t.Fatal(err)
		}
	}

	if s.CanSendImage(10) {
		t.Errorf("CanSendImage() = true after %d images, want false", store.DailyImageLimit)
	}
	if got := s.DailyImageCount(10); got != store.DailyImageLimit {
		t.Errorf("DailyImageCount() = %d, want %d", got, store.DailyImageLimit)
	}

	// The quota resets at the next calendar day.
	now = day.AddDate(0, 0, 1)
	if got := s.DailyImageCount(10); got != 0 {
		t.Errorf("DailyImageCount() next day = %d, want 0", got)
	}
	if !s.CanSendImage(10) {
		t.Error("CanSendImage() next day = false, want true")
	}
}

func TestPremiumBypassesQuota(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	mustAddUser(t, s, 11)
	if _, err := s.AddPremium(11); err != nil {
		t.Fatal(err)
	}

	for range store.DailyImageLimit + 3 {
		if !s.CanSendImage(11) {
			t.Fatal("CanSendImage() = false for premium user")
		}
		if err := s.RecordActivity(11, store.ActivityImage); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCanSendImageUnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if s.CanSendImage(404) {
		t.Error("CanSendImage() = true for unknown user, want false")
	}
}

func TestGroupLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.RegisterGroup(-100, "Study Group"); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterGroup(-200, "Quiet Group"); err != nil {
		t.Fatal(err)
	}
	if err := s.TouchGroupActivity(-100); err != nil {
		t.Fatal(err)
	}

	groups := s.ListGroups()
	if len(groups) != 2 {
		t.Fatalf("ListGroups() len = %d, want 2", len(groups))
	}

	// Re-registering refreshes the title without resetting counters.
	if err := s.RegisterGroup(-100, "Study Group v2"); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, g := range s.ListGroups() {
		if g.ChatID == -100 {
			found = true
			if g.Title != "Study Group v2" {
				t.Errorf("Title = %q, want refreshed title", g.Title)
			}
			if g.MessageCount != 1 {
				t.Errorf("MessageCount = %d, want 1 after re-register", g.MessageCount)
			}
		}
	}
	if !found {
		t.Fatal("group -100 missing after re-register")
	}

	removed, err := s.RemoveGroup(-200)
	if err != nil || !removed {
		t.Fatalf("RemoveGroup() = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = s.RemoveGroup(-200)
	if err != nil || removed {
		t.Fatalf("repeat RemoveGroup() = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestSearchGroups(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.RegisterGroup(-1001, "Cyber Security"); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterGroup(-2002, "Math Club"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "title match case-insensitive", query: "cyber", want: []int64{-1001}},
		{name: "id substring match", query: "2002", want: []int64{-2002}},
		{name: "no match", query: "physics", want: nil},
		{name: "empty query matches all", query: "", want: []int64{-2002, -1001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.SearchGroups(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("SearchGroups(%q) len = %d, want %d", tt.query, len(got), len(tt.want))
			}
			for i, g := range got {
				if g.ChatID != tt.want[i] {
					t.Errorf("SearchGroups(%q)[%d] = %d, want %d", tt.query, i, g.ChatID, tt.want[i])
				}
			}
		})
	}
}

func TestPruneInactiveGroups(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.RegisterGroup(-1, "Zero Activity"); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterGroup(-2, "Active"); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := s.TouchGroupActivity(-2); err != nil {
			t.Fatal(err)
		}
	}

	pruned, err := s.PruneInactiveGroups()
	if err != nil {
		t.Fatal(err)
	}
	if len(pruned) != 1 || pruned[0].ChatID != -1 {
		t.Fatalf("PruneInactiveGroups() = %+v, want only group -1", pruned)
	}

	groups := s.ListGroups()
	if len(groups) != 1 || groups[0].ChatID != -2 {
		t.Fatalf("ListGroups() after prune = %+v, want only group -2", groups)
	}
	if groups[0].MessageCount != 3 {
		t.Errorf("surviving group MessageCount = %d, want 3 (untouched)", groups[0].MessageCount)
	}

	// Idempotent: a second pass removes nothing.
	pruned, err = s.PruneInactiveGroups()
	if err != nil {
		t.Fatal(err)
	}
	if len(pruned) != 0 {
		t.Errorf("second PruneInactiveGroups() removed %d, want 0", len(pruned))
	}
}

func TestPruneDailyCounters(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local)
	now := day.AddDate(0, 0, -40)
	s := newTestStore(t, store.WithClock(func() time.Time { return now }))
	mustAddUser(t, s, 1)

	// One image 40 days ago, one today.
	if err := s.RecordActivity(1, store.ActivityImage); err != nil {
		t.Fatal(err)
	}
	now = day
	if err := s.RecordActivity(1, store.ActivityImage); err != nil {
		t.Fatal(err)
	}

	removed, err := s.PruneDailyCounters(30)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("PruneDailyCounters() removed = %d, want 1", removed)
	}
	if got := s.DailyImageCount(1); got != 1 {
		t.Errorf("DailyImageCount() today = %d, want 1 (today's key kept)", got)
	}

	u, _ := s.User(1)
	if u.ImageCount != 2 {
		t.Errorf("lifetime ImageCount = %d, want 2 (retention never touches totals)", u.ImageCount)
	}
}

func TestPersistedLayout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "db.json")
	s, err := store.New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddUser(1, "alice", "Alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.BanUser(2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPremium(3); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterGroup(-9, "G"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("store file is not a JSON object: %v", err)
	}
	for _, k := range []string{"users", "banned_users", "premium_users", "groups", "statistics"} {
		if _, ok := raw[k]; !ok {
			t.Errorf("store file missing top-level key %q", k)
		}
	}

	// A fresh store reading the same file sees the same state.
	s2, err := store.New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s2.IsBanned(2) || !s2.IsPremium(3) {
		t.Error("reloaded store lost moderation sets")
	}
	if _, ok := s2.User(1); !ok {
		t.Error("reloaded store lost user record")
	}
}
