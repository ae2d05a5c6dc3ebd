// Package store implements the JSON-document state store for the bot:
// users, moderation sets, groups, and aggregate statistics. The whole
// document is loaded at startup and rewritten on every mutation; all
// access goes through a single mutex so concurrently handled updates
// cannot lose writes.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DailyImageLimit is the number of image analyses a non-premium user may
// request per calendar day.
const DailyImageLimit = 5

const dayFormat = "2006-01-02"

// ActivityKind classifies an inbound message for bookkeeping purposes.
type ActivityKind string

const (
	ActivityText  ActivityKind = "text"
	ActivityImage ActivityKind = "image"
)

// ErrUnknownUser is returned when activity is recorded for a user id
// that has no record yet. Callers are expected to AddUser first.
var ErrUnknownUser = errors.New("unknown user")

// Store is the single source of truth for moderation, quota, and
// group-registry state. Implementations are safe for concurrent use.
type Store interface {
	// AddUser inserts a record iff the id is absent. Reports whether a
	// record was created; persists on insert only.
	AddUser(id int64, username, firstName string) (bool, error)
	User(id int64) (UserRecord, bool)
	TotalUsers() int
	ListUserIDs() []int64

	IsBanned(id int64) bool
	BanUser(id int64) (bool, error)
	UnbanUser(id int64) (bool, error)
	BannedUserIDs() []int64

	IsPremium(id int64) bool
	AddPremium(id int64) (bool, error)
	RemovePremium(id int64) (bool, error)

	// RecordActivity bumps the lifetime counter, the aggregate statistic,
	// and for images the current-day counter, then persists.
	RecordActivity(id int64, kind ActivityKind) error
	DailyImageCount(id int64) int
	// CanSendImage reports whether the user may request another image
	// analysis today. Premium users are never limited.
	CanSendImage(id int64) bool
	Stats() Statistics

	RegisterGroup(chatID int64, title string) error
	TouchGroupActivity(chatID int64) error
	RemoveGroup(chatID int64) (bool, error)
	ListGroups() []GroupInfo
	SearchGroups(query string) []GroupInfo
	// PruneInactiveGroups removes every group whose message counter is
	// zero and returns the removed set.
	PruneInactiveGroups() ([]GroupInfo, error)
	// PruneDailyCounters drops per-user daily image counters older than
	// keepDays and returns the number of removed date keys.
	PruneDailyCounters(keepDays int) (int, error)
}

// Option configures a Store created by New.
type Option func(*fileStore)

// WithClock overrides the wall clock, used by tests to control the
// calendar day boundary.
func WithClock(now func() time.Time) Option {
	return func(s *fileStore) { s.now = now }
}

type fileStore struct {
	mu   sync.Mutex
	path string
	doc  *document
	now  func() time.Time
	log  *slog.Logger
}

// New opens the document at path, creating an empty default document if
// the file does not exist. A corrupt or unreadable file is an error.
func New(path string, logger *slog.Logger, opts ...Option) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &fileStore{
		path: path,
		now:  time.Now,
		log:  logger.With("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := load(path)
	if err != nil {
		return nil, err
	}
	s.doc = doc

	s.log.Info("Store opened", "path", path, "users", len(doc.Users), "groups", len(doc.Groups))
	return s, nil
}

func load(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return newDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
	}

	doc := newDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	// Older files may omit optional keys entirely.
	if doc.Users == nil {
		doc.Users = make(map[string]*UserRecord)
	}
	if doc.Groups == nil {
		doc.Groups = make(map[string]*GroupRecord)
	}
	for _, u := range doc.Users {
		if u.DailyImageCount == nil {
			u.DailyImageCount = make(map[string]int)
		}
	}
	return doc, nil
}

// mutate applies fn to a copy of the document and persists it. The
// in-memory state is replaced only after a successful write, so a
// persistence failure leaves memory and disk consistent with each other.
// fn returns false to signal that nothing changed and no write is needed.
func (s *fileStore) mutate(fn func(d *document) bool) error {
	next := s.doc.clone()
	if !fn(next) {
		return nil
	}
	if err := s.persist(next); err != nil {
		s.log.Error("Failed to persist store document", "path", s.path, "error", err)
		return err
	}
	s.doc = next
	return nil
}

func (s *fileStore) persist(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func key(id int64) string { return strconv.FormatInt(id, 10) }

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *fileStore) AddUser(id int64, username, firstName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := false
	err := s.mutate(func(d *document) bool {
		k := key(id)
		if _, ok := d.Users[k]; ok {
			return false
		}
		now := s.now()
		d.Users[k] = &UserRecord{
			Username:        username,
			FirstName:       firstName,
			JoinDate:        now,
			DailyImageCount: make(map[string]int),
			LastActive:      now,
		}
		created = true
		return true
	})
	if err != nil {
		return false, err
	}
	if created {
		s.log.Debug("User registered", "user_id", id, "username", username)
	}
	return created, nil
}

func (s *fileStore) User(id int64) (UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.doc.Users[key(id)]
	if !ok {
		return UserRecord{}, false
	}
	return *u, true
}

func (s *fileStore) TotalUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doc.Users)
}

func (s *fileStore) ListUserIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.doc.Users))
	for k := range s.doc.Users {
		if id, err := strconv.ParseInt(k, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *fileStore) IsBanned(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.doc.BannedUsers, key(id))
}

func (s *fileStore) BanUser(id int64) (bool, error) {
	return s.toggleSet(id, true, func(d *document) *[]string { return &d.BannedUsers })
}

func (s *fileStore) UnbanUser(id int64) (bool, error) {
	return s.toggleSet(id, false, func(d *document) *[]string { return &d.BannedUsers })
}

func (s *fileStore) IsPremium(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.doc.PremiumUsers, key(id))
}

func (s *fileStore) AddPremium(id int64) (bool, error) {
	return s.toggleSet(id, true, func(d *document) *[]string { return &d.PremiumUsers })
}

func (s *fileStore) RemovePremium(id int64) (bool, error) {
	return s.toggleSet(id, false, func(d *document) *[]string { return &d.PremiumUsers })
}

// toggleSet adds or removes id from one of the membership lists,
// persisting only when membership actually changes.
func (s *fileStore) toggleSet(id int64, add bool, set func(d *document) *[]string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	err := s.mutate(func(d *document) bool {
		list := set(d)
		k := key(id)
		if add {
			if contains(*list, k) {
				return false
			}
			*list = append(*list, k)
		} else {
			if !contains(*list, k) {
				return false
			}
			*list = remove(*list, k)
		}
		changed = true
		return true
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func (s *fileStore) BannedUserIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.doc.BannedUsers))
	for _, k := range s.doc.BannedUsers {
		if id, err := strconv.ParseInt(k, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *fileStore) RecordActivity(id int64, kind ActivityKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.mutate(func(d *document) bool {
		u, ok := d.Users[key(id)]
		if !ok {
			return false
		}
		found = true
		now := s.now()
		switch kind {
		case ActivityImage:
			u.ImageCount++
			d.Statistics.TotalImages++
			day := now.Format(dayFormat)
			u.DailyImageCount[day]++
		default:
			u.MessageCount++
			d.Statistics.TotalMessages++
		}
		u.LastActive = now
		return true
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("record activity for user %d: %w", id, ErrUnknownUser)
	}
	return nil
}

func (s *fileStore) DailyImageCount(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.doc.Users[key(id)]
	if !ok {
		return 0
	}
	return u.DailyImageCount[s.now().Format(dayFormat)]
}

func (s *fileStore) CanSendImage(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contains(s.doc.PremiumUsers, key(id)) {
		return true
	}
	u, ok := s.doc.Users[key(id)]
	if !ok {
		return false
	}
	return u.DailyImageCount[s.now().Format(dayFormat)] < DailyImageLimit
}

func (s *fileStore) Stats() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Statistics
}

func (s *fileStore) RegisterGroup(chatID int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(d *document) bool {
		k := key(chatID)
		now := s.now()
		if g, ok := d.Groups[k]; ok {
			// Known group: refresh the title in case it changed.
			g.Title = title
			g.LastActive = now
			return true
		}
		d.Groups[k] = &GroupRecord{
			Title:      title,
			JoinDate:   now,
			LastActive: now,
		}
		return true
	})
}

func (s *fileStore) TouchGroupActivity(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(d *document) bool {
		g, ok := d.Groups[key(chatID)]
		if !ok {
			return false
		}
		g.MessageCount++
		g.LastActive = s.now()
		return true
	})
}

func (s *fileStore) RemoveGroup(chatID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	err := s.mutate(func(d *document) bool {
		k := key(chatID)
		if _, ok := d.Groups[k]; !ok {
			return false
		}
		delete(d.Groups, k)
		removed = true
		return true
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.log.Info("Group removed", "chat_id", chatID)
	}
	return removed, nil
}

func (s *fileStore) ListGroups() []GroupInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return groupInfos(s.doc.Groups)
}

func (s *fileStore) SearchGroups(query string) []GroupInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	matched := make(map[string]*GroupRecord)
	for k, g := range s.doc.Groups {
		if strings.Contains(strings.ToLower(k), q) || strings.Contains(strings.ToLower(g.Title), q) {
			matched[k] = g
		}
	}
	return groupInfos(matched)
}

func (s *fileStore) PruneInactiveGroups() ([]GroupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned []GroupInfo
	err := s.mutate(func(d *document) bool {
		for k, g := range d.Groups {
			if g.MessageCount != 0 {
				continue
			}
			id, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				continue
			}
			pruned = append(pruned, GroupInfo{ChatID: id, GroupRecord: *g})
			delete(d.Groups, k)
		}
		return len(pruned) > 0
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(pruned, func(i, j int) bool { return pruned[i].ChatID < pruned[j].ChatID })
	if len(pruned) > 0 {
		s.log.Info("Pruned inactive groups", "count", len(pruned))
	}
	return pruned, nil
}

func (s *fileStore) PruneDailyCounters(keepDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keepDays <= 0 {
		return 0, fmt.Errorf("keepDays must be positive, got %d", keepDays)
	}
	cutoff := s.now().AddDate(0, 0, -keepDays).Format(dayFormat)

	removed := 0
	err := s.mutate(func(d *document) bool {
		for _, u := range d.Users {
			for day := range u.DailyImageCount {
				// Date keys are ISO dates, so string order is time order.
				if day < cutoff {
					delete(u.DailyImageCount, day)
					removed++
				}
			}
		}
		return removed > 0
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("Pruned stale daily counters", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

func groupInfos(groups map[string]*GroupRecord) []GroupInfo {
	out := make([]GroupInfo, 0, len(groups))
	for k, g := range groups {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, GroupInfo{ChatID: id, GroupRecord: *g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out
}
