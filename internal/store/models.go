package store

import "time"

// UserRecord holds per-user bookkeeping. Records are created on first
// contact and never deleted; daily image counters are keyed by local
// calendar date and pruned by the retention task.
type UserRecord struct {
	Username        string         `json:"username"`
	FirstName       string         `json:"first_name"`
	JoinDate        time.Time      `json:"join_date"`
	MessageCount    int64          `json:"message_count"`
	ImageCount      int64          `json:"image_count"`
	DailyImageCount map[string]int `json:"daily_image_count"`
	LastActive      time.Time      `json:"last_active"`
}

// GroupRecord holds per-group bookkeeping. Created when the bot is added
// to a group, deleted on prune or when the chat becomes unreachable.
type GroupRecord struct {
	Title        string    `json:"title"`
	JoinDate     time.Time `json:"join_date"`
	MessageCount int64     `json:"message_count"`
	LastActive   time.Time `json:"last_active"`
}

// GroupInfo pairs a group record with its chat id for listing and search
// results, where the id is otherwise only a document map key.
type GroupInfo struct {
	ChatID int64
	GroupRecord
}

// Statistics holds process-wide running totals. They are derived
// additively from per-user activity and stay equal to the sums of the
// user counters.
type Statistics struct {
	TotalMessages int64 `json:"total_messages"`
	TotalImages   int64 `json:"total_images"`
}

// document is the on-disk layout. The top-level keys are the
// compatibility contract with existing data files; ids are decimal
// strings as produced by the previous deployment.
type document struct {
	Users        map[string]*UserRecord  `json:"users"`
	BannedUsers  []string                `json:"banned_users"`
	PremiumUsers []string                `json:"premium_users"`
	Groups       map[string]*GroupRecord `json:"groups"`
	Statistics   Statistics              `json:"statistics"`
}

func newDocument() *document {
	return &document{
		Users:        make(map[string]*UserRecord),
		BannedUsers:  []string{},
		PremiumUsers: []string{},
		Groups:       make(map[string]*GroupRecord),
	}
}

func (d *document) clone() *document {
	c := &document{
		Users:        make(map[string]*UserRecord, len(d.Users)),
		BannedUsers:  append([]string{}, d.BannedUsers...),
		PremiumUsers: append([]string{}, d.PremiumUsers...),
		Groups:       make(map[string]*GroupRecord, len(d.Groups)),
		Statistics:   d.Statistics,
	}
	for id, u := range d.Users {
		uc := *u
		uc.DailyImageCount = make(map[string]int, len(u.DailyImageCount))
		for day, n := range u.DailyImageCount {
			uc.DailyImageCount[day] = n
		}
		c.Users[id] = &uc
	}
	for id, g := range d.Groups {
		gc := *g
		c.Groups[id] = &gc
	}
	return c
}
