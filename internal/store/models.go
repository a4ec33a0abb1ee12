package store

import "strings"

// TimeLayout is the fixed timestamp layout used everywhere in the data file.
// Stats and search parse it back with time.ParseInLocation.
const TimeLayout = "2006-01-02 15:04:05"

// Direction marks who authored a message entry.
const (
	DirectionUser  = "user"
	DirectionAdmin = "admin"
)

// Profile carries the mutable identity fields delivered with each inbound
// message. Name and username may change between contacts; the numeric id
// never does.
type Profile struct {
	FirstName string
	LastName  string
	Username  string
}

// UserInfo is the identity block of a user record. FirstContact is set once
// at creation and never updated afterwards.
type UserInfo struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	FirstContact string `json:"first_contact"`
	IsBlocked    bool   `json:"is_blocked"`
}

// DisplayName returns the user's first and last name joined, trimmed of the
// trailing space when there is no last name.
func (u UserInfo) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// MessageEntry is one message in a user's history. Entries are immutable and
// only ever appended; insertion order is chronological order.
type MessageEntry struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Direction string `json:"type"`
	MessageID int64  `json:"message_id,omitempty"`
}

// UserStats is a denormalized cache over the message list, refreshed on
// every append. TotalMessages always equals len(Messages); the source of
// truth remains the message list itself.
type UserStats struct {
	TotalMessages int    `json:"total_messages"`
	LastMessage   string `json:"last_message"`
	LastActivity  string `json:"last_activity"`
}

// UserRecord is the full persisted state for one sender: identity, ordered
// message history, and cached stats. Records are created on first contact
// and never deleted; blocking is a soft flag on UserInfo.
type UserRecord struct {
	Info     UserInfo       `json:"user_info"`
	Messages []MessageEntry `json:"messages"`
	Stats    UserStats      `json:"stats"`
}

// Clone returns a deep copy of the record so callers can never mutate the
// store's live state through a snapshot.
func (r *UserRecord) Clone() *UserRecord {
	cp := &UserRecord{
		Info:  r.Info,
		Stats: r.Stats,
	}
	if r.Messages != nil {
		cp.Messages = make([]MessageEntry, len(r.Messages))
		copy(cp.Messages, r.Messages)
	}
	return cp
}
