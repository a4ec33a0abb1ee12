package report_test

import (
	"testing"
	"time"

	"github.com/xodimov/relaybot/internal/report"
	"github.com/xodimov/relaybot/internal/store"
)

type fakeSnapshotter map[string]*store.UserRecord

func (f fakeSnapshotter) Snapshot() map[string]*store.UserRecord {
	return f
}

func stamp(offset time.Duration) string {
	return time.Now().Add(offset).Format(store.TimeLayout)
}

func record(id int64, name, lastActivity string, messages ...store.MessageEntry) *store.UserRecord {
	return &store.UserRecord{
		Info:     store.UserInfo{ID: id, FirstName: name},
		Messages: messages,
		Stats: store.UserStats{
			TotalMessages: len(messages),
			LastActivity:  lastActivity,
		},
	}
}

func TestStatsCounters(t *testing.T) {
	t.Parallel()

	recent := stamp(-time.Hour)
	snap := fakeSnapshotter{
		// Last entry from the user: unread.
		"1": record(1, "Alice", recent,
			store.MessageEntry{Text: "hello", Timestamp: recent, Direction: store.DirectionUser},
		),
		// Last entry from the admin: read, even with earlier unanswered messages.
		"2": record(2, "Bob", recent,
			store.MessageEntry{Text: "one", Timestamp: recent, Direction: store.DirectionUser},
			store.MessageEntry{Text: "two", Timestamp: recent, Direction: store.DirectionUser},
			store.MessageEntry{Text: "ack", Timestamp: recent, Direction: store.DirectionAdmin},
		),
		// No messages at all.
		"3": record(3, "Carol", ""),
	}

	stats := report.NewEngine(snap, nil).Stats()

	if stats.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", stats.TotalUsers)
	}
	if stats.TotalMessages != 4 {
		t.Errorf("TotalMessages = %d, want 4", stats.TotalMessages)
	}
	if stats.Unread != 1 {
		t.Errorf("Unread = %d, want 1", stats.Unread)
	}
}

func TestStatsActiveWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		lastActivity string
		wantActive   int
	}{
		{"well inside window", stamp(-time.Hour), 1},
		{"just inside window", stamp(-24*time.Hour + 5*time.Second), 1},
		{"just outside window", stamp(-24*time.Hour - 5*time.Second), 0},
		{"far outside window", stamp(-48 * time.Hour), 0},
		{"malformed timestamp", "not-a-timestamp", 0},
		{"empty timestamp", "", 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snap := fakeSnapshotter{"1": record(1, "Alice", tc.lastActivity)}
			stats := report.NewEngine(snap, nil).Stats()
			if stats.ActiveUsers != tc.wantActive {
				t.Errorf("ActiveUsers = %d, want %d", stats.ActiveUsers, tc.wantActive)
			}
		})
	}
}

func TestStatsTopUsers(t *testing.T) {
	t.Parallel()

	snap := fakeSnapshotter{}
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, name := range names {
		rec := record(int64(i+1), name, stamp(-time.Hour))
		rec.Stats.TotalMessages = i + 1 // G has the most messages
		snap[name] = rec
	}

	stats := report.NewEngine(snap, nil).Stats()

	if len(stats.TopUsers) != 5 {
		t.Fatalf("expected top 5, got %d", len(stats.TopUsers))
	}
	if stats.TopUsers[0].Name != "G" || stats.TopUsers[0].Messages != 7 {
		t.Errorf("unexpected leader: %+v", stats.TopUsers[0])
	}
	for i := 1; i < len(stats.TopUsers); i++ {
		if stats.TopUsers[i].Messages > stats.TopUsers[i-1].Messages {
			t.Errorf("ranking not descending at %d: %+v", i, stats.TopUsers)
		}
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	now := stamp(0)
	snap := fakeSnapshotter{
		"1": record(1, "Alice", now,
			store.MessageEntry{Text: "Hello World", Timestamp: now, Direction: store.DirectionUser},
			store.MessageEntry{Text: "goodbye", Timestamp: now, Direction: store.DirectionUser},
		),
		"2": record(2, "Bob", now,
			store.MessageEntry{Text: "hello again", Timestamp: now, Direction: store.DirectionAdmin},
		),
	}
	engine := report.NewEngine(snap, nil)

	results := engine.Search("HELLO", 0)
	if len(results) != 2 {
		t.Fatalf("expected 2 case-insensitive matches, got %d", len(results))
	}

	if got := engine.Search("hello", 1); len(got) != 1 {
		t.Errorf("limit not honored: got %d results", len(got))
	}

	if got := engine.Search("no such text", 0); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}
