// Package report computes derived statistics and full-text search over the
// message store. It only ever consumes snapshots; it never mutates state.
package report

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xodimov/relaybot/internal/store"
)

// activeWindow is the trailing period that classifies a user as currently
// engaged.
const activeWindow = 24 * time.Hour

// Snapshotter is the slice of the store the engine needs.
type Snapshotter interface {
	Snapshot() map[string]*store.UserRecord
}

// TopUser is one entry of the most-active ranking.
type TopUser struct {
	UserID   string
	Name     string
	Messages int
}

// Stats aggregates the whole store. Unread counts users whose most recent
// entry came from the user — strictly last-entry direction, so a user with
// several unanswered messages followed by one reply counts as read. That
// matches the deployed behavior and is kept on purpose.
type Stats struct {
	TotalUsers    int
	TotalMessages int
	Unread        int
	ActiveUsers   int
	TopUsers      []TopUser
}

// SearchResult is one message matching a search query.
type SearchResult struct {
	UserID   string
	Name     string
	Username string
	Message  store.MessageEntry
}

// Engine computes stats and search results from store snapshots.
type Engine struct {
	store  Snapshotter
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an aggregation engine over the given store.
func NewEngine(st Snapshotter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		store:  st,
		logger: logger.With("component", "report"),
		now:    time.Now,
	}
}

// Stats walks one snapshot and returns the aggregate counters plus the top
// five users by message count. A record whose last-activity timestamp does
// not parse is counted as inactive, never as an error.
func (e *Engine) Stats() Stats {
	snapshot := e.store.Snapshot()
	cutoff := e.now().Add(-activeWindow)

	stats := Stats{TotalUsers: len(snapshot)}

	type ranked struct {
		key string
		rec *store.UserRecord
	}
	all := make([]ranked, 0, len(snapshot))

	for key, rec := range snapshot {
		stats.TotalMessages += len(rec.Messages)

		if n := len(rec.Messages); n > 0 && rec.Messages[n-1].Direction == store.DirectionUser {
			stats.Unread++
		}

		last, err := time.ParseInLocation(store.TimeLayout, rec.Stats.LastActivity, time.Local)
		if err != nil {
			e.logger.Debug("Unparseable last-activity timestamp, counting as inactive",
				"user_key", key, "value", rec.Stats.LastActivity)
		} else if last.After(cutoff) {
			stats.ActiveUsers++
		}

		all = append(all, ranked{key, rec})
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].rec.Stats.TotalMessages > all[j].rec.Stats.TotalMessages
	})
	for i := 0; i < len(all) && i < 5; i++ {
		stats.TopUsers = append(stats.TopUsers, TopUser{
			UserID:   all[i].key,
			Name:     all[i].rec.Info.DisplayName(),
			Messages: all[i].rec.Stats.TotalMessages,
		})
	}

	return stats
}

// Search returns up to limit messages whose text contains query,
// case-insensitively. Results come back in store-iteration order; they are
// not ranked.
func (e *Engine) Search(query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = 50
	}
	needle := strings.ToLower(query)

	var results []SearchResult
	for key, rec := range e.store.Snapshot() {
		for _, msg := range rec.Messages {
			if !strings.Contains(strings.ToLower(msg.Text), needle) {
				continue
			}
			results = append(results, SearchResult{
				UserID:   key,
				Name:     rec.Info.DisplayName(),
				Username: rec.Info.Username,
				Message:  msg,
			})
			if len(results) >= limit {
				return results
			}
		}
	}

	e.logger.Debug("Search completed", "query", query, "matches", len(results))
	return results
}
