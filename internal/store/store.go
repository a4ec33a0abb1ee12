// Package store provides the JSON-backed message store, models, and data
// access layer for the relay bot. The whole store lives in one
// pretty-printed JSON document mapping stringified user ids to records;
// every mutation rewrites the file as a whole. That is the intended
// scalability ceiling: the target cardinality is one admin's inbox.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// ErrUnknownUser is returned by operations that require an existing record,
// such as admin replies and block toggles. The admin cannot reply to a user
// the bot has never heard from.
var ErrUnknownUser = errors.New("unknown user")

// Store defines the persistence operations for user records. Blocking is a
// soft flag only: SetBlocked never gates AppendUserMessage or
// AppendAdminReply — enforcing the block is the handlers' job.
type Store interface {
	// AppendUserMessage records an inbound message. It creates the record on
	// first contact, refreshes the mutable profile fields otherwise, appends
	// a from-user entry, updates the cached stats, and persists.
	AppendUserMessage(userID int64, profile Profile, text string, externalID int64) error

	// AppendAdminReply records an outbound admin message. It fails with
	// ErrUnknownUser if the record does not exist.
	AppendAdminReply(userID int64, text string) error

	// SetBlocked toggles the soft block flag and persists. Fails with
	// ErrUnknownUser if the record does not exist.
	SetBlocked(userID int64, blocked bool) error

	// IsBlocked reports the block flag; unknown users are not blocked.
	IsBlocked(userID int64) bool

	// User returns a deep copy of one record, or false if absent.
	User(userID int64) (*UserRecord, bool)

	// Snapshot returns a deep copy of the whole mapping.
	Snapshot() map[string]*UserRecord

	// Backup serializes the current in-memory state to a file distinct from
	// the primary store and returns its path. An empty target picks a
	// timestamped name under the configured backup directory. The primary
	// file is not touched.
	Backup(target string) (string, error)
}

// fileStore implements Store over a single JSON file. All writes funnel
// through one write lock scoped to the save; reads take the read lock, so a
// read concurrent with an in-flight write observes the previous state. That
// staleness window is accepted for a single-operator bot.
type fileStore struct {
	path      string
	backupDir string
	logger    *slog.Logger

	loadOnce sync.Once
	mu       sync.RWMutex
	data     map[string]*UserRecord

	now func() time.Time
}

// New creates a Store backed by the JSON file at path, with backups written
// under backupDir. The file is loaded lazily on first access; a missing file
// means an empty store, not an error.
func New(path, backupDir string, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &fileStore{
		path:      path,
		backupDir: backupDir,
		logger:    logger.With("component", "store"),
		data:      make(map[string]*UserRecord),
		now:       time.Now,
	}
}

// ensureLoaded performs the lazy one-time load of the backing file.
func (s *fileStore) ensureLoaded() {
	s.loadOnce.Do(s.load)
}

// load reads the backing file if present. A record that fails to decode or
// carries no identity is logged and skipped; a single corrupt record never
// aborts startup.
func (s *fileStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("No data file found, starting with empty store", "path", s.path)
			return
		}
		s.logger.Error("Failed to read data file", "path", s.path, "error", err)
		return
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Error("Failed to parse data file", "path", s.path, "error", err)
		return
	}

	for key, blob := range records {
		var rec UserRecord
		if err := json.Unmarshal(blob, &rec); err != nil {
			s.logger.Error("Skipping corrupt user record", "user_key", key, "error", err)
			continue
		}
		if rec.Info.ID == 0 {
			s.logger.Error("Skipping user record without identity", "user_key", key)
			continue
		}
		s.data[key] = &rec
	}

	s.logger.Info("Loaded message store", "path", s.path, "users", len(s.data))
}

// save rewrites the whole backing file. Callers must hold s.mu.
func (s *fileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}

	s.logger.Debug("Store saved", "path", s.path, "users", len(s.data))
	return nil
}

func (s *fileStore) AppendUserMessage(userID int64, profile Profile, text string, externalID int64) error {
	s.ensureLoaded()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(userID, 10)
	timestamp := s.now().Format(TimeLayout)

	rec, ok := s.data[key]
	if !ok {
		rec = &UserRecord{
			Info: UserInfo{
				ID:           userID,
				FirstName:    profile.FirstName,
				LastName:     profile.LastName,
				Username:     profile.Username,
				FirstContact: timestamp,
			},
		}
		s.data[key] = rec
		s.logger.Info("New user record created", "user_id", userID, "first_name", profile.FirstName)
	} else {
		// Names and usernames drift over time; the id never does.
		rec.Info.FirstName = profile.FirstName
		rec.Info.LastName = profile.LastName
		rec.Info.Username = profile.Username
	}

	rec.Messages = append(rec.Messages, MessageEntry{
		Text:      text,
		Timestamp: timestamp,
		Direction: DirectionUser,
		MessageID: externalID,
	})
	rec.Stats.TotalMessages = len(rec.Messages)
	rec.Stats.LastMessage = timestamp
	rec.Stats.LastActivity = timestamp

	if err := s.save(); err != nil {
		s.logger.Error("Failed to persist user message", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (s *fileStore) AppendAdminReply(userID int64, text string) error {
	s.ensureLoaded()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(userID, 10)
	rec, ok := s.data[key]
	if !ok {
		s.logger.Error("Cannot record reply for unknown user", "user_id", userID)
		return ErrUnknownUser
	}

	rec.Messages = append(rec.Messages, MessageEntry{
		Text:      text,
		Timestamp: s.now().Format(TimeLayout),
		Direction: DirectionAdmin,
	})
	rec.Stats.TotalMessages = len(rec.Messages)

	if err := s.save(); err != nil {
		s.logger.Error("Failed to persist admin reply", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (s *fileStore) SetBlocked(userID int64, blocked bool) error {
	s.ensureLoaded()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[strconv.FormatInt(userID, 10)]
	if !ok {
		s.logger.Error("Cannot change block flag for unknown user", "user_id", userID)
		return ErrUnknownUser
	}

	rec.Info.IsBlocked = blocked

	if err := s.save(); err != nil {
		s.logger.Error("Failed to persist block flag", "user_id", userID, "blocked", blocked, "error", err)
		return err
	}
	s.logger.Info("Block flag updated", "user_id", userID, "blocked", blocked)
	return nil
}

func (s *fileStore) IsBlocked(userID int64) bool {
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[strconv.FormatInt(userID, 10)]
	return ok && rec.Info.IsBlocked
}

func (s *fileStore) User(userID int64) (*UserRecord, bool) {
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[strconv.FormatInt(userID, 10)]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

func (s *fileStore) Snapshot() map[string]*UserRecord {
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]*UserRecord, len(s.data))
	for key, rec := range s.data {
		snapshot[key] = rec.Clone()
	}
	return snapshot
}

func (s *fileStore) Backup(target string) (string, error) {
	s.ensureLoaded()

	if target == "" {
		name := fmt.Sprintf("messages_backup_%s.json", s.now().Format("20060102_150405"))
		target = filepath.Join(s.backupDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	s.mu.RLock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.WriteFile(target, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	s.logger.Info("Backup created", "path", target)
	return target, nil
}
