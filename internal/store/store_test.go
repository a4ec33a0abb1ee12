package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/xodimov/relaybot/internal/store"
)

func newTestStore(t *testing.T) (store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.json")
	return store.New(path, filepath.Join(dir, "backup"), nil), path
}

func TestMissingFileMeansEmptyStore(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	if got := st.Snapshot(); len(got) != 0 {
		t.Errorf("expected empty snapshot, got %d records", len(got))
	}
}

func TestAppendUserMessageCreatesRecord(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	profile := store.Profile{FirstName: "Alice", LastName: "Smith", Username: "alice"}
	if err := st.AppendUserMessage(42, profile, "hello", 1001); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}

	rec, ok := st.User(42)
	if !ok {
		t.Fatal("expected record for user 42")
	}
	if rec.Info.ID != 42 || rec.Info.Username != "alice" {
		t.Errorf("unexpected info: %+v", rec.Info)
	}
	if rec.Info.FirstContact == "" {
		t.Error("expected first contact timestamp to be set")
	}
	if len(rec.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(rec.Messages))
	}
	msg := rec.Messages[0]
	if msg.Text != "hello" || msg.Direction != store.DirectionUser || msg.MessageID != 1001 {
		t.Errorf("unexpected message entry: %+v", msg)
	}
	if rec.Stats.TotalMessages != 1 {
		t.Errorf("expected total 1, got %d", rec.Stats.TotalMessages)
	}
	if rec.Stats.LastActivity != msg.Timestamp || rec.Stats.LastMessage != msg.Timestamp {
		t.Errorf("stats timestamps not refreshed: %+v", rec.Stats)
	}
}

func TestAppendAdminReplyUpdatesTotalOnly(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	if err := st.AppendUserMessage(42, store.Profile{FirstName: "Alice"}, "hello", 1); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}
	before, _ := st.User(42)

	if err := st.AppendAdminReply(42, "hi"); err != nil {
		t.Fatalf("AppendAdminReply: %v", err)
	}

	rec, _ := st.User(42)
	if len(rec.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(rec.Messages))
	}
	if rec.Messages[1].Direction != store.DirectionAdmin || rec.Messages[1].Text != "hi" {
		t.Errorf("unexpected reply entry: %+v", rec.Messages[1])
	}
	if rec.Stats.TotalMessages != 2 {
		t.Errorf("expected total 2, got %d", rec.Stats.TotalMessages)
	}
	// Admin replies never count as user activity.
	if rec.Stats.LastActivity != before.Stats.LastActivity {
		t.Errorf("last activity changed on admin reply: %q -> %q", before.Stats.LastActivity, rec.Stats.LastActivity)
	}
}

func TestAppendAdminReplyUnknownUser(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	if err := st.AppendAdminReply(99, "hi"); !errors.Is(err, store.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
	if got := st.Snapshot(); len(got) != 0 {
		t.Errorf("failed reply must not create records, got %d", len(got))
	}
}

func TestProfileRefreshKeepsFirstContact(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	if err := st.AppendUserMessage(42, store.Profile{FirstName: "Alice", Username: "alice"}, "one", 1); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}
	first, _ := st.User(42)

	if err := st.AppendUserMessage(42, store.Profile{FirstName: "Alicia", Username: "alicia2"}, "two", 2); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}

	rec, _ := st.User(42)
	if rec.Info.FirstName != "Alicia" || rec.Info.Username != "alicia2" {
		t.Errorf("profile not refreshed: %+v", rec.Info)
	}
	if rec.Info.FirstContact != first.Info.FirstContact {
		t.Errorf("first contact changed: %q -> %q", first.Info.FirstContact, rec.Info.FirstContact)
	}
	if rec.Stats.TotalMessages != 2 {
		t.Errorf("expected total 2, got %d", rec.Stats.TotalMessages)
	}
}

func TestSetBlocked(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	if err := st.SetBlocked(42, true); !errors.Is(err, store.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser for unknown user, got %v", err)
	}

	if err := st.AppendUserMessage(42, store.Profile{FirstName: "Alice"}, "hello", 1); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}
	if st.IsBlocked(42) {
		t.Error("new user must not be blocked")
	}

	if err := st.SetBlocked(42, true); err != nil {
		t.Fatalf("SetBlocked: %v", err)
	}
	if !st.IsBlocked(42) {
		t.Error("expected user to be blocked")
	}

	// Blocking is a soft flag: appends still succeed.
	if err := st.AppendAdminReply(42, "still here"); err != nil {
		t.Errorf("AppendAdminReply to blocked user: %v", err)
	}
	if err := st.AppendUserMessage(42, store.Profile{FirstName: "Alice"}, "more", 2); err != nil {
		t.Errorf("AppendUserMessage from blocked user: %v", err)
	}

	if err := st.SetBlocked(42, false); err != nil {
		t.Fatalf("SetBlocked(false): %v", err)
	}
	if st.IsBlocked(42) {
		t.Error("expected user to be unblocked")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "messages.json")

	first := store.New(path, dir, nil)
	if err := first.AppendUserMessage(42, store.Profile{FirstName: "Alice", Username: "alice"}, "hello", 7); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}
	if err := first.AppendAdminReply(42, "hi"); err != nil {
		t.Fatalf("AppendAdminReply: %v", err)
	}
	if err := first.SetBlocked(42, true); err != nil {
		t.Fatalf("SetBlocked: %v", err)
	}

	second := store.New(path, dir, nil)
	if !reflect.DeepEqual(first.Snapshot(), second.Snapshot()) {
		t.Error("reloaded store differs from original")
	}
}

func TestLoadSkipsCorruptRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "messages.json")
	raw := `{
  "42": {
    "user_info": {"id": 42, "first_name": "Alice", "first_contact": "2025-01-01 10:00:00", "is_blocked": false},
    "messages": [{"text": "hello", "timestamp": "2025-01-01 10:00:00", "type": "user"}],
    "stats": {"total_messages": 1, "last_message": "2025-01-01 10:00:00", "last_activity": "2025-01-01 10:00:00"}
  },
  "99": {"user_info": "not an object"},
  "100": {
    "user_info": {"first_name": "NoID", "first_contact": "2025-01-01 10:00:00"},
    "messages": [],
    "stats": {}
  }
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	st := store.New(path, dir, nil)
	snapshot := st.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(snapshot))
	}
	rec, ok := snapshot["42"]
	if !ok || rec.Info.FirstName != "Alice" {
		t.Errorf("expected record 42 to survive, got %+v", snapshot)
	}
}

func TestBackup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "messages.json")
	backupDir := filepath.Join(dir, "backup")

	st := store.New(path, backupDir, nil)
	if err := st.AppendUserMessage(42, store.Profile{FirstName: "Alice"}, "hello", 1); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}

	target, err := st.Backup("")
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if filepath.Dir(target) != backupDir {
		t.Errorf("backup written outside backup dir: %s", target)
	}

	primary, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read primary: %v", err)
	}
	backupRaw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(primary) != string(backupRaw) {
		t.Error("backup content differs from primary file")
	}

	// Explicit targets are honored as-is.
	explicit := filepath.Join(dir, "explicit.json")
	got, err := st.Backup(explicit)
	if err != nil {
		t.Fatalf("Backup(explicit): %v", err)
	}
	if got != explicit {
		t.Errorf("expected %s, got %s", explicit, got)
	}
	if _, err := os.Stat(explicit); err != nil {
		t.Errorf("explicit backup not written: %v", err)
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	if err := st.AppendUserMessage(1, store.Profile{FirstName: "Seed"}, "first", 1); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = st.AppendUserMessage(n, store.Profile{FirstName: "Writer"}, "msg", int64(j))
				_ = st.AppendAdminReply(n, "ack")
			}
		}(int64(i + 1))
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				st.Snapshot()
				st.IsBlocked(n)
				st.User(n)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	rec, ok := st.User(1)
	if !ok || len(rec.Messages) == 0 {
		t.Error("store lost data under concurrent access")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	if err := st.AppendUserMessage(42, store.Profile{FirstName: "Alice"}, "hello", 1); err != nil {
		t.Fatalf("AppendUserMessage: %v", err)
	}

	snap := st.Snapshot()
	snap["42"].Info.FirstName = "Mallory"
	snap["42"].Messages[0].Text = "tampered"

	rec, _ := st.User(42)
	if rec.Info.FirstName != "Alice" || rec.Messages[0].Text != "hello" {
		t.Error("snapshot mutation leaked into store state")
	}
}
