package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alyusr/institute/core/user"
)

type credsStub struct {
	err error
}

func (c credsStub) Authenticate(_ context.Context, email, _ string) (Session, error) {
	if c.err != nil {
		return Session{}, c.err
	}
	return Session{ID: "u1", Email: email, Name: "Awe Lmao", Role: user.RoleStudent, Initials: "AL"}, nil
}

func Test_Manager_SignIn_notifiesSubscribers(t *testing.T) {
	m := NewManager(credsStub{}, NewMemoryStore())

	var got []*Session
	unsubscribe := m.Subscribe(func(s *Session) { got = append(got, s) })
	defer unsubscribe()

	// immediate invoke with the current (logged out) state
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("subscribe callback = %v; want one immediate nil invoke", got)
	}

	s, err := m.SignIn(context.Background(), "awe@test.cd", "pwd")
	if err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	if len(got) != 2 || got[1] == nil || got[1].Email != "awe@test.cd" {
		t.Errorf("subscriber not notified of sign-in; got %v", got)
	}
	if cur := m.Current(); cur == nil || cur.ID != s.ID {
		t.Errorf("Current() = %v; want the signed-in session", cur)
	}
}

func Test_Manager_SignOut_notifiesNilExactlyOnce(t *testing.T) {
	m := NewManager(credsStub{}, NewMemoryStore())
	if _, err := m.SignIn(context.Background(), "awe@test.cd", "pwd"); err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}

	var calls []*Session
	defer m.Subscribe(func(s *Session) { calls = append(calls, s) })()
	calls = nil // drop the immediate invoke

	m.SignOut()

	if len(calls) != 1 || calls[0] != nil {
		t.Errorf("sign-out notifications = %v; want exactly one nil", calls)
	}
	if m.Current() != nil {
		t.Error("Current() != nil after sign-out")
	}
}

func Test_Manager_SignIn_failurePropagates(t *testing.T) {
	m := NewManager(credsStub{err: ErrInvalidCredentials}, NewMemoryStore())

	notified := false
	defer m.Subscribe(func(*Session) { notified = true })()
	notified = false

	if _, err := m.SignIn(context.Background(), "awe@test.cd", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("SignIn() error = %v; want ErrInvalidCredentials", err)
	}
	if notified {
		t.Error("subscriber notified on failed sign-in")
	}
	if m.Current() != nil {
		t.Error("Current() != nil after failed sign-in")
	}
}

func Test_Manager_Unsubscribe(t *testing.T) {
	m := NewManager(credsStub{}, NewMemoryStore())

	calls := 0
	unsubscribe := m.Subscribe(func(*Session) { calls++ })
	unsubscribe()

	if _, err := m.SignIn(context.Background(), "awe@test.cd", "pwd"); err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	if calls != 1 { // the immediate invoke only
		t.Errorf("unsubscribed listener called %d times; want 1", calls)
	}
}

func Test_Manager_Restore(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Save(Session{ID: "u1", Email: "awe@test.cd", Role: user.RoleTeacher})

	m := NewManager(credsStub{}, store)
	m.Restore()

	if cur := m.Current(); cur == nil || cur.ID != "u1" {
		t.Errorf("Current() = %v; want the persisted session", cur)
	}
}

func Test_FileStore_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewFileStore(path, "s3cr3t")

	// missing file means logged out
	if s, err := store.Load(); err != nil || s != nil {
		t.Fatalf("Load() = %v, %v; want nil, nil", s, err)
	}

	saved := Session{ID: "u1", Email: "awe@test.cd", Name: "Awe Lmao", Role: user.RoleAdmin, Initials: "AL"}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded == nil || *loaded != saved {
		t.Errorf("Load() = %+v; want %+v", loaded, saved)
	}
}

func Test_FileStore_corruptStateDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewFileStore(path, "s3cr3t")
	if err := os.WriteFile(path, []byte("tampered"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatal("Load() succeeded on tampered state")
	}

	// the manager treats it as logged out and clears the file
	m := NewManager(credsStub{}, store)
	m.Restore()
	if m.Current() != nil {
		t.Error("Current() != nil after corrupt restore")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt session file was not cleared")
	}
}
