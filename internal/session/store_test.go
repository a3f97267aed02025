package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/models"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, closeFn := Open(path, logger.Nop())
	t.Cleanup(func() { _ = closeFn() })
	return s
}

func TestStoreStartsAnonymous(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.json"))
	if got := s.Get(); !got.Anonymous() {
		t.Fatalf("expected anonymous session, got %q", got)
	}
}

func TestStoreSetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, closeFn := Open(path, logger.Nop())
	if err := s.Set("alice"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got := s.Get(); got != "alice" {
		t.Fatalf("expected alice, got %q", got)
	}
	_ = closeFn()

	reopened := openStore(t, path)
	if got := reopened.Get(); got != "alice" {
		t.Fatalf("expected alice after reopen, got %q", got)
	}
}

func TestStoreClearRemovesPersistedUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := openStore(t, path)
	if err := s.Set("alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if got := s.Get(); got != "" {
		t.Fatalf("expected anonymous after clear, got %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "alice") {
		t.Fatalf("session file still contains prior username: %s", data)
	}
}

func TestStoreCorruptFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := openStore(t, path)
	if got := s.Get(); !got.Anonymous() {
		t.Fatalf("expected anonymous for corrupt storage, got %q", got)
	}
	if err := s.Set("bob"); err != nil {
		t.Fatalf("Set should succeed, got %v", err)
	}
	if got := s.Get(); got != "bob" {
		t.Fatalf("expected bob, got %q", got)
	}

	reopened, closeFn := Open(path, logger.Nop())
	defer closeFn()
	if got := reopened.Get(); got != "bob" {
		t.Fatalf("expected bob after reopen, got %q", got)
	}
}

func TestStoreNullFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("null"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := openStore(t, path)
	if got := s.Get(); !got.Anonymous() {
		t.Fatalf("expected anonymous, got %q", got)
	}
	if err := s.Set("alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Set("alice"); err != nil {
		t.Fatalf("Set after Clear: %v", err)
	}
}

type failingKV struct{ err error }

func (f failingKV) Get(string) (string, error) { return "", f.err }
func (f failingKV) Put(string, string) error   { return f.err }
func (f failingKV) Delete(string) error        { return f.err }

func TestStoreReadErrorIsAnonymous(t *testing.T) {
	boom := errors.New("disk gone")
	s := New(failingKV{err: boom}, logger.Nop())
	if got := s.Get(); !got.Anonymous() {
		t.Fatalf("expected anonymous, got %q", got)
	}
	if err := s.Set("carol"); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if got := s.Get(); got != models.Identity("carol") {
		t.Fatalf("expected in-memory identity carol, got %q", got)
	}
}

func TestFileKVDeleteMissingKey(t *testing.T) {
	kv, err := OpenFileKV(filepath.Join(t.TempDir(), "kv.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	if err := kv.Delete("user"); err != nil {
		t.Fatalf("Delete of missing key returned error: %v", err)
	}
	if _, err := kv.Get("user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := kv.Put("user", "a-much-longer-username"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Put("user", "al"); err != nil {
		t.Fatal(err)
	}
	if v, _ := kv.Get("user"); v != "al" {
		t.Fatalf("expected al, got %q", v)
	}
}
