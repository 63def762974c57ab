package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/arcfile/versionfs/internal/store"
	"github.com/arcfile/versionfs/pkg/logging"
)

func newTestManager(t *testing.T) (*store.Store, *Manager) {
	t.Helper()
	root := t.TempDir()
	s := store.New(filepath.Join(root, store.DirName), logging.RootLogger.Sublogger("test"))
	if err := s.Ensure(); err != nil {
		t.Fatalf("unable to create version store: %v", err)
	}
	return s, NewManager(s, logging.RootLogger.Sublogger("staging-test"))
}

func TestAcquireOnNewNameStartsEmpty(t *testing.T) {
	s, m := newTestManager(t)

	entry, err := m.Acquire("report.txt")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	content, err := os.ReadFile(entry.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(content) != 0 {
		t.Fatalf("expected empty staging file, got %q", content)
	}
	if entry.Path != s.StagingPath("report.txt") {
		t.Fatalf("unexpected staging path: %s", entry.Path)
	}
}

func TestAcquireCopiesExistingCurrentVersion(t *testing.T) {
	s, m := newTestManager(t)
	if err := os.WriteFile(s.VersionPath("report.txt", 1), []byte("existing"), store.FilePermissions); err != nil {
		t.Fatal(err)
	}

	entry, err := m.Acquire("report.txt")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	content, err := os.ReadFile(entry.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "existing" {
		t.Fatalf("expected staging file seeded with current content, got %q", content)
	}
}

func TestAcquireIsIdempotentWithinASession(t *testing.T) {
	_, m := newTestManager(t)

	first, err := m.Acquire("a")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Acquire("a")
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Compare(first, second); diff != "" {
		t.Fatalf("expected the same entry on repeated Acquire, diff:\n%s", diff)
	}
}

func TestCommitWithNoWritesIsNoop(t *testing.T) {
	_, m := newTestManager(t)
	if err := m.Commit("never-acquired"); err != nil {
		t.Fatalf("Commit on an unacquired name must be a no-op, got: %v", err)
	}
}

func TestCommitRotatesWhenContentChanged(t *testing.T) {
	s, m := newTestManager(t)
	entry, err := m.Acquire("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entry.Path, []byte("new content"), store.FilePermissions); err != nil {
		t.Fatal(err)
	}

	if err := m.Commit("a"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	content, err := os.ReadFile(s.VersionPath("a", 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "new content" {
		t.Fatalf("expected a.1 == \"new content\", got %q", content)
	}
	if _, err := os.Stat(entry.Path); !os.IsNotExist(err) {
		t.Fatal("expected staging file to be consumed by commit")
	}
}

func TestCommitWithUnchangedContentSpendsNoVersion(t *testing.T) {
	s, m := newTestManager(t)
	if err := os.WriteFile(s.VersionPath("a", 1), []byte("same"), store.FilePermissions); err != nil {
		t.Fatal(err)
	}

	entry, err := m.Acquire("a")
	if err != nil {
		t.Fatal(err)
	}
	// No modification: staging content matches a.1 exactly.

	if err := m.Commit("a"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if _, err := os.Stat(s.VersionPath("a", 2)); !os.IsNotExist(err) {
		t.Fatal("an unchanged write must not create a new version")
	}
	if _, err := os.Stat(entry.Path); !os.IsNotExist(err) {
		t.Fatal("expected staging file to be discarded")
	}
}

func TestDiscardRemovesStagingFileAndEntry(t *testing.T) {
	_, m := newTestManager(t)
	entry, err := m.Acquire("a")
	if err != nil {
		t.Fatal(err)
	}

	m.Discard("a")

	if _, err := os.Stat(entry.Path); !os.IsNotExist(err) {
		t.Fatal("expected staging file to be removed on Discard")
	}
	if err := m.Commit("a"); err != nil {
		t.Fatalf("Commit after Discard should be a no-op, got: %v", err)
	}
}

func TestRekeyMovesOpenSessionToNewName(t *testing.T) {
	s, m := newTestManager(t)
	entry, err := m.Acquire("old")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entry.Path, []byte("renamed in flight"), store.FilePermissions); err != nil {
		t.Fatal(err)
	}

	if err := m.Rekey("old", "new"); err != nil {
		t.Fatalf("Rekey failed: %v", err)
	}

	if err := m.Commit("new"); err != nil {
		t.Fatalf("Commit after Rekey failed: %v", err)
	}
	content, err := os.ReadFile(s.VersionPath("new", 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "renamed in flight" {
		t.Fatalf("expected new.1 to carry the in-flight write, got %q", content)
	}
}

func TestRekeyWithoutOpenSessionIsNoop(t *testing.T) {
	_, m := newTestManager(t)
	if err := m.Rekey("untouched", "also-untouched"); err != nil {
		t.Fatalf("Rekey with no open session must be a no-op, got: %v", err)
	}
}
