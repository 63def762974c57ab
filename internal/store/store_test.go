package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arcfile/versionfs/pkg/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	s := New(filepath.Join(root, DirName), logging.RootLogger.Sublogger("test"))
	if err := s.Ensure(); err != nil {
		t.Fatalf("unable to create version store: %v", err)
	}
	return s
}

func writeVersion(t *testing.T, s *Store, name string, n int, content string) {
	t.Helper()
	if err := os.WriteFile(s.VersionPath(name, n), []byte(content), FilePermissions); err != nil {
		t.Fatalf("unable to write %s.%d: %v", name, n, err)
	}
}

func TestEnumerateIgnoresForeignAndStagingEntries(t *testing.T) {
	s := newTestStore(t)
	writeVersion(t, s, "a", 1, "one")
	writeVersion(t, s, "a", 2, "two")
	if err := os.WriteFile(s.StagingPath("a"), []byte("staged"), FilePermissions); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "a.notanumber"), []byte("x"), FilePermissions); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Enumerate("a")
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].N != 1 || entries[1].N != 2 {
		t.Fatalf("entries not in ascending order: %+v", entries)
	}
}

func TestRotateShiftsAndEvicts(t *testing.T) {
	s := newTestStore(t)
	for n := 1; n <= MaxVersions; n++ {
		writeVersion(t, s, "b", n, "content")
	}

	if err := s.Rotate("b"); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	if Present := s.Present("b"); Present {
		t.Fatal("b.1 should not exist immediately after Rotate")
	}
	entries, err := s.Enumerate("b")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != MaxVersions-1 {
		t.Fatalf("expected chain to hold %d entries after eviction, got %d", MaxVersions-1, len(entries))
	}
	for _, entry := range entries {
		if entry.N < 2 || entry.N > MaxVersions {
			t.Fatalf("unexpected index %d after rotate", entry.N)
		}
	}
	if _, err := os.Stat(s.VersionPath("b", MaxVersions+1)); !os.IsNotExist(err) {
		t.Fatalf("expected former b.%d to be evicted, not moved to b.%d", MaxVersions, MaxVersions+1)
	}
}

func TestBytesEqual(t *testing.T) {
	s := newTestStore(t)
	writeVersion(t, s, "c", 1, "hello")
	writeVersion(t, s, "c", 2, "hello")
	writeVersion(t, s, "c", 3, "HELLO")

	equal, err := s.BytesEqual(s.VersionPath("c", 1), s.VersionPath("c", 2))
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Fatal("expected identical content to compare equal")
	}

	equal, err = s.BytesEqual(s.VersionPath("c", 1), s.VersionPath("c", 3))
	if err != nil {
		t.Fatal(err)
	}
	if equal {
		t.Fatal("expected differing content to compare unequal")
	}
}

func TestBytesEqualMissingFile(t *testing.T) {
	s := newTestStore(t)
	writeVersion(t, s, "d", 1, "hello")

	equal, err := s.BytesEqual(s.VersionPath("d", 1), s.VersionPath("d", 2))
	if err != nil {
		t.Fatal(err)
	}
	if equal {
		t.Fatal("a missing file must never compare equal")
	}
}

func TestPromoteInstallsHistoricalVersionAsCurrent(t *testing.T) {
	s := newTestStore(t)
	writeVersion(t, s, "e", 1, "v1")
	writeVersion(t, s, "e", 2, "v2")
	writeVersion(t, s, "e", 3, "v3")
	writeVersion(t, s, "e", 4, "v4")

	if err := s.Promote("e", 3); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}

	content, err := os.ReadFile(s.VersionPath("e", 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "v3" {
		t.Fatalf("expected e.1 == v3, got %q", content)
	}
	// The former e.1 should now be e.2 per a normal rotation.
	content, err = os.ReadFile(s.VersionPath("e", 2))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "v1" {
		t.Fatalf("expected e.2 == v1 (former current), got %q", content)
	}
}

func TestPromoteMissingVersionFails(t *testing.T) {
	s := newTestStore(t)
	writeVersion(t, s, "f", 1, "v1")

	if err := s.Promote("f", 5); err != ErrVersionNotFound {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestPurgeOldLeavesOnlyCurrent(t *testing.T) {
	s := newTestStore(t)
	for n := 1; n <= MaxVersions; n++ {
		writeVersion(t, s, "g", n, "content")
	}

	s.PurgeOld("g")

	entries, err := s.Enumerate("g")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].N != 1 {
		t.Fatalf("expected only g.1 to remain, got %+v", entries)
	}
}

func TestIsVisible(t *testing.T) {
	cases := map[string]bool{
		"report.txt": true,
		".hidden":    false,
		"":           false,
		"a/b":        false,
	}
	for name, want := range cases {
		if got := IsVisible(name); got != want {
			t.Errorf("IsVisible(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNormalizeNameFoldsToNFC(t *testing.T) {
	decomposed := "café" // "café" with a combining acute accent
	composed := "café"
	if NormalizeName(decomposed) != NormalizeName(composed) {
		t.Fatal("expected NFC-decomposed and precomposed names to normalize identically")
	}
}
