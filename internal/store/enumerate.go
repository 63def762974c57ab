package store

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// VersionEntry is one entry in a logical file's version chain.
type VersionEntry struct {
	// N is the version index, 1 (current) through at most MaxVersions
	// (oldest retained).
	N int
	// Path is the backing file path, store.VersionPath(name, N).
	Path string
}

// Enumerate returns the ordered version chain for name, ascending by index.
// Entries are found by scanning the store directory for names with the
// prefix "name." whose suffix parses as a decimal integer; everything else
// (staging files, temporary files, foreign files) is silently ignored.
func (s *Store) Enumerate(name string) ([]VersionEntry, error) {
	descriptors, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read version store")
	}

	prefix := name + "."
	var entries []VersionEntry
	for _, descriptor := range descriptors {
		base := descriptor.Name()
		if !strings.HasPrefix(base, prefix) {
			continue
		}
		suffix := base[len(prefix):]
		n, err := strconv.Atoi(suffix)
		if err != nil {
			// Not a version entry: a foreign file, or another logical
			// name that merely shares this prefix (e.g. "report.txt.1"
			// when enumerating "report", whose suffix "txt.1" does not
			// parse).
			continue
		}
		entries = append(entries, VersionEntry{N: n, Path: s.VersionPath(name, n)})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].N < entries[j].N })
	return entries, nil
}

// VisibleNames returns the sorted set of logical names currently present in
// the store (those for which name.1 exists), used to serve read-dir.
func (s *Store) VisibleNames() ([]string, error) {
	descriptors, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read version store")
	}

	seen := make(map[string]bool)
	for _, descriptor := range descriptors {
		base := descriptor.Name()
		dot := strings.LastIndexByte(base, '.')
		if dot <= 0 {
			continue
		}
		name, suffix := base[:dot], base[dot+1:]
		if !IsVisible(name) {
			continue
		}
		if _, err := strconv.Atoi(suffix); err != nil {
			continue
		}
		if seen[name] {
			continue
		}
		if s.Present(name) {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
