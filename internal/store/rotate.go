package store

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/arcfile/versionfs/pkg/must"
)

// compareBufferSize is the chunk size used by BytesEqual's streaming
// comparison; content is never read into memory all at once.
const compareBufferSize = 64 * 1024

// Rotate shifts the version chain for name up by one: the existing file at
// index n is renamed to n+1, in descending order, so that the "contiguous
// prefix" invariant holds even if the process is interrupted partway
// through. If an entry at MaxVersions is encountered it is evicted (removed)
// rather than renamed, since there is no n+1 slot for it. After Rotate
// returns successfully, name.1 does not exist; the caller installs the new
// current version there.
//
// Eviction failures are logged and swallowed (the chain is still usable
// without the evicted file gone). A rename failure is structural and is
// returned to the caller rather than swallowed.
func (s *Store) Rotate(name string) error {
	entries, err := s.Enumerate(name)
	if err != nil {
		return err
	}

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry.N >= MaxVersions {
			must.Remove(entry.Path, s.logger)
			continue
		}
		destination := s.VersionPath(name, entry.N+1)
		if err := os.Rename(entry.Path, destination); err != nil {
			return errors.Wrapf(err, "unable to rotate %s", name)
		}
	}
	return nil
}

// BytesEqual reports whether the files at a and b are byte-identical. It
// returns false (not an error) if either file is missing or their sizes
// differ, and only falls back to a full streaming comparison when sizes
// match — but it never substitutes a metadata check (mtime, etc.) for the
// comparison itself, since the whole point is to detect a write that left
// content unchanged.
func (s *Store) BytesEqual(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "unable to stat file")
	}
	infoB, err := os.Stat(b)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "unable to stat file")
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	fileA, err := os.Open(a)
	if err != nil {
		return false, errors.Wrap(err, "unable to open file")
	}
	defer must.Close(fileA, s.logger)

	fileB, err := os.Open(b)
	if err != nil {
		return false, errors.Wrap(err, "unable to open file")
	}
	defer must.Close(fileB, s.logger)

	readerA := bufio.NewReaderSize(fileA, compareBufferSize)
	readerB := bufio.NewReaderSize(fileB, compareBufferSize)
	bufA := make([]byte, compareBufferSize)
	bufB := make([]byte, compareBufferSize)
	for {
		nA, errA := io.ReadFull(readerA, bufA)
		nB, errB := io.ReadFull(readerB, bufB)
		if nA != nB {
			return false, nil
		}
		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		if errA == io.EOF && errB == io.EOF {
			return true, nil
		}
		if errA != nil && errA != io.ErrUnexpectedEOF && errA != io.EOF {
			return false, errors.Wrap(errA, "unable to read file")
		}
		if errB != nil && errB != io.ErrUnexpectedEOF && errB != io.EOF {
			return false, errors.Wrap(errB, "unable to read file")
		}
		if errA == io.ErrUnexpectedEOF || errB == io.ErrUnexpectedEOF {
			return true, nil
		}
	}
}
