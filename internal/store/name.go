package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName puts a logical name into the canonical form used for all
// comparisons and store-path joins. Filenames typed with precomposed and
// decomposed Unicode accents (a routine divergence between, e.g., Linux
// ext4 and a macOS HFS+ client) must refer to the same logical file, so
// the driver folds every name arriving through the mount to NFC before it
// is used for anything else. The CLI subcommands use their name argument
// as given, without normalizing it.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// IsVisible reports whether name is a legal, visible logical name: it must
// be non-empty, contain no path separator, and not begin with a dot. Hidden
// names are reserved for the store's own staging and temporary artifacts
// and are never exposed through the mount.
func IsVisible(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsRune(name, '/') {
		return false
	}
	return name[0] != '.'
}
