// Package naming converts user-supplied collection names into safe,
// deterministic storage-path segments.
package naming

import (
	"strings"

	"github.com/dmitrijs2005/photovault/internal/common"
)

// MaxNameLength bounds display names after trimming.
const MaxNameLength = 100

// Sanitize derives a folder key from a display name: lowercase, characters
// outside [a-z0-9 _-] stripped, runs of space/hyphen/underscore collapsed
// into a single underscore, leading and trailing separators trimmed.
//
// The result is valid both as a remote path segment and as a unique local
// index value. Same input always yields the same key. Keys are never
// auto-suffixed on collision: the caller rejects duplicates instead.
func Sanitize(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > MaxNameLength {
		return "", common.ErrorInvalidName
	}

	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(trimmed) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			sep = false
		case r == ' ' || r == '-' || r == '_':
			if !sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = true
		}
	}

	key := strings.TrimRight(b.String(), "_")
	if key == "" {
		return "", common.ErrorInvalidName
	}
	return key, nil
}

// DisplayName turns a folder key back into a human-readable name
// ("summer_trip" -> "Summer Trip").
func DisplayName(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
