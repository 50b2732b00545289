// Package storage adapts an S3-compatible object store to the capability
// surface the photo services depend on. The remote store is the durable
// source of truth for file existence; everything local is derived from it.
package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

// UncategorizedFolder is the prefix used for photos that belong to no
// collection. It never appears in collection listings.
const UncategorizedFolder = "uncategorized"

// placeholderName is the zero-byte object that keeps an otherwise empty
// folder alive in the remote store.
const placeholderName = ".keep"

// Object describes one stored object in the remote store.
type Object struct {
	// Key is the full path-like identifier, unique within the bucket.
	Key string
	// URL and SecureURL are the plain and TLS locations of the bytes.
	URL       string
	SecureURL string
	// Folder is the first path segment of Key, empty for root objects.
	Folder string
	// SizeBytes is the stored size as reported by the remote, 0 if unknown.
	SizeBytes int64
	// LastModified is the remote store's timestamp for the object.
	LastModified time.Time
}

// Remote is the object-store capability surface used by the services.
//
// Usage contract: Upload is NOT idempotent (a retry creates a second
// object), Delete IS idempotent (deleting a missing key succeeds), and
// List follows pagination internally, returning one flat slice.
type Remote interface {
	// Upload stores body under key and returns the resulting object.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (*Object, error)

	// Delete removes the object under key. A missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Rename moves the object from oldKey to newKey and returns the
	// object at its new location. On failure the source is left intact.
	Rename(ctx context.Context, oldKey, newKey string) (*Object, error)

	// List returns every object under prefix, exhausting continuation
	// tokens before returning. An empty prefix lists the whole bucket.
	List(ctx context.Context, prefix string) ([]Object, error)

	// ListFolders returns the top-level folder names in the bucket.
	ListFolders(ctx context.Context) ([]string, error)
}

// PlaceholderKey returns the key of the placeholder object for a folder.
func PlaceholderKey(folder string) string {
	return folder + "/" + placeholderName
}

// IsPlaceholder reports whether key names a folder placeholder rather
// than an actual photo.
func IsPlaceholder(key string) bool {
	return strings.HasSuffix(key, "/"+placeholderName) || key == placeholderName
}

// FolderOf extracts the collection key from an object key: the first path
// segment, or empty for objects at the bucket root or under the
// uncategorized prefix.
func FolderOf(key string) string {
	i := strings.Index(key, "/")
	if i < 0 {
		return ""
	}
	folder := key[:i]
	if folder == UncategorizedFolder {
		return ""
	}
	return folder
}

// BaseName returns the final path segment of an object key.
func BaseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
