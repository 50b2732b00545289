// Package models defines server-side data models persisted in the database.
package models

import "time"

// Photo describes the local metadata record for one image stored remotely.
// The remote object store is authoritative for the bytes; this record is a
// derived index kept converged by the sync service.
type Photo struct {
	// ID is the local surrogate key, assigned at insert time.
	ID int64 `json:"id"`
	// Title is the user-facing display name; editable, not unique.
	Title string `json:"title"`
	// Description is freeform user text; never touched by sync.
	Description string `json:"description"`

	// StorageKey is the object-storage key (path) of the image.
	// Unique across all photos.
	StorageKey string `json:"storage_key"`
	// URL and SecureURL are the retrievable locations of the stored bytes.
	// Recomputed when the object moves.
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`

	// Folder is the collection key the photo belongs to, or empty when
	// uncategorized. Collections are path prefixes in the remote store;
	// nothing enforces this reference but the sync service.
	Folder string `json:"folder,omitempty"`

	// OriginalFilename is the name of the file as uploaded.
	OriginalFilename string `json:"original_filename"`
	// Format, SizeBytes, Width and Height are best-effort descriptive
	// metadata; zero when unknown.
	Format    string `json:"format"`
	SizeBytes int64  `json:"size_bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`

	// UploadedAt is set once at creation and never changes.
	UploadedAt time.Time `json:"uploaded_at"`
}

// Collection is a projection of a remote folder. It has no table of its
// own: existence is inferred from the remote listing, counts and preview
// from the photo metadata. Nothing here is cached.
type Collection struct {
	// Key is the sanitized, path-safe folder name.
	Key string `json:"id"`
	// Name is the display form derived from Key.
	Name string `json:"name"`
	// PhotoCount is the number of local photo records under Key.
	PhotoCount int `json:"photo_count"`
	// PreviewURL is the secure URL of the most recent photo, empty if none.
	PreviewURL string `json:"preview_url,omitempty"`
}
