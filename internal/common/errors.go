// Package common defines shared constants and sentinel errors used across
// the layers of PhotoVault. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Collection errors.
	ErrorInvalidName         = errors.New("invalid collection name")
	ErrorDuplicateCollection = errors.New("collection already exists")

	// Upload validation errors.
	ErrorUnsupportedType = errors.New("unsupported file type")
	ErrorTooLarge        = errors.New("file too large")
	ErrorNoFile          = errors.New("no file provided")

	// Remote adapter errors. These wrap the underlying cause so the
	// root error stays available for server-side logging.
	ErrorUploadFailed = errors.New("upload failed")
	ErrorRenameFailed = errors.New("rename failed")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
)
