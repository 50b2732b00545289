// Package photos persists local photo metadata. The table is a derived
// index over the remote object store, not a source of truth.
package photos

import (
	"context"

	"github.com/dmitrijs2005/photovault/internal/server/models"
)

type Repository interface {
	// Create inserts a record and fills in its ID and UploadedAt.
	// A duplicate storage_key yields common.ErrorAlreadyExists.
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)

	// GetByID returns one record or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Photo, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]*models.Photo, error)

	// ListByFolder returns the records of one collection, newest first.
	ListByFolder(ctx context.Context, folder string) ([]*models.Photo, error)

	// ListKeys returns every storage_key mapped to its record id.
	ListKeys(ctx context.Context) (map[string]int64, error)

	// UpdateText changes the user-edited fields only.
	UpdateText(ctx context.Context, id int64, title, description string) error

	// UpdateLocation rewrites the object-location fields after a move.
	UpdateLocation(ctx context.Context, id int64, folder, storageKey, url, secureURL string) error

	// Delete removes one record; a missing id yields common.ErrorNotFound.
	Delete(ctx context.Context, id int64) error

	// CountByFolder returns the number of records in a collection.
	CountByFolder(ctx context.Context, folder string) (int, error)

	// LatestByFolder returns the most recently uploaded record of a
	// collection, or common.ErrorNotFound when the collection is empty.
	LatestByFolder(ctx context.Context, folder string) (*models.Photo, error)
}
