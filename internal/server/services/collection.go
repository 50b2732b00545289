package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/photovault/internal/common"
	"github.com/dmitrijs2005/photovault/internal/logging"
	"github.com/dmitrijs2005/photovault/internal/server/models"
	"github.com/dmitrijs2005/photovault/internal/server/naming"
	"github.com/dmitrijs2005/photovault/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photovault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photovault/internal/server/storage"
)

// CollectionService manages collections as remote folders. There is no
// collections table: a collection exists exactly while its prefix holds at
// least one object, and a zero-byte placeholder keeps empty ones alive.
type CollectionService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	remote storage.Remote
	logger logging.Logger
}

func NewCollectionService(db *sql.DB, repos repomanager.RepositoryManager, remote storage.Remote, logger logging.Logger) *CollectionService {
	return &CollectionService{
		db:     db,
		repos:  repos,
		remote: remote,
		logger: logger.With("module", "collections"),
	}
}

// reserved folders never surface as collections.
func reservedFolder(name string) bool {
	return name == storage.UncategorizedFolder || strings.HasPrefix(name, ".")
}

// List returns all collections with photo counts and previews computed
// from the metadata store on every call; nothing is cached.
func (s *CollectionService) List(ctx context.Context) ([]*models.Collection, error) {
	folders, err := s.remote.ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	repo := s.repos.Photos(s.db)

	var result []*models.Collection
	for _, folder := range folders {
		if reservedFolder(folder) {
			continue
		}

		c, err := s.describe(ctx, repo, folder)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	return result, nil
}

func (s *CollectionService) describe(ctx context.Context, repo photos.Repository, folder string) (*models.Collection, error) {

	count, err := repo.CountByFolder(ctx, folder)
	if err != nil {
		return nil, err
	}

	preview := ""
	latest, err := repo.LatestByFolder(ctx, folder)
	switch {
	case err == nil:
		preview = latest.SecureURL
	case errors.Is(err, common.ErrorNotFound):
		// empty collection, no preview
	default:
		return nil, err
	}

	return &models.Collection{
		Key:        folder,
		Name:       naming.DisplayName(folder),
		PhotoCount: count,
		PreviewURL: preview,
	}, nil
}

// Get returns one collection or common.ErrorNotFound.
func (s *CollectionService) Get(ctx context.Context, key string) (*models.Collection, error) {
	folders, err := s.remote.ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	for _, folder := range folders {
		if folder == key && !reservedFolder(folder) {
			return s.describe(ctx, s.repos.Photos(s.db), folder)
		}
	}

	return nil, common.ErrorNotFound
}

// Create derives the folder key from name and makes the folder durable by
// uploading a placeholder. A name that sanitizes to an existing key is
// rejected, never auto-suffixed.
func (s *CollectionService) Create(ctx context.Context, name string) (*models.Collection, error) {
	key, err := naming.Sanitize(name)
	if err != nil {
		return nil, err
	}
	if reservedFolder(key) {
		return nil, common.ErrorInvalidName
	}

	folders, err := s.remote.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	for _, folder := range folders {
		if folder == key {
			return nil, common.ErrorDuplicateCollection
		}
	}

	if _, err := s.remote.Upload(ctx, storage.PlaceholderKey(key), "application/octet-stream", strings.NewReader("")); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "collection created", "key", key)

	return &models.Collection{
		Key:        key,
		Name:       strings.TrimSpace(name),
		PhotoCount: 0,
	}, nil
}

// Delete cascades: every member photo is removed remote-first then
// locally, leftover remote objects under the prefix (placeholder included)
// are swept, and only then is the collection considered gone.
func (s *CollectionService) Delete(ctx context.Context, key string) error {
	if _, err := s.Get(ctx, key); err != nil {
		return err
	}

	repo := s.repos.Photos(s.db)

	members, err := repo.ListByFolder(ctx, key)
	if err != nil {
		return err
	}

	for _, photo := range members {
		if err := s.remote.Delete(ctx, photo.StorageKey); err != nil {
			s.logger.Warn(ctx, "remote delete failed during cascade, removing local record anyway",
				"key", photo.StorageKey, "error", err.Error())
		}
		if err := repo.Delete(ctx, photo.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
	}

	// Sweep the placeholder and any remote objects the local index
	// never knew about.
	remaining, err := s.remote.List(ctx, key+"/")
	if err != nil {
		return err
	}
	for _, obj := range remaining {
		if err := s.remote.Delete(ctx, obj.Key); err != nil {
			return err
		}
	}

	s.logger.Info(ctx, "collection deleted", "key", key, "photos", len(members))

	return nil
}
