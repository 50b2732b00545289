// Package services implements the application core: photo lifecycle,
// collection management and local/remote reconciliation.
//
// The remote object store is authoritative for file existence; the local
// database is a derived index. Two-phase operations here are deliberately
// not transactional across the two stores: divergence left behind by a
// partial failure is converged by the next sync pass, never by rollback.
package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/photovault/internal/common"
	"github.com/dmitrijs2005/photovault/internal/logging"
	"github.com/dmitrijs2005/photovault/internal/server/models"
	"github.com/dmitrijs2005/photovault/internal/server/naming"
	"github.com/dmitrijs2005/photovault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photovault/internal/server/storage"
)

// MaxUploadBytes is the upload size ceiling, checked before any remote call.
const MaxUploadBytes = 10 << 20

var allowedFormats = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

type PhotoService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	remote storage.Remote
	logger logging.Logger
}

func NewPhotoService(db *sql.DB, repos repomanager.RepositoryManager, remote storage.Remote, logger logging.Logger) *PhotoService {
	return &PhotoService{
		db:     db,
		repos:  repos,
		remote: remote,
		logger: logger.With("module", "photos"),
	}
}

// UploadInput carries one file received from a client.
type UploadInput struct {
	Filename   string
	Collection string
	Data       []byte
}

// Upload validates the file, stores it remotely, then inserts the local
// record. If the local insert fails after the remote write succeeded, the
// orphaned remote object is adopted by the next sync pass; the caller
// still gets the error.
func (s *PhotoService) Upload(ctx context.Context, in UploadInput) (*models.Photo, error) {
	if len(in.Data) == 0 {
		return nil, common.ErrorNoFile
	}
	if len(in.Data) > MaxUploadBytes {
		return nil, common.ErrorTooLarge
	}

	format := strings.ToLower(strings.TrimPrefix(path.Ext(in.Filename), "."))
	contentType, ok := allowedFormats[format]
	if !ok {
		return nil, common.ErrorUnsupportedType
	}

	folder := in.Collection
	key, err := s.buildKey(ctx, folder, in.Filename, format)
	if err != nil {
		return nil, err
	}

	obj, err := s.remote.Upload(ctx, key, contentType, bytes.NewReader(in.Data))
	if err != nil {
		return nil, err
	}

	width, height := imageDimensions(in.Data)

	photo := &models.Photo{
		Title:            naming.DisplayName(stemOf(in.Filename)),
		StorageKey:       obj.Key,
		URL:              obj.URL,
		SecureURL:        obj.SecureURL,
		Folder:           folder,
		OriginalFilename: in.Filename,
		Format:           format,
		SizeBytes:        int64(len(in.Data)),
		Width:            width,
		Height:           height,
	}

	created, err := s.repos.Photos(s.db).Create(ctx, photo)
	if err != nil {
		// Remote write already happened. The orphan is picked up by the
		// next sync pass, so only this request fails.
		s.logger.Error(ctx, "local insert failed after remote upload", "key", obj.Key, "error", err.Error())
		return nil, fmt.Errorf("saving photo record: %w", err)
	}

	return created, nil
}

// buildKey derives a storage key under the collection prefix and appends a
// short random suffix when the key is already taken locally.
func (s *PhotoService) buildKey(ctx context.Context, folder, filename, format string) (string, error) {
	stem, err := naming.Sanitize(stemOf(filename))
	if err != nil {
		// Filename sanitized to nothing; fall back to a random name.
		stem = uuid.NewString()[:8]
	}

	prefix := folder
	if prefix == "" {
		prefix = storage.UncategorizedFolder
	}

	keys, err := s.repos.Photos(s.db).ListKeys(ctx)
	if err != nil {
		return "", fmt.Errorf("listing keys: %w", err)
	}

	key := fmt.Sprintf("%s/%s.%s", prefix, stem, format)
	if _, taken := keys[key]; taken {
		key = fmt.Sprintf("%s/%s_%s.%s", prefix, stem, uuid.NewString()[:8], format)
	}

	return key, nil
}

// Move re-paths the remote object under the target collection and updates
// the local record only after the remote rename succeeded. On rename
// failure the record still matches the old remote location.
func (s *PhotoService) Move(ctx context.Context, id int64, collection string) (*models.Photo, error) {
	repo := s.repos.Photos(s.db)

	photo, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prefix := collection
	if prefix == "" {
		prefix = storage.UncategorizedFolder
	}
	newKey := prefix + "/" + storage.BaseName(photo.StorageKey)
	if newKey == photo.StorageKey {
		return photo, nil
	}

	obj, err := s.remote.Rename(ctx, photo.StorageKey, newKey)
	if err != nil {
		return nil, err
	}

	if err := repo.UpdateLocation(ctx, id, collection, obj.Key, obj.URL, obj.SecureURL); err != nil {
		return nil, err
	}

	photo.Folder = collection
	photo.StorageKey = obj.Key
	photo.URL = obj.URL
	photo.SecureURL = obj.SecureURL
	return photo, nil
}

// Delete removes the remote object first and the local record afterwards.
// The local record goes away even when the remote call fails hard: stale
// metadata must never outlive a user-initiated delete, and a dangling
// remote object is swept up by the next sync pass.
func (s *PhotoService) Delete(ctx context.Context, id int64) error {
	repo := s.repos.Photos(s.db)

	photo, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.remote.Delete(ctx, photo.StorageKey); err != nil {
		s.logger.Warn(ctx, "remote delete failed, removing local record anyway",
			"key", photo.StorageKey, "error", err.Error())
	}

	return repo.Delete(ctx, id)
}

// BulkDelete deletes several photos, returning how many went away.
// Missing ids are skipped, hard failures abort.
func (s *PhotoService) BulkDelete(ctx context.Context, ids []int64) (int, error) {
	deleted := 0
	for _, id := range ids {
		err := s.Delete(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Update changes the user-edited fields. Sync never touches these.
func (s *PhotoService) Update(ctx context.Context, id int64, title, description string) (*models.Photo, error) {
	repo := s.repos.Photos(s.db)

	if err := repo.UpdateText(ctx, id, title, description); err != nil {
		return nil, err
	}

	return repo.GetByID(ctx, id)
}

func (s *PhotoService) Get(ctx context.Context, id int64) (*models.Photo, error) {
	return s.repos.Photos(s.db).GetByID(ctx, id)
}

func (s *PhotoService) List(ctx context.Context) ([]*models.Photo, error) {
	return s.repos.Photos(s.db).List(ctx)
}

func (s *PhotoService) ListByCollection(ctx context.Context, collection string) ([]*models.Photo, error) {
	return s.repos.Photos(s.db).ListByFolder(ctx, collection)
}

func stemOf(filename string) string {
	return strings.TrimSuffix(path.Base(filename), path.Ext(filename))
}

// imageDimensions decodes only the header, best-effort: unknown formats
// report zero.
func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
