package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/photovault/internal/common"
	"github.com/dmitrijs2005/photovault/internal/dbx"
	"github.com/dmitrijs2005/photovault/internal/logging"
	"github.com/dmitrijs2005/photovault/internal/server/models"
	photosrepo "github.com/dmitrijs2005/photovault/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photovault/internal/server/storage"
)

// --- in-memory photo repository ---

type memPhotoRepo struct {
	nextID    int64
	photos    map[int64]*models.Photo
	createErr error
	deleteErr error
	listErr   error
}

func newMemPhotoRepo() *memPhotoRepo {
	return &memPhotoRepo{photos: make(map[int64]*models.Photo)}
}

func (r *memPhotoRepo) Create(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.photos {
		if existing.StorageKey == p.StorageKey {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.nextID++
	cp := *p
	cp.ID = r.nextID
	if cp.UploadedAt.IsZero() {
		cp.UploadedAt = time.Now()
	}
	r.photos[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memPhotoRepo) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPhotoRepo) sorted(filter func(*models.Photo) bool) []*models.Photo {
	var result []*models.Photo
	for _, p := range r.photos {
		if filter == nil || filter(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (r *memPhotoRepo) List(ctx context.Context) ([]*models.Photo, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(nil), nil
}

func (r *memPhotoRepo) ListByFolder(ctx context.Context, folder string) ([]*models.Photo, error) {
	return r.sorted(func(p *models.Photo) bool { return p.Folder == folder }), nil
}

func (r *memPhotoRepo) ListKeys(ctx context.Context) (map[string]int64, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	keys := make(map[string]int64)
	for id, p := range r.photos {
		keys[p.StorageKey] = id
	}
	return keys, nil
}

func (r *memPhotoRepo) UpdateText(ctx context.Context, id int64, title, description string) error {
	p, ok := r.photos[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Title = title
	p.Description = description
	return nil
}

func (r *memPhotoRepo) UpdateLocation(ctx context.Context, id int64, folder, storageKey, url, secureURL string) error {
	p, ok := r.photos[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Folder = folder
	p.StorageKey = storageKey
	p.URL = url
	p.SecureURL = secureURL
	return nil
}

func (r *memPhotoRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.photos[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.photos, id)
	return nil
}

func (r *memPhotoRepo) CountByFolder(ctx context.Context, folder string) (int, error) {
	return len(r.sorted(func(p *models.Photo) bool { return p.Folder == folder })), nil
}

func (r *memPhotoRepo) LatestByFolder(ctx context.Context, folder string) (*models.Photo, error) {
	list := r.sorted(func(p *models.Photo) bool { return p.Folder == folder })
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list[0], nil
}

type fakeRepoManager struct {
	repo *memPhotoRepo
}

func (m *fakeRepoManager) Photos(db dbx.DBTX) photosrepo.Repository { return m.repo }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

// --- fake remote ---

type fakeRemote struct {
	objects map[string]storage.Object

	uploadErr error
	deleteErr error
	renameErr error
	listErr   error

	deleted []string
}

func newFakeRemote(keys ...string) *fakeRemote {
	r := &fakeRemote{objects: make(map[string]storage.Object)}
	for _, k := range keys {
		r.objects[k] = r.makeObject(k, 100)
	}
	return r
}

func (r *fakeRemote) makeObject(key string, size int64) storage.Object {
	return storage.Object{
		Key:       key,
		URL:       "http://cdn.test/gallery/" + key,
		SecureURL: "https://cdn.test/gallery/" + key,
		Folder:    storage.FolderOf(key),
		SizeBytes: size,
	}
}

func (r *fakeRemote) Upload(ctx context.Context, key, contentType string, body io.Reader) (*storage.Object, error) {
	if r.uploadErr != nil {
		return nil, r.uploadErr
	}
	data, _ := io.ReadAll(body)
	obj := r.makeObject(key, int64(len(data)))
	r.objects[key] = obj
	return &obj, nil
}

func (r *fakeRemote) Delete(ctx context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.objects, key)
	return nil
}

func (r *fakeRemote) Rename(ctx context.Context, oldKey, newKey string) (*storage.Object, error) {
	if r.renameErr != nil {
		return nil, r.renameErr
	}
	obj, ok := r.objects[oldKey]
	if !ok {
		return nil, common.ErrorRenameFailed
	}
	delete(r.objects, oldKey)
	moved := r.makeObject(newKey, obj.SizeBytes)
	r.objects[newKey] = moved
	return &moved, nil
}

func (r *fakeRemote) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []storage.Object
	for key, obj := range r.objects {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			result = append(result, obj)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (r *fakeRemote) ListFolders(ctx context.Context) ([]string, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	seen := make(map[string]bool)
	var folders []string
	for key := range r.objects {
		if i := strings.Index(key, "/"); i > 0 {
			if !seen[key[:i]] {
				seen[key[:i]] = true
				folders = append(folders, key[:i])
			}
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// --- common wiring ---

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}
