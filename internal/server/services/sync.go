package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/photovault/internal/dbx"
	"github.com/dmitrijs2005/photovault/internal/logging"
	"github.com/dmitrijs2005/photovault/internal/server/models"
	"github.com/dmitrijs2005/photovault/internal/server/naming"
	"github.com/dmitrijs2005/photovault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photovault/internal/server/storage"
)

// SyncService converges the local photo index onto the remote listing.
// Remote is authoritative for existence and object-location fields only;
// user-entered titles and descriptions are never overwritten.
type SyncService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	remote storage.Remote
	logger logging.Logger
}

func NewSyncService(db *sql.DB, repos repomanager.RepositoryManager, remote storage.Remote, logger logging.Logger) *SyncService {
	return &SyncService{
		db:     db,
		repos:  repos,
		remote: remote,
		logger: logger.With("module", "sync"),
	}
}

// Report summarizes one reconciliation pass.
type Report struct {
	Inserted int `json:"inserted"`
	Removed  int `json:"removed"`
}

// Sync runs one reconciliation pass: remote objects missing locally are
// inserted, local records whose object is gone are removed, everything
// else stays untouched. The pass is idempotent given a stable remote.
//
// Two safety rules: any adapter error aborts the pass with no partial
// local change, and an empty remote listing while local records exist is
// treated as an adapter hiccup, not as "delete everything".
func (s *SyncService) Sync(ctx context.Context) (Report, error) {
	objects, err := s.remote.List(ctx, "")
	if err != nil {
		return Report{}, fmt.Errorf("remote listing: %w", err)
	}

	remote := make(map[string]storage.Object, len(objects))
	for _, obj := range objects {
		if storage.IsPlaceholder(obj.Key) {
			continue
		}
		remote[obj.Key] = obj
	}

	local, err := s.repos.Photos(s.db).ListKeys(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("local listing: %w", err)
	}

	if len(remote) == 0 && len(local) > 0 {
		s.logger.Warn(ctx, "remote listing empty while local records exist, skipping pass",
			"local", len(local))
		return Report{}, nil
	}

	var toInsert []storage.Object
	for key, obj := range remote {
		if _, ok := local[key]; !ok {
			toInsert = append(toInsert, obj)
		}
	}

	var toDelete []int64
	for key, id := range local {
		if _, ok := remote[key]; !ok {
			toDelete = append(toDelete, id)
		}
	}

	report := Report{Inserted: len(toInsert), Removed: len(toDelete)}
	if report.Inserted == 0 && report.Removed == 0 {
		return report, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Photos(tx)

		for _, obj := range toInsert {
			s.logger.Debug(ctx, "adopting remote object", "key", obj.Key)
			if _, err := repo.Create(ctx, adoptedPhoto(obj)); err != nil {
				return err
			}
		}

		for _, id := range toDelete {
			s.logger.Debug(ctx, "removing stale record", "id", id)
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("applying sync changes: %w", err)
	}

	s.logger.Info(ctx, "sync pass finished", "inserted", report.Inserted, "removed", report.Removed)

	return report, nil
}

// adoptedPhoto builds a local record for a remote object discovered
// outside the upload path. Numeric metadata the listing cannot provide
// stays zero.
func adoptedPhoto(obj storage.Object) *models.Photo {
	base := storage.BaseName(obj.Key)
	format := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))

	return &models.Photo{
		Title:            naming.DisplayName(strings.TrimSuffix(base, path.Ext(base))),
		StorageKey:       obj.Key,
		URL:              obj.URL,
		SecureURL:        obj.SecureURL,
		Folder:           obj.Folder,
		OriginalFilename: base,
		Format:           format,
		SizeBytes:        obj.SizeBytes,
	}
}
