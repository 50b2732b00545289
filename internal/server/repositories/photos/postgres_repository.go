package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/photovault/internal/common"
	"github.com/dmitrijs2005/photovault/internal/dbx"
	"github.com/dmitrijs2005/photovault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const photoColumns = `id, title, description, storage_key, url, secure_url, folder,
original_filename, format, size_bytes, width, height, uploaded_at`

func scanPhoto(row interface{ Scan(dest ...any) error }) (*models.Photo, error) {
	p := &models.Photo{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.StorageKey, &p.URL, &p.SecureURL,
		&p.Folder, &p.OriginalFilename, &p.Format, &p.SizeBytes, &p.Width, &p.Height, &p.UploadedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {

	query :=
		`INSERT INTO photos (title, description, storage_key, url, secure_url, folder,
		    original_filename, format, size_bytes, width, height)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		photo.Title, photo.Description, photo.StorageKey, photo.URL, photo.SecureURL,
		photo.Folder, photo.OriginalFilename, photo.Format, photo.SizeBytes,
		photo.Width, photo.Height).Scan(&photo.ID, &photo.UploadedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`

	p, err := scanPhoto(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Photo, error) {
	return r.list(ctx, `SELECT `+photoColumns+` FROM photos ORDER BY uploaded_at DESC, id DESC`)
}

func (r *PostgresRepository) ListByFolder(ctx context.Context, folder string) ([]*models.Photo, error) {
	return r.list(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE folder = $1 ORDER BY uploaded_at DESC, id DESC`,
		folder)
}

func (r *PostgresRepository) ListKeys(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, storage_key FROM photos`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		result[key] = id
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) UpdateText(ctx context.Context, id int64, title, description string) error {
	return r.exec(ctx, `UPDATE photos SET title = $2, description = $3 WHERE id = $1`,
		id, title, description)
}

func (r *PostgresRepository) UpdateLocation(ctx context.Context, id int64, folder, storageKey, url, secureURL string) error {
	return r.exec(ctx,
		`UPDATE photos SET folder = $2, storage_key = $3, url = $4, secure_url = $5 WHERE id = $1`,
		id, folder, storageKey, url, secureURL)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
}

// exec runs a single-row statement and maps "no rows affected" to NotFound.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) CountByFolder(ctx context.Context, folder string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM photos WHERE folder = $1`, folder).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) LatestByFolder(ctx context.Context, folder string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE folder = $1
		 ORDER BY uploaded_at DESC, id DESC LIMIT 1`

	p, err := scanPhoto(r.db.QueryRowContext(ctx, query, folder))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
