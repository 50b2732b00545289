// Package repomanager wires repositories to database handles and knows how
// to prepare the schema. Services receive a manager instead of concrete
// repositories so transactional handles can be swapped in per call.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/photovault/internal/dbx"
	"github.com/dmitrijs2005/photovault/internal/server/repositories/photos"
)

type RepositoryManager interface {
	// Photos returns a photo repository bound to db, which may be a
	// transaction handle obtained from dbx.WithTx.
	Photos(db dbx.DBTX) photos.Repository

	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context, db *sql.DB) error
}
