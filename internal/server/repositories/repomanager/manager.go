package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/minidrive/internal/dbx"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/shares"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// path works against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	Shares(db dbx.DBTX) shares.Repository
}
