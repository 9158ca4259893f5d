package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/newsroom/internal/dbx"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/articles"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/comments"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/topics"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can use
// the same repositories on *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Topics(db dbx.DBTX) topics.Repository
	Articles(db dbx.DBTX) articles.Repository
	Comments(db dbx.DBTX) comments.Repository
}
