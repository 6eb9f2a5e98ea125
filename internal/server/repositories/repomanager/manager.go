package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/chirp/internal/dbx"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/follows"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/posts"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DB handle or an open
// transaction, so services can compose several writes under dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Follows(db dbx.DBTX) follows.Repository
	Posts(db dbx.DBTX) posts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
