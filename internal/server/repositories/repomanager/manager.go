package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/contactform/internal/dbx"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/messages"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/photos"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/sequences"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can
// run several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
	Sequences(db dbx.DBTX) sequences.Repository
	Photos(db dbx.DBTX) photos.Repository
	Revocations(db dbx.DBTX) revocations.Repository
}
