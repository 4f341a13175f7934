package uow

import (
	"go.uber.org/fx"

	"github.com/nexdata-io/dbkit/pkg/database"
)

var FXModule = fx.Module("uow",
	fx.Provide(
		NewFromDatabase,
		func(u *GormUnitOfWork) UnitOfWork { return u },
	),
)

// NewFromDatabase builds a unit of work on the managed database client, so
// scopes always draw from the live connection even after a reconnect.
func NewFromDatabase(db *database.Database) *GormUnitOfWork {
	return New(db)
}
