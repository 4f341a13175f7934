package uow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ctxKey int

const (
	txCtxKey ctxKey = iota
	lockCtxKey
)

// UnitOfWork executes a function within a transaction scope.
type UnitOfWork interface {
	// Do runs fn inside a transaction. The transactional handle travels in
	// the context; nested Do calls reuse the ambient transaction and guard
	// their scope with a savepoint.
	Do(ctx context.Context, fn func(ctx context.Context) error) error

	// WithLock marks the scope so FromContext hands out handles with a
	// FOR UPDATE locking clause attached.
	WithLock(ctx context.Context) context.Context
}

// Source yields the current database handle. *database.Database satisfies it;
// FromDB adapts a raw *gorm.DB.
type Source interface {
	DB() *gorm.DB
}

type dbSource struct{ db *gorm.DB }

func (s dbSource) DB() *gorm.DB { return s.db }

// FromDB adapts a raw GORM handle into a Source.
func FromDB(db *gorm.DB) Source { return dbSource{db: db} }

// GormUnitOfWork implements UnitOfWork on top of GORM transactions and
// savepoints.
type GormUnitOfWork struct {
	source Source
}

var _ UnitOfWork = (*GormUnitOfWork)(nil)

// New creates a unit of work drawing connections from source.
func New(source Source) *GormUnitOfWork {
	return &GormUnitOfWork{source: source}
}

// Do implements UnitOfWork.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := txFromContext(ctx); ok {
		return runNested(ctx, tx, fn)
	}

	return u.source.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txCtxKey, tx))
	})
}

// runNested guards an inner scope with a savepoint on the ambient transaction.
// Names are uuid-based: deterministic per-depth names would collide across
// sibling scopes released out of order.
func runNested(ctx context.Context, tx *gorm.DB, fn func(ctx context.Context) error) error {
	name := "sp_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	if err := tx.SavePoint(name).Error; err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		if rbErr := tx.RollbackTo(name).Error; rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

// WithLock implements UnitOfWork.
func (u *GormUnitOfWork) WithLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, lockCtxKey, true)
}

// FromContext returns the database handle for the current scope: the ambient
// transaction when inside a unit of work, the fallback source otherwise.
// When the scope was marked with WithLock, the handle carries a FOR UPDATE
// clause.
func FromContext(ctx context.Context, fallback Source) *gorm.DB {
	db, ok := txFromContext(ctx)
	if !ok {
		db = fallback.DB().WithContext(ctx)
	}
	if locked, _ := ctx.Value(lockCtxKey).(bool); locked {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// InTransaction reports whether the context carries an ambient transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := txFromContext(ctx)
	return ok
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txCtxKey).(*gorm.DB)
	return tx, ok
}
