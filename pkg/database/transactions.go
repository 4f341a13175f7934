package database

import (
	"context"

	"gorm.io/gorm"
)

// cloneWithTx returns a shallow copy of Database with tx as the client.
// It enables transaction-scoped operations while keeping the observer and
// configuration of the original wrapper.
func (d *Database) cloneWithTx(tx *gorm.DB) *Database {
	clone := &Database{
		cfg:             d.cfg,
		logger:          d.logger,
		observer:        d.observer,
		shutdownSignal:  d.shutdownSignal,
		retryChanSignal: d.retryChanSignal,
	}
	clone.client.Store(tx)
	return clone
}

// Transaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back; otherwise
// it is committed.
//
// Example:
//
//	err := db.Transaction(ctx, func(txDB *Database) error {
//		if err := txDB.Create(ctx, user); err != nil {
//			return err
//		}
//		return txDB.Create(ctx, userProfile)
//	})
func (d *Database) Transaction(ctx context.Context, fn func(txDB *Database) error) error {
	return d.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(d.cloneWithTx(tx))
	})
}
