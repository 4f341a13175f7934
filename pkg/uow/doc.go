// Package uow provides a unit-of-work wrapper over GORM transactions with
// context propagation and nested-scope support.
//
// The outermost Do call opens a real database transaction and stores the
// transactional handle in the context. Repositories retrieve it with
// FromContext, so the same repository code works inside and outside a unit of
// work. A nested Do call detects the ambient transaction and guards its scope
// with a savepoint instead of opening a second transaction: when the inner
// function fails, only the inner scope is rolled back and the outer
// transaction decides whether to continue.
//
//	u := uow.New(db)
//
//	err := u.Do(ctx, func(ctx context.Context) error {
//		if err := orders.Create(ctx, order); err != nil {
//			return err
//		}
//		// Inner scope: failure here rolls back to a savepoint, not the
//		// whole transaction.
//		if err := u.Do(ctx, func(ctx context.Context) error {
//			return audit.Record(ctx, order)
//		}); err != nil {
//			log.Warn("audit skipped", err, nil)
//		}
//		return nil
//	})
//
// All transaction begin/commit/rollback and savepoint mechanics are delegated
// to GORM; this package only coordinates the ambient context value and the
// savepoint names.
package uow
