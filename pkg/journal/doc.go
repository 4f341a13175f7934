// Package journal records row mutations through GORM callbacks and replays
// them backward on demand.
//
// The journal is a GORM plugin. Once registered, every create, update, and
// delete that goes through the session is captured as a Change carrying the
// prior row image. Mark returns a position token; RevertTo undoes, in reverse
// order, every change recorded after the mark: created rows are deleted,
// updated rows are restored to their prior image, deleted rows are
// re-inserted. This gives nested rollback semantics without database-level
// savepoints (for savepoint-backed scopes, see pkg/uow).
//
// RevertTo takes the handle to replay on. Inside an open transaction that is
// the transactional handle, so the inverse statements see the uncommitted
// rows they undo; a nil handle replays on the registered connection, which is
// only correct for changes that have already been committed.
//
//	j := journal.New()
//	if err := db.Use(j); err != nil {
//		return err
//	}
//
//	mark := j.Mark()
//	tx.Create(&order)
//	tx.Delete(&draft)
//	if somethingWentWrong {
//		err = j.RevertTo(ctx, tx, mark) // draft re-inserted, order deleted
//	}
//
// The journal piggybacks on GORM's statement metadata, so it can only capture
// prior images when the mutation addresses rows through a model value with a
// populated primary key. Batch updates and deletes expressed purely as WHERE
// conditions are executed normally but recorded without a before image and
// cannot be reverted; RevertTo reports such entries. A journal follows the
// concurrency rules of the gorm.DB session it is registered on.
package journal
