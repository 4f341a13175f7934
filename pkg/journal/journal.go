package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// ErrNotRevertible is returned by RevertTo when the span contains a change
// recorded without enough state to undo it (e.g. a pure WHERE-clause batch
// delete). Changes before the failing entry stay reverted.
var ErrNotRevertible = errors.New("journal: change cannot be reverted")

// Mark is a position token in the journal, as returned by Journal.Mark.
type Mark int

// Journal is a GORM plugin that records mutations and can replay them
// backward. Create it with New and register it with db.Use.
type Journal struct {
	mu      sync.Mutex
	entries []Change
	paused  int
	db      *gorm.DB
}

func New() *Journal {
	return &Journal{}
}

// Name implements gorm.Plugin.
func (j *Journal) Name() string {
	return "dbkit:journal"
}

// Initialize implements gorm.Plugin. It hooks the journal into the create,
// update, and delete callback chains of db.
func (j *Journal) Initialize(db *gorm.DB) error {
	j.db = db

	if err := db.Callback().Create().After("gorm:create").
		Register("dbkit:journal:after_create", j.afterCreate); err != nil {
		return fmt.Errorf("journal: registering create callback: %w", err)
	}
	if err := db.Callback().Update().Before("gorm:update").
		Register("dbkit:journal:before_update", j.beforeUpdate); err != nil {
		return fmt.Errorf("journal: registering update callback: %w", err)
	}
	if err := db.Callback().Update().After("gorm:update").
		Register("dbkit:journal:after_update", j.afterUpdate); err != nil {
		return fmt.Errorf("journal: registering update callback: %w", err)
	}
	if err := db.Callback().Delete().Before("gorm:delete").
		Register("dbkit:journal:before_delete", j.beforeDelete); err != nil {
		return fmt.Errorf("journal: registering delete callback: %w", err)
	}
	if err := db.Callback().Delete().After("gorm:delete").
		Register("dbkit:journal:after_delete", j.afterDelete); err != nil {
		return fmt.Errorf("journal: registering delete callback: %w", err)
	}
	return nil
}

// Mark returns a token for the current journal position. Passing it to
// RevertTo undoes everything recorded after this point.
func (j *Journal) Mark() Mark {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Mark(len(j.entries))
}

// Len returns the number of recorded changes.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Changes returns a copy of the recorded changes, oldest first.
func (j *Journal) Changes() []Change {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Change{}, j.entries...)
}

// Reset discards all recorded changes and invalidates outstanding marks.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = j.entries[:0]
}

// RevertTo undoes every change recorded after mark, newest first, and trims
// the journal back to the mark. The inverse statements run on db, so a caller
// holding an open transaction passes its transactional handle and the replay
// sees, and can undo, rows that are not committed yet. A nil db falls back to
// the connection the journal was registered on, which only works for changes
// that have already been committed. Recording is suspended while the inverse
// statements run so the replay does not journal itself.
func (j *Journal) RevertTo(ctx context.Context, db *gorm.DB, mark Mark) error {
	j.mu.Lock()
	if int(mark) < 0 || int(mark) > len(j.entries) {
		j.mu.Unlock()
		return fmt.Errorf("journal: mark %d out of range [0,%d]", mark, len(j.entries))
	}
	span := append([]Change{}, j.entries[mark:]...)
	j.paused++
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.paused--
		j.mu.Unlock()
	}()

	for i := len(span) - 1; i >= 0; i-- {
		if err := j.revertChange(ctx, db, span[i]); err != nil {
			// Keep the not-yet-reverted prefix so a later retry is possible.
			j.mu.Lock()
			j.entries = j.entries[:int(mark)+i+1]
			j.mu.Unlock()
			return err
		}
	}

	j.mu.Lock()
	j.entries = j.entries[:mark]
	j.mu.Unlock()
	return nil
}

// revertChange issues the inverse statement for one change on db, falling
// back to the registered connection when db is nil.
func (j *Journal) revertChange(ctx context.Context, db *gorm.DB, change Change) error {
	if !change.revertible() {
		return fmt.Errorf("%w: %s on %s recorded without a prior image",
			ErrNotRevertible, change.Kind, change.Table)
	}

	if db == nil {
		db = j.db
	}
	session := db.Session(&gorm.Session{NewDB: true, SkipHooks: true}).WithContext(ctx)

	switch change.Kind {
	case KindCreate:
		if err := session.Delete(change.Value).Error; err != nil {
			return fmt.Errorf("journal: reverting create on %s: %w", change.Table, err)
		}
	case KindUpdate:
		if err := session.Save(change.Before).Error; err != nil {
			return fmt.Errorf("journal: reverting update on %s: %w", change.Table, err)
		}
	case KindDelete:
		if err := session.Create(change.Before).Error; err != nil {
			return fmt.Errorf("journal: reverting delete on %s: %w", change.Table, err)
		}
	}
	return nil
}

// recording reports whether callbacks should capture changes.
func (j *Journal) recording() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.paused == 0
}

// push appends a change to the journal.
func (j *Journal) push(change Change) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.paused > 0 {
		return
	}
	j.entries = append(j.entries, change)
}
