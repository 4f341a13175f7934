package journal

import (
	"reflect"

	"gorm.io/gorm"
)

const beforeImageKey = "dbkit:journal:before_image"

// afterCreate records a created row. The statement's destination carries the
// generated primary key by the time this runs.
func (j *Journal) afterCreate(tx *gorm.DB) {
	if !j.recording() || tx.Error != nil || tx.RowsAffected == 0 || tx.Statement.Schema == nil {
		return
	}

	j.push(Change{
		Kind:  KindCreate,
		Table: tx.Statement.Table,
		Value: cloneImage(tx.Statement.ReflectValue.Interface()),
	})
}

// beforeUpdate captures the prior row image of the model being updated by
// re-reading it through its primary key. Updates addressed purely by WHERE
// conditions have no keyed model value, so no image can be captured; the
// change is still recorded and flagged non-revertible by afterUpdate.
func (j *Journal) beforeUpdate(tx *gorm.DB) {
	if !j.recording() || tx.Error != nil || tx.Statement.Schema == nil {
		return
	}

	before := j.loadBeforeImage(tx)
	if before != nil {
		tx.InstanceSet(beforeImageKey, before)
	}
}

// afterUpdate finalizes the update entry once the statement succeeded.
func (j *Journal) afterUpdate(tx *gorm.DB) {
	if !j.recording() || tx.Error != nil || tx.RowsAffected == 0 || tx.Statement.Schema == nil {
		return
	}

	change := Change{
		Kind:  KindUpdate,
		Table: tx.Statement.Table,
	}
	if before, ok := tx.InstanceGet(beforeImageKey); ok {
		change.Before = before
	}
	if tx.Statement.ReflectValue.Kind() == reflect.Struct {
		change.Value = cloneImage(tx.Statement.ReflectValue.Interface())
	}
	j.push(change)
}

// beforeDelete captures the row about to be deleted, keyed by the model's
// primary key.
func (j *Journal) beforeDelete(tx *gorm.DB) {
	if !j.recording() || tx.Error != nil || tx.Statement.Schema == nil {
		return
	}

	before := j.loadBeforeImage(tx)
	if before != nil {
		tx.InstanceSet(beforeImageKey, before)
	}
}

// afterDelete finalizes the delete entry once the statement succeeded.
func (j *Journal) afterDelete(tx *gorm.DB) {
	if !j.recording() || tx.Error != nil || tx.RowsAffected == 0 || tx.Statement.Schema == nil {
		return
	}

	change := Change{
		Kind:  KindDelete,
		Table: tx.Statement.Table,
	}
	if before, ok := tx.InstanceGet(beforeImageKey); ok {
		change.Before = before
	}
	j.push(change)
}

// loadBeforeImage re-reads the current row for the statement's model value.
// It returns nil when the model carries no usable primary key or the row does
// not exist yet.
func (j *Journal) loadBeforeImage(tx *gorm.DB) any {
	rv := tx.Statement.ReflectValue
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	query := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
		WithContext(tx.Statement.Context)

	for _, field := range tx.Statement.Schema.PrimaryFields {
		value, isZero := field.ValueOf(tx.Statement.Context, rv)
		if isZero {
			return nil
		}
		query = query.Where(field.DBName+" = ?", value)
	}
	if len(tx.Statement.Schema.PrimaryFields) == 0 {
		return nil
	}

	before := reflect.New(tx.Statement.Schema.ModelType).Interface()
	if err := query.First(before).Error; err != nil {
		return nil
	}
	return before
}
