package database

import (
	"context"
	"time"
)

// Find finds records that match the given conditions.
func (d *Database) Find(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Find(dest, conditions...)
	d.observeOperation("find", start, tx.RowsAffected, tx.Error)
	return tx.Error
}

// First finds the first record that matches the given conditions.
func (d *Database) First(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	start := time.Now()
	tx := d.DB().WithContext(ctx).First(dest, conditions...)
	d.observeOperation("first", start, tx.RowsAffected, tx.Error)
	return tx.Error
}

// Create creates a new record.
func (d *Database) Create(ctx context.Context, value interface{}) error {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Create(value)
	d.observeOperation("create", start, tx.RowsAffected, tx.Error)
	return tx.Error
}

// Save persists the value, inserting it if it has no primary key and
// updating it otherwise.
func (d *Database) Save(ctx context.Context, value interface{}) error {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Save(value)
	d.observeOperation("save", start, tx.RowsAffected, tx.Error)
	return tx.Error
}

// Update updates records that match the given condition.
// model should be the model type (e.g., &User{}),
// attrs a map, struct, or name/value pair to update.
// Returns the number of rows affected.
func (d *Database) Update(ctx context.Context, model interface{}, attrs interface{}) (int64, error) {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Model(model).Updates(attrs)
	d.observeOperation("update", start, tx.RowsAffected, tx.Error)
	return tx.RowsAffected, tx.Error
}

// UpdateColumn updates a single column on records matching the model.
func (d *Database) UpdateColumn(ctx context.Context, model interface{}, columnName string, value interface{}) (int64, error) {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Model(model).Update(columnName, value)
	d.observeOperation("update_column", start, tx.RowsAffected, tx.Error)
	return tx.RowsAffected, tx.Error
}

// UpdateColumns updates multiple columns with name/value pairs.
func (d *Database) UpdateColumns(ctx context.Context, model interface{}, columnValues map[string]interface{}) (int64, error) {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Model(model).Updates(columnValues)
	d.observeOperation("update_columns", start, tx.RowsAffected, tx.Error)
	return tx.RowsAffected, tx.Error
}

// UpdateWhere updates records that match the given condition.
func (d *Database) UpdateWhere(ctx context.Context, model interface{}, attrs interface{}, condition string, args ...interface{}) (int64, error) {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Model(model).Where(condition, args...).Updates(attrs)
	d.observeOperation("update_where", start, tx.RowsAffected, tx.Error)
	return tx.RowsAffected, tx.Error
}

// Delete deletes records that match the given conditions.
// Returns the number of rows affected.
func (d *Database) Delete(ctx context.Context, value interface{}, conditions ...interface{}) (int64, error) {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Delete(value, conditions...)
	d.observeOperation("delete", start, tx.RowsAffected, tx.Error)
	return tx.RowsAffected, tx.Error
}

// Count counts records that match the given conditions.
func (d *Database) Count(ctx context.Context, model interface{}, count *int64, conditions ...interface{}) error {
	start := time.Now()
	query := d.DB().WithContext(ctx).Model(model)
	if len(conditions) > 0 {
		query = query.Where(conditions[0], conditions[1:]...)
	}
	tx := query.Count(count)
	d.observeOperation("count", start, tx.RowsAffected, tx.Error)
	return tx.Error
}

// Exec executes raw SQL. Returns the number of rows affected.
func (d *Database) Exec(ctx context.Context, sql string, values ...interface{}) (int64, error) {
	start := time.Now()
	tx := d.DB().WithContext(ctx).Exec(sql, values...)
	d.observeOperation("exec", start, tx.RowsAffected, tx.Error)
	return tx.RowsAffected, tx.Error
}
