package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query provides a flexible way to build complex queries.
// It returns a QueryBuilder which can be used to chain query methods in a
// fluent interface.
//
// Example:
//
//	users := []User{}
//	err := db.Query(ctx).
//	    Where("age > ?", 18).
//	    Order("created_at DESC").
//	    Limit(10).
//	    Find(&users)
func (d *Database) Query(ctx context.Context) *QueryBuilder {
	return &QueryBuilder{
		db:       d.DB().WithContext(ctx),
		observer: d.observer,
		start:    time.Now(),
	}
}

// QueryBuilder provides a fluent interface for building complex database
// queries on top of GORM's query building capabilities. The builder maintains
// a chain of query modifiers that are applied when a terminal method is called.
type QueryBuilder struct {
	db       *gorm.DB
	observer Observer
	start    time.Time
}

// Select specifies fields to be selected in the query.
func (qb *QueryBuilder) Select(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Select(query, args...)
	return qb
}

// Where adds a WHERE condition to the query.
// Multiple Where calls are combined with AND logic.
func (qb *QueryBuilder) Where(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Where(query, args...)
	return qb
}

// Or adds an OR condition to the query.
func (qb *QueryBuilder) Or(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Or(query, args...)
	return qb
}

// Not adds a NOT condition to the query.
func (qb *QueryBuilder) Not(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Not(query, args...)
	return qb
}

// Joins adds a JOIN clause to the query. INNER JOIN by default.
func (qb *QueryBuilder) Joins(query string, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Joins(query, args...)
	return qb
}

// LeftJoin adds a LEFT JOIN clause to the query.
// The query argument is the JOIN condition without the "LEFT JOIN" prefix.
func (qb *QueryBuilder) LeftJoin(query string, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Joins("LEFT JOIN "+query, args...)
	return qb
}

// RightJoin adds a RIGHT JOIN clause to the query.
func (qb *QueryBuilder) RightJoin(query string, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Joins("RIGHT JOIN "+query, args...)
	return qb
}

// Preload preloads associations for the query results, avoiding N+1 queries.
//
// Example:
//
//	qb.Preload("Orders", "state = ?", "paid")
func (qb *QueryBuilder) Preload(query string, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Preload(query, args...)
	return qb
}

// Group adds a GROUP BY clause to the query.
func (qb *QueryBuilder) Group(query string) *QueryBuilder {
	qb.db = qb.db.Group(query)
	return qb
}

// Having adds a HAVING clause filtering groups created by GROUP BY.
func (qb *QueryBuilder) Having(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Having(query, args...)
	return qb
}

// Order adds an ORDER BY clause to the query.
func (qb *QueryBuilder) Order(value interface{}) *QueryBuilder {
	qb.db = qb.db.Order(value)
	return qb
}

// Limit sets the maximum number of records to return.
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.db = qb.db.Limit(limit)
	return qb
}

// Offset sets the number of records to skip, typically paired with Limit.
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.db = qb.db.Offset(offset)
	return qb
}

// Raw replaces the query with raw SQL.
//
// Example:
//
//	qb.Raw("SELECT * FROM users WHERE created_at > ?", cutoff).Scan(&users)
func (qb *QueryBuilder) Raw(sql string, values ...interface{}) *QueryBuilder {
	qb.db = qb.db.Raw(sql, values...)
	return qb
}

// Model specifies the model to use for the query when it can't be inferred
// from other methods.
func (qb *QueryBuilder) Model(value interface{}) *QueryBuilder {
	qb.db = qb.db.Model(value)
	return qb
}

// Table specifies the table to query when no model is involved.
func (qb *QueryBuilder) Table(name string) *QueryBuilder {
	qb.db = qb.db.Table(name)
	return qb
}

// Distinct specifies that the query should return distinct results.
func (qb *QueryBuilder) Distinct(args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Distinct(args...)
	return qb
}

// Unscoped disables soft-delete filtering and other default scopes.
func (qb *QueryBuilder) Unscoped() *QueryBuilder {
	qb.db = qb.db.Unscoped()
	return qb
}

// Scopes applies registered GORM scope functions to the query.
func (qb *QueryBuilder) Scopes(funcs ...func(*gorm.DB) *gorm.DB) *QueryBuilder {
	qb.db = qb.db.Scopes(funcs...)
	return qb
}

// ForUpdate adds a FOR UPDATE row-level locking clause.
// Locks are only effective inside a transaction.
func (qb *QueryBuilder) ForUpdate() *QueryBuilder {
	qb.db = qb.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return qb
}

// ForShare adds a FOR SHARE row-level locking clause.
func (qb *QueryBuilder) ForShare() *QueryBuilder {
	qb.db = qb.db.Clauses(clause.Locking{Strength: "SHARE"})
	return qb
}

// ForUpdateSkipLocked adds FOR UPDATE SKIP LOCKED, useful for queue-style
// row claiming.
func (qb *QueryBuilder) ForUpdateSkipLocked() *QueryBuilder {
	qb.db = qb.db.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	return qb
}

// ForUpdateNoWait adds FOR UPDATE NOWAIT, failing immediately when a lock
// cannot be acquired.
func (qb *QueryBuilder) ForUpdateNoWait() *QueryBuilder {
	qb.db = qb.db.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"})
	return qb
}

// Clauses adds custom GORM clauses (ON CONFLICT, RETURNING, ...) to the query.
func (qb *QueryBuilder) Clauses(conds ...clause.Expression) *QueryBuilder {
	qb.db = qb.db.Clauses(conds...)
	return qb
}

// ToSubquery exposes the built query as a *gorm.DB for embedding as a subquery.
func (qb *QueryBuilder) ToSubquery() *gorm.DB {
	return qb.db
}

// Scan scans the result into the destination struct or slice.
// This is a terminal method that executes the query.
func (qb *QueryBuilder) Scan(dest interface{}) error {
	return qb.finish("scan", qb.db.Scan(dest))
}

// Find finds records that match the query conditions.
func (qb *QueryBuilder) Find(dest interface{}) error {
	return qb.finish("find", qb.db.Find(dest))
}

// First finds the first record that matches the query conditions.
func (qb *QueryBuilder) First(dest interface{}) error {
	return qb.finish("first", qb.db.First(dest))
}

// Last finds the last record that matches the query conditions.
func (qb *QueryBuilder) Last(dest interface{}) error {
	return qb.finish("last", qb.db.Last(dest))
}

// Count counts records that match the query conditions.
func (qb *QueryBuilder) Count(count *int64) error {
	return qb.finish("count", qb.db.Count(count))
}

// Updates updates records that match the query conditions.
// Returns the number of rows affected.
func (qb *QueryBuilder) Updates(values interface{}) (int64, error) {
	tx := qb.db.Updates(values)
	return tx.RowsAffected, qb.finish("updates", tx)
}

// Delete deletes records that match the query conditions.
// Returns the number of rows affected.
func (qb *QueryBuilder) Delete(value interface{}) (int64, error) {
	tx := qb.db.Delete(value)
	return tx.RowsAffected, qb.finish("delete", tx)
}

// Pluck queries a single column and scans the results into a slice.
func (qb *QueryBuilder) Pluck(column string, dest interface{}) error {
	return qb.finish("pluck", qb.db.Pluck(column, dest))
}

// FirstOrCreate fetches the first matching record or creates it.
func (qb *QueryBuilder) FirstOrCreate(dest interface{}, conds ...interface{}) error {
	return qb.finish("first_or_create", qb.db.FirstOrCreate(dest, conds...))
}

// finish reports the terminal operation to the observer and returns its error.
func (qb *QueryBuilder) finish(operation string, tx *gorm.DB) error {
	if qb.observer != nil {
		qb.observer.ObserveOperation(OperationContext{
			Component: "database",
			Operation: "query_" + operation,
			Duration:  time.Since(qb.start),
			Rows:      tx.RowsAffected,
			Err:       tx.Error,
		})
	}
	return tx.Error
}
