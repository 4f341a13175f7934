// Package database wraps gorm.DB with connection monitoring, automatic
// reconnection, and standardized helpers for CRUD, raw SQL, and transactions.
//
// The wrapper does not replace GORM: every non-trivial operation (transaction
// begin/commit/rollback, statement preparation, parameter binding) is delegated
// to GORM and its Postgres driver. What the package adds is:
//
//   - a health-checked connection with a background reconnect loop
//   - CRUD helpers that return rows affected where meaningful
//   - a fluent QueryBuilder for complex queries, including raw SQL and
//     row-level locking clauses
//   - error sentinels plus TranslateError / IsRetryable classification built
//     on GORM's translated errors and Postgres SQLSTATE codes
//   - an Observer hook reporting operation name, duration, rows, and outcome,
//     used by pkg/metrics for Prometheus instrumentation
//
// Basic usage:
//
//	db, err := database.NewDatabase(cfg, log)
//	if err != nil {
//		return err
//	}
//
//	var users []User
//	err = db.Query(ctx).
//		Where("active = ?", true).
//		Order("created_at DESC").
//		Limit(100).
//		Find(&users)
//
// For dependency-injected applications, FXModule provides the client and wires
// the monitor and reconnect goroutines into the fx lifecycle.
package database
