package database

import "time"

// OperationContext carries the details of a finished database operation
// handed to an Observer.
type OperationContext struct {
	Component string
	Operation string
	Duration  time.Duration
	Rows      int64
	Err       error
}

// Observer receives a callback for every database operation executed through
// the wrapper. Implementations must be safe for concurrent use.
//
// pkg/metrics provides a Prometheus-backed implementation.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// WithObserver attaches an observer to the client and returns the client for
// chaining. Passing nil detaches any previous observer.
func (d *Database) WithObserver(observer Observer) *Database {
	d.observer = observer
	return d
}

// observeOperation reports a finished operation to the attached observer.
// A nil observer makes this a no-op.
func (d *Database) observeOperation(operation string, start time.Time, rows int64, err error) {
	if d.observer == nil {
		return
	}

	d.observer.ObserveOperation(OperationContext{
		Component: "database",
		Operation: operation,
		Duration:  time.Since(start),
		Rows:      rows,
		Err:       err,
	})
}
