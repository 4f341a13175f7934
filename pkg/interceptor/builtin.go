package interceptor

import (
	"time"

	"gorm.io/gorm"
)

// TouchInterceptor stamps a column with the current time on every create and
// update. It complements GORM's autoUpdateTime for schemas that track
// modification time in a column GORM does not manage.
type TouchInterceptor struct {
	// Column is the database column to stamp. Defaults to "updated_at".
	Column string

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

func (t *TouchInterceptor) BeforeSave(op Operation, tx *gorm.DB) error {
	if op == OpDelete {
		return nil
	}

	column := t.Column
	if column == "" {
		column = "updated_at"
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	if tx.Statement.Schema != nil {
		if field := tx.Statement.Schema.LookUpField(column); field != nil {
			tx.Statement.SetColumn(column, now(), true)
		}
	}
	return nil
}

func (t *TouchInterceptor) AfterSave(op Operation, tx *gorm.DB) {}

// Logger is the subset of pkg/logger used by AuditLogInterceptor.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// AuditLogInterceptor logs every mutation with its table, operation, and
// outcome. Failed statements are logged at warn level.
type AuditLogInterceptor struct {
	logger Logger
}

func NewAuditLogInterceptor(logger Logger) *AuditLogInterceptor {
	return &AuditLogInterceptor{logger: logger}
}

func (a *AuditLogInterceptor) BeforeSave(op Operation, tx *gorm.DB) error {
	return nil
}

func (a *AuditLogInterceptor) AfterSave(op Operation, tx *gorm.DB) {
	fields := map[string]interface{}{
		"operation": string(op),
		"table":     tx.Statement.Table,
		"rows":      tx.RowsAffected,
	}
	if tx.Error != nil {
		a.logger.Warn("mutation failed", tx.Error, fields)
		return
	}
	a.logger.Info("mutation applied", nil, fields)
}
