// Package interceptor runs registered hooks around every create, update, and
// delete statement of a GORM session.
//
// Unlike GORM's model-level hooks (BeforeSave methods on the model struct),
// interceptors are registered once per session and see every mutation
// regardless of model type, which suits cross-cutting concerns: touching
// modification timestamps, audit logging, enforcing tenancy columns.
//
//	pipe := interceptor.NewPipeline(
//		&interceptor.TouchInterceptor{Column: "updated_at"},
//		interceptor.NewAuditLogInterceptor(log),
//	)
//	if err := db.Use(pipe); err != nil {
//		return err
//	}
//
// An error returned from BeforeSave aborts the statement before it reaches
// the database. AfterSave always runs, receiving the statement outcome.
package interceptor
