package interceptor

import (
	"fmt"

	"gorm.io/gorm"
)

// Operation identifies the statement kind an interceptor is observing.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Interceptor hooks into the statement lifecycle. BeforeSave runs before the
// statement is built and sent; returning an error aborts it. AfterSave runs
// after execution with the statement outcome available on tx (tx.Error,
// tx.RowsAffected).
type Interceptor interface {
	BeforeSave(op Operation, tx *gorm.DB) error
	AfterSave(op Operation, tx *gorm.DB)
}

// Pipeline is a GORM plugin dispatching to registered interceptors in
// registration order. Register it with db.Use; add interceptors before the
// session starts serving traffic.
type Pipeline struct {
	interceptors []Interceptor
}

func NewPipeline(interceptors ...Interceptor) *Pipeline {
	return &Pipeline{interceptors: interceptors}
}

// Use appends an interceptor to the pipeline.
func (p *Pipeline) Use(i Interceptor) {
	p.interceptors = append(p.interceptors, i)
}

// Name implements gorm.Plugin.
func (p *Pipeline) Name() string {
	return "dbkit:interceptor"
}

// Initialize implements gorm.Plugin.
func (p *Pipeline) Initialize(db *gorm.DB) error {
	type hook struct {
		op       Operation
		register func(name string, fn func(*gorm.DB)) error
	}

	hooks := []hook{
		{OpCreate, func(name string, fn func(*gorm.DB)) error {
			return db.Callback().Create().Before("gorm:create").Register(name, fn)
		}},
		{OpUpdate, func(name string, fn func(*gorm.DB)) error {
			return db.Callback().Update().Before("gorm:update").Register(name, fn)
		}},
		{OpDelete, func(name string, fn func(*gorm.DB)) error {
			return db.Callback().Delete().Before("gorm:delete").Register(name, fn)
		}},
	}
	for _, h := range hooks {
		op := h.op
		if err := h.register(fmt.Sprintf("dbkit:interceptor:before_%s", op), func(tx *gorm.DB) {
			p.runBefore(op, tx)
		}); err != nil {
			return fmt.Errorf("interceptor: registering before_%s: %w", op, err)
		}
	}

	after := []hook{
		{OpCreate, func(name string, fn func(*gorm.DB)) error {
			return db.Callback().Create().After("gorm:create").Register(name, fn)
		}},
		{OpUpdate, func(name string, fn func(*gorm.DB)) error {
			return db.Callback().Update().After("gorm:update").Register(name, fn)
		}},
		{OpDelete, func(name string, fn func(*gorm.DB)) error {
			return db.Callback().Delete().After("gorm:delete").Register(name, fn)
		}},
	}
	for _, h := range after {
		op := h.op
		if err := h.register(fmt.Sprintf("dbkit:interceptor:after_%s", op), func(tx *gorm.DB) {
			p.runAfter(op, tx)
		}); err != nil {
			return fmt.Errorf("interceptor: registering after_%s: %w", op, err)
		}
	}

	return nil
}

func (p *Pipeline) runBefore(op Operation, tx *gorm.DB) {
	for _, i := range p.interceptors {
		if tx.Error != nil {
			return
		}
		if err := i.BeforeSave(op, tx); err != nil {
			_ = tx.AddError(err)
			return
		}
	}
}

func (p *Pipeline) runAfter(op Operation, tx *gorm.DB) {
	for _, i := range p.interceptors {
		i.AfterSave(op, tx)
	}
}
