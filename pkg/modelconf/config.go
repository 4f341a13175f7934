package modelconf

import (
	"reflect"

	"gorm.io/gorm"
)

// EntityConfig describes the mapping of one entity type to its storage schema.
// Entity returns a prototype of the configured type (typically a pointer to a
// zero struct, e.g. &User{}); Configure applies table options, indexes, or
// constraints through the supplied GORM handle.
type EntityConfig interface {
	Entity() any
	Configure(db *gorm.DB) error
}

// ConfigFunc adapts a plain function to EntityConfig for a fixed prototype.
type ConfigFunc struct {
	Prototype any
	Func      func(db *gorm.DB) error
}

func (c ConfigFunc) Entity() any { return c.Prototype }

func (c ConfigFunc) Configure(db *gorm.DB) error {
	if c.Func == nil {
		return nil
	}
	return c.Func(db)
}

// Logger is the subset of pkg/logger used by this package.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, error, ...map[string]interface{}) {}
func (noopLogger) Info(string, error, ...map[string]interface{})  {}

// Option customizes a Registry.
type Option func(*Registry)

// WithFilter restricts application to entity types accepted by the predicate.
// Configurations whose type fails the predicate are skipped entirely; all
// others still apply.
func WithFilter(filter func(t reflect.Type) bool) Option {
	return func(r *Registry) {
		r.filter = filter
	}
}

// WithAutoMigrate makes Apply run GORM auto-migration for every type in the
// computed order after the configurations have been applied.
func WithAutoMigrate() Option {
	return func(r *Registry) {
		r.autoMigrate = true
	}
}

// WithLogger attaches a logger. Without it the registry stays silent.
func WithLogger(logger Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// Registry holds explicitly registered entity configurations and applies them
// in dependency order. The zero value is not usable; create one with
// NewRegistry.
type Registry struct {
	configs     []EntityConfig
	filter      func(t reflect.Type) bool
	autoMigrate bool
	logger      Logger
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds configurations to the registry. Registration order does not
// influence the application order.
func (r *Registry) Register(configs ...EntityConfig) {
	r.configs = append(r.configs, configs...)
}
