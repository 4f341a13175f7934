package modelconf

import (
	"go.uber.org/fx"
)

var FXModule = fx.Module("modelconf",
	fx.Provide(NewRegistryFromDI),
)

// RegistryParams groups the dependencies needed to create a Registry.
type RegistryParams struct {
	fx.In

	Logger Logger `optional:"true"`
}

// NewRegistryFromDI creates a Registry for fx applications. The logger is
// optional; auto-migration stays off so applications keep explicit control
// over schema changes.
func NewRegistryFromDI(params RegistryParams) *Registry {
	opts := []Option{}
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	return NewRegistry(opts...)
}
