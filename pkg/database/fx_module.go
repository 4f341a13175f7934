package database

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

var FXModule = fx.Module("database",
	fx.Provide(
		NewDatabase,
	),
	fx.Invoke(RegisterDatabaseLifecycle),
)

// RegisterDatabaseLifecycle starts the connection monitor and reconnect
// goroutines on application start and shuts the client down on stop.
func RegisterDatabaseLifecycle(lifecycle fx.Lifecycle, db *Database) {
	wg := &sync.WaitGroup{}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				db.MonitorConnection(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				db.RetryConnection(ctx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := db.GracefulShutdown()
			wg.Wait()
			return err
		},
	})
}
