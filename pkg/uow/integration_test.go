package uow_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nexdata-io/dbkit/pkg/converter"
	"github.com/nexdata-io/dbkit/pkg/interceptor"
	"github.com/nexdata-io/dbkit/pkg/journal"
	"github.com/nexdata-io/dbkit/pkg/modelconf"
	"github.com/nexdata-io/dbkit/pkg/uow"
)

type customerProfile struct {
	Bio  string   `json:"bio"`
	Tags []string `json:"tags"`
}

type Customer struct {
	ID      uint
	Name    string          `gorm:"serializer:trimstring"`
	Profile customerProfile `gorm:"type:bytea;serializer:gzipjson"`
}

type Order struct {
	ID         uint
	CustomerID uint
	Customer   Customer
	Amount     int
	UpdatedAt  time.Time
}

// setupTestDB starts a Postgres container and opens a GORM handle with the
// journal, the interceptor pipeline, and the schema applied.
func setupTestDB(ctx context.Context, t *testing.T) (*gorm.DB, *journal.Journal, func()) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable",
		host, mappedPort.Port())
	require.NoError(t, waitForReady(connStr, 30*time.Second))

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	converter.RegisterDefaults()

	j := journal.New()
	require.NoError(t, db.Use(j))

	pipeline := interceptor.NewPipeline(&interceptor.TouchInterceptor{})
	require.NoError(t, db.Use(pipeline))

	registry := modelconf.NewRegistry(modelconf.WithAutoMigrate())
	registry.Register(modelconf.ConfigFunc{Prototype: &Order{}})
	require.NoError(t, registry.Apply(db))

	return db, j, terminate
}

// waitForReady pings until the database accepts connections or the timeout
// elapses.
func waitForReady(connStr string, timeout time.Duration) error {
	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for PostgreSQL after %s", timeout)
		}

		db, err := sql.Open("postgres", connStr)
		if err == nil {
			if err := db.Ping(); err == nil {
				return db.Close()
			}
			_ = db.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func TestUnitOfWorkIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db, j, terminate := setupTestDB(ctx, t)
	defer terminate()

	source := uow.FromDB(db)
	u := uow.New(source)

	t.Run("SchemaCoversDiscoveredTypes", func(t *testing.T) {
		// Customer was never registered but is reachable from Order.
		assert.True(t, db.Migrator().HasTable(&Customer{}))
		assert.True(t, db.Migrator().HasTable(&Order{}))
	})

	t.Run("AmbientTransaction", func(t *testing.T) {
		err := u.Do(ctx, func(ctx context.Context) error {
			if !uow.InTransaction(ctx) {
				return fmt.Errorf("expected an ambient transaction")
			}
			tx := uow.FromContext(ctx, source)
			return tx.Create(&Customer{Name: "Ada"}).Error
		})
		require.NoError(t, err)
		assert.False(t, uow.InTransaction(ctx))

		var count int64
		require.NoError(t, db.Model(&Customer{}).Where("name = ?", "Ada").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("NestedScopeRollsBackToSavepoint", func(t *testing.T) {
		err := u.Do(ctx, func(ctx context.Context) error {
			tx := uow.FromContext(ctx, source)
			if err := tx.Create(&Customer{Name: "Kept"}).Error; err != nil {
				return err
			}

			nestedErr := u.Do(ctx, func(ctx context.Context) error {
				tx := uow.FromContext(ctx, source)
				if err := tx.Create(&Customer{Name: "Discarded"}).Error; err != nil {
					return err
				}
				return fmt.Errorf("abort inner scope")
			})
			assert.Error(t, nestedErr)

			// The outer scope continues after the inner rollback.
			return nil
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&Customer{}).Where("name = ?", "Kept").Count(&count).Error)
		assert.Equal(t, int64(1), count)
		require.NoError(t, db.Model(&Customer{}).Where("name = ?", "Discarded").Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("FailedOuterScopeRollsBackEverything", func(t *testing.T) {
		err := u.Do(ctx, func(ctx context.Context) error {
			tx := uow.FromContext(ctx, source)
			if err := tx.Create(&Customer{Name: "Phantom"}).Error; err != nil {
				return err
			}
			return fmt.Errorf("abort outer scope")
		})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&Customer{}).Where("name = ?", "Phantom").Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("JournalRevertsCommittedChanges", func(t *testing.T) {
		mark := j.Mark()

		customer := Customer{Name: "Reverted"}
		require.NoError(t, db.Create(&customer).Error)

		order := Order{CustomerID: customer.ID, Amount: 100}
		require.NoError(t, db.Create(&order).Error)
		require.NoError(t, db.Model(&order).Update("amount", 250).Error)

		require.NoError(t, j.RevertTo(ctx, nil, mark))

		var count int64
		require.NoError(t, db.Model(&Order{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
		require.NoError(t, db.Model(&Customer{}).Where("name = ?", "Reverted").Count(&count).Error)
		assert.Equal(t, int64(0), count)
		assert.Equal(t, 0, j.Len()-int(mark))
	})

	t.Run("JournalRevertsInsideOpenTransaction", func(t *testing.T) {
		var keptID uint
		err := u.Do(ctx, func(ctx context.Context) error {
			tx := uow.FromContext(ctx, source)

			kept := Customer{Name: "Survivor"}
			if err := tx.Create(&kept).Error; err != nil {
				return err
			}
			keptID = kept.ID

			mark := j.Mark()
			doomed := Customer{Name: "Undone"}
			if err := tx.Create(&doomed).Error; err != nil {
				return err
			}

			// Replaying on the transactional handle lets the revert see the
			// uncommitted row.
			if err := j.RevertTo(ctx, tx, mark); err != nil {
				return err
			}

			var count int64
			if err := tx.Model(&Customer{}).Where("name = ?", "Undone").Count(&count).Error; err != nil {
				return err
			}
			if count != 0 {
				return fmt.Errorf("reverted row still visible inside the transaction")
			}
			return nil
		})
		require.NoError(t, err)

		// The reverted row must not survive the commit; the untouched one must.
		var count int64
		require.NoError(t, db.Model(&Customer{}).Where("name = ?", "Undone").Count(&count).Error)
		assert.Equal(t, int64(0), count)
		require.NoError(t, db.Model(&Customer{}).Where("id = ?", keptID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("SerializersRoundTrip", func(t *testing.T) {
		customer := Customer{
			Name: "  Padded Name  ",
			Profile: customerProfile{
				Bio:  "likes databases",
				Tags: []string{"a", "b"},
			},
		}
		require.NoError(t, db.Create(&customer).Error)

		var loaded Customer
		require.NoError(t, db.First(&loaded, customer.ID).Error)
		assert.Equal(t, "Padded Name", loaded.Name)
		assert.Equal(t, customer.Profile, loaded.Profile)
	})

	t.Run("TouchInterceptorStampsUpdates", func(t *testing.T) {
		order := Order{Amount: 10}
		require.NoError(t, db.Create(&order).Error)

		var before Order
		require.NoError(t, db.First(&before, order.ID).Error)

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, db.Model(&Order{}).Where("id = ?", order.ID).Update("amount", 20).Error)

		var after Order
		require.NoError(t, db.First(&after, order.ID).Error)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})
}
