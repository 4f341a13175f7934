package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nexdata-io/dbkit/pkg/database"
)

func TestDBObserverCountsOperations(t *testing.T) {
	registry := prometheus.NewRegistry()
	observer := NewDBObserver(registry)

	observer.ObserveOperation(database.OperationContext{
		Component: "database",
		Operation: "create",
		Duration:  5 * time.Millisecond,
		Rows:      1,
	})
	observer.ObserveOperation(database.OperationContext{
		Component: "database",
		Operation: "create",
		Duration:  5 * time.Millisecond,
		Rows:      1,
	})
	observer.ObserveOperation(database.OperationContext{
		Component: "database",
		Operation: "create",
		Duration:  5 * time.Millisecond,
		Err:       errors.New("duplicate key"),
	})

	success := observer.operations.WithLabelValues("database", "create", "success")
	if got := testutil.ToFloat64(success); got != 2 {
		t.Errorf("expected 2 successful operations, got %v", got)
	}

	failed := observer.operations.WithLabelValues("database", "create", "error")
	if got := testutil.ToFloat64(failed); got != 1 {
		t.Errorf("expected 1 failed operation, got %v", got)
	}

	rows := observer.rows.WithLabelValues("database", "create")
	if got := testutil.ToFloat64(rows); got != 2 {
		t.Errorf("expected 2 rows counted, got %v", got)
	}
}

func TestDBObserverRegistersCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	observer := NewDBObserver(registry)

	observer.ObserveOperation(database.OperationContext{
		Component: "database",
		Operation: "find",
		Duration:  time.Millisecond,
	})

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gathering: %v", err)
	}

	found := map[string]bool{}
	for _, family := range families {
		found[family.GetName()] = true
	}
	for _, name := range []string{
		"dbkit_db_operations_total",
		"dbkit_db_operation_duration_seconds",
	} {
		if !found[name] {
			t.Errorf("expected metric family %s to be registered", name)
		}
	}
}

func TestNewMetricsDefaults(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "dbkit-test"})

	if m.Server.Addr != DefaultMetricsAddress {
		t.Errorf("expected default address %q, got %q", DefaultMetricsAddress, m.Server.Addr)
	}
	if m.Registry == nil {
		t.Error("expected a registry")
	}
}
