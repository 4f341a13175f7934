package modelconf

import (
	"fmt"
	"reflect"

	"gorm.io/gorm"
)

// Plan validates the registered configurations and returns every entity type
// the applier would touch, in application order. Types discovered through
// navigation fields of registered entities are included even when they carry
// no configuration of their own.
//
// Plan is what Apply runs internally; it is exported so callers can inspect
// or assert on the computed order without a database.
func (r *Registry) Plan() ([]reflect.Type, error) {
	roots, _, err := r.resolve()
	if err != nil {
		return nil, err
	}

	graph := buildGraph(roots)
	components := stronglyConnectedComponents(graph)
	order := flattenComponents(graph, components)

	for _, comp := range components {
		if len(comp) > 1 {
			names := make([]string, len(comp))
			for i, t := range comp {
				names[i] = t.Name()
			}
			r.logger.Debug("cyclic entity dependency, falling back to heuristic order", nil, map[string]interface{}{
				"types": names,
			})
		}
	}

	return order, nil
}

// Apply applies every registered configuration in dependency order, then runs
// auto-migration over the same order when the registry was built with
// WithAutoMigrate.
//
// Validation failures (nil entity, non-struct entity, duplicate registration)
// abort the whole operation before anything is applied; there is no partial
// success.
func (r *Registry) Apply(db *gorm.DB) error {
	roots, byType, err := r.resolve()
	if err != nil {
		return err
	}

	graph := buildGraph(roots)
	order := flattenComponents(graph, stronglyConnectedComponents(graph))

	applied := 0
	for _, t := range order {
		cfg, ok := byType[t]
		if !ok {
			continue
		}
		if err := cfg.Configure(db); err != nil {
			return fmt.Errorf("modelconf: configuring %s: %w", qualifiedName(t), err)
		}
		applied++
	}

	r.logger.Info("entity configurations applied", nil, map[string]interface{}{
		"configured": applied,
		"discovered": len(order),
	})

	if !r.autoMigrate {
		return nil
	}

	models := make([]interface{}, 0, len(order))
	for _, t := range order {
		if cfg, ok := byType[t]; ok {
			models = append(models, cfg.Entity())
			continue
		}
		models = append(models, reflect.New(t).Interface())
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("modelconf: auto-migration: %w", err)
	}

	return nil
}

// resolve validates all registered configurations, applies the filter, and
// returns the root entity types plus a type-to-configuration lookup.
// Duplicate registrations fail regardless of the filter: an invalid registry
// stays invalid even when the colliding type is filtered out of this run.
func (r *Registry) resolve() ([]reflect.Type, map[reflect.Type]EntityConfig, error) {
	byType := make(map[reflect.Type]EntityConfig, len(r.configs))
	seen := make(map[reflect.Type]EntityConfig, len(r.configs))
	var roots []reflect.Type

	for _, cfg := range r.configs {
		t, err := entityType(cfg)
		if err != nil {
			return nil, nil, err
		}
		if prev, dup := seen[t]; dup {
			return nil, nil, fmt.Errorf("modelconf: %s configured by both %T and %T",
				qualifiedName(t), prev, cfg)
		}
		seen[t] = cfg
		if r.filter != nil && !r.filter(t) {
			continue
		}
		byType[t] = cfg
		roots = append(roots, t)
	}

	return roots, byType, nil
}

// entityType resolves the struct type behind a configuration's prototype.
// A nil prototype or a non-struct prototype is the Go analogue of a missing
// parameterless construction path: the configuration cannot be applied, so
// the whole operation fails with the offending configuration named.
func entityType(cfg EntityConfig) (reflect.Type, error) {
	prototype := cfg.Entity()
	if prototype == nil {
		return nil, fmt.Errorf("modelconf: configuration %T returned a nil entity prototype", cfg)
	}

	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("modelconf: configuration %T: entity prototype must be a struct, got %s", cfg, t.Kind())
	}
	return t, nil
}
