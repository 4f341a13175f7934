// Package modelconf applies entity configurations to a GORM database in
// dependency order.
//
// Entity types reference each other through navigation fields (a Child holding
// a Parent, an Order holding its Items). When configurations create foreign
// keys or when models are auto-migrated, a type's dependencies have to exist
// before the type itself. modelconf computes that order automatically:
//
//  1. It walks the exported struct fields of every registered entity type and
//     builds a directed dependency graph, recursively discovering related
//     types that were never registered explicitly.
//  2. It partitions the graph into strongly connected components with an
//     iterative Tarjan traversal, so mutually-referencing types are grouped
//     instead of causing an unresolvable ordering.
//  3. It flattens the components topologically; inside a true cycle, where no
//     correct order exists, it falls back to a deterministic heuristic.
//
// Configurations are registered explicitly rather than discovered by scanning:
//
//	reg := modelconf.NewRegistry(modelconf.WithAutoMigrate())
//	reg.Register(
//		&UserConfig{},
//		&OrderConfig{},
//		&OrderItemConfig{},
//	)
//	if err := reg.Apply(db); err != nil {
//		return err
//	}
//
// Apply is synchronous and stateless across invocations; it is meant to run
// once at startup. If any registered configuration is invalid (nil entity,
// non-struct entity, duplicate registration for one type), Apply fails fast
// before touching the database.
package modelconf
