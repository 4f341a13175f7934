package modelconf

import (
	"reflect"
	"strings"
)

// depGraph is a directed dependency graph over entity struct types.
// Node and edge slices keep insertion order so downstream ordering stays
// deterministic for identical input.
type depGraph struct {
	nodes []reflect.Type
	edges map[reflect.Type][]reflect.Type
}

// buildGraph walks the exported fields of every root type, registering an
// edge from the type to each navigation target and recursively visiting
// discovered types. Types reachable only through navigation fields become
// nodes even though they carry no explicit configuration. A visited set
// guards against infinite recursion on cyclic schemas.
func buildGraph(roots []reflect.Type) *depGraph {
	g := &depGraph{
		edges: make(map[reflect.Type][]reflect.Type),
	}
	visited := make(map[reflect.Type]bool)
	for _, root := range roots {
		g.visit(root, visited)
	}
	return g
}

func (g *depGraph) visit(t reflect.Type, visited map[reflect.Type]bool) {
	if visited[t] {
		return
	}
	visited[t] = true
	g.nodes = append(g.nodes, t)

	seen := make(map[reflect.Type]bool)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		target := navigationTarget(field.Type)
		if target == nil {
			continue
		}
		if seen[target] {
			continue
		}
		seen[target] = true

		g.edges[t] = append(g.edges[t], target)
		g.visit(target, visited)
	}
}

// navigationTarget strips pointer, slice, and array wrappers from a field
// type and returns the named struct type behind them, or nil when the field
// is not a navigation property (primitives, strings, maps, system types).
func navigationTarget(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if t.Name() == "" {
		// anonymous struct type, not an entity
		return nil
	}
	if isSystemType(t) {
		return nil
	}
	return t
}

// isSystemType reports whether the type lives in a system-provided namespace
// (standard library time/sql types, GORM's own embedded types).
func isSystemType(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return true
	}
	if pkg == "time" || pkg == "database/sql" || pkg == "database/sql/driver" {
		return true
	}
	return strings.HasPrefix(pkg, "gorm.io/")
}
