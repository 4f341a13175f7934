package modelconf

import (
	"reflect"
	"sort"
	"strings"
)

// flattenComponents orders the components so that a component is emitted only
// after every component it depends on, then expands each component into its
// member types. At component granularity the result is a valid topological
// order; inside a multi-node component (a true cycle) the member order is the
// deterministic tie-break of orderWithinComponent.
func flattenComponents(g *depGraph, components []component) []reflect.Type {
	nodeComp := make(map[reflect.Type]int, len(g.nodes))
	for i, comp := range components {
		for _, t := range comp {
			nodeComp[t] = i
		}
	}

	// Between-component edge sets. Self-edges are dropped so a component
	// that depends only on itself is never blocked.
	outgoing := make([]map[int]bool, len(components))
	for i := range components {
		outgoing[i] = make(map[int]bool)
	}
	for i, comp := range components {
		for _, t := range comp {
			for _, dep := range g.edges[t] {
				if j := nodeComp[dep]; j != i {
					outgoing[i][j] = true
				}
			}
		}
	}

	emitted := make([]bool, len(components))
	var order []reflect.Type

	for remaining := len(components); remaining > 0; {
		// Pick the lowest-indexed component with no outstanding edges to
		// unprocessed components. Scanning in index order keeps the choice
		// among ties deterministic for identical input.
		picked := -1
		for i := range components {
			if emitted[i] {
				continue
			}
			blocked := false
			for j := range outgoing[i] {
				if !emitted[j] {
					blocked = true
					break
				}
			}
			if !blocked {
				picked = i
				break
			}
		}
		if picked < 0 {
			// Unreachable: the condensed graph of SCCs is acyclic, so some
			// component always has zero outstanding edges.
			break
		}

		emitted[picked] = true
		remaining--
		order = append(order, orderWithinComponent(components[picked])...)
	}

	return order
}

// Suffixes recognized by the intra-cycle tie-break. Lookup-style types tend to
// be referenced by the rest of a cycle, item-style types tend to do the
// referencing.
var (
	lookupSuffixes = []string{"View", "Type", "Kind", "Status", "Category"}
	itemSuffixes   = []string{"Item", "Entry", "Detail", "Line"}
)

// orderWithinComponent sorts the members of one component. For a single node
// there is nothing to decide. For a multi-node component no correct order is
// derivable from the graph, so the members are ranked by fixed tie-break keys:
// types without a single-column primary key first, then types with no key
// field at all, then lookup-style name suffixes before others, item-style
// suffixes after others, and finally the fully qualified name alphabetically.
//
// Only the determinism of this order is contractual; the specific heuristic
// priorities are a best-effort fallback, not a correctness guarantee for
// every cyclic schema.
func orderWithinComponent(comp component) []reflect.Type {
	if len(comp) == 1 {
		return comp
	}

	ordered := make([]reflect.Type, len(comp))
	copy(ordered, comp)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]

		if ka, kb := hasSingleColumnKey(a), hasSingleColumnKey(b); ka != kb {
			return !ka
		}
		if ka, kb := hasAnyKeyField(a), hasAnyKeyField(b); ka != kb {
			return !ka
		}
		if la, lb := hasSuffix(a, lookupSuffixes), hasSuffix(b, lookupSuffixes); la != lb {
			return la
		}
		if ia, ib := hasSuffix(a, itemSuffixes), hasSuffix(b, itemSuffixes); ia != ib {
			return ib
		}
		return qualifiedName(a) < qualifiedName(b)
	})

	return ordered
}

// hasSingleColumnKey reports whether the type declares exactly one
// identifying key field.
func hasSingleColumnKey(t reflect.Type) bool {
	return countKeyFields(t) == 1
}

// hasAnyKeyField reports whether the type declares at least one identifying
// key field.
func hasAnyKeyField(t reflect.Type) bool {
	return countKeyFields(t) > 0
}

// countKeyFields counts fields that GORM would treat as a primary key:
// an explicit primaryKey tag, or the conventional ID field name.
func countKeyFields(t reflect.Type) int {
	count := 0
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if isKeyField(field) {
			count++
		}
	}
	return count
}

func isKeyField(field reflect.StructField) bool {
	tag := field.Tag.Get("gorm")
	for _, part := range strings.Split(tag, ";") {
		if strings.EqualFold(strings.TrimSpace(part), "primaryKey") {
			return true
		}
	}
	return field.Name == "ID"
}

func hasSuffix(t reflect.Type, suffixes []string) bool {
	name := t.Name()
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func qualifiedName(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}
