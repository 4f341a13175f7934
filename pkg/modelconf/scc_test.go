package modelconf

import (
	"reflect"
	"testing"
)

type sccA struct {
	ID uint
	B  *sccB
}

type sccB struct {
	ID uint
	A  *sccA
}

type sccLeaf struct {
	ID uint
}

type sccTop struct {
	ID   uint
	A    *sccA
	Leaf *sccLeaf
}

func componentOf(components []component, t reflect.Type) (component, bool) {
	for _, comp := range components {
		for _, member := range comp {
			if member == t {
				return comp, true
			}
		}
	}
	return nil, false
}

func TestSCCGroupsMutualReferences(t *testing.T) {
	g := buildGraph([]reflect.Type{typeOf(sccA{}), typeOf(sccB{})})
	components := stronglyConnectedComponents(g)

	if len(components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(components))
	}
	if len(components[0]) != 2 {
		t.Errorf("expected both types in the cycle component, got %v", components[0])
	}
}

func TestSCCSeparatesAcyclicNodes(t *testing.T) {
	g := buildGraph([]reflect.Type{typeOf(sccTop{})})
	components := stronglyConnectedComponents(g)

	// sccTop and sccLeaf are singletons; sccA/sccB form one component.
	if len(components) != 3 {
		t.Fatalf("expected 3 components, got %d: %v", len(components), components)
	}

	cycle, ok := componentOf(components, typeOf(sccA{}))
	if !ok || len(cycle) != 2 {
		t.Errorf("expected sccA in a 2-node component, got %v", cycle)
	}
	leaf, ok := componentOf(components, typeOf(sccLeaf{}))
	if !ok || len(leaf) != 1 {
		t.Errorf("expected sccLeaf in a singleton component, got %v", leaf)
	}
}

func TestSCCEveryNodeInExactlyOneComponent(t *testing.T) {
	g := buildGraph([]reflect.Type{typeOf(sccTop{}), typeOf(gpChild{}), typeOf(gpOrder{})})
	components := stronglyConnectedComponents(g)

	membership := make(map[reflect.Type]int)
	for _, comp := range components {
		if len(comp) == 0 {
			t.Fatal("empty component emitted")
		}
		for _, member := range comp {
			membership[member]++
		}
	}
	for _, node := range g.nodes {
		if membership[node] != 1 {
			t.Errorf("node %v appears in %d components, want 1", node, membership[node])
		}
	}
}

func TestSCCDeepChainDoesNotRecurse(t *testing.T) {
	// A synthetic deep chain exercises the explicit work stack; with native
	// recursion a chain this long would be a stack-depth hazard on some
	// platforms.
	const depth = 50000
	nodes := make([]reflect.Type, depth)
	for i := range nodes {
		// Distinct synthetic types are not constructible via reflect, so the
		// chain is built directly on the graph with one real type per slot
		// distinguished by position.
		nodes[i] = reflect.ArrayOf(i+1, reflect.TypeOf(byte(0)))
	}

	g := &depGraph{edges: make(map[reflect.Type][]reflect.Type)}
	g.nodes = nodes
	for i := 0; i < depth-1; i++ {
		g.edges[nodes[i]] = []reflect.Type{nodes[i+1]}
	}

	components := stronglyConnectedComponents(g)
	if len(components) != depth {
		t.Fatalf("expected %d singleton components, got %d", depth, len(components))
	}
}
