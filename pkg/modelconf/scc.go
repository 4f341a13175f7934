package modelconf

import "reflect"

// component is a strongly connected set of entity types: every member reaches
// every other member through dependency edges. A single node with no self-edge
// is its own (acyclic) component.
type component []reflect.Type

// sccFrame is one entry on the explicit traversal stack: a node plus the index
// of the next outgoing edge to explore.
type sccFrame struct {
	node reflect.Type
	edge int
}

// stronglyConnectedComponents partitions the graph into strongly connected
// components using Tarjan's algorithm with an explicit work stack instead of
// call-stack recursion, so deep dependency chains cannot overflow.
//
// Every node belongs to exactly one component. Components come out in reverse
// topological order of the condensed graph; callers that need dependencies
// first should run the result through flattenComponents.
func stronglyConnectedComponents(g *depGraph) []component {
	index := make(map[reflect.Type]int, len(g.nodes))
	lowlink := make(map[reflect.Type]int, len(g.nodes))
	onStack := make(map[reflect.Type]bool, len(g.nodes))

	var nodeStack []reflect.Type
	var components []component
	counter := 0

	for _, root := range g.nodes {
		if _, seen := index[root]; seen {
			continue
		}

		work := []sccFrame{{node: root}}
		for len(work) > 0 {
			frame := &work[len(work)-1]
			v := frame.node

			if frame.edge == 0 {
				index[v] = counter
				lowlink[v] = counter
				counter++
				nodeStack = append(nodeStack, v)
				onStack[v] = true
			}

			descended := false
			edges := g.edges[v]
			for frame.edge < len(edges) {
				w := edges[frame.edge]
				frame.edge++
				if _, seen := index[w]; !seen {
					work = append(work, sccFrame{node: w})
					descended = true
					break
				}
				if onStack[w] && index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
			if descended {
				continue
			}

			// All edges of v explored.
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var comp component
				for {
					w := nodeStack[len(nodeStack)-1]
					nodeStack = nodeStack[:len(nodeStack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				components = append(components, comp)
			}
		}
	}

	return components
}
