package modelconf

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"gorm.io/gorm"
)

type gpParent struct {
	ID   uint
	Name string
}

type gpChild struct {
	ID       uint
	ParentID uint
	Parent   gpParent
}

type gpOrder struct {
	ID    uint
	Items []gpOrderItem
}

type gpOrderItem struct {
	ID      uint
	OrderID uint
	Order   *gpOrder
}

type gpPlain struct {
	gorm.Model
	Title     string
	Count     int
	Tags      []string
	Meta      map[string]string
	CreatedAt time.Time
	Deleted   gorm.DeletedAt
	Note      sql.NullString
}

func typeOf(v interface{}) reflect.Type {
	return reflect.TypeOf(v)
}

func TestBuildGraphEdges(t *testing.T) {
	g := buildGraph([]reflect.Type{typeOf(gpChild{})})

	edges := g.edges[typeOf(gpChild{})]
	if len(edges) != 1 || edges[0] != typeOf(gpParent{}) {
		t.Errorf("expected single edge gpChild -> gpParent, got %v", edges)
	}
}

func TestBuildGraphDiscoversUnregisteredTypes(t *testing.T) {
	// gpParent is never passed in, only reachable through gpChild.
	g := buildGraph([]reflect.Type{typeOf(gpChild{})})

	found := false
	for _, node := range g.nodes {
		if node == typeOf(gpParent{}) {
			found = true
		}
	}
	if !found {
		t.Error("expected gpParent to be discovered as a node")
	}
}

func TestBuildGraphStripsWrappers(t *testing.T) {
	g := buildGraph([]reflect.Type{typeOf(gpOrder{})})

	edges := g.edges[typeOf(gpOrder{})]
	if len(edges) != 1 || edges[0] != typeOf(gpOrderItem{}) {
		t.Errorf("expected slice wrapper stripped to gpOrderItem, got %v", edges)
	}

	// Pointer wrapper on the back-reference.
	edges = g.edges[typeOf(gpOrderItem{})]
	if len(edges) != 1 || edges[0] != typeOf(gpOrder{}) {
		t.Errorf("expected pointer wrapper stripped to gpOrder, got %v", edges)
	}
}

func TestBuildGraphSkipsSystemAndScalarTypes(t *testing.T) {
	g := buildGraph([]reflect.Type{typeOf(gpPlain{})})

	if edges := g.edges[typeOf(gpPlain{})]; len(edges) != 0 {
		t.Errorf("expected no edges for scalar/system fields, got %v", edges)
	}
	if len(g.nodes) != 1 {
		t.Errorf("expected only the root node, got %d nodes", len(g.nodes))
	}
}

func TestBuildGraphTerminatesOnCycle(t *testing.T) {
	// gpOrder <-> gpOrderItem form a cycle; the visited set must stop the
	// recursion.
	g := buildGraph([]reflect.Type{typeOf(gpOrder{}), typeOf(gpOrderItem{})})

	if len(g.nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(g.nodes))
	}
}
