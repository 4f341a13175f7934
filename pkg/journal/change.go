package journal

import (
	"fmt"
	"reflect"
)

// Kind identifies the mutation a Change records.
type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Change is one recorded mutation.
//
// Value is the row image after the mutation (the created or updated row).
// Before is the row image prior to the mutation; it is nil for creates and
// for mutations whose prior image could not be captured.
type Change struct {
	Kind   Kind
	Table  string
	Value  any
	Before any
}

// revertible reports whether the change carries enough state to be undone.
func (c Change) revertible() bool {
	switch c.Kind {
	case KindCreate:
		return c.Value != nil
	case KindUpdate, KindDelete:
		return c.Before != nil
	default:
		return false
	}
}

// cloneImage takes a detached shallow copy of a row value so later mutations
// of the caller's struct do not corrupt the journal. Pointers to structs are
// dereferenced; slices are copied element-wise.
func cloneImage(value any) any {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		clone := reflect.New(rv.Elem().Type())
		clone.Elem().Set(rv.Elem())
		return clone.Interface()
	case reflect.Slice:
		clone := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(clone, rv)
		return clone.Interface()
	case reflect.Struct:
		clone := reflect.New(rv.Type())
		clone.Elem().Set(rv)
		return clone.Interface()
	default:
		return value
	}
}
