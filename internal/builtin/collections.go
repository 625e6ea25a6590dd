package builtin

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/binoyjayan/p2sh/internal/object"
)

func (r *Registry) builtinPush(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("push: expected 2 arguments, got %d", len(args))
	}
	a, ok := args[0].(*object.Array)
	if !ok {
		return nil, fmt.Errorf("push: expected an array, got %s", args[0].Type())
	}
	a.Elems = append(a.Elems, args[1])
	return a, nil
}

func (r *Registry) builtinPop(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("pop: expected 1 argument, got %d", len(args))
	}
	a, ok := args[0].(*object.Array)
	if !ok {
		return nil, fmt.Errorf("pop: expected an array, got %s", args[0].Type())
	}
	if len(a.Elems) == 0 {
		return nil, fmt.Errorf("pop: array is empty")
	}
	last := a.Elems[len(a.Elems)-1]
	a.Elems = a.Elems[:len(a.Elems)-1]
	return last, nil
}

func (r *Registry) builtinKeys(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("keys: expected 1 argument, got %d", len(args))
	}
	m, ok := args[0].(*object.Map)
	if !ok {
		return nil, fmt.Errorf("keys: expected a map, got %s", args[0].Type())
	}
	return object.NewArray(m.Keys()), nil
}

func (r *Registry) builtinHas(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("has: expected 2 arguments, got %d", len(args))
	}
	m, ok := args[0].(*object.Map)
	if !ok {
		return nil, fmt.Errorf("has: expected a map, got %s", args[0].Type())
	}
	_, found := m.Get(args[1])
	return object.Bool(found), nil
}

func (r *Registry) builtinDelete(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("delete: expected 2 arguments, got %d", len(args))
	}
	m, ok := args[0].(*object.Map)
	if !ok {
		return nil, fmt.Errorf("delete: expected a map, got %s", args[0].Type())
	}
	return object.Bool(m.Delete(args[1])), nil
}

// builtinSort sorts an array of mutually orderable values in place,
// using golang.org/x/exp/slices.SortStableFunc for a deterministic
// sort matching the insertion-order-preserving spirit of spec.md §5.
func (r *Registry) builtinSort(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sort: expected 1 argument, got %d", len(args))
	}
	a, ok := args[0].(*object.Array)
	if !ok {
		return nil, fmt.Errorf("sort: expected an array, got %s", args[0].Type())
	}
	var sortErr error
	slices.SortStableFunc(a.Elems, func(x, y object.Value) int {
		if sortErr != nil {
			return 0
		}
		cmp, ok := object.Compare(x, y)
		if !ok {
			sortErr = fmt.Errorf("sort: values of type %s and %s are not orderable", x.Type(), y.Type())
			return 0
		}
		return cmp
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return a, nil
}

// builtinSortBy sorts an array in place using a two-argument p2sh
// closure as the less-than comparator, invoked through the owning VM
// (internal/machine.VM.CallClosure) so the comparator runs with the
// same globals, builtins and step/depth limits as the rest of the
// program.
func (r *Registry) builtinSortBy(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("sort_by: expected 2 arguments, got %d", len(args))
	}
	a, ok := args[0].(*object.Array)
	if !ok {
		return nil, fmt.Errorf("sort_by: expected an array, got %s", args[0].Type())
	}
	cmp, ok := args[1].(*object.Closure)
	if !ok {
		return nil, fmt.Errorf("sort_by: expected a closure, got %s", args[1].Type())
	}

	var callErr error
	less := func(x, y object.Value) bool {
		if callErr != nil {
			return false
		}
		v, err := r.vm.CallClosure(cmp, []object.Value{x, y})
		if err != nil {
			callErr = err
			return false
		}
		return v.Truth()
	}
	slices.SortStableFunc(a.Elems, func(x, y object.Value) int {
		switch {
		case less(x, y):
			return -1
		case less(y, x):
			return 1
		default:
			return 0
		}
	})
	if callErr != nil {
		return nil, callErr
	}
	return a, nil
}
