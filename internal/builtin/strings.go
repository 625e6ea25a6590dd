package builtin

import (
	"fmt"
	"strings"

	"github.com/binoyjayan/p2sh/internal/object"
)

func (r *Registry) builtinSplit(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("split: expected 2 arguments, got %d", len(args))
	}
	s, ok1 := args[0].(object.String)
	sep, ok2 := args[1].(object.String)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("split: expected two strings")
	}
	parts := strings.Split(string(s), string(sep))
	elems := make([]object.Value, len(parts))
	for i, p := range parts {
		elems[i] = object.String(p)
	}
	return object.NewArray(elems), nil
}

func (r *Registry) builtinJoin(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("join: expected 2 arguments, got %d", len(args))
	}
	a, ok1 := args[0].(*object.Array)
	sep, ok2 := args[1].(object.String)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("join: expected an array and a string")
	}
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		s, ok := e.(object.String)
		if !ok {
			return nil, fmt.Errorf("join: element %d is not a string, got %s", i, e.Type())
		}
		parts[i] = string(s)
	}
	return object.String(strings.Join(parts, string(sep))), nil
}

func (r *Registry) builtinUpper(args []object.Value) (object.Value, error) {
	s, err := singleString("upper", args)
	if err != nil {
		return nil, err
	}
	return object.String(strings.ToUpper(s)), nil
}

func (r *Registry) builtinLower(args []object.Value) (object.Value, error) {
	s, err := singleString("lower", args)
	if err != nil {
		return nil, err
	}
	return object.String(strings.ToLower(s)), nil
}

func (r *Registry) builtinTrim(args []object.Value) (object.Value, error) {
	s, err := singleString("trim", args)
	if err != nil {
		return nil, err
	}
	return object.String(strings.TrimSpace(s)), nil
}

func (r *Registry) builtinReplace(args []object.Value) (object.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("replace: expected 3 arguments, got %d", len(args))
	}
	s, ok1 := args[0].(object.String)
	old, ok2 := args[1].(object.String)
	repl, ok3 := args[2].(object.String)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("replace: expected three strings")
	}
	return object.String(strings.ReplaceAll(string(s), string(old), string(repl))), nil
}

func (r *Registry) builtinContains(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("contains: expected 2 arguments, got %d", len(args))
	}
	switch a := args[0].(type) {
	case object.String:
		sub, ok := args[1].(object.String)
		if !ok {
			return nil, fmt.Errorf("contains: expected a string needle")
		}
		return object.Bool(strings.Contains(string(a), string(sub))), nil
	case *object.Array:
		for _, e := range a.Elems {
			if object.Equal(e, args[1]) {
				return object.Bool(true), nil
			}
		}
		return object.Bool(false), nil
	default:
		return nil, fmt.Errorf("contains: expected a string or array, got %s", a.Type())
	}
}

func (r *Registry) builtinIndexOf(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("index_of: expected 2 arguments, got %d", len(args))
	}
	switch a := args[0].(type) {
	case object.String:
		sub, ok := args[1].(object.String)
		if !ok {
			return nil, fmt.Errorf("index_of: expected a string needle")
		}
		return object.Int(strings.Index(string(a), string(sub))), nil
	case *object.Array:
		for i, e := range a.Elems {
			if object.Equal(e, args[1]) {
				return object.Int(i), nil
			}
		}
		return object.Int(-1), nil
	default:
		return nil, fmt.Errorf("index_of: expected a string or array, got %s", a.Type())
	}
}

func singleString(name string, args []object.Value) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s: expected 1 argument, got %d", name, len(args))
	}
	s, ok := args[0].(object.String)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %s", name, args[0].Type())
	}
	return string(s), nil
}
