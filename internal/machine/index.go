package machine

import "github.com/binoyjayan/p2sh/internal/object"

// getIndex implements `a[i]` (spec.md §4.G OpGetIndex): arrays and
// strings index by integer position (a string yields the raw byte at
// that offset, not a decoded rune — char and byte are distinct tags,
// spec.md §3), maps look up by hashable key.
func getIndex(x, idx object.Value, line int) (object.Value, error) {
	switch x := x.(type) {
	case *object.Array:
		i, err := intIndex(idx, len(x.Elems), line)
		if err != nil {
			return nil, err
		}
		return x.Elems[i], nil

	case object.String:
		i, err := intIndex(idx, len(x), line)
		if err != nil {
			return nil, err
		}
		return object.Byte(x[i]), nil

	case *object.Map:
		if !object.Hashable(idx) {
			return nil, runtimeErrorf(line, "unhashable type used as map key: %s", idx.Type())
		}
		v, ok := x.Get(idx)
		if !ok {
			return nil, runtimeErrorf(line, "key not found: %s", idx.String())
		}
		return v, nil

	case object.Propertied:
		// packet/protocol layers also support `a[i]` where i is a field
		// name, matching `.name` (the filter language uses both forms
		// interchangeably in places, spec.md §6 Property expressions).
		name, ok := idx.(object.String)
		if !ok {
			return nil, runtimeErrorf(line, "index must be a string field name for %s", x.Type())
		}
		v, ok := x.GetProperty(string(name))
		if !ok {
			return nil, runtimeErrorf(line, "%s has no field %q", x.Type(), name)
		}
		return v, nil

	default:
		return nil, runtimeErrorf(line, "value of type %s is not indexable", x.Type())
	}
}

// setIndex implements `a[i] = v`.
func setIndex(x, idx, v object.Value, line int) error {
	switch x := x.(type) {
	case *object.Array:
		i, err := intIndex(idx, len(x.Elems), line)
		if err != nil {
			return err
		}
		x.Elems[i] = v
		return nil

	case *object.Map:
		if !object.Hashable(idx) {
			return runtimeErrorf(line, "unhashable type used as map key: %s", idx.Type())
		}
		if err := x.Set(idx, v); err != nil {
			return runtimeErrorf(line, "%s", err)
		}
		return nil

	case object.Propertied:
		name, ok := idx.(object.String)
		if !ok {
			return runtimeErrorf(line, "index must be a string field name for %s", x.Type())
		}
		if err := x.SetProperty(string(name), v); err != nil {
			return runtimeErrorf(line, "%s", err)
		}
		return nil

	default:
		return runtimeErrorf(line, "value of type %s does not support index assignment", x.Type())
	}
}

func intIndex(idx object.Value, length, line int) (int, error) {
	i, ok := idx.(object.Int)
	if !ok {
		return 0, runtimeErrorf(line, "index must be an int, got %s", idx.Type())
	}
	if int64(i) < 0 || int64(i) >= int64(length) {
		return 0, runtimeErrorf(line, "index out of range: %d (length %d)", int64(i), length)
	}
	return int(i), nil
}

// getProperty implements `a.name` (spec.md §4.G OpGetProperty): only
// pcap/eth/vlan/ipv4/udp record values carry structural properties.
func getProperty(x object.Value, name string, line int) (object.Value, error) {
	p, ok := x.(object.Propertied)
	if !ok {
		return nil, runtimeErrorf(line, "value of type %s has no properties", x.Type())
	}
	v, ok := p.GetProperty(name)
	if !ok {
		return nil, runtimeErrorf(line, "%s has no field %q", x.Type(), name)
	}
	return v, nil
}

func setProperty(x object.Value, name string, v object.Value, line int) error {
	p, ok := x.(object.Propertied)
	if !ok {
		return runtimeErrorf(line, "value of type %s has no properties", x.Type())
	}
	if err := p.SetProperty(name, v); err != nil {
		return runtimeErrorf(line, "%s", err)
	}
	return nil
}
