package machine

import "github.com/binoyjayan/p2sh/internal/object"

// openUpvalues is the VM's open-upvalue list, sorted by the absolute
// stack address each upvalue currently points at (spec.md §4.H). Keeping
// it sorted makes captureUpvalue's "is there already an open upvalue for
// this slot" search and closeUpvalues' "close everything at or above a
// given base" sweep both a linear scan from the high end.
type openUpvalues struct {
	list []openUpvalue
}

type openUpvalue struct {
	stackIndex int
	uv         *object.Upvalue
}

// capture returns the open upvalue for the stack slot at stackIndex,
// creating one (pointed at &stack[stackIndex]) if none exists yet.
func (o *openUpvalues) capture(stack []object.Value, stackIndex int) *object.Upvalue {
	for i := len(o.list) - 1; i >= 0; i-- {
		if o.list[i].stackIndex == stackIndex {
			return o.list[i].uv
		}
		if o.list[i].stackIndex < stackIndex {
			break
		}
	}
	uv := object.NewOpenUpvalue(&stack[stackIndex])

	i := len(o.list)
	for i > 0 && o.list[i-1].stackIndex > stackIndex {
		i--
	}
	o.list = append(o.list, openUpvalue{})
	copy(o.list[i+1:], o.list[i:])
	o.list[i] = openUpvalue{stackIndex: stackIndex, uv: uv}
	return uv
}

// closeFrom closes (hoists to the heap) every open upvalue pointing at
// stackIndex or above, removing them from the open list. Called on
// OpCloseUpvalue and when a frame returns (spec.md §4.H).
func (o *openUpvalues) closeFrom(stackIndex int) {
	i := 0
	for i < len(o.list) && o.list[i].stackIndex < stackIndex {
		i++
	}
	for _, ou := range o.list[i:] {
		ou.uv.Close()
	}
	o.list = o.list[:i]
}
