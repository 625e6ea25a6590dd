package machine

import "github.com/binoyjayan/p2sh/internal/object"

// frame is an active call record (spec.md §3 "Frame"): the closure being
// run, its instruction pointer, and the absolute stack offset of its
// slot 0. The top-level program also runs inside a frame, whose closure
// wraps the main chunk with no upvalues.
type frame struct {
	closure *object.Closure
	ip      int
	base    int
}

func (fr *frame) chunk() *object.Chunk { return fr.closure.Fn }
