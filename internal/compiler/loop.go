package compiler

// LoopFrame tracks one active loop during compilation: where its
// condition check starts (for `continue` to jump back to) and the list
// of not-yet-patched forward jumps emitted by `break`
// (spec.md §4.D "Loops").
type LoopFrame struct {
	Label   string // "" for an unlabeled loop
	StartIP int    // continue target: loop/while's condition re-check
	Breaks  []int  // offsets of OpJump instructions to patch to the loop's end
}

func (c *fcomp) pushLoop(label string, startIP int) *LoopFrame {
	lf := &LoopFrame{Label: label, StartIP: startIP}
	c.loops = append(c.loops, lf)
	return lf
}

func (c *fcomp) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

// findLoop returns the loop break/continue targets: the innermost loop
// for a bare label, or the labeled one if label != "".
func (c *fcomp) findLoop(label string) *LoopFrame {
	for i := len(c.loops) - 1; i >= 0; i-- {
		if label == "" || c.loops[i].Label == label {
			return c.loops[i]
		}
	}
	return nil
}

// patchJumpsTo patches every offset in offsets (OpJump instructions) to
// target target.
func (c *fcomp) patchJumpsTo(offsets []int, target int) {
	for _, off := range offsets {
		c.chunk.PatchOperand(off, target)
	}
}
