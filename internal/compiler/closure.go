package compiler

import (
	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/token"
)

// emitClosureFor compiles node's body as a nested Chunk and emits
// OpClosure to build the runtime closure over it, threading the upvalue
// descriptor chain the resolver recorded for node (spec.md §4.D
// "Closures").
func (c *fcomp) emitClosureFor(node ast.Node, sig *ast.FuncSignature, body *ast.Block, at token.Pos) {
	fnChunk := c.compileFunction(funcName(node), node, body)
	fnChunk.Arity = len(sig.Params)

	info := c.res.Funcs[node]
	upvalues := make([]object.UpvalueRef, len(info.Upvalues))
	for i, uv := range info.Upvalues {
		upvalues[i] = object.UpvalueRef{IsLocal: uv.IsLocal, Index: uv.Index}
	}

	constIdx := c.chunk.AddConstant(&object.Closure{Fn: fnChunk})
	c.chunk.EmitClosure(c.lineAt(at), constIdx, upvalues)
}

func funcName(node ast.Node) string {
	if s, ok := node.(*ast.FnStmt); ok {
		return s.Name.Name
	}
	return "<anonymous>"
}
