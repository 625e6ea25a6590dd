package resolver

import "github.com/binoyjayan/p2sh/internal/ast"

// scope is one lexical block within a function: a brace-delimited region
// whose let-bound locals are shadowable in nested blocks but invisible
// outside it.
type scope struct {
	names map[string]*Binding
}

// loopLabel records an active loop's optional label, so break/continue can
// validate a LABEL argument names a loop actually enclosing them.
type loopLabel struct {
	name string // "" for an unlabeled loop
}

// funcState tracks resolution state for one function body (the top-level
// chunk, or a fn literal), grounded on github.com/mna/nenuphar's
// lang/resolver block/Function split (lang/resolver/resolver.go), adapted
// to p2sh's simpler global/local/free/builtin scope model (spec.md §3) in
// place of nenuphar's Starlark-derived cell/label/predeclared/universal
// taxonomy.
type funcState struct {
	parent *funcState
	node   ast.Node

	scopes   []*scope
	locals   []*Binding
	upvalues []UpvalueDesc
	// loops is the stack of enclosing loops' labels, innermost last.
	loops []loopLabel
}

func newFuncState(parent *funcState, node ast.Node) *funcState {
	fs := &funcState{parent: parent, node: node}
	fs.pushScope()
	return fs
}

func (fs *funcState) pushScope() { fs.scopes = append(fs.scopes, &scope{names: map[string]*Binding{}}) }

func (fs *funcState) popScope() { fs.scopes = fs.scopes[:len(fs.scopes)-1] }

func (fs *funcState) top() *scope { return fs.scopes[len(fs.scopes)-1] }

// declareLocal binds name as a new local in the innermost scope, at the
// next free slot in the function's local vector.
func (fs *funcState) declareLocal(name string) *Binding {
	b := &Binding{Name: name, Scope: Local, Index: len(fs.locals), IsMutable: true}
	fs.locals = append(fs.locals, b)
	fs.top().names[name] = b
	return b
}

// findLocal searches this function's own scope stack, innermost first.
func (fs *funcState) findLocal(name string) *Binding {
	for i := len(fs.scopes) - 1; i >= 0; i-- {
		if b, ok := fs.scopes[i].names[name]; ok {
			return b
		}
	}
	return nil
}

// addUpvalue records (or reuses) a descriptor capturing the given
// enclosing slot, returning its index among this function's upvalues.
func (fs *funcState) addUpvalue(name string, isLocal bool, index int) int {
	for i, uv := range fs.upvalues {
		if uv.Name == name && uv.IsLocal == isLocal && uv.Index == index {
			return i
		}
	}
	fs.upvalues = append(fs.upvalues, UpvalueDesc{Name: name, IsLocal: isLocal, Index: index})
	return len(fs.upvalues) - 1
}

func (fs *funcState) info() *FuncInfo {
	return &FuncInfo{Locals: fs.locals, Upvalues: fs.upvalues}
}

func (fs *funcState) pushLoop(label string) { fs.loops = append(fs.loops, loopLabel{name: label}) }
func (fs *funcState) popLoop()              { fs.loops = fs.loops[:len(fs.loops)-1] }

func (fs *funcState) hasLoop() bool { return len(fs.loops) > 0 }

func (fs *funcState) hasLoopLabeled(name string) bool {
	for _, l := range fs.loops {
		if l.name == name {
			return true
		}
	}
	return false
}
