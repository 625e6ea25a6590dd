// Package resolver resolves identifiers in a parsed p2sh AST to bindings:
// global, local, free (closed over from an enclosing function) or builtin
// (spec.md §3, §4.C). It is grounded on github.com/mna/nenuphar's
// lang/resolver package (a block-stack walker that turns a captured local
// into a cell and threads an upvalue-descriptor chain through intervening
// functions), simplified to p2sh's flat scope taxonomy: no classes, no
// labels-as-bindings, no predeclared/universe split (spec.md §1 Non-goals
// exclude classes/modules; p2sh's builtins are a single fixed registry).
package resolver

import (
	"fmt"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/diag"
	"github.com/binoyjayan/p2sh/internal/token"
)

// Result is the output of a successful (or partially successful) resolve
// pass: enough information for internal/compiler to allocate local slots,
// emit global/free/builtin opcodes, and build closure upvalue lists.
type Result struct {
	// Idents maps every identifier *use* (not declaration-site names, not
	// DotExpr property names, not break/continue labels) to its binding.
	Idents map[*ast.IdentExpr]*Binding
	// Funcs maps the top-level chunk and every FuncExpr/FnStmt body to its
	// resolved locals/upvalues.
	Funcs map[ast.Node]*FuncInfo
	// Globals lists every global binding in declaration order, indexed by
	// Binding.Index.
	Globals []*Binding
}

// Resolve walks chunk, resolving every identifier reference. builtins names
// the fixed builtin registry (spec.md §4.D); names not found as global,
// local, free or builtin produce a compile error. implicitGlobals
// predeclares mutable globals the caller populates before execution
// (the filter driver's NP/PL/WL/TSS/TSU/p0../end variables, spec.md
// §4.J) — pass nil for a plain script with no filter driver.
func Resolve(chunk *ast.Chunk, builtins []string, implicitGlobals []string) (*Result, error) {
	r := &resolver{
		idents:   map[*ast.IdentExpr]*Binding{},
		funcs:    map[ast.Node]*FuncInfo{},
		globals:  map[string]*Binding{},
		builtins: map[string]*Binding{},
	}
	for i, name := range builtins {
		r.builtins[name] = &Binding{Name: name, Scope: Builtin, Index: i}
	}
	for _, name := range implicitGlobals {
		b := &Binding{Name: name, Scope: Global, Index: len(r.globalList), IsMutable: true}
		r.globals[name] = b
		r.globalList = append(r.globalList, b)
	}

	r.fs = newFuncState(nil, chunk)
	r.block(chunk.Block)
	r.funcs[chunk] = r.fs.info()

	r.errs.Sort()
	return &Result{
		Idents:  r.idents,
		Funcs:   r.funcs,
		Globals: r.globalList,
	}, r.errs.Err()
}

type resolver struct {
	fs   *funcState
	errs diag.List

	idents map[*ast.IdentExpr]*Binding
	funcs  map[ast.Node]*FuncInfo

	globals    map[string]*Binding
	globalList []*Binding
	builtins   map[string]*Binding
}

func (r *resolver) errorf(pos token.Pos, format string, args ...any) {
	r.errs.Add(diag.Compile, pos, fmt.Sprintf(format, args...))
}

// atTopLevel reports whether the current function is the top-level chunk,
// where `let` binds a global rather than a local (spec.md §4.C).
func (r *resolver) atTopLevel() bool { return r.fs.parent == nil && len(r.fs.scopes) == 1 }

func (r *resolver) declare(ident *ast.IdentExpr) *Binding {
	if r.atTopLevel() {
		if _, ok := r.globals[ident.Name]; ok {
			r.errorf(ident.Start, "global already declared: %s", ident.Name)
		}
		b := &Binding{Name: ident.Name, Scope: Global, Index: len(r.globalList), IsMutable: true}
		r.globals[ident.Name] = b
		r.globalList = append(r.globalList, b)
		r.fs.top().names[ident.Name] = b
		return b
	}
	if _, ok := r.fs.top().names[ident.Name]; ok {
		r.errorf(ident.Start, "already declared in this block: %s", ident.Name)
	}
	return r.fs.declareLocal(ident.Name)
}

func (r *resolver) block(b *ast.Block) {
	r.fs.pushScope()
	for _, s := range b.Stmts {
		r.stmt(s)
	}
	r.fs.popScope()
}

func (r *resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		r.expr(s.Value)
		r.declare(s.Name)

	case *ast.FnStmt:
		// the function's own name is visible inside its body, for recursion
		// (spec.md §4.C).
		fnBinding := r.declare(s.Name)
		fnBinding.IsMutable = false
		r.function(s, s.Sig, s.Body)

	case *ast.ExprStmt:
		r.expr(s.Expr)

	case *ast.ReturnStmt:
		if s.Value != nil {
			r.expr(s.Value)
		}

	case *ast.BreakStmt:
		r.useLabel(s.Label, true)

	case *ast.ContinueStmt:
		r.useLabel(s.Label, true)

	case *ast.FilterStmt:
		// a filter body gets its own funcState, exactly like a fn body,
		// so internal/compiler can compile it as an independent Chunk
		// invoked once per packet by the filter driver (spec.md §4.D
		// "Filter statements", §4.J).
		parent := r.fs
		r.fs = newFuncState(parent, s)
		if s.Pattern != nil {
			r.expr(s.Pattern)
		}
		if s.Body != nil {
			r.block(s.Body)
		}
		r.funcs[s] = r.fs.info()
		r.fs = parent

	default:
		panic(fmt.Sprintf("resolver: unexpected stmt %T", s))
	}
}

func (r *resolver) useLabel(label *ast.IdentExpr, isLoopRef bool) {
	if label == nil {
		if isLoopRef && !r.fs.hasLoop() {
			return // structural "break/continue outside loop" is a compiler-stage check
		}
		return
	}
	if !r.fs.hasLoopLabeled(label.Name) {
		r.errorf(label.Start, "label not defined: %s", label.Name)
	}
}

func (r *resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.IdentExpr:
		r.use(e)

	case *ast.LiteralExpr, *ast.WildcardExpr, *ast.BadExpr:
		// nothing to resolve

	case *ast.ArrayExpr:
		for _, it := range e.Items {
			r.expr(it)
		}

	case *ast.MapExpr:
		for _, kv := range e.Items {
			r.expr(kv.Key)
			r.expr(kv.Value)
		}

	case *ast.FuncExpr:
		r.function(e, e.Sig, e.Body)

	case *ast.CallExpr:
		r.expr(e.Fn)
		for _, a := range e.Args {
			r.expr(a)
		}

	case *ast.IndexExpr:
		r.expr(e.Prefix)
		r.expr(e.Index)

	case *ast.DotExpr:
		// e.Name is a property name dispatched at runtime, not a binding.
		r.expr(e.Left)

	case *ast.ParenExpr:
		r.expr(e.Expr)

	case *ast.UnaryOpExpr:
		r.expr(e.Right)

	case *ast.BinOpExpr:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.AssignExpr:
		r.expr(e.Right)
		r.assignTarget(e.Left)

	case *ast.BlockExpr:
		r.block(e.Block)

	case *ast.IfExpr:
		r.expr(e.Cond)
		r.block(e.Then)
		if e.Else != nil {
			r.expr(e.Else)
		}

	case *ast.LoopExpr:
		label := ""
		if e.Label != nil {
			label = e.Label.Name
		}
		r.fs.pushLoop(label)
		r.block(e.Body)
		r.fs.popLoop()

	case *ast.WhileExpr:
		r.expr(e.Cond)
		label := ""
		if e.Label != nil {
			label = e.Label.Name
		}
		r.fs.pushLoop(label)
		r.block(e.Body)
		r.fs.popLoop()

	case *ast.RangeExpr:
		r.expr(e.Low)
		r.expr(e.High)

	case *ast.AltExpr:
		for _, a := range e.Alts {
			r.expr(a)
		}

	case *ast.MatchExpr:
		r.expr(e.Subject)
		for _, arm := range e.Arms {
			r.expr(arm.Pattern)
			r.expr(arm.Body)
		}

	default:
		panic(fmt.Sprintf("resolver: unexpected expr %T", e))
	}
}

// assignTarget resolves an lvalue: an identifier is looked up (assigning to
// an undeclared name is a compile error, spec.md §4.C — p2sh has no
// implicit-declaration assignment), an index or property target resolves
// its subexpressions normally.
func (r *resolver) assignTarget(e ast.Expr) {
	switch e := ast.Unwrap(e).(type) {
	case *ast.IdentExpr:
		r.use(e)
	case *ast.IndexExpr:
		r.expr(e)
	case *ast.DotExpr:
		r.expr(e)
	}
}

func (r *resolver) function(node ast.Node, sig *ast.FuncSignature, body *ast.Block) {
	parent := r.fs
	r.fs = newFuncState(parent, node)
	for _, p := range sig.Params {
		r.fs.declareLocal(p.Name)
	}
	for _, s := range body.Stmts {
		r.stmt(s)
	}
	r.funcs[node] = r.fs.info()
	r.fs = parent
}

// use resolves an identifier reference: current function's locals, then
// outward through enclosing functions (turning the match into a free
// variable with an upvalue descriptor chain), then globals, then builtins.
func (r *resolver) use(ident *ast.IdentExpr) {
	if b := r.fs.findLocal(ident.Name); b != nil {
		r.idents[ident] = b
		return
	}

	if b := r.resolveFree(r.fs, ident.Name); b != nil {
		r.idents[ident] = b
		return
	}

	if b, ok := r.globals[ident.Name]; ok {
		r.idents[ident] = b
		return
	}

	if b, ok := r.builtins[ident.Name]; ok {
		r.idents[ident] = b
		return
	}

	r.errorf(ident.Start, "undefined: %s", ident.Name)
	r.idents[ident] = &Binding{Name: ident.Name, Scope: Undefined}
}

// resolveFree searches enclosing functions outward from fs.parent for name,
// threading an upvalue descriptor chain through every intervening function
// and marking the owning local as captured (spec.md §4.D: "for each
// intermediate function, either a new descriptor {is_local: true, index:
// enclosing-local-slot} or {is_local: false, index: enclosing-upvalue-slot}").
func (r *resolver) resolveFree(fs *funcState, name string) *Binding {
	if fs.parent == nil {
		return nil
	}
	if owner := fs.parent.findLocal(name); owner != nil {
		owner.IsCaptured = true
		idx := fs.addUpvalue(name, true, owner.Index)
		return &Binding{Name: name, Scope: Free, Index: idx}
	}
	if parentFree := r.resolveFree(fs.parent, name); parentFree != nil {
		idx := fs.addUpvalue(name, false, parentFree.Index)
		return &Binding{Name: name, Scope: Free, Index: idx}
	}
	return nil
}
