package translate

import (
	"vane/internal/ast"
	"vane/internal/frame"
	"vane/internal/ir"
	"vane/internal/mangle"
	"vane/internal/source"
	"vane/internal/symbols"
	"vane/internal/types"
)

// funcTranslator lowers one function definition's body into a flat entry
// list. It owns the per-function temp counter (spec.md §5: "temporary
// numbers are allocated from a per-function monotonically increasing
// counter") and the break/continue label stacks threading through nested
// loops and switches.
type funcTranslator struct {
	fw        *fileTranslator
	frm       frame.Frame
	temps     ir.TempCounter
	entries   []ir.Entry
	retType   types.TypeID
	retAccess frame.Access
	exitLabel string

	breakStack    []string
	continueStack []string
}

func (ft *funcTranslator) prog() *symbols.Program { return ft.fw.t.prog }

func (ft *funcTranslator) emit(e ir.Entry)       { ft.entries = append(ft.entries, e) }
func (ft *funcTranslator) emitAll(es []ir.Entry) { ft.entries = append(ft.entries, es...) }

func (ft *funcTranslator) newTemp(size, align int, hint types.ValueClass) ir.Operand {
	return ir.Temp(ft.temps.Next(), size, align, hint)
}

func (ft *funcTranslator) pushLoop(breakLabel, continueLabel string) {
	ft.breakStack = append(ft.breakStack, breakLabel)
	ft.continueStack = append(ft.continueStack, continueLabel)
}

func (ft *funcTranslator) popLoop() {
	ft.breakStack = ft.breakStack[:len(ft.breakStack)-1]
	ft.continueStack = ft.continueStack[:len(ft.continueStack)-1]
}

func (ft *funcTranslator) pushBreakOnly(label string) {
	ft.breakStack = append(ft.breakStack, label)
}

func (ft *funcTranslator) popBreakOnly() {
	ft.breakStack = ft.breakStack[:len(ft.breakStack)-1]
}

// translateFunction lowers one function definition into a text fragment,
// wiring its parameters and return slot through the frame it allocates
// before walking the body (spec.md §4.5).
func (fw *fileTranslator) translateFunction(itemID ast.ItemID, data *ast.FunctionDefnData) {
	prog := fw.t.prog
	moduleScope, ok := enclosingModuleScope(prog, symbols.ScopeID(data.LocalScope))
	if !ok {
		return
	}
	ov, ok := prog.OverloadFor(moduleScope, data.Name.Name, itemID)
	if !ok {
		return
	}
	label := mangle.Function(fw.moduleName, prog.Strings.MustLookup(data.Name.Name), ov.ArgTypes, prog.Types, prog.Strings)

	ft := &funcTranslator{fw: fw, frm: fw.t.newFunctionFrame(), retType: ov.ReturnType}
	ft.exitLabel = fw.t.labels.Code("exit")

	for i, argType := range ov.ArgTypes {
		access := ft.frm.AllocArg(argType, false)
		if i < len(data.ArgNames) && data.ArgNames[i].Name != 0 {
			symID := symbols.FromSymbolRef(data.ArgNames[i].Resolved)
			if sym := prog.Table.Symbols.Get(symID); sym != nil {
				sym.Variable.Access = access
			}
		}
	}
	ft.retAccess, _ = ft.frm.AllocRetVal(ov.ReturnType)

	if data.Body.IsValid() {
		ft.lowerStmt(data.Body)
	}

	ft.emit(ir.Label(ft.exitLabel))
	if ft.retAccess != nil {
		retVal := ft.newTemp(sizeOf(prog, fw.t.ptrSize, ov.ReturnType), alignOf(prog, fw.t.ptrSize, ov.ReturnType), valueClassOf(prog, ov.ReturnType))
		ft.emitAll(ft.retAccess.Load(retVal))
		ft.emit(ir.Return(retVal))
	} else {
		ft.emit(ir.Return(ir.Operand{}))
	}

	body := ft.frm.GenerateEntryExit(ft.entries)
	fw.vec.Append(ir.Text(label, ft.frm.Info(), body))
	setOverloadAccess(prog, moduleScope, data.Name.Name, itemID, frame.Global(label, fw.t.ptrSize))
}

// enclosingModuleScope walks a scope up to its owning module scope (mirrors
// internal/check's lookup of a function's own resolved Overload).
func enclosingModuleScope(prog *symbols.Program, scope symbols.ScopeID) (symbols.ScopeID, bool) {
	for scope.IsValid() {
		s := prog.Table.Scopes.Get(scope)
		if s == nil {
			return symbols.NoScopeID, false
		}
		if s.Kind == symbols.ScopeModule {
			return scope, true
		}
		scope = s.Parent
	}
	return symbols.NoScopeID, false
}

// setOverloadAccess records the mangled label a function definition
// translated to onto its own Overload entry (symbol.go's "the callable's
// global label, once translated"). OverloadFor returns Overload by value, so
// recording it means finding and mutating the slice element inside the
// owning symbol's FuncGroup directly.
func setOverloadAccess(prog *symbols.Program, moduleScope symbols.ScopeID, name source.StringID, item ast.ItemID, access frame.Access) {
	scope := prog.Table.Scopes.Get(moduleScope)
	if scope == nil {
		return
	}
	for _, symID := range scope.NameIndex[name] {
		sym := prog.Table.Symbols.Get(symID)
		if sym == nil || sym.Kind != symbols.SymFunctionGroup {
			continue
		}
		for i := range sym.FuncGroup.Overloads {
			if sym.FuncGroup.Overloads[i].Item == item {
				sym.FuncGroup.Overloads[i].Access = access
				return
			}
		}
	}
}

func defaultsFor(prog *symbols.Program, item ast.ItemID) []ast.ExprID {
	it := prog.Items.Get(item)
	if it == nil {
		return nil
	}
	switch it.Kind {
	case ast.ItemFunctionDefn:
		data, _ := prog.Items.FunctionDefn(item)
		return data.ArgDefaults
	case ast.ItemFunctionDecl:
		data, _ := prog.Items.FunctionDecl(item)
		return data.ArgDefaults
	default:
		return nil
	}
}

// lowerStmt dispatches one statement to its lowering rule (spec.md §4.4's
// statement-lowering list).
func (ft *funcTranslator) lowerStmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	stmt := ft.prog().Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtCompound:
		ft.lowerCompound(id)
	case ast.StmtIf:
		ft.lowerIf(id)
	case ast.StmtWhile:
		ft.lowerWhile(id)
	case ast.StmtDoWhile:
		ft.lowerDoWhile(id)
	case ast.StmtFor:
		ft.lowerFor(id)
	case ast.StmtSwitch:
		ft.lowerSwitch(id)
	case ast.StmtBreak:
		ft.emit(ir.Jump(ft.breakStack[len(ft.breakStack)-1]))
	case ast.StmtContinue:
		ft.emit(ir.Jump(ft.continueStack[len(ft.continueStack)-1]))
	case ast.StmtReturn:
		ft.lowerReturn(id)
	case ast.StmtAsm:
		data, _ := ft.prog().Stmts.Asm(id)
		ft.emit(ir.AsmEntry(ft.prog().Strings.MustLookup(data.Text)))
	case ast.StmtExpr:
		data, _ := ft.prog().Stmts.Expr(id)
		ft.lowerValue(data.Expr)
	case ast.StmtNull:
		// nothing to lower
	case ast.StmtVarDecl:
		ft.lowerVarDecl(id)
	}
}

// lowerCompound opens a frame scope, lowers its children into a nested
// slice, then splices in whatever scope-end epilogue the frame wants
// (spec.md §4.4: "scopes nest so the frame can emit slot-release code in
// reverse order").
func (ft *funcTranslator) lowerCompound(id ast.StmtID) {
	data, _ := ft.prog().Stmts.Compound(id)
	ft.frm.ScopeStart()
	start := len(ft.entries)
	for _, child := range data.Stmts {
		ft.lowerStmt(child)
	}
	ft.spliceScope(start)
}

func (ft *funcTranslator) spliceScope(start int) {
	nested := append([]ir.Entry(nil), ft.entries[start:]...)
	wrapped := ft.frm.ScopeEnd(nested)
	ft.entries = append(ft.entries[:start], wrapped...)
}

func (ft *funcTranslator) lowerIf(id ast.StmtID) {
	data, _ := ft.prog().Stmts.If(id)
	if data.Else.IsValid() {
		elseLabel := ft.fw.t.labels.Code("else")
		endLabel := ft.fw.t.labels.Code("endif")
		ft.branchTo(data.Cond, false, elseLabel)
		ft.lowerStmt(data.Then)
		ft.emit(ir.Jump(endLabel))
		ft.emit(ir.Label(elseLabel))
		ft.lowerStmt(data.Else)
		ft.emit(ir.Label(endLabel))
		return
	}
	endLabel := ft.fw.t.labels.Code("endif")
	ft.branchTo(data.Cond, false, endLabel)
	ft.lowerStmt(data.Then)
	ft.emit(ir.Label(endLabel))
}

// lowerWhile: top label, conditional jump-if-not to end, body, unconditional
// jump to top, end label (spec.md §4.4).
func (ft *funcTranslator) lowerWhile(id ast.StmtID) {
	data, _ := ft.prog().Stmts.While(id)
	top := ft.fw.t.labels.Code("wtop")
	end := ft.fw.t.labels.Code("wend")
	ft.emit(ir.Label(top))
	ft.branchTo(data.Cond, false, end)
	ft.pushLoop(end, top)
	ft.lowerStmt(data.Body)
	ft.popLoop()
	ft.emit(ir.Jump(top))
	ft.emit(ir.Label(end))
}

// lowerDoWhile: top label, body, continue label, conditional jump-if to
// top, end label (spec.md §4.4).
func (ft *funcTranslator) lowerDoWhile(id ast.StmtID) {
	data, _ := ft.prog().Stmts.DoWhile(id)
	top := ft.fw.t.labels.Code("dotop")
	cont := ft.fw.t.labels.Code("docont")
	end := ft.fw.t.labels.Code("doend")
	ft.emit(ir.Label(top))
	ft.pushLoop(end, cont)
	ft.lowerStmt(data.Body)
	ft.popLoop()
	ft.emit(ir.Label(cont))
	ft.branchTo(data.Cond, true, top)
	ft.emit(ir.Label(end))
}

// lowerFor follows spec.md §4.4's literal sequence — initializer, top,
// jump-if-not end, body, update, jump top, end — and its explicit "break and
// continue bind as for while" rule, which means continue here jumps
// straight to top and skips the update expression, unlike the usual C
// reading of for-loop continue.
func (ft *funcTranslator) lowerFor(id ast.StmtID) {
	data, _ := ft.prog().Stmts.For(id)
	ft.frm.ScopeStart()
	start := len(ft.entries)
	if data.Init.IsValid() {
		ft.lowerStmt(data.Init)
	}
	top := ft.fw.t.labels.Code("ftop")
	end := ft.fw.t.labels.Code("fend")
	ft.emit(ir.Label(top))
	if data.Cond.IsValid() {
		ft.branchTo(data.Cond, false, end)
	}
	ft.pushLoop(end, top)
	ft.lowerStmt(data.Body)
	ft.popLoop()
	if data.Update.IsValid() {
		ft.lowerValue(data.Update)
	}
	ft.emit(ir.Jump(top))
	ft.emit(ir.Label(end))
	ft.spliceScope(start)
}

// lowerSwitch compiles the scrutinee once, threads an equality
// compare-and-jump per case from a dispatch header, and falls back to
// default (or past the switch, when absent). No fall-through is permitted:
// every case and the default end with an implicit jump past the switch.
func (ft *funcTranslator) lowerSwitch(id ast.StmtID) {
	data, _ := ft.prog().Stmts.Switch(id)
	prog := ft.prog()
	scrutType := prog.Exprs.Get(data.Scrutinee).ResultType
	scrutVal := ft.lowerValue(data.Scrutinee)
	size := sizeOf(prog, ft.fw.t.ptrSize, scrutType)
	end := ft.fw.t.labels.Code("swend")

	labels := make([]string, len(data.Cases))
	for i := range data.Cases {
		labels[i] = ft.fw.t.labels.Code("case")
	}
	defaultLabel := end
	if data.Default.IsValid() {
		defaultLabel = ft.fw.t.labels.Code("default")
	}

	for i, c := range data.Cases {
		cdata, _ := prog.Stmts.SwitchCase(c)
		for _, v := range cdata.Values {
			val := ft.lowerValue(v)
			ft.emit(ir.Entry{Op: ir.OpE, OpSize: size, Arg1: scrutVal, Arg2: val})
			j, _ := ir.JumpIf(ir.OpE, labels[i])
			ft.emit(j)
		}
	}
	ft.emit(ir.Jump(defaultLabel))

	ft.pushBreakOnly(end)
	for i, c := range data.Cases {
		ft.emit(ir.Label(labels[i]))
		cdata, _ := prog.Stmts.SwitchCase(c)
		for _, b := range cdata.Body {
			ft.lowerStmt(b)
		}
		ft.emit(ir.Jump(end))
	}
	if data.Default.IsValid() {
		ft.emit(ir.Label(defaultLabel))
		ddata, _ := prog.Stmts.SwitchDefault(data.Default)
		for _, b := range ddata.Body {
			ft.lowerStmt(b)
		}
		ft.emit(ir.Jump(end))
	}
	ft.popBreakOnly()
	ft.emit(ir.Label(end))
}

// lowerReturn evaluates the value (if any), casts it to the declared return
// type, stores it through the return-value access, then jumps to the
// function's single exit label (spec.md §4.4).
func (ft *funcTranslator) lowerReturn(id ast.StmtID) {
	data, _ := ft.prog().Stmts.Return(id)
	if data.Value.IsValid() {
		v := ft.lowerValue(data.Value)
		if ft.retAccess != nil {
			v = ft.convertValue(v, ft.prog().Exprs.Get(data.Value).ResultType, ft.retType)
			ft.emitAll(ft.retAccess.Store(v))
		}
	}
	ft.emit(ir.Jump(ft.exitLabel))
}

// lowerVarDecl requests a local slot per declared name, then (if present)
// lowers its initializer into that slot (spec.md §4.4).
func (ft *funcTranslator) lowerVarDecl(id ast.StmtID) {
	data, _ := ft.prog().Stmts.VarDecl(id)
	prog := ft.prog()
	for i, name := range data.Names {
		symID := symbols.FromSymbolRef(name.Resolved)
		sym := prog.Table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		declType := sym.Variable.Type
		access := ft.frm.AllocLocal(declType, sym.Variable.Escapes)
		sym.Variable.Access = access

		if i >= len(data.Initializers) || !data.Initializers[i].IsValid() {
			continue
		}
		init := data.Initializers[i]
		initNode := prog.Exprs.Get(init)
		if initNode != nil && initNode.Kind == ast.ExprAggregateInit {
			ft.storeAggregateInto(access.Address(), declType, init)
			continue
		}
		v := ft.lowerValue(init)
		v = ft.convertValue(v, initNode.ResultType, declType)
		ft.emitAll(access.Store(v))
	}
}
