package translate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vane/internal/ast"
	"vane/internal/backend/stackframe"
	"vane/internal/diag"
	"vane/internal/ir"
	"vane/internal/source"
	"vane/internal/symbols"
	"vane/internal/token"
	"vane/internal/types"
)

// fixture wires the minimum a translator/fileTranslator/funcTranslator
// needs without running the lexer or parser, mirroring internal/check's own
// hand-built-program test fixtures rather than parsing source text.
type fixture struct {
	strings     *source.Interner
	typesIn     *types.Interner
	items       *ast.Items
	stmts       *ast.Stmts
	exprs       *ast.Exprs
	typeSyns    *ast.TypeSyns
	prog        *symbols.Program
	res         *symbols.Resolver
	moduleScope symbols.ScopeID
	tr          *translator
	fw          *fileTranslator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	strs := source.NewInterner()
	typesIn := types.NewInterner()
	items := ast.NewItems(8)
	stmts := ast.NewStmts(8)
	exprs := ast.NewExprs(32)
	typeSyns := ast.NewTypeSyns(8)
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}

	prog := symbols.NewProgram(typesIn, items, stmts, exprs, typeSyns, strs, reporter)
	res := symbols.NewResolver(prog.Table, reporter)
	moduleScope := res.Enter(symbols.ScopeModule, symbols.ScopeOwner{}, source.Span{})
	moduleName := strs.Intern("test")
	prog.Modules[moduleName] = moduleScope

	tr := &translator{prog: prog, ptrSize: 8}
	fw := &fileTranslator{t: tr, moduleName: "test"}

	return &fixture{
		strings: strs, typesIn: typesIn, items: items, stmts: stmts, exprs: exprs,
		typeSyns: typeSyns, prog: prog, res: res, moduleScope: moduleScope, tr: tr, fw: fw,
	}
}

func (f *fixture) newFuncTranslator() *funcTranslator {
	ft := &funcTranslator{fw: f.fw, frm: stackframe.New(f.typesIn, f.tr.ptrSize)}
	ft.exitLabel = f.tr.labels.Code("exit")
	return ft
}

// declareVar installs a SymVariable directly in the module scope and
// returns an Identifier resolved onto it, the shape resolve_pass_a.go's
// completeVar produces.
func (f *fixture) declareVar(name string, t types.TypeID) ast.Identifier {
	nameID := f.strings.Intern(name)
	id, ok := f.res.Declare(nameID, source.Span{}, symbols.SymVariable, func(s *symbols.Symbol) {
		s.Variable = symbols.VariableData{Type: t}
	})
	if !ok {
		panic("declareVar: duplicate in test fixture")
	}
	return ast.Identifier{Name: nameID, Resolved: ast.SymbolRef(id)}
}

func (f *fixture) identExpr(id ast.Identifier) ast.ExprID {
	return f.exprs.NewIdent(source.Span{}, ast.ScopedId{Segments: []ast.Identifier{id}})
}

func (f *fixture) intLit(v uint64, t types.TypeID) ast.ExprID {
	id := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: v})
	f.exprs.SetResultType(id, t)
	return id
}

// setResultType is a thin wrapper kept for readability at call sites that
// build an expression and immediately annotate it, mirroring what
// internal/check's own assignment to Expr.ResultType does for every node.
func (f *fixture) setResultType(id ast.ExprID, t types.TypeID) ast.ExprID {
	f.exprs.SetResultType(id, t)
	return id
}

func TestTranslateFunctionEmitsReturnOfSum(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)

	argA := f.declareVar("a", intT)
	argB := f.declareVar("b", intT)

	left := f.setResultType(f.identExpr(argA), intT)
	right := f.setResultType(f.identExpr(argB), intT)
	sum := f.exprs.NewBinary(source.Span{}, ast.OpAdd, left, right)
	f.exprs.SetResultType(sum, intT)

	retStmt := f.stmts.NewReturn(source.Span{}, ast.ReturnStmtData{Value: sum})
	body := f.stmts.NewCompound(source.Span{}, ast.CompoundStmtData{Stmts: []ast.StmtID{retStmt}})

	fnName := ast.Identifier{Name: f.strings.Intern("add")}
	item := f.items.NewFunctionDefn(source.Span{}, ast.FunctionDefnData{
		Name:       fnName,
		ArgNames:   []ast.Identifier{argA, argB},
		Body:       body,
		LocalScope: ast.ScopeRef(f.moduleScope),
	})

	_, ok := f.res.DeclareOverload(f.typesIn, fnName.Name, source.Span{}, symbols.Overload{
		ReturnType: intT,
		ArgTypes:   []types.TypeID{intT, intT},
		Item:       item,
	})
	require.True(t, ok)

	data, ok := f.items.FunctionDefn(item)
	require.True(t, ok)
	f.fw.translateFunction(item, data)

	require.Len(t, f.fw.vec, 1)
	frag := f.fw.vec[0]
	require.Equal(t, ir.FragmentText, frag.Kind)

	var sawAdd, sawReturn bool
	for _, e := range frag.Entries {
		switch e.Op {
		case ir.OpAdd:
			sawAdd = true
		case ir.OpReturn:
			sawReturn = true
		}
	}
	require.True(t, sawAdd, "expected an OpAdd entry lowering a + b")
	require.True(t, sawReturn, "expected exactly one function exit via OpReturn")
	require.Equal(t, ir.OpReturn, frag.Entries[len(frag.Entries)-1].Op)

	ov, ok := f.prog.OverloadFor(f.moduleScope, fnName.Name, item)
	require.True(t, ok)
	require.NotNil(t, ov.Access)
	label, isGlobal := ov.Access.GetLabel()
	require.True(t, isGlobal)
	require.Equal(t, frag.Label, label)
}

func TestTranslateFunctionVoidReturnSkipsRetAccess(t *testing.T) {
	f := newFixture(t)

	body := f.stmts.NewCompound(source.Span{}, ast.CompoundStmtData{})
	fnName := ast.Identifier{Name: f.strings.Intern("noop")}
	item := f.items.NewFunctionDefn(source.Span{}, ast.FunctionDefnData{
		Name:       fnName,
		Body:       body,
		LocalScope: ast.ScopeRef(f.moduleScope),
	})
	_, ok := f.res.DeclareOverload(f.typesIn, fnName.Name, source.Span{}, symbols.Overload{
		ReturnType: types.NoTypeID,
		Item:       item,
	})
	require.True(t, ok)

	data, ok := f.items.FunctionDefn(item)
	require.True(t, ok)
	f.fw.translateFunction(item, data)

	require.Len(t, f.fw.vec, 1)
	entries := f.fw.vec[0].Entries
	last := entries[len(entries)-1]
	require.Equal(t, ir.OpReturn, last.Op)
	require.False(t, last.Arg1.IsSet())
}

func TestTranslateGlobalVarZeroInitializerGoesToBSS(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	name := f.declareVar("counter", intT)

	f.fw.translateGlobalVar(&ast.VarData{
		Names:        []ast.Identifier{name},
		Initializers: []ast.ExprID{f.intLit(0, intT)},
	})

	require.Len(t, f.fw.vec, 1)
	require.Equal(t, ir.FragmentBSS, f.fw.vec[0].Kind)
}

func TestTranslateGlobalVarNonZeroGoesToData(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	name := f.declareVar("counter", intT)

	f.fw.translateGlobalVar(&ast.VarData{
		Names:        []ast.Identifier{name},
		Initializers: []ast.ExprID{f.intLit(7, intT)},
	})

	require.Len(t, f.fw.vec, 1)
	require.Equal(t, ir.FragmentData, f.fw.vec[0].Kind)
	require.Len(t, f.fw.vec[0].Entries, 1)
	require.Equal(t, uint64(7), f.fw.vec[0].Entries[0].Arg1.IntBits)
}
