package check

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/symbols"
	"vane/internal/token"
	"vane/internal/types"
)

// fixture bundles the minimal owner set a Checker needs, built directly
// (no lexer/parser pass) so each test wires only the nodes it exercises,
// mirroring the teacher's own sema tests building ast.Builder state by hand
// rather than parsing source text.
type fixture struct {
	c        *Checker
	exprs    *ast.Exprs
	stmts    *ast.Stmts
	typeSyns *ast.TypeSyns
	typesIn  *types.Interner
	table    *symbols.Table
	strings  *source.Interner
	bag      *diag.Bag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	strings := source.NewInterner()
	typesIn := types.NewInterner()
	items := ast.NewItems(8)
	stmts := ast.NewStmts(8)
	exprs := ast.NewExprs(32)
	typeSyns := ast.NewTypeSyns(8)
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}

	prog := symbols.NewProgram(typesIn, items, stmts, exprs, typeSyns, strings, reporter)
	c := &Checker{prog: prog, reporter: reporter, ptrSize: 8}
	return &fixture{
		c: c, exprs: exprs, stmts: stmts, typeSyns: typeSyns,
		typesIn: typesIn, table: prog.Table, strings: strings, bag: bag,
	}
}

// declareVar installs a SymVariable entry and returns an Identifier whose
// Resolved backlink points at it, the same shape resolve_pass_a.go's
// completeVar and resolve_pass_b.go's StmtVarDecl case produce.
func (f *fixture) declareVar(name string, t types.TypeID) ast.Identifier {
	symID := f.table.Symbols.New(symbols.Symbol{
		Name:     f.strings.Intern(name),
		Kind:     symbols.SymVariable,
		Variable: symbols.VariableData{Type: t},
	})
	return ast.Identifier{Name: f.strings.Intern(name), Resolved: ast.SymbolRef(symID)}
}

func (f *fixture) identExpr(id ast.Identifier) ast.ExprID {
	return f.exprs.NewIdent(source.Span{}, ast.ScopedId{Segments: []ast.Identifier{id}})
}

func (f *fixture) intLit(v uint64) ast.ExprID {
	return f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: v})
}

func TestLiteralTypingDefaults(t *testing.T) {
	f := newFixture(t)

	floatLit := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitFloat, FloatVal: 1.5})
	require.True(t, f.typesIn.Equal(f.c.checkExpr(floatLit), f.typesIn.Keyword(token.KwDouble)))

	nullLit := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitNull})
	nullType := f.c.checkExpr(nullLit)
	ptr, ok := f.typesIn.PointerOf(nullType)
	require.True(t, ok)
	require.Equal(t, types.NoTypeID, ptr.Base)

	trueLit := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitTrue})
	require.True(t, f.typesIn.Equal(f.c.checkExpr(trueLit), f.typesIn.Keyword(token.KwBool)))
}

func TestNullLiteralConvertibleToAnyPointer(t *testing.T) {
	f := newFixture(t)
	intPtr := f.typesIn.Pointer(f.typesIn.Keyword(token.KwInt))
	nullLit := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitNull})
	nullType := f.c.checkExpr(nullLit)
	require.True(t, f.typesIn.ImplicitlyConvertible(nullType, intPtr))
}

func TestVarInitializerTypeMismatchReported(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	name := f.declareVar("x", intT)

	boolLit := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitTrue})
	f.c.checkVarInitializers([]ast.Identifier{name}, []ast.ExprID{boolLit})
	require.Equal(t, 1, f.bag.Len())
	require.Equal(t, diag.TypeNotConvertible, f.bag.Items()[0].Code)
}

func TestVarInitializerWideningIsClean(t *testing.T) {
	f := newFixture(t)
	longT := f.typesIn.Keyword(token.KwLong)
	name := f.declareVar("x", longT)

	lit := f.intLit(5)
	f.c.checkVarInitializers([]ast.Identifier{name}, []ast.ExprID{lit})
	require.Equal(t, 0, f.bag.Len())
}

func TestBinaryArithmeticCommonType(t *testing.T) {
	f := newFixture(t)
	shortV := f.declareVar("a", f.typesIn.Keyword(token.KwShort))
	longV := f.declareVar("b", f.typesIn.Keyword(token.KwLong))

	add := f.exprs.NewBinary(source.Span{}, ast.OpAdd, f.identExpr(shortV), f.identExpr(longV))
	result := f.c.checkExpr(add)
	require.True(t, f.typesIn.Equal(result, f.typesIn.Keyword(token.KwLong)))
	require.Equal(t, 0, f.bag.Len())
}

func TestShiftResultIsLeftOperandType(t *testing.T) {
	f := newFixture(t)
	left := f.declareVar("a", f.typesIn.Keyword(token.KwShort))
	right := f.declareVar("b", f.typesIn.Keyword(token.KwInt))

	shl := f.exprs.NewBinary(source.Span{}, ast.OpShl, f.identExpr(left), f.identExpr(right))
	result := f.c.checkExpr(shl)
	require.True(t, f.typesIn.Equal(result, f.typesIn.Keyword(token.KwShort)))
}

func TestAssignRequiresAssignableLeftSide(t *testing.T) {
	f := newFixture(t)
	assign := f.exprs.NewBinary(source.Span{}, ast.OpAssign, f.intLit(1), f.intLit(2))
	f.c.checkExpr(assign)
	require.Equal(t, 1, f.bag.Len())
	require.Equal(t, diag.TypeNotAssignable, f.bag.Items()[0].Code)
}

func TestCompoundAssignComputesThenConvertsBack(t *testing.T) {
	f := newFixture(t)
	name := f.declareVar("x", f.typesIn.Keyword(token.KwInt))

	addAssign := f.exprs.NewBinary(source.Span{}, ast.OpAddAssign, f.identExpr(name), f.intLit(1))
	result := f.c.checkExpr(addAssign)
	require.True(t, f.typesIn.Equal(result, f.typesIn.Keyword(token.KwInt)))
	require.Equal(t, 0, f.bag.Len())
}

func TestLogicalRequiresBoolOperands(t *testing.T) {
	f := newFixture(t)
	logical := f.exprs.NewLogical(source.Span{}, ast.LogAnd, f.intLit(1), f.intLit(0))
	f.c.checkExpr(logical)
	require.Equal(t, 1, f.bag.Len())
}

func TestSpaceshipResultIsByte(t *testing.T) {
	f := newFixture(t)
	cmp := f.exprs.NewComparison(source.Span{}, ast.CmpSpaceship, f.intLit(1), f.intLit(2))
	result := f.c.checkExpr(cmp)
	require.True(t, f.typesIn.Equal(result, f.typesIn.Keyword(token.KwByte)))
}

func TestUnaryDerefAndAddr(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	ptrVar := f.declareVar("p", f.typesIn.Pointer(intT))

	deref := f.exprs.NewUnary(source.Span{}, ast.UnDeref, f.identExpr(ptrVar))
	require.True(t, f.typesIn.Equal(f.c.checkExpr(deref), intT))

	addr := f.exprs.NewUnary(source.Span{}, ast.UnAddr, f.identExpr(ptrVar))
	addrType := f.c.checkExpr(addr)
	p, ok := f.typesIn.PointerOf(addrType)
	require.True(t, ok)
	require.True(t, f.typesIn.Equal(p.Base, f.typesIn.Pointer(intT)))
}

func TestIndexRequiresIntegerAndYieldsElementType(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	arrayVar := f.declareVar("arr", f.typesIn.Array(intT, 4))

	idx := f.exprs.NewIndex(source.Span{}, f.identExpr(arrayVar), f.intLit(1))
	result := f.c.checkExpr(idx)
	require.True(t, f.typesIn.Equal(result, intT))
	require.Equal(t, 0, f.bag.Len())
}

func TestMemberAccessThroughArrow(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	xName := f.strings.Intern("x")
	structSym := f.table.Symbols.New(symbols.Symbol{
		Name: f.strings.Intern("Point"),
		Kind: symbols.SymStruct,
		Struct: symbols.StructData{
			FieldNames: []source.StringID{xName},
			FieldTypes: []types.TypeID{intT},
		},
	})
	structType := f.typesIn.Reference(structSym.EntryRef(), f.strings.Intern("Point"))
	ptrVar := f.declareVar("p", f.typesIn.Pointer(structType))

	member := f.exprs.NewMember(source.Span{}, f.identExpr(ptrVar), xName, true)
	result := f.c.checkExpr(member)
	require.True(t, f.typesIn.Equal(result, intT))
}

func TestCallOverloadResolution(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	longT := f.typesIn.Keyword(token.KwLong)

	groupSym := f.table.Symbols.New(symbols.Symbol{
		Name: f.strings.Intern("add"),
		Kind: symbols.SymFunctionGroup,
		FuncGroup: symbols.FunctionGroupData{
			Overloads: []symbols.Overload{
				{ReturnType: intT, ArgTypes: []types.TypeID{intT, intT}},
				{ReturnType: longT, ArgTypes: []types.TypeID{longT, longT}},
			},
		},
	})
	calleeName := ast.Identifier{Name: f.strings.Intern("add"), Resolved: ast.SymbolRef(groupSym)}
	callee := f.identExpr(calleeName)

	call := f.exprs.NewCall(source.Span{}, callee, []ast.ExprID{f.intLit(1), f.intLit(2)})
	result := f.c.checkExpr(call)
	require.True(t, f.typesIn.Equal(result, intT))
	require.Equal(t, 0, f.bag.Len())
}

func TestCallNoMatchingOverloadReported(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)

	groupSym := f.table.Symbols.New(symbols.Symbol{
		Name: f.strings.Intern("one"),
		Kind: symbols.SymFunctionGroup,
		FuncGroup: symbols.FunctionGroupData{
			Overloads: []symbols.Overload{
				{ReturnType: intT, ArgTypes: []types.TypeID{intT}},
			},
		},
	})
	calleeName := ast.Identifier{Name: f.strings.Intern("one"), Resolved: ast.SymbolRef(groupSym)}
	callee := f.identExpr(calleeName)

	call := f.exprs.NewCall(source.Span{}, callee, []ast.ExprID{f.intLit(1), f.intLit(2)})
	f.c.checkExpr(call)
	require.Equal(t, 1, f.bag.Len())
	require.Equal(t, diag.TypeNoOverload, f.bag.Items()[0].Code)
}

func TestCastExplicitConvertibility(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	ptrVar := f.declareVar("n", intT)

	intSyn := f.typeSyns.NewKeyword(source.Span{}, token.KwInt)
	ptrSyn := f.typeSyns.NewPointer(source.Span{}, intSyn)

	cast := f.exprs.NewCast(source.Span{}, ptrSyn, f.identExpr(ptrVar))
	result := f.c.checkExpr(cast)

	p, ok := f.typesIn.PointerOf(result)
	require.True(t, ok)
	require.True(t, f.typesIn.Equal(p.Base, intT))
	require.Equal(t, 0, f.bag.Len(), "int->pointer is a legal explicit cast")
}

func TestSwitchCaseConvertibility(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	caseStmt := f.stmts.NewSwitchCase(source.Span{}, ast.SwitchCaseStmtData{Values: []ast.ExprID{f.intLit(1)}})

	f.c.switchScrutinee = intT
	f.c.checkStmt(caseStmt)
	require.Equal(t, 0, f.bag.Len())
}

func TestReturnVoidFunctionRejectsValue(t *testing.T) {
	f := newFixture(t)
	ret := f.stmts.NewReturn(source.Span{}, ast.ReturnStmtData{Value: f.intLit(1)})

	f.c.currentReturn = types.NoTypeID
	f.c.checkStmt(ret)
	require.Equal(t, 1, f.bag.Len())
}

func TestConditionMustBeBool(t *testing.T) {
	f := newFixture(t)
	whileStmt := f.stmts.NewWhile(source.Span{}, ast.WhileStmtData{Cond: f.intLit(1), Body: f.stmts.NewNull(source.Span{})})

	f.c.checkStmt(whileStmt)
	require.Equal(t, 1, f.bag.Len())
	require.Equal(t, diag.TypeNonBoolCondition, f.bag.Items()[0].Code)
}
