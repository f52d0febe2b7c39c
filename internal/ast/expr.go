package ast

import (
	"vane/internal/arena"
	"vane/internal/source"
	"vane/internal/token"
	"vane/internal/types"
)

// ExprKind tags the shape of an expression node (spec.md §3.2).
type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLiteral
	ExprSequence
	ExprBinary
	ExprUnary
	ExprComparison
	ExprLogical
	ExprTernary
	ExprMember
	ExprIndex
	ExprCall
	ExprAggregateInit
	ExprCast
	ExprSizeofType
	ExprSizeofExpr
)

// Expr is every expression's common header: its shape tag, source span,
// per-kind payload, and the result-type slot the checker populates
// (spec.md §3.2, §4.3). ResultType is types.NoTypeID until then.
type Expr struct {
	Kind       ExprKind
	Span       source.Span
	Payload    PayloadID
	ResultType types.TypeID
}

// BinaryOp enumerates the arithmetic, bitwise, shift, and assignment
// operators that share the generic "binary" shape (spec.md §6.3).
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign // &=
	OpOrAssign  // |=
	OpXorAssign // ^=
)

// ComparisonOp enumerates the relational operators, kept distinct from
// BinaryOp because their result is always bool (or, for spaceship, byte)
// regardless of operand type (spec.md §4.3).
type ComparisonOp uint8

const (
	CmpEq ComparisonOp = iota
	CmpNotEq
	CmpLess
	CmpGreater
	CmpLessEq
	CmpGreaterEq
	CmpSpaceship
)

// LogicalOp enumerates short-circuit && / || and their assigning forms.
type LogicalOp uint8

const (
	LogAnd LogicalOp = iota
	LogOr
	LogAndAssign
	LogOrAssign
)

// UnaryOp enumerates the unary operators, tagged with whether ++/-- apply
// before or after evaluation.
type UnaryOp uint8

const (
	UnNeg UnaryOp = iota
	UnNot
	UnBitNot
	UnDeref
	UnAddr
	UnPreInc
	UnPreDec
	UnPostInc
	UnPostDec
)

type ExprIdentData struct{ Name ScopedId }

// LiteralKind tags a literal's typed payload (spec.md §3.2).
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitChar
	LitWideChar
	LitString
	LitWideString
	LitTrue
	LitFalse
	LitNull
)

type ExprLiteralData struct {
	Kind    LiteralKind
	IntVal  uint64
	FloatVal float64
	Text    source.StringID // interned string/char payload
}

type ExprSequenceData struct{ Elements []ExprID }

type ExprBinaryData struct {
	Op          BinaryOp
	Left, Right ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprComparisonData struct {
	Op          ComparisonOp
	Left, Right ExprID
}

type ExprLogicalData struct {
	Op          LogicalOp
	Left, Right ExprID
}

type ExprTernaryData struct{ Cond, Then, Else ExprID }

// ExprMemberData covers both `.` and `->` (Arrow distinguishes them).
type ExprMemberData struct {
	Target ExprID
	Field  source.StringID
	Arrow  bool
}

// ExprIndexData is `a[i]` (spec.md §4.4's array subscript).
type ExprIndexData struct {
	Array, Index ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

// ExprAggregateInitData is a `{ ... }` initializer; Type is nil
// (NoTypeSynID) for an untyped brace list whose element types the checker
// infers (spec.md §3.3's Aggregate-init variant).
type ExprAggregateInitData struct {
	Type     TypeSynID
	Elements []ExprID
}

type ExprCastData struct {
	Target TypeSynID
	Value  ExprID
}

type ExprSizeofTypeData struct{ Target TypeSynID }

type ExprSizeofExprData struct{ Operand ExprID }

// Exprs owns every expression node and its per-kind payload arena.
type Exprs struct {
	Arena       *arena.Arena[Expr]
	Idents      *arena.Arena[ExprIdentData]
	Literals    *arena.Arena[ExprLiteralData]
	Sequences   *arena.Arena[ExprSequenceData]
	Binaries    *arena.Arena[ExprBinaryData]
	Unaries     *arena.Arena[ExprUnaryData]
	Comparisons *arena.Arena[ExprComparisonData]
	Logicals    *arena.Arena[ExprLogicalData]
	Ternaries   *arena.Arena[ExprTernaryData]
	Members     *arena.Arena[ExprMemberData]
	Indices     *arena.Arena[ExprIndexData]
	Calls       *arena.Arena[ExprCallData]
	Aggregates  *arena.Arena[ExprAggregateInitData]
	Casts       *arena.Arena[ExprCastData]
	SizeofTypes *arena.Arena[ExprSizeofTypeData]
	SizeofExprs *arena.Arena[ExprSizeofExprData]
}

func NewExprs(capHint uint32) *Exprs {
	return &Exprs{
		Arena:       arena.New[Expr](capHint),
		Idents:      arena.New[ExprIdentData](capHint / 2),
		Literals:    arena.New[ExprLiteralData](capHint / 2),
		Sequences:   arena.New[ExprSequenceData](capHint / 16),
		Binaries:    arena.New[ExprBinaryData](capHint / 2),
		Unaries:     arena.New[ExprUnaryData](capHint / 4),
		Comparisons: arena.New[ExprComparisonData](capHint / 4),
		Logicals:    arena.New[ExprLogicalData](capHint / 8),
		Ternaries:   arena.New[ExprTernaryData](capHint / 16),
		Members:     arena.New[ExprMemberData](capHint / 4),
		Indices:     arena.New[ExprIndexData](capHint / 8),
		Calls:       arena.New[ExprCallData](capHint / 4),
		Aggregates:  arena.New[ExprAggregateInitData](capHint / 16),
		Casts:       arena.New[ExprCastData](capHint / 16),
		SizeofTypes: arena.New[ExprSizeofTypeData](capHint / 32),
		SizeofExprs: arena.New[ExprSizeofExprData](capHint / 32),
	}
}

func (e *Exprs) Get(id ExprID) *Expr { return e.Arena.Get(arena.ID(id)) }

// SetResultType records the type checker's annotation for id (spec.md §4.3).
func (e *Exprs) SetResultType(id ExprID, t types.TypeID) {
	n := e.Get(id)
	if n != nil {
		n.ResultType = t
	}
}

func (e *Exprs) new(kind ExprKind, sp source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: sp, Payload: payload, ResultType: types.NoTypeID}))
}

func (e *Exprs) NewIdent(sp source.Span, name ScopedId) ExprID {
	p := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, sp, PayloadID(p))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewLiteral(sp source.Span, data ExprLiteralData) ExprID {
	p := e.Literals.Allocate(data)
	return e.new(ExprLiteral, sp, PayloadID(p))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprLiteral {
		return nil, false
	}
	return e.Literals.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewSequence(sp source.Span, elems []ExprID) ExprID {
	p := e.Sequences.Allocate(ExprSequenceData{Elements: append([]ExprID(nil), elems...)})
	return e.new(ExprSequence, sp, PayloadID(p))
}

func (e *Exprs) Sequence(id ExprID) (*ExprSequenceData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprSequence {
		return nil, false
	}
	return e.Sequences.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewBinary(sp source.Span, op BinaryOp, left, right ExprID) ExprID {
	p := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, sp, PayloadID(p))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewUnary(sp source.Span, op UnaryOp, operand ExprID) ExprID {
	p := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, sp, PayloadID(p))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewComparison(sp source.Span, op ComparisonOp, left, right ExprID) ExprID {
	p := e.Comparisons.Allocate(ExprComparisonData{Op: op, Left: left, Right: right})
	return e.new(ExprComparison, sp, PayloadID(p))
}

func (e *Exprs) Comparison(id ExprID) (*ExprComparisonData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprComparison {
		return nil, false
	}
	return e.Comparisons.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewLogical(sp source.Span, op LogicalOp, left, right ExprID) ExprID {
	p := e.Logicals.Allocate(ExprLogicalData{Op: op, Left: left, Right: right})
	return e.new(ExprLogical, sp, PayloadID(p))
}

func (e *Exprs) Logical(id ExprID) (*ExprLogicalData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprLogical {
		return nil, false
	}
	return e.Logicals.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewTernary(sp source.Span, cond, then, els ExprID) ExprID {
	p := e.Ternaries.Allocate(ExprTernaryData{Cond: cond, Then: then, Else: els})
	return e.new(ExprTernary, sp, PayloadID(p))
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprTernary {
		return nil, false
	}
	return e.Ternaries.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewMember(sp source.Span, target ExprID, field source.StringID, arrow bool) ExprID {
	p := e.Members.Allocate(ExprMemberData{Target: target, Field: field, Arrow: arrow})
	return e.new(ExprMember, sp, PayloadID(p))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprMember {
		return nil, false
	}
	return e.Members.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewIndex(sp source.Span, array, index ExprID) ExprID {
	p := e.Indices.Allocate(ExprIndexData{Array: array, Index: index})
	return e.new(ExprIndex, sp, PayloadID(p))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewCall(sp source.Span, callee ExprID, args []ExprID) ExprID {
	p := e.Calls.Allocate(ExprCallData{Callee: callee, Args: append([]ExprID(nil), args...)})
	return e.new(ExprCall, sp, PayloadID(p))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewAggregateInit(sp source.Span, typ TypeSynID, elems []ExprID) ExprID {
	p := e.Aggregates.Allocate(ExprAggregateInitData{Type: typ, Elements: append([]ExprID(nil), elems...)})
	return e.new(ExprAggregateInit, sp, PayloadID(p))
}

func (e *Exprs) AggregateInit(id ExprID) (*ExprAggregateInitData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprAggregateInit {
		return nil, false
	}
	return e.Aggregates.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewCast(sp source.Span, target TypeSynID, value ExprID) ExprID {
	p := e.Casts.Allocate(ExprCastData{Target: target, Value: value})
	return e.new(ExprCast, sp, PayloadID(p))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewSizeofType(sp source.Span, target TypeSynID) ExprID {
	p := e.SizeofTypes.Allocate(ExprSizeofTypeData{Target: target})
	return e.new(ExprSizeofType, sp, PayloadID(p))
}

func (e *Exprs) SizeofType(id ExprID) (*ExprSizeofTypeData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprSizeofType {
		return nil, false
	}
	return e.SizeofTypes.Get(arena.ID(n.Payload)), true
}

func (e *Exprs) NewSizeofExpr(sp source.Span, operand ExprID) ExprID {
	p := e.SizeofExprs.Allocate(ExprSizeofExprData{Operand: operand})
	return e.new(ExprSizeofExpr, sp, PayloadID(p))
}

func (e *Exprs) SizeofExpr(id ExprID) (*ExprSizeofExprData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprSizeofExpr {
		return nil, false
	}
	return e.SizeofExprs.Get(arena.ID(n.Payload)), true
}

// AssignOpFor maps a plain or compound assignment token kind to its BinaryOp
// form. ok is false for every other kind, including `&&=` and `||=`, which
// the parser builds as LogicalOp nodes itself.
func AssignOpFor(k token.Kind) (BinaryOp, bool) {
	switch k {
	case token.Assign:
		return OpAssign, true
	case token.PlusAssign:
		return OpAddAssign, true
	case token.MinusAssign:
		return OpSubAssign, true
	case token.StarAssign:
		return OpMulAssign, true
	case token.SlashAssign:
		return OpDivAssign, true
	case token.PercentAssign:
		return OpModAssign, true
	case token.ShlAssign:
		return OpShlAssign, true
	case token.ShrAssign:
		return OpShrAssign, true
	case token.AmpAssign:
		return OpAndAssign, true
	case token.PipeAssign:
		return OpOrAssign, true
	case token.CaretAssign:
		return OpXorAssign, true
	default:
		return 0, false
	}
}
