package ast

import (
	"vane/internal/arena"
	"vane/internal/source"
)

// StmtKind tags the shape of a statement (spec.md §3.2).
type StmtKind uint8

const (
	StmtCompound StmtKind = iota
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtSwitch
	StmtSwitchCase
	StmtSwitchDefault
	StmtBreak
	StmtContinue
	StmtReturn
	StmtAsm
	StmtExpr
	StmtNull
	StmtVarDecl
)

// Stmt is one statement; Payload indexes the matching per-kind arena below.
// StmtBreak, StmtContinue, and StmtNull carry no payload (NoPayloadID).
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// CompoundStmtData is a `{ ... }` block; it owns a nested symbol table for
// names declared directly inside it (spec.md §3.2, §4.2).
type CompoundStmtData struct {
	Stmts []StmtID
	Scope ScopeRef
}

type IfStmtData struct {
	Cond ExprID
	Then StmtID
	Else StmtID // NoStmtID when there is no else branch
}

type WhileStmtData struct {
	Cond ExprID
	Body StmtID
}

type DoWhileStmtData struct {
	Body StmtID
	Cond ExprID
}

// ForStmtData owns a symbol table covering the whole construct so a
// declaration in Init is visible to Cond, Update, and Body
// (spec.md §4.4's "initializer's scope covers the whole construct").
type ForStmtData struct {
	Init  StmtID // NoStmtID if absent; a StmtVarDecl or StmtExpr
	Cond  ExprID // NoExprID if absent
	Update ExprID // NoExprID if absent
	Body  StmtID
	Scope ScopeRef
}

// SwitchStmtData owns a symbol table for the scrutinee scope; Cases lists
// the switch-case children in source order, Default is NoStmtID if absent.
type SwitchStmtData struct {
	Scrutinee ExprID
	Cases     []StmtID // each a StmtSwitchCase
	Default   StmtID   // NoStmtID if absent, else a StmtSwitchDefault
	Scope     ScopeRef
}

// SwitchCaseStmtData is one `case v1, v2, ...: body` arm. Values are
// constant expressions; Body runs to an implicit break (spec.md §4.4:
// "fall-through between cases is not permitted").
type SwitchCaseStmtData struct {
	Values []ExprID
	Body   []StmtID
}

type SwitchDefaultStmtData struct {
	Body []StmtID
}

type ReturnStmtData struct {
	Value ExprID // NoExprID for a value-less return
}

// AsmStmtData is a verbatim inline-assembly statement.
type AsmStmtData struct {
	Text source.StringID
}

type ExprStmtData struct {
	Expr ExprID
}

// VarDeclStmtData is a variable declaration in statement position; it
// reuses the same shape as a top-level VarData (spec.md §3.2).
type VarDeclStmtData struct {
	Type         TypeSynID
	Names        []Identifier
	Initializers []ExprID
}

// Stmts owns every statement node and its per-kind payload.
type Stmts struct {
	Arena            *arena.Arena[Stmt]
	Compounds        *arena.Arena[CompoundStmtData]
	Ifs              *arena.Arena[IfStmtData]
	Whiles           *arena.Arena[WhileStmtData]
	DoWhiles         *arena.Arena[DoWhileStmtData]
	Fors             *arena.Arena[ForStmtData]
	Switches         *arena.Arena[SwitchStmtData]
	SwitchCases      *arena.Arena[SwitchCaseStmtData]
	SwitchDefaults   *arena.Arena[SwitchDefaultStmtData]
	Returns          *arena.Arena[ReturnStmtData]
	Asms             *arena.Arena[AsmStmtData]
	Exprs            *arena.Arena[ExprStmtData]
	VarDecls         *arena.Arena[VarDeclStmtData]
}

func NewStmts(capHint uint32) *Stmts {
	return &Stmts{
		Arena:          arena.New[Stmt](capHint),
		Compounds:      arena.New[CompoundStmtData](capHint / 4),
		Ifs:            arena.New[IfStmtData](capHint / 4),
		Whiles:         arena.New[WhileStmtData](capHint / 8),
		DoWhiles:       arena.New[DoWhileStmtData](capHint / 16),
		Fors:           arena.New[ForStmtData](capHint / 8),
		Switches:       arena.New[SwitchStmtData](capHint / 16),
		SwitchCases:    arena.New[SwitchCaseStmtData](capHint / 8),
		SwitchDefaults: arena.New[SwitchDefaultStmtData](capHint / 16),
		Returns:        arena.New[ReturnStmtData](capHint / 4),
		Asms:           arena.New[AsmStmtData](capHint / 16),
		Exprs:          arena.New[ExprStmtData](capHint / 2),
		VarDecls:       arena.New[VarDeclStmtData](capHint / 2),
	}
}

func (s *Stmts) Get(id StmtID) *Stmt { return s.Arena.Get(arena.ID(id)) }

func (s *Stmts) new(kind StmtKind, sp source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: sp, Payload: payload}))
}

// NewBreak / NewContinue / NewNull carry no payload.
func (s *Stmts) NewBreak(sp source.Span) StmtID    { return s.new(StmtBreak, sp, NoPayloadID) }
func (s *Stmts) NewContinue(sp source.Span) StmtID { return s.new(StmtContinue, sp, NoPayloadID) }
func (s *Stmts) NewNull(sp source.Span) StmtID     { return s.new(StmtNull, sp, NoPayloadID) }

func (s *Stmts) NewCompound(sp source.Span, data CompoundStmtData) StmtID {
	p := s.Compounds.Allocate(data)
	return s.new(StmtCompound, sp, PayloadID(p))
}

func (s *Stmts) Compound(id StmtID) (*CompoundStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtCompound {
		return nil, false
	}
	return s.Compounds.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewIf(sp source.Span, data IfStmtData) StmtID {
	p := s.Ifs.Allocate(data)
	return s.new(StmtIf, sp, PayloadID(p))
}

func (s *Stmts) If(id StmtID) (*IfStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtIf {
		return nil, false
	}
	return s.Ifs.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewWhile(sp source.Span, data WhileStmtData) StmtID {
	p := s.Whiles.Allocate(data)
	return s.new(StmtWhile, sp, PayloadID(p))
}

func (s *Stmts) While(id StmtID) (*WhileStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtWhile {
		return nil, false
	}
	return s.Whiles.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewDoWhile(sp source.Span, data DoWhileStmtData) StmtID {
	p := s.DoWhiles.Allocate(data)
	return s.new(StmtDoWhile, sp, PayloadID(p))
}

func (s *Stmts) DoWhile(id StmtID) (*DoWhileStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtDoWhile {
		return nil, false
	}
	return s.DoWhiles.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewFor(sp source.Span, data ForStmtData) StmtID {
	p := s.Fors.Allocate(data)
	return s.new(StmtFor, sp, PayloadID(p))
}

func (s *Stmts) For(id StmtID) (*ForStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtFor {
		return nil, false
	}
	return s.Fors.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewSwitch(sp source.Span, data SwitchStmtData) StmtID {
	p := s.Switches.Allocate(data)
	return s.new(StmtSwitch, sp, PayloadID(p))
}

func (s *Stmts) Switch(id StmtID) (*SwitchStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtSwitch {
		return nil, false
	}
	return s.Switches.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewSwitchCase(sp source.Span, data SwitchCaseStmtData) StmtID {
	p := s.SwitchCases.Allocate(data)
	return s.new(StmtSwitchCase, sp, PayloadID(p))
}

func (s *Stmts) SwitchCase(id StmtID) (*SwitchCaseStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtSwitchCase {
		return nil, false
	}
	return s.SwitchCases.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewSwitchDefault(sp source.Span, data SwitchDefaultStmtData) StmtID {
	p := s.SwitchDefaults.Allocate(data)
	return s.new(StmtSwitchDefault, sp, PayloadID(p))
}

func (s *Stmts) SwitchDefault(id StmtID) (*SwitchDefaultStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtSwitchDefault {
		return nil, false
	}
	return s.SwitchDefaults.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewReturn(sp source.Span, data ReturnStmtData) StmtID {
	p := s.Returns.Allocate(data)
	return s.new(StmtReturn, sp, PayloadID(p))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewAsm(sp source.Span, data AsmStmtData) StmtID {
	p := s.Asms.Allocate(data)
	return s.new(StmtAsm, sp, PayloadID(p))
}

func (s *Stmts) Asm(id StmtID) (*AsmStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtAsm {
		return nil, false
	}
	return s.Asms.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewExpr(sp source.Span, data ExprStmtData) StmtID {
	p := s.Exprs.Allocate(data)
	return s.new(StmtExpr, sp, PayloadID(p))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(arena.ID(n.Payload)), true
}

func (s *Stmts) NewVarDecl(sp source.Span, data VarDeclStmtData) StmtID {
	p := s.VarDecls.Allocate(data)
	return s.new(StmtVarDecl, sp, PayloadID(p))
}

func (s *Stmts) VarDecl(id StmtID) (*VarDeclStmtData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtVarDecl {
		return nil, false
	}
	return s.VarDecls.Get(arena.ID(n.Payload)), true
}
