// Package ast defines the syntax tree vane's parser produces (spec.md
// §3.2): a tagged-variant node set, each node carrying a source.Span, owned
// by arena.Arena collections so the tree can be addressed by stable,
// copyable IDs instead of pointers.
package ast

// FileID identifies a parsed File node.
type FileID uint32

// NoFileID marks the absence of a file.
const NoFileID FileID = 0

// ItemID identifies a top-level declaration or definition within a File.
type ItemID uint32

// NoItemID marks the absence of an item.
const NoItemID ItemID = 0

// StmtID identifies a statement.
type StmtID uint32

// NoStmtID marks the absence of a statement.
const NoStmtID StmtID = 0

// ExprID identifies an expression.
type ExprID uint32

// NoExprID marks the absence of an expression.
const NoExprID ExprID = 0

// TypeSynID identifies a syntactic type expression (spec.md §3.2's "Types
// (syntactic)" shape — distinct from internal/types.Type, the resolved
// semantic type the checker produces from it).
type TypeSynID uint32

// NoTypeSynID marks the absence of a syntactic type.
const NoTypeSynID TypeSynID = 0

// FieldID identifies a struct/union field declaration.
type FieldID uint32

// ParamID identifies a function parameter.
type ParamID uint32

// EnumConstID identifies one enum constant declaration.
type EnumConstID uint32

// PayloadID indexes a per-kind payload arena for Expr/Stmt/Item/TypeSyn.
type PayloadID uint32

// NoPayloadID marks the absence of a payload.
const NoPayloadID PayloadID = 0

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeSynID) IsValid() bool { return id != NoTypeSynID }
