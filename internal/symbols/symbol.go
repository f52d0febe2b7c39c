package symbols

import (
	"vane/internal/ast"
	"vane/internal/frame"
	"vane/internal/source"
	"vane/internal/types"
)

// SymbolKind classifies what kind of entry a name resolves to (spec.md
// §3.4): Variable, one of the four TypeDefinition shapes, or a function
// overload group.
type SymbolKind uint8

const (
	SymInvalid SymbolKind = iota
	SymVariable
	SymStruct
	SymUnion
	SymEnum
	SymTypedef
	SymFunctionGroup
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymStruct:
		return "struct"
	case SymUnion:
		return "union"
	case SymEnum:
		return "enum"
	case SymTypedef:
		return "typedef"
	case SymFunctionGroup:
		return "function"
	default:
		return "invalid"
	}
}

// IsTypeDefinition reports whether k is one of the TypeDefinition variants.
func (k SymbolKind) IsTypeDefinition() bool {
	switch k {
	case SymStruct, SymUnion, SymEnum, SymTypedef:
		return true
	default:
		return false
	}
}

// VariableData backs a SymVariable entry.
type VariableData struct {
	Type    types.TypeID
	Escapes bool
	Access  frame.Access // nil until the translator assigns a storage location
}

// StructData / UnionData back SymStruct / SymUnion entries. Incomplete is
// true between a forward declaration (`struct Foo;`) and its full body
// (spec.md §4.2's "forward declaration ... identity is preserved").
type StructData struct {
	Incomplete bool
	FieldTypes []types.TypeID
	FieldNames []source.StringID
}

type UnionData struct {
	Incomplete  bool
	OptionTypes []types.TypeID
	OptionNames []source.StringID
}

// EnumData backs a SymEnum entry; constant values are resolved i64s.
type EnumData struct {
	Incomplete     bool
	ConstantNames  []source.StringID
	ConstantValues []int64
}

// TypedefData backs a SymTypedef entry.
type TypedefData struct {
	Target types.TypeID
}

// Overload is one signature within a function group.
type Overload struct {
	ReturnType types.TypeID
	ArgTypes   []types.TypeID
	Access     frame.Access // the callable's global label, once translated
	Item       ast.ItemID   // the FunctionDefn/FunctionDecl this overload came from
}

// FunctionGroupData backs a SymFunctionGroup entry: every overload sharing
// this name, in declaration order.
type FunctionGroupData struct {
	Overloads []Overload
}

// Symbol is one entry in a scope's name table.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span

	Variable   VariableData
	Struct     StructData
	Union      UnionData
	Enum       EnumData
	Typedef    TypedefData
	FuncGroup  FunctionGroupData
}

// EntryRef converts a resolved symbol's identity into the opaque handle
// internal/types.Reference carries (types.EntryRef and SymbolID share the
// same underlying uint32 numbering by construction, since types never
// allocates EntryRef values itself — only internal/symbols does, via this
// conversion).
func (id SymbolID) EntryRef() types.EntryRef { return types.EntryRef(id) }

// FromEntryRef recovers the SymbolID a types.EntryRef was built from.
func FromEntryRef(e types.EntryRef) SymbolID { return SymbolID(e) }
