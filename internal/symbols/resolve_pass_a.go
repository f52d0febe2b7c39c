package symbols

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/types"
)

// FileUnit pairs a parsed File with the physical source file it came from.
type FileUnit struct {
	File       *ast.File
	SourceFile source.FileID
}

// Program is the shared state every resolution pass and the later type
// checker/translator consult: the symbol table, every module's root scope
// keyed by name, and the syntax-tree owners the resolver walks.
type Program struct {
	Table    *Table
	Types    *types.Interner
	Items    *ast.Items
	Stmts    *ast.Stmts
	Exprs    *ast.Exprs
	TypeSyns *ast.TypeSyns
	Strings  *source.Interner
	Reporter diag.Reporter

	Modules map[source.StringID]ScopeID // module name -> its root scope
	Units   []FileUnit
}

// NewProgram builds an empty Program over the given syntax-tree owners.
func NewProgram(typesIn *types.Interner, items *ast.Items, stmts *ast.Stmts, exprs *ast.Exprs, typeSyns *ast.TypeSyns, strings *source.Interner, reporter diag.Reporter) *Program {
	return &Program{
		Table:    NewTable(Hints{}, strings),
		Types:    typesIn,
		Items:    items,
		Stmts:    stmts,
		Exprs:    exprs,
		TypeSyns: typeSyns,
		Strings:  strings,
		Reporter: reporter,
		Modules:  make(map[source.StringID]ScopeID),
	}
}

// Resolve runs Pass A then Pass B over every unit (spec.md §4.2). All units
// are passed in together, so module scopes exist before any cross-file or
// cross-item name resolution is attempted.
func (p *Program) Resolve(units []FileUnit) {
	p.Units = units
	res := NewResolver(p.Table, p.Reporter)

	// Pass A, step 1: one scope per module and a skeleton entry for every
	// top-level name, so step 2 and Pass B can resolve references in any
	// declaration order within a module.
	for _, u := range units {
		p.declareModuleSkeletons(res, u)
	}

	// Pass A, step 2: fill in the skeletons now that every name in the
	// module is visible (struct fields, function signatures, variable
	// types, typedef targets).
	for _, u := range units {
		p.fillModuleBodies(res, u)
	}

	// Pass B: resolve imports, then walk function bodies to build nested
	// scopes and resolve every identifier reference.
	for _, u := range units {
		p.resolveImports(res, u)
	}
	for _, u := range units {
		p.walkFunctionBodies(res, u)
	}
}

func (p *Program) moduleScope(res *Resolver, u FileUnit) ScopeID {
	scope := p.Table.FileRoot(u.SourceFile, u.File.Span)
	u.File.Scope = ast.ScopeRef(scope)
	modName := u.File.Module.Id.Name
	if existing, ok := p.Modules[modName]; ok && existing != scope {
		// Two files declaring the same module name share one scope; the
		// first file's FileRoot call already created it, so fold into it.
		u.File.Scope = ast.ScopeRef(existing)
		return existing
	}
	p.Modules[modName] = scope
	return scope
}

func (p *Program) declareModuleSkeletons(res *Resolver, u FileUnit) {
	scope := p.moduleScope(res, u)
	res.EnterExisting(scope)
	defer res.Leave()

	for _, itemID := range u.File.Items {
		item := p.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemOpaque:
			data, _ := p.Items.Opaque(itemID)
			p.declareIncompleteAggregate(res, SymStruct, data.Name)
		case ast.ItemStruct:
			data, _ := p.Items.Struct(itemID)
			p.declareIncompleteAggregate(res, SymStruct, data.Name)
		case ast.ItemUnion:
			data, _ := p.Items.Union(itemID)
			p.declareIncompleteAggregate(res, SymUnion, data.Name)
		case ast.ItemEnum:
			data, _ := p.Items.Enum(itemID)
			p.declareIncompleteAggregate(res, SymEnum, data.Name)
		case ast.ItemTypedef:
			data, _ := p.Items.Typedef(itemID)
			res.Declare(data.Name.Name, data.Name.Span, SymTypedef, nil)
		case ast.ItemVar:
			data, _ := p.Items.Var(itemID)
			for _, n := range data.Names {
				res.Declare(n.Name, n.Span, SymVariable, func(s *Symbol) {
					s.Variable = VariableData{Type: types.NoTypeID}
				})
			}
		case ast.ItemFunctionDefn, ast.ItemFunctionDecl:
			// Overload groups are created lazily once argument types are
			// known (step 2), since DeclareOverload needs resolved types
			// to check pairwise distinctness.
		}
	}
}

func (p *Program) declareIncompleteAggregate(res *Resolver, kind SymbolKind, name ast.Identifier) {
	scope := p.Table.Scopes.Get(res.CurrentScope())
	if scope != nil {
		if ids := scope.NameIndex[name.Name]; len(ids) > 0 {
			if sym := p.Table.Symbols.Get(ids[0]); sym != nil && sym.Kind == kind {
				return // already forward-declared; step 2 completes it in place
			}
		}
	}
	res.Declare(name.Name, name.Span, kind, func(s *Symbol) {
		switch kind {
		case SymStruct:
			s.Struct = StructData{Incomplete: true}
		case SymUnion:
			s.Union = UnionData{Incomplete: true}
		case SymEnum:
			s.Enum = EnumData{Incomplete: true}
		}
	})
}

func (p *Program) fillModuleBodies(res *Resolver, u FileUnit) {
	scope := ScopeID(u.File.Scope)
	res.EnterExisting(scope)
	defer res.Leave()

	tr := &typeResolver{res: res, typeSyns: p.TypeSyns, exprs: p.Exprs, typesIn: p.Types, reporter: p.Reporter, modules: p.Modules}

	for _, itemID := range u.File.Items {
		item := p.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemStruct:
			data, _ := p.Items.Struct(itemID)
			p.completeStruct(scope, data, tr)
		case ast.ItemUnion:
			data, _ := p.Items.Union(itemID)
			p.completeUnion(scope, data, tr)
		case ast.ItemEnum:
			data, _ := p.Items.Enum(itemID)
			p.completeEnum(scope, data)
		case ast.ItemTypedef:
			data, _ := p.Items.Typedef(itemID)
			p.completeTypedef(scope, data, tr)
		case ast.ItemVar:
			data, _ := p.Items.Var(itemID)
			p.completeVar(scope, data, tr)
		case ast.ItemFunctionDefn:
			data, _ := p.Items.FunctionDefn(itemID)
			p.declareFunction(res, tr, itemID, data.Name, data.ReturnType, data.ArgTypes)
		case ast.ItemFunctionDecl:
			data, _ := p.Items.FunctionDecl(itemID)
			p.declareFunction(res, tr, itemID, data.Name, data.ReturnType, data.ArgTypes)
		}
	}
}

func (p *Program) findSymbolInScope(scope ScopeID, name source.StringID) *Symbol {
	s := p.Table.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	ids := s.NameIndex[name]
	if len(ids) == 0 {
		return nil
	}
	return p.Table.Symbols.Get(ids[0])
}

func (p *Program) completeStruct(scope ScopeID, data *ast.StructData, tr *typeResolver) {
	sym := p.findSymbolInScope(scope, data.Name.Name)
	if sym == nil {
		return
	}
	fieldTypes := make([]types.TypeID, len(data.FieldTypes))
	fieldNames := make([]source.StringID, len(data.FieldNames))
	for i, ft := range data.FieldTypes {
		fieldTypes[i] = tr.Resolve(ft)
	}
	for i, fn := range data.FieldNames {
		fieldNames[i] = fn.Name
	}
	sym.Struct = StructData{Incomplete: false, FieldTypes: fieldTypes, FieldNames: fieldNames}
}

func (p *Program) completeUnion(scope ScopeID, data *ast.UnionData, tr *typeResolver) {
	sym := p.findSymbolInScope(scope, data.Name.Name)
	if sym == nil {
		return
	}
	optTypes := make([]types.TypeID, len(data.OptionTypes))
	optNames := make([]source.StringID, len(data.OptionNames))
	for i, ot := range data.OptionTypes {
		optTypes[i] = tr.Resolve(ot)
	}
	for i, on := range data.OptionNames {
		optNames[i] = on.Name
	}
	sym.Union = UnionData{Incomplete: false, OptionTypes: optTypes, OptionNames: optNames}
}

func (p *Program) completeEnum(scope ScopeID, data *ast.EnumData) {
	sym := p.findSymbolInScope(scope, data.Name.Name)
	if sym == nil {
		return
	}
	names := make([]source.StringID, len(data.Constants))
	values := make([]int64, len(data.Constants))
	next := int64(0)
	for i, c := range data.Constants {
		names[i] = c.Name.Name
		if c.Init.IsValid() {
			if lit, ok := p.Exprs.Literal(c.Init); ok && lit.Kind == ast.LitInt {
				next = int64(lit.IntVal)
			}
		}
		values[i] = next
		next++
	}
	sym.Enum = EnumData{Incomplete: false, ConstantNames: names, ConstantValues: values}
}

func (p *Program) completeTypedef(scope ScopeID, data *ast.TypedefData, tr *typeResolver) {
	sym := p.findSymbolInScope(scope, data.Name.Name)
	if sym == nil {
		return
	}
	sym.Typedef = TypedefData{Target: tr.Resolve(data.Target)}
}

func (p *Program) completeVar(scope ScopeID, data *ast.VarData, tr *typeResolver) {
	resolved := tr.Resolve(data.Type)
	for i := range data.Names {
		n := &data.Names[i]
		if symID, ok := p.findSymbolIDInScope(scope, n.Name); ok {
			if sym := p.Table.Symbols.Get(symID); sym != nil {
				sym.Variable.Type = resolved
			}
			n.Resolved = symID.ref()
		}
	}
}

func (p *Program) findSymbolIDInScope(scope ScopeID, name source.StringID) (SymbolID, bool) {
	s := p.Table.Scopes.Get(scope)
	if s == nil {
		return NoSymbolID, false
	}
	ids := s.NameIndex[name]
	if len(ids) == 0 {
		return NoSymbolID, false
	}
	return ids[0], true
}

func (p *Program) declareFunction(res *Resolver, tr *typeResolver, item ast.ItemID, name ast.Identifier, retSyn ast.TypeSynID, argSyns []ast.TypeSynID) {
	ret := tr.Resolve(retSyn)
	args := make([]types.TypeID, len(argSyns))
	for i, a := range argSyns {
		args[i] = tr.Resolve(a)
	}
	res.DeclareOverload(p.Types, name.Name, name.Span, Overload{ReturnType: ret, ArgTypes: args, Item: item})
}

// OverloadFor recovers the resolved signature the declaration pass computed
// for a given function item, so a later pass (internal/check's return-type
// checking) doesn't need to re-resolve the item's syntactic return/argument
// types itself.
func (p *Program) OverloadFor(moduleScope ScopeID, name source.StringID, item ast.ItemID) (Overload, bool) {
	scope := p.Table.Scopes.Get(moduleScope)
	if scope == nil {
		return Overload{}, false
	}
	for _, symID := range scope.NameIndex[name] {
		sym := p.Table.Symbols.Get(symID)
		if sym == nil || sym.Kind != SymFunctionGroup {
			continue
		}
		for _, ov := range sym.FuncGroup.Overloads {
			if ov.Item == item {
				return ov, true
			}
		}
	}
	return Overload{}, false
}
