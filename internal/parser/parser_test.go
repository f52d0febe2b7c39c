package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/lexer"
	"vane/internal/parser"
	"vane/internal/source"
	"vane/internal/token"
)

// harness bundles the arenas one parseSource call needs, mirroring the
// lexer package's own lexAll test helper.
type harness struct {
	strings  *source.Interner
	files    *ast.Files
	items    *ast.Items
	stmts    *ast.Stmts
	exprs    *ast.Exprs
	typeSyns *ast.TypeSyns
	bag      *diag.Bag
}

func newHarness() *harness {
	return &harness{
		strings:  source.NewInterner(),
		files:    ast.NewFiles(4),
		items:    ast.NewItems(16),
		stmts:    ast.NewStmts(32),
		exprs:    ast.NewExprs(32),
		typeSyns: ast.NewTypeSyns(16),
		bag:      diag.NewBag(64),
	}
}

func (h *harness) parse(t *testing.T, src string, isCode bool) (*ast.File, bool) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.Add("test.src", []byte(src))
	lx := lexer.New(fs.Get(fid), lexer.Options{Reporter: diag.BagReporter{Bag: h.bag}, Interner: h.strings})
	deps := parser.Deps{
		Interner: h.strings, Reporter: diag.BagReporter{Bag: h.bag},
		Files: h.files, Items: h.items, Stmts: h.stmts, Exprs: h.exprs, TypeSyns: h.typeSyns,
	}
	filename := h.strings.Intern("test.src")
	fileID, ok := parser.ParseFile(lx, deps, filename, isCode)
	if !ok {
		return nil, false
	}
	return h.files.Get(fileID), true
}

func TestParseModuleAndImports(t *testing.T) {
	h := newHarness()
	f, ok := h.parse(t, "module a; import b; import c;", true)
	require.True(t, ok)
	require.Equal(t, 0, h.bag.Len())
	require.Len(t, f.Imports, 2)
	require.Empty(t, f.Items)
}

func TestParseFunctionDefinition(t *testing.T) {
	h := newHarness()
	f, ok := h.parse(t, "module a; int main() { return 0; }", true)
	require.True(t, ok)
	require.Equal(t, 0, h.bag.Len())
	require.Len(t, f.Items, 1)

	data, ok := h.items.FunctionDefn(f.Items[0])
	require.True(t, ok)
	require.Equal(t, "main", h.strings.MustLookup(data.Name.Name))
	require.NotEqual(t, ast.NoStmtID, data.Body)
}

func TestParseFunctionDeclarationNoBody(t *testing.T) {
	h := newHarness()
	f, ok := h.parse(t, "module a; int add(int x, int y);", true)
	require.True(t, ok)
	require.Equal(t, 0, h.bag.Len())
	require.Len(t, f.Items, 1)

	data, ok := h.items.FunctionDecl(f.Items[0])
	require.True(t, ok)
	require.Len(t, data.ArgTypes, 2)
}

func TestParseDeclarationFileRejectsFunctionBody(t *testing.T) {
	h := newHarness()
	_, ok := h.parse(t, "module a; int main() { return 0; }", false)
	require.True(t, ok)
	require.Greater(t, h.bag.Len(), 0)
	found := false
	for _, d := range h.bag.Items() {
		if d.Code == diag.SynExpectSemicolon {
			found = true
		}
	}
	require.True(t, found, "expected a diagnostic rejecting the body in a declaration file")
}

func TestParseStructDeclaration(t *testing.T) {
	h := newHarness()
	f, ok := h.parse(t, "module a; struct point { int x; int y; };", true)
	require.True(t, ok)
	require.Equal(t, 0, h.bag.Len())
	require.Len(t, f.Items, 1)

	data, ok := h.items.Struct(f.Items[0])
	require.True(t, ok)
	require.Equal(t, []string{"x", "y"}, []string{
		h.strings.MustLookup(data.FieldNames[0].Name),
		h.strings.MustLookup(data.FieldNames[1].Name),
	})
}

func TestParseEmptyStructBodyReportsDiagnostic(t *testing.T) {
	h := newHarness()
	_, ok := h.parse(t, "module a; struct empty {};", true)
	require.True(t, ok)
	require.Equal(t, 1, h.bag.Len())
	require.Equal(t, diag.SynEmptyAggregateBody, h.bag.Items()[0].Code)
}

func TestParseMissingModuleIsFatal(t *testing.T) {
	h := newHarness()
	_, ok := h.parse(t, "int main() { return 0; }", true)
	require.False(t, ok)
	require.Greater(t, h.bag.Len(), 0)
}

func TestParseRecoversFromMalformedTopLevelForm(t *testing.T) {
	h := newHarness()
	f, ok := h.parse(t, "module a; ???; int ok() { return 1; }", true)
	require.True(t, ok)
	require.Greater(t, h.bag.Len(), 0)

	found := false
	for _, id := range f.Items {
		if data, ok := h.items.FunctionDefn(id); ok && h.strings.MustLookup(data.Name.Name) == "ok" {
			found = true
		}
	}
	require.True(t, found, "parser should resync and still parse the well-formed function after the bad token")
}

func TestParseIfWhileReturnStatements(t *testing.T) {
	h := newHarness()
	src := `module a;
int clamp(int x) {
	if (x < 0) {
		return 0;
	}
	while (x > 10) {
		x = x - 1;
	}
	return x;
}`
	f, ok := h.parse(t, src, true)
	require.True(t, ok)
	require.Equal(t, 0, h.bag.Len())
	require.Len(t, f.Items, 1)
}

func TestParseVariableWithInitializer(t *testing.T) {
	h := newHarness()
	f, ok := h.parse(t, "module a; int count = 1;", true)
	require.True(t, ok)
	require.Equal(t, 0, h.bag.Len())
	require.Len(t, f.Items, 1)

	data, ok := h.items.Var(f.Items[0])
	require.True(t, ok)
	require.Len(t, data.Initializers, 1)
	require.NotEqual(t, ast.NoExprID, data.Initializers[0])
}

func TestParsePointerType(t *testing.T) {
	h := newHarness()
	f, ok := h.parse(t, "module a; int *p; int *q = p;", true)
	require.True(t, ok)
	require.Equal(t, 0, h.bag.Len())
	require.Len(t, f.Items, 2)
}

func TestParseForwardProgressOnUnexpectedEOF(t *testing.T) {
	h := newHarness()
	_, ok := h.parse(t, "module a; int", true)
	require.True(t, ok)
	require.Greater(t, h.bag.Len(), 0)
}
