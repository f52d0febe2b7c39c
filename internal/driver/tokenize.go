package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"vane/internal/diag"
	"vane/internal/lexer"
	"vane/internal/source"
	"vane/internal/token"
)

// SourceExt is the extension vanec treats as a source file when walking a
// directory.
const SourceExt = ".src"

// FileTokens is one file's token stream, with the file's path kept
// alongside it.
type FileTokens struct {
	Path   string
	Tokens []token.Token
}

// TokenizeResult is vanec tokenize's output: every diagnostic raised while
// lexing, the FileSet and Interner needed to render them, and the token
// stream for each file that was read.
type TokenizeResult struct {
	Bag     *diag.Bag
	FileSet *source.FileSet
	Strings *source.Interner
	Files   []FileTokens
}

func lexFile(f *source.File, strings *source.Interner, reporter diag.Reporter) []token.Token {
	lx := lexer.New(f, lexer.Options{Reporter: reporter, Interner: strings})
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// Tokenize lexes a single file, with no parsing or resolution.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fid, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	strings := source.NewInterner()
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexFile(fs.Get(fid), strings, reporter)
	bag.Sort()
	return &TokenizeResult{
		Bag: bag, FileSet: fs, Strings: strings,
		Files: []FileTokens{{Path: path, Tokens: tokens}},
	}, nil
}

// TokenizeDir lexes every SourceExt file under dir. Files are loaded
// serially, then lexed concurrently (an errgroup capped at jobs) since
// lexing writes nothing
// into shared arenas — unlike ParseAll, there is no parse/arena stage to
// keep off the fan-out here.
func TokenizeDir(dir string, maxDiagnostics, jobs int) (*TokenizeResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	fs := source.NewFileSet()
	strings := source.NewInterner()
	bag := diag.NewBag(maxDiagnostics)

	fids := make([]source.FileID, len(paths))
	for i, p := range paths {
		fid, err := fs.Load(p)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
		fids[i] = fid
	}

	// Each goroutine reports into its own bag — diag.Bag.Add isn't
	// synchronized, unlike source.Interner — and the per-file bags are
	// merged back serially once every goroutine has finished.
	results := make([][]token.Token, len(paths))
	bags := make([]*diag.Bag, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(jobCount(jobs))
	for i, fid := range fids {
		g.Go(func() error {
			local := diag.NewBag(maxDiagnostics)
			results[i] = lexFile(fs.Get(fid), strings, diag.BagReporter{Bag: local})
			bags[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, local := range bags {
		bag.Merge(local)
	}

	bag.Sort()
	files := make([]FileTokens, len(paths))
	for i, p := range paths {
		files[i] = FileTokens{Path: p, Tokens: results[i]}
	}
	return &TokenizeResult{Bag: bag, FileSet: fs, Strings: strings, Files: files}, nil
}
