package rtfsmodule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/optimize"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// fakeParser serves pre-built rtfsast.Programs keyed by file path,
// standing in for the external lexer/parser (§6.1) this package never
// builds itself; the byte contents written to disk are never actually
// read by it, only by the real os.ReadFile call in loadFromFile, so
// each test still writes a (harmless, unparsed) placeholder file.
type fakeParser struct {
	programs map[string]*rtfsast.Program
}

func (p *fakeParser) Parse(source []byte, path string) (*rtfsast.Program, error) {
	prog, ok := p.programs[path]
	if !ok {
		return nil, fakeErr("no fake program registered for " + path)
	}
	return prog, nil
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func intLit(v int64) *rtfsast.Literal { return &rtfsast.Literal{Kind: rtfsast.IntLit, Value: v} }

func defConst(name string, v int64) *rtfsast.Def {
	return &rtfsast.Def{Name: name, Init: intLit(v)}
}

func simpleModule(name string, imports []rtfsast.Import, defs ...rtfsast.Expr) *rtfsast.Program {
	mod := &rtfsast.ModuleDefinition{Name: name, Imports: imports, Definitions: defs}
	return &rtfsast.Program{Forms: []rtfsast.TopLevel{mod}}
}

// writeModuleFile writes a placeholder .rtfs file under dir and
// registers prog to be returned by the fake parser for that path,
// returning the file's absolute path.
func writeModuleFile(t *testing.T, dir, fileName string, prog *rtfsast.Program, programs map[string]*rtfsast.Program) string {
	t.Helper()
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, []byte("; placeholder, never parsed by the real grammar\n"), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	programs[abs] = prog
	return abs
}

func newTestRegistry(programs map[string]*rtfsast.Program, searchPaths []string) *Registry {
	return New(&fakeParser{programs: programs}, searchPaths, optimize.LevelBasic)
}

func TestLoadFileCompilesAndExportsDefs(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	path := writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3), defConst("e", 2)), programs)
	r := newTestRegistry(programs, nil)

	mod, err := r.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "math", mod.Name)
	assert.Equal(t, rtfsvalue.IntValue(3), mod.Exports["pi"])
	assert.Equal(t, rtfsvalue.IntValue(2), mod.Exports["e"])
}

func TestLoadFileNameMismatchErrors(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	path := writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3)), programs)
	r := newTestRegistry(programs, nil)

	_, err := r.loadFromFile("not-math", path)
	require.Error(t, err)
}

func TestLoadModuleViaSearchPath(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3)), programs)
	r := newTestRegistry(programs, []string{dir})

	mod, err := r.LoadModule("math")
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(3), mod.Exports["pi"])

	// Second call hits the in-memory cache rather than re-resolving.
	again, err := r.LoadModule("math")
	require.NoError(t, err)
	assert.Same(t, mod, again)
}

func TestLoadModuleNotFoundErrors(t *testing.T) {
	r := newTestRegistry(nil, []string{t.TempDir()})
	_, err := r.LoadModule("does.not.exist")
	require.Error(t, err)
}

func TestRegisterModuleRejectsDuplicate(t *testing.T) {
	r := newTestRegistry(nil, nil)
	m := &CompiledModule{Name: "dup", Exports: map[string]rtfsvalue.Value{}}
	require.NoError(t, r.RegisterModule(m))
	err := r.RegisterModule(m)
	require.Error(t, err)
}

func TestResolveQualifiedSymbolLoadsAndLooksUpExport(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3)), programs)
	r := newTestRegistry(programs, []string{dir})

	v, err := r.ResolveQualifiedSymbol("math/pi")
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(3), v)
}

func TestResolveQualifiedSymbolUnknownExportErrors(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3)), programs)
	r := newTestRegistry(programs, []string{dir})

	_, err := r.ResolveQualifiedSymbol("math/nope")
	require.Error(t, err)
}

func TestImportSymbolsSelective(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3), defConst("e", 2)), programs)
	r := newTestRegistry(programs, []string{dir})

	target := rtfsvalue.NewNameEnv()
	err := r.ImportSymbols(ImportSpec{
		ModuleName: "math",
		Symbols:    []ImportSymbol{{Original: "pi", Local: "circle-ratio"}},
	}, target)
	require.NoError(t, err)

	v, ok := target.Lookup("circle-ratio")
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.IntValue(3), v)
	_, ok = target.Lookup("pi")
	assert.False(t, ok)
}

func TestImportSymbolsReferAll(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3), defConst("e", 2)), programs)
	r := newTestRegistry(programs, []string{dir})

	target := rtfsvalue.NewNameEnv()
	require.NoError(t, r.ImportSymbols(ImportSpec{ModuleName: "math", ReferAll: true}, target))

	v, ok := target.Lookup("pi")
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.IntValue(3), v)
	v, ok = target.Lookup("e")
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.IntValue(2), v)
}

func TestImportSymbolsAliasBindsNamespaceHandle(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3)), programs)
	r := newTestRegistry(programs, []string{dir})

	target := rtfsvalue.NewNameEnv()
	require.NoError(t, r.ImportSymbols(ImportSpec{ModuleName: "math", Alias: "m"}, target))

	v, ok := target.Lookup("m")
	require.True(t, ok)
	ns, ok := v.(*rtfsvalue.MapValue)
	require.True(t, ok)
	piVal, ok := ns.Get(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: "pi"})
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.IntValue(3), piVal)
}

func TestImportSymbolsAliasWithSelectiveIsInvalid(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "math.rtfs", simpleModule("math", nil, defConst("pi", 3)), programs)
	r := newTestRegistry(programs, []string{dir})

	target := rtfsvalue.NewNameEnv()
	err := r.ImportSymbols(ImportSpec{
		ModuleName: "math",
		Alias:      "m",
		Symbols:    []ImportSymbol{{Original: "pi"}},
	}, target)
	require.Error(t, err)
}

func TestMissingModuleDefinitionErrors(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	path := writeModuleFile(t, dir, "empty.rtfs", &rtfsast.Program{Forms: []rtfsast.TopLevel{}}, programs)
	r := newTestRegistry(programs, nil)
	_, err := r.loadFromFile("empty", path)
	require.Error(t, err)
}

func TestCircularDependencyErrors(t *testing.T) {
	dir := t.TempDir()
	programs := map[string]*rtfsast.Program{}
	writeModuleFile(t, dir, "a.rtfs", simpleModule("a", []rtfsast.Import{{ModulePath: "b"}}, defConst("x", 1)), programs)
	writeModuleFile(t, dir, "b.rtfs", simpleModule("b", []rtfsast.Import{{ModulePath: "a"}}, defConst("y", 2)), programs)
	r := newTestRegistry(programs, []string{dir})

	_, err := r.LoadModule("a")
	require.Error(t, err)
}
