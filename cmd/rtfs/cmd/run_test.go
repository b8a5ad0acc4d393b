package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
)

func writeFakeFile(t *testing.T, dir, name string, prog *rtfsast.Program) (string, *fakeExprParser) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("; placeholder\n"), 0o644))
	return path, &fakeExprParser{prog: prog}
}

func TestRunFileEvaluatesScript(t *testing.T) {
	dir := t.TempDir()
	withTestConfig(t, nil)
	prog := &rtfsast.Program{Forms: []rtfsast.TopLevel{
		rtfsast.AsTopLevel(&rtfsast.Literal{Kind: rtfsast.IntLit, Value: int64(7)}),
	}}
	path, parser := writeFakeFile(t, dir, "script.rtfs", prog)
	withTestParser(t, parser)

	require.NoError(t, runFile(runCmd, []string{path}))
}

func TestRunFileLoadsModuleFile(t *testing.T) {
	dir := t.TempDir()
	withTestConfig(t, []string{dir})
	prog := &rtfsast.Program{Forms: []rtfsast.TopLevel{
		&rtfsast.ModuleDefinition{
			Name: "math",
			Definitions: []rtfsast.Expr{
				&rtfsast.Def{Name: "pi", Init: &rtfsast.Literal{Kind: rtfsast.IntLit, Value: int64(3)}},
			},
		},
	}}
	path, parser := writeFakeFile(t, dir, "math.rtfs", prog)
	withTestParser(t, parser)

	require.NoError(t, runFile(runCmd, []string{path}))
}

func TestRunFileMissingFileErrors(t *testing.T) {
	withTestConfig(t, nil)
	withTestParser(t, &fakeExprParser{})
	err := runFile(runCmd, []string{filepath.Join(t.TempDir(), "missing.rtfs")})
	require.Error(t, err)
}
