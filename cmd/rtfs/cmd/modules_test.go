package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/config"
	"github.com/rtfs-lang/rtfs/internal/rtfsmodule"
)

func TestRunModulesListsDiscoveredFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math.rtfs"), []byte("; placeholder\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "util"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util", "strings.rtfs"), []byte("; placeholder\n"), 0o644))

	prevCfg := cfg
	cfg = &config.Config{ModulePaths: []string{dir}}
	defer func() { cfg = prevCfg }()

	names, err := rtfsmodule.Discover(cfg.ModulePaths)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"math", "util.strings"}, names)
}

func TestRunModulesCommandSucceedsWithoutAParser(t *testing.T) {
	dir := t.TempDir()
	prevCfg := cfg
	cfg = &config.Config{ModulePaths: []string{dir}}
	defer func() { cfg = prevCfg }()

	require.NoError(t, runModules(modulesCmd, nil))
}
