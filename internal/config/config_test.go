package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/optimize"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "rtfs.yml"))
	require.NoError(t, err)
	assert.Equal(t, "basic", cfg.OptimizationLevel)
	assert.Contains(t, cfg.ModulePaths, ".")
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rtfs.yml")
	contents := "module_paths:\n  - ./vendor/rtfs\noptimization_level: aggressive\ntool_allowlist:\n  - tool:print\n  - tool:log\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./vendor/rtfs"}, cfg.ModulePaths)
	assert.Equal(t, "aggressive", cfg.OptimizationLevel)
	assert.Equal(t, optimize.LevelAggressive, cfg.OptimizeLevel())
	assert.ElementsMatch(t, []string{"tool:print", "tool:log"}, cfg.ToolAllowlist)
}

func TestOptimizeLevelDefaultsOnUnrecognizedName(t *testing.T) {
	cfg := &Config{OptimizationLevel: "ludicrous"}
	assert.Equal(t, optimize.LevelBasic, cfg.OptimizeLevel())
}

func TestRTFSPathEnvOverrideAppendsSearchPath(t *testing.T) {
	t.Setenv("RTFS_PATH", "/opt/rtfs/modules")
	t.Setenv("RTFS_STDLIB", "/opt/rtfs/stdlib")

	cfg, err := Load(filepath.Join(t.TempDir(), "rtfs.yml"))
	require.NoError(t, err)
	assert.Contains(t, cfg.ModulePaths, "/opt/rtfs/modules")
	assert.Contains(t, cfg.ModulePaths, "/opt/rtfs/stdlib")
}
