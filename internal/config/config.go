// Package config loads process-wide RTFS configuration: module search
// paths, the default optimizer level, and the tool-builtin allowlist.
// Grounded on internal/eval_harness/models.go's ModelsConfig pattern
// (a yaml.v3-decoded struct, an optional file on disk, a package-level
// loader with sane defaults when the file is absent) and on
// internal/module/loader.go's getDefaultSearchPaths/getStdlibPath
// environment-variable convention, retargeted from AILANG_PATH/
// AILANG_STDLIB to RTFS_PATH/RTFS_STDLIB.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rtfs-lang/rtfs/internal/optimize"
)

// Config is the decoded shape of an optional rtfs.yml.
type Config struct {
	ModulePaths       []string `yaml:"module_paths"`
	OptimizationLevel string   `yaml:"optimization_level"`
	ToolAllowlist     []string `yaml:"tool_allowlist"`
}

// optLevelNames maps rtfs.yml's optimization_level strings onto
// optimize.Level, matching the names used throughout DESIGN.md and
// SPEC_FULL.md (none/basic/aggressive).
var optLevelNames = map[string]optimize.Level{
	"none":       optimize.LevelNone,
	"basic":      optimize.LevelBasic,
	"aggressive": optimize.LevelAggressive,
}

// Load reads path (if it exists) and merges in RTFS_PATH/RTFS_STDLIB
// overrides. A missing file is not an error: Load returns the default
// Config, the same way AILANG_PATH/AILANG_STDLIB degrade gracefully
// when unset in internal/module/loader.go.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ModulePaths:       defaultSearchPaths(),
		OptimizationLevel: "basic",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(fromFile.ModulePaths) > 0 {
		cfg.ModulePaths = fromFile.ModulePaths
	}
	if fromFile.OptimizationLevel != "" {
		cfg.OptimizationLevel = fromFile.OptimizationLevel
	}
	cfg.ToolAllowlist = fromFile.ToolAllowlist

	applyEnvOverrides(cfg)
	return cfg, nil
}

// defaultSearchPaths mirrors getDefaultSearchPaths: current directory
// first, then a user-level module directory under the home dir.
func defaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".rtfs", "modules"))
	}
	return paths
}

// applyEnvOverrides layers RTFS_PATH (a PathListSeparator-joined list,
// appended to ModulePaths) and RTFS_STDLIB (a single directory,
// appended last so stdlib modules resolve after user ones) onto cfg,
// matching internal/module/loader.go's AILANG_PATH/AILANG_STDLIB
// handling.
func applyEnvOverrides(cfg *Config) {
	if rtfsPath := os.Getenv("RTFS_PATH"); rtfsPath != "" {
		cfg.ModulePaths = append(cfg.ModulePaths, strings.Split(rtfsPath, string(os.PathListSeparator))...)
	}
	if stdlib := os.Getenv("RTFS_STDLIB"); stdlib != "" {
		cfg.ModulePaths = append(cfg.ModulePaths, stdlib)
	}
}

// OptimizeLevel resolves OptimizationLevel to an optimize.Level,
// defaulting to LevelBasic for an empty or unrecognized name rather
// than failing the whole config load over one typo.
func (c *Config) OptimizeLevel() optimize.Level {
	if lvl, ok := optLevelNames[strings.ToLower(c.OptimizationLevel)]; ok {
		return lvl
	}
	return optimize.LevelBasic
}
