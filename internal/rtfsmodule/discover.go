package rtfsmodule

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover walks every search path for `.rtfs` files and returns the
// dotted module name each would resolve to, for the `modules` CLI
// subcommand (§6.1's file-format convention run in reverse: file path ->
// module name). Grounded on termfx-morfx's use of
// github.com/bmatcuk/doublestar/v4 for pattern-based file discovery,
// simplified here to a single Glob per search path rather than its
// worker-pool FileWalker — module discovery is a one-shot CLI listing,
// not a hot path needing parallel traversal.
func Discover(searchPaths []string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, base := range searchPaths {
		fsys := os.DirFS(base)
		matches, err := doublestar.Glob(fsys, "**/*.rtfs")
		if err != nil {
			return nil, err
		}
		for _, rel := range matches {
			name := strings.TrimSuffix(rel, ".rtfs")
			name = strings.ReplaceAll(name, string(filepath.Separator), ".")
			name = strings.ReplaceAll(name, "/", ".")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
