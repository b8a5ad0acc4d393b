package rtfsmodule

import (
	"fmt"
	"strings"

	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// ResolveQualifiedSymbol implements irexec.ModuleRegistry: split "mod/sym"
// on the first "/", load the module if it is not already loaded, and
// return its named export (§4.8).
func (r *Registry) ResolveQualifiedSymbol(name string) (rtfsvalue.Value, error) {
	modName, symName, ok := splitQualified(name)
	if !ok {
		return nil, rtfserr.UndefinedSymbol(name)
	}
	mod, err := r.LoadModule(modName)
	if err != nil {
		return nil, err
	}
	v, ok := mod.Exports[symName]
	if !ok {
		return nil, rtfserr.Module(fmt.Sprintf("module %q has no export %q", modName, symName))
	}
	return v, nil
}

func splitQualified(name string) (mod, sym string, ok bool) {
	i := strings.Index(name, "/")
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

// ImportSymbol is one entry of an ImportSpec's selective-import list: the
// export's name in its own module, and (optionally) a different local
// name to bind it under.
type ImportSymbol struct {
	Original string
	Local    string // empty means same as Original
}

func (s ImportSymbol) localName() string {
	if s.Local != "" {
		return s.Local
	}
	return s.Original
}

// ImportSpec describes one import_symbols request (§4.8): either an
// alias-only namespace import, a selective list, or refer-all. Combining
// Alias with either Symbols or ReferAll is invalid.
type ImportSpec struct {
	ModuleName string
	Alias      string
	Symbols    []ImportSymbol
	ReferAll   bool
}

// ImportSymbols loads ModuleName and binds its exports into target per
// spec's mode (§4.8):
//   - Alias only: binds a namespace handle (a Map of keyword -> export
//     value) under Alias, for qualified-looking access without a real
//     module-path symbol.
//   - Symbols: binds each requested export under its local name, failing
//     with a ModuleError if any requested export does not exist.
//   - ReferAll: binds every export under its own name.
func (r *Registry) ImportSymbols(spec ImportSpec, target *rtfsvalue.NameEnv) error {
	mod, err := r.LoadModule(spec.ModuleName)
	if err != nil {
		return err
	}

	if spec.Alias != "" {
		if len(spec.Symbols) > 0 || spec.ReferAll {
			return rtfserr.Module(fmt.Sprintf(
				"import of %q: alias cannot be combined with a selective or refer-all import", spec.ModuleName))
		}
		ns := rtfsvalue.NewMap()
		for name, v := range mod.Exports {
			ns.Set(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: name}, v)
		}
		target.Define(spec.Alias, ns)
		return nil
	}

	if spec.ReferAll {
		for name, v := range mod.Exports {
			target.Define(name, v)
		}
		return nil
	}

	for _, sym := range spec.Symbols {
		v, ok := mod.Exports[sym.Original]
		if !ok {
			return rtfserr.Module(fmt.Sprintf(
				"import of %q: %q is not exported by module %q", spec.ModuleName, sym.Original, spec.ModuleName))
		}
		target.Define(sym.localName(), v)
	}
	return nil
}
