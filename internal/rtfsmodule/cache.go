package rtfsmodule

import (
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// moduleCacheEntry is the on-disk record of one compiled module's
// metadata (§4 DOMAIN STACK): enough to tell whether a module's source
// has changed since it was last compiled, without persisting the
// compiled exports themselves — a UserFunction closure is not a value
// this package attempts to serialize and rehydrate, so the in-memory
// Registry remains the sole source of truth for a running process
// (§3.5's "created exactly once by the loader, cached by name"). This
// table exists purely as a staleness/audit aid across process runs,
// grounded on termfx-morfx's gorm.io/gorm usage, swapped to the
// pure-Go github.com/glebarez/sqlite driver so this package stays
// cgo-free.
type moduleCacheEntry struct {
	Name        string `gorm:"primaryKey"`
	FilePath    string
	ModTimeUnix int64
	CompiledAt  int64
	ExportNames string // comma-joined; a full normal form isn't needed for a staleness check
}

func (moduleCacheEntry) TableName() string { return "module_cache" }

// Cache is an optional on-disk staleness ledger for the module loader,
// backed by SQLite via gorm. Opening or migrating it is best-effort:
// a Cache that fails to open degrades to "no cache" rather than
// blocking module loading, since it is never the source of truth.
type Cache struct {
	db *gorm.DB
}

// OpenCache opens (creating if needed) a SQLite-backed Cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&moduleCacheEntry{}); err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Record upserts metadata for a successfully compiled module.
func (c *Cache) Record(m *CompiledModule, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(m.Exports))
	for name := range m.Exports {
		names = append(names, name)
	}
	entry := moduleCacheEntry{
		Name:        m.Name,
		FilePath:    path,
		ModTimeUnix: info.ModTime().Unix(),
		CompiledAt:  time.Now().Unix(),
		ExportNames: strings.Join(names, ","),
	}
	return c.db.Save(&entry).Error
}

// Stale reports whether the cached metadata for name disagrees with
// path's current modification time — a hint that a caller might want to
// force a recompile, never consulted by LoadModule itself since module
// evaluation always runs in full (see moduleCacheEntry's doc comment).
func (c *Cache) Stale(name, path string) (bool, error) {
	var entry moduleCacheEntry
	err := c.db.Where("name = ?", name).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return true, nil
	}
	return entry.ModTimeUnix != info.ModTime().Unix(), nil
}
