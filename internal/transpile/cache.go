package transpile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"pkt.systems/pslog"

	"scriptkit/internal/textmodel"
	"scriptkit/internal/transform"
)

// Current schema version - increment when payload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты транспиляции на диске, ключ: sha256 от
// исходника и опций. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// payload is the on-disk form of a Result. The edit history is stored as a
// textmodel snapshot and replayed on load.
type payload struct {
	Schema   uint16             `msgpack:"schema"`
	Code     string             `msgpack:"code"`
	Raw      string             `msgpack:"raw"`
	IsModule bool               `msgpack:"module"`
	IsAsync  bool               `msgpack:"async"`
	Shifts   []transform.Shift  `msgpack:"shifts"`
	History  textmodel.Snapshot `msgpack:"history"`
}

// OpenDiskCache opens (creating if needed) the cache under dir. An empty dir
// selects $XDG_CACHE_HOME/scriptkit or ~/.cache/scriptkit.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "scriptkit")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Key digests everything that influences the output.
func Key(raw string, opts Options) string {
	h := sha256.New()
	meta, _ := msgpack.Marshal(struct {
		Names     Names
		Macros    []Macro
		ForceSync bool
	}{opts.Names.WithDefaults(), opts.macros(), opts.ForceSync})
	_, _ = h.Write(meta)
	_, _ = h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *DiskCache) pathFor(key string) string {
	// Подкаталог по первым двум символам, чтобы не раздувать один каталог.
	return filepath.Join(c.dir, "scripts", key[:2], key+".mp")
}

// Put serializes and writes a result to the disk cache.
func (c *DiskCache) Put(key string, r *Result) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck // after rename the temp name is gone

	err = msgpack.NewEncoder(f).Encode(&payload{
		Schema:   diskCacheSchemaVersion,
		Code:     r.Code,
		Raw:      r.Raw,
		IsModule: r.IsModule,
		IsAsync:  r.IsAsync,
		Shifts:   r.Shifts,
		History:  r.History.Snapshot(),
	})
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a result. A missing entry or one written by another schema
// version is a miss, not an error.
func (c *DiskCache) Get(key string) (*Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var pl payload
	if err := msgpack.NewDecoder(f).Decode(&pl); err != nil {
		return nil, false, fmt.Errorf("transpile cache %s: %w", key, err)
	}
	if pl.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	buf, err := textmodel.Restore(pl.History)
	if err != nil {
		return nil, false, fmt.Errorf("transpile cache %s: %w", key, err)
	}
	if buf.String() != pl.Code {
		return nil, false, fmt.Errorf("transpile cache %s: history does not reproduce code", key)
	}
	return &Result{
		Code:     pl.Code,
		Original: buf.Original(),
		Raw:      pl.Raw,
		IsModule: pl.IsModule,
		IsAsync:  pl.IsAsync,
		Shifts:   pl.Shifts,
		History:  buf,
	}, true, nil
}

// Transpile returns the cached result for raw, compiling and storing it on
// a miss. Syntax errors are not cached.
func (c *DiskCache) Transpile(ctx context.Context, raw string, opts Options) (*Result, error) {
	key := Key(raw, opts)
	if r, ok, err := c.Get(key); err == nil && ok {
		return r, nil
	}
	r, err := Transpile(ctx, raw, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Put(key, r); err != nil {
		pslog.Ctx(ctx).Warn("transpile cache: store failed", "key", key, "err", err)
	}
	return r, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
