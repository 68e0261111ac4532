// Package cache implements the on-disk track info store: a process-wide
// table mapping file paths to decoded tag/metadata records, persisted
// between runs in a versioned binary format and backed by a Bloom filter
// for fast negative lookups. Grounded on cmus's cache.c.
package cache

import (
	"context"
	"hash/fnv"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/waveterm/core/internal/logging"
	"github.com/waveterm/core/internal/metrics"
	"github.com/waveterm/core/internal/trackinfo"
)

// Loader decodes tags for path, returning a fresh TrackInfo. It is supplied
// by the caller (typically backed by a plugin.Decoder) so this package has
// no direct dependency on the plugin contracts.
type Loader func(ctx context.Context, path string) (*trackinfo.TrackInfo, error)

// Stater reports a path's current modification time. exists is false if the
// path no longer exists.
type Stater func(path string) (mtime int64, exists bool, err error)

// Config controls cache sizing and policy.
type Config struct {
	// ConfigDir is the directory the cache file lives in (cache file is
	// ConfigDir/cache, written via ConfigDir/cache.tmp then renamed).
	ConfigDir string

	// HashSize is the number of hash buckets. The reference uses 1023.
	HashSize int

	// StaleZeroDurationPolicy: when true, a cached record with
	// Duration == 0 on a non-remote path is treated as stale and re-read
	// on GetOrLoad, mirroring cmus's implicit skip_track_info behavior.
	// This implementation makes it a named, explicit policy field instead
	// (see SPEC_FULL.md §9, Open Question 1).
	StaleZeroDurationPolicy bool

	// RefreshConcurrency bounds how many Refresh decode calls run at once.
	RefreshConcurrency int
}

// DefaultConfig returns production defaults: 1023 buckets, stale-zero-
// duration re-read enabled, refresh concurrency of 4.
func DefaultConfig(configDir string) Config {
	return Config{
		ConfigDir:               configDir,
		HashSize:                1023,
		StaleZeroDurationPolicy: true,
		RefreshConcurrency:      4,
	}
}

// Cache is the process-wide path -> TrackInfo table.
type Cache struct {
	cfg    Config
	loader Loader
	mu     fifoMutex
	bloom  *BloomFilter

	buckets [][]*trackinfo.TrackInfo
}

// New constructs an empty Cache. Call Init to populate it from disk.
func New(cfg Config, loader Loader) *Cache {
	if cfg.HashSize <= 0 {
		cfg.HashSize = 1023
	}
	if cfg.RefreshConcurrency <= 0 {
		cfg.RefreshConcurrency = 4
	}
	return &Cache{
		cfg:     cfg,
		loader:  loader,
		bloom:   NewBloomFilter(cfg.HashSize, 0.01),
		buckets: make([][]*trackinfo.TrackInfo, cfg.HashSize),
	}
}

func (c *Cache) path() string {
	return filepath.Join(c.cfg.ConfigDir, "cache")
}

func hashPath(path string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(path))
	return h.Sum32()
}

func (c *Cache) bucketIndex(path string) int {
	return int(hashPath(path) % uint32(c.cfg.HashSize))
}

// Init loads the on-disk cache file, if present, into memory. A missing
// file is success (empty cache). A corrupt file returns *ErrCorrupt; the
// in-memory cache is left empty and will be regenerated whole on Close.
func (c *Cache) Init() error {
	data, err := os.ReadFile(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) < headerSize {
		return &ErrCorrupt{Reason: "file shorter than header"}
	}
	if err := validateHeader(data[:headerSize]); err != nil {
		return err
	}

	offset := headerSize
	for offset < len(data) {
		ti, rawSize, err := decodeEntry(data[offset:])
		if err != nil {
			// Discard everything read so far; corrupt file invalidates the
			// whole load.
			c.buckets = make([][]*trackinfo.TrackInfo, c.cfg.HashSize)
			c.bloom.Clear()
			return err
		}
		c.addLocked(ti)
		offset += align(rawSize)
	}
	return nil
}

func (c *Cache) addLocked(ti *trackinfo.TrackInfo) {
	idx := c.bucketIndex(ti.Path)
	c.buckets[idx] = append(c.buckets[idx], ti)
	c.bloom.Add(ti.Path)
}

func (c *Cache) removeLocked(path string) *trackinfo.TrackInfo {
	idx := c.bucketIndex(path)
	bucket := c.buckets[idx]
	for i, ti := range bucket {
		if ti.Path == path {
			c.buckets[idx] = append(bucket[:i], bucket[i+1:]...)
			return ti
		}
	}
	return nil
}

func (c *Cache) lookupLocked(path string) *trackinfo.TrackInfo {
	idx := c.bucketIndex(path)
	for _, ti := range c.buckets[idx] {
		if ti.Path == path {
			return ti
		}
	}
	return nil
}

// GetOrLoad returns the cached TrackInfo for path with an incremented
// reference count, decoding via the Loader on a miss. If force is true, or
// if the cached entry has Duration == 0 on a non-remote path and
// StaleZeroDurationPolicy is enabled, the existing entry is dropped and
// re-decoded.
func (c *Cache) GetOrLoad(ctx context.Context, path string, force bool) (*trackinfo.TrackInfo, error) {
	if !force && !c.bloom.Test(path) {
		return c.load(ctx, path)
	}

	c.mu.Lock()
	existing := c.lookupLocked(path)
	stale := existing != nil && c.cfg.StaleZeroDurationPolicy &&
		existing.Duration == 0 && !trackinfo.IsRemotePath(path)
	if existing != nil && !force && !stale {
		ti := existing.Ref()
		c.mu.Unlock()
		metrics.RecordCacheLookup("hit")
		return ti, nil
	}
	if existing != nil {
		c.removeLocked(path)
	}
	c.mu.Unlock()

	return c.load(ctx, path)
}

func (c *Cache) load(ctx context.Context, path string) (*trackinfo.TrackInfo, error) {
	metrics.RecordCacheLookup("miss")
	ti, err := c.loader(ctx, path)
	if err != nil {
		logging.Ctx(ctx).Warn().Str("path", path).Err(err).Msg("tag decode failed")
		return nil, err
	}

	c.mu.Lock()
	c.addLocked(ti)
	c.mu.Unlock()

	return ti.Ref(), nil
}

// Remove drops the cache's reference to ti, decrementing its refcount.
func (c *Cache) Remove(ti *trackinfo.TrackInfo) {
	c.mu.Lock()
	removed := c.removeLocked(ti.Path)
	c.mu.Unlock()
	if removed != nil {
		removed.Unref()
	}
}

// Snapshot returns every cached TrackInfo, unreferenced (the caller must
// Ref any it retains). Used by the engine to populate the library views at
// startup.
func (c *Cache) Snapshot() []*trackinfo.TrackInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Entries returns the number of distinct paths currently cached.
func (c *Cache) Entries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.buckets {
		n += len(b)
	}
	return n
}

// Close serializes every cached entry to a temp file, then atomically
// renames it over the cache path. Write errors leave the previous cache
// file intact, since the rename only happens after a full successful
// write.
func (c *Cache) Close() error {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	buf := buildHeader()
	offset := len(buf)
	for _, ti := range snapshot {
		pad := align(offset) - offset
		if pad > 0 {
			buf = append(buf, make([]byte, pad)...)
			offset += pad
		}
		entry := encodeEntry(ti)
		buf = append(buf, entry...)
		offset += len(entry)
	}

	tmp := c.path() + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o666); err != nil {
		return err
	}
	return os.Rename(tmp, c.path())
}

func (c *Cache) snapshotLocked() []*trackinfo.TrackInfo {
	var all []*trackinfo.TrackInfo
	for _, b := range c.buckets {
		all = append(all, b...)
	}
	return all
}

// UpdateKind classifies the outcome of refreshing one cached path.
type UpdateKind int

const (
	// Unchanged: the file's mtime matches the cached record; no action.
	Unchanged UpdateKind = iota
	// Changed: the file was re-read; New supersedes Old.
	Changed
	// Deleted: the file no longer exists (or its plugin can no longer
	// decode it); Old was dropped from the cache.
	Deleted
)

// Update describes the refresh outcome for one previously-cached path.
type Update struct {
	Kind UpdateKind
	Old  *trackinfo.TrackInfo
	New  *trackinfo.TrackInfo
}

// Refresh re-stats every cached path and re-reads tags when the file's
// mtime has moved (or unconditionally when force is true), yielding one
// Update per previously-cached path. Decode work runs concurrently, bounded
// by Config.RefreshConcurrency, via errgroup; only the final application of
// results against the hash table is serialized under the cache lock, with
// a Yield between each so a waiting UI lookup is never starved for the
// whole pass.
func (c *Cache) Refresh(ctx context.Context, force bool, stat Stater) ([]Update, error) {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	type result struct {
		old   *trackinfo.TrackInfo
		kind  UpdateKind
		fresh *trackinfo.TrackInfo
	}
	results := make([]result, len(snapshot))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.RefreshConcurrency)

	for i, ti := range snapshot {
		i, ti := i, ti
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			if ti.IsRemote() {
				results[i] = result{old: ti, kind: Unchanged}
				return nil
			}

			mtime, exists, err := stat(ti.Path)
			if err != nil || !exists {
				results[i] = result{old: ti, kind: Deleted}
				return nil
			}
			if !force && mtime == ti.MTime {
				results[i] = result{old: ti, kind: Unchanged}
				return nil
			}

			fresh, err := c.loader(gctx, ti.Path)
			if err != nil {
				results[i] = result{old: ti, kind: Deleted}
				return nil
			}
			fresh.SetPlayCount(ti.PlayCount())
			results[i] = result{old: ti, kind: Changed, fresh: fresh}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	updates := make([]Update, 0, len(results))
	c.mu.Lock()
	for _, r := range results {
		switch r.kind {
		case Unchanged:
			updates = append(updates, Update{Kind: Unchanged, Old: r.old})
		case Deleted:
			c.removeLocked(r.old.Path)
			r.old.Unref()
			updates = append(updates, Update{Kind: Deleted, Old: r.old})
		case Changed:
			c.removeLocked(r.old.Path)
			c.addLocked(r.fresh)
			updates = append(updates, Update{Kind: Changed, Old: r.old, New: r.fresh})
		}
		c.mu.Yield()
	}
	c.mu.Unlock()

	return updates, nil
}
