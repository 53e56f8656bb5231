// Package cache mirrors the configured ERP exports into a local directory
// so slow or flaky network shares never stall a refresh pass. Staleness
// checks are throttled, copies happen only when the source modification
// time moves, and per-key failures never abort the pass.
package cache

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/config"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
	"go.uber.org/multierr"
)

const defaultCheckInterval = 5 * time.Minute

// ManagerParams configure the cache manager.
type ManagerParams struct {
	Logger        *logger.Logger
	Dir           string
	CheckInterval time.Duration
	SettingsFile  string
	Defaults      map[sources.Key]string
}

// Manager owns the mirror directory and its metadata document.
type Manager struct {
	logg     *logger.Logger
	dir      string
	interval time.Duration
	settings string
	defaults map[sources.Key]string
	now      func() time.Time

	mu   sync.Mutex
	meta metadataFile
}

// NewManager builds a cache manager, restoring metadata persisted by a
// previous run.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cache manager logger required")
	}
	if params.Dir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cache directory required")
	}
	interval := params.CheckInterval
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	defaults := params.Defaults
	if defaults == nil {
		defaults = map[sources.Key]string{}
	}
	return &Manager{
		logg:     params.Logger,
		dir:      params.Dir,
		interval: interval,
		settings: params.SettingsFile,
		defaults: defaults,
		now:      time.Now,
		meta:     loadMetadata(params.Dir),
	}, nil
}

// SourceDefaults maps the configured source paths by reader key.
func SourceDefaults(cfg config.SourcesConfig) map[sources.Key]string {
	return map[sources.Key]string{
		sources.KeyOrderLines:       cfg.OrderLines,
		sources.KeyShopOrders:       cfg.ShopOrders,
		sources.KeyJobRegistry:      cfg.JobRegistry,
		sources.KeyLaborHistory:     cfg.LaborHistory,
		sources.KeyPartInventory:    cfg.PartInventory,
		sources.KeyCustomers:        cfg.Customers,
		sources.KeyComments:         cfg.Comments,
		sources.KeyMaterialShortage: cfg.MaterialShortage,
		sources.KeyOpenPO:           cfg.OpenPO,
	}
}

// Sync refreshes the mirror directory. When the throttle interval has not
// elapsed and force is false, the previous entries are returned untouched.
// Copy failures are recorded per key and aggregated in the returned error;
// the pass itself always completes.
func (m *Manager) Sync(ctx context.Context, force bool) (map[sources.Key]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !force && now.Sub(m.meta.LastCheck) < m.interval {
		return cloneEntries(m.meta.Files), nil
	}

	var errs error
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return cloneEntries(m.meta.Files), pkgerrors.Wrap(pkgerrors.CodeCacheCopyFailure, err, "creating cache dir")
	}

	overrides := loadSettings(m.settings)
	files := make(map[sources.Key]Entry, len(m.defaults))
	for _, key := range sources.AllKeys() {
		entry, err := m.syncKey(ctx, key, overrides)
		files[key] = entry
		errs = multierr.Append(errs, err)
	}

	m.meta.LastCheck = now
	m.meta.Files = files
	if err := saveMetadata(m.dir, m.meta); err != nil {
		errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeCacheCopyFailure, err, "persisting cache metadata"))
	}
	return cloneEntries(files), errs
}

func (m *Manager) syncKey(ctx context.Context, key sources.Key, overrides map[string]string) (Entry, error) {
	sourcePath := m.sourcePath(key, overrides)
	if sourcePath == "" {
		return Entry{Error: "no path configured"}, nil
	}

	entry := Entry{SourcePath: sourcePath}
	info, err := os.Stat(sourcePath)
	if err != nil {
		// Keep any prior mirror on disk; reads fall back to it.
		entry.Error = "source file not found"
		return entry, nil
	}
	entry.SourceTime = info.ModTime()

	mirror := filepath.Join(m.dir, filepath.Base(sourcePath))
	var mirrorTime time.Time
	if mirrorInfo, err := os.Stat(mirror); err == nil {
		mirrorTime = mirrorInfo.ModTime()
	}
	previous := m.meta.Files[key].SourceTime

	if !entry.SourceTime.After(mirrorTime) && entry.SourceTime.Equal(previous) {
		entry.Cached = fileExists(mirror)
		return entry, nil
	}

	if err := copyFile(sourcePath, mirror, entry.SourceTime); err != nil {
		entry.Error = err.Error()
		return entry, pkgerrors.Wrap(pkgerrors.CodeCacheCopyFailure, err, "mirroring "+key.String())
	}
	entry.Updated = true
	entry.Cached = true
	m.logg.Info(m.logg.WithSource(ctx, key.String()), "source mirror updated")
	return entry, nil
}

// Resolve returns the path a reader should open for a key: the mirror when
// present, then a user-override path that exists on disk, then the
// configured default.
func (m *Manager) Resolve(key sources.Key) string {
	overrides := loadSettings(m.settings)

	if sourcePath := m.sourcePath(key, overrides); sourcePath != "" {
		mirror := filepath.Join(m.dir, filepath.Base(sourcePath))
		if fileExists(mirror) {
			return mirror
		}
	}
	if override := overrides[key.String()]; override != "" && fileExists(override) {
		return override
	}
	return m.defaults[key]
}

// Status reports the last sync time and per-key entries, with the cached
// flag recomputed against the directory as it stands now.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	files := make(map[sources.Key]Entry, len(m.meta.Files))
	for _, key := range sources.AllKeys() {
		entry := m.meta.Files[key]
		if entry.SourcePath == "" {
			entry.SourcePath = m.defaults[key]
		}
		if entry.SourcePath != "" {
			entry.Cached = fileExists(filepath.Join(m.dir, filepath.Base(entry.SourcePath)))
		}
		files[key] = entry
	}
	return Status{LastCheck: m.meta.LastCheck, Files: files}
}

func (m *Manager) sourcePath(key sources.Key, overrides map[string]string) string {
	if override := overrides[key.String()]; override != "" {
		return override
	}
	return m.defaults[key]
}

func cloneEntries(files map[sources.Key]Entry) map[sources.Key]Entry {
	clone := make(map[sources.Key]Entry, len(files))
	for key, entry := range files {
		clone[key] = entry
	}
	return clone
}

// copyFile mirrors src to dst, carrying the source's mtime so staleness
// comparisons stay meaningful across passes.
func copyFile(src, dst string, modTime time.Time) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, modTime, modTime)
}
