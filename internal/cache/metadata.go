package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/sources"
)

const metadataFileName = "cache_metadata.json"

// Entry records the cache state of one source key after a sync pass.
type Entry struct {
	SourcePath string    `json:"source_path"`
	SourceTime time.Time `json:"source_time"`
	Cached     bool      `json:"cached"`
	Updated    bool      `json:"updated"`
	Error      string    `json:"error,omitempty"`
}

// Status is the cache view served to the settings/status endpoint.
type Status struct {
	LastCheck time.Time             `json:"last_check"`
	Files     map[sources.Key]Entry `json:"files"`
}

type metadataFile struct {
	LastCheck time.Time             `json:"last_check"`
	Files     map[sources.Key]Entry `json:"files"`
}

func loadMetadata(dir string) metadataFile {
	meta := metadataFile{Files: map[sources.Key]Entry{}}
	raw, err := os.ReadFile(filepath.Join(dir, metadataFileName))
	if err != nil {
		return meta
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return metadataFile{Files: map[sources.Key]Entry{}}
	}
	if meta.Files == nil {
		meta.Files = map[sources.Key]Entry{}
	}
	return meta
}

func saveMetadata(dir string, meta metadataFile) error {
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, metadataFileName), raw, 0o644)
}

// loadSettings reads the user override file, a JSON map of source key to
// path. A missing or unreadable file means no overrides.
func loadSettings(path string) map[string]string {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	overrides := map[string]string{}
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil
	}
	return overrides
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
