package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dshills/prgate/internal/providers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Entry is one cached gateway response.
type Entry struct {
	Key        string    `json:"key"`
	Content    string    `json:"content"`
	TokensUsed int       `json:"tokensUsed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store is a directory of cached gateway responses on an afero filesystem.
type Store struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
	now func() time.Time
}

// Open creates the cache directory if needed and returns a Store. A zero ttl
// keeps entries forever.
func Open(fs afero.Fs, dir string, ttl time.Duration) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{fs: fs, dir: dir, ttl: ttl, now: time.Now}, nil
}

// Get returns the entry stored under key. Expired entries are removed and
// reported as a miss.
func (s *Store) Get(key string) (Entry, bool) {
	path := s.entryPath(key)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false
	}
	if s.expired(entry) {
		s.fs.Remove(path)
		return Entry{}, false
	}
	return entry, true
}

// Put stores a response under key.
func (s *Store) Put(key string, resp providers.ChatResponse) error {
	entry := Entry{
		Key:        key,
		Content:    resp.Content,
		TokensUsed: resp.TokensUsed,
		CreatedAt:  s.now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return afero.WriteFile(s.fs, s.entryPath(key), data, 0o644)
}

// Clear removes all cache entries and returns how many were removed.
func (s *Store) Clear() (int, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	var removed int
	for _, info := range infos {
		if filepath.Ext(info.Name()) != ".json" {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.dir, info.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats describes the contents of a Store.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// Stats walks the cache directory.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{Dir: s.dir}
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, info := range infos {
		if filepath.Ext(info.Name()) != ".json" {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, info.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if s.expired(entry) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) expired(e Entry) bool {
	return s.ttl > 0 && s.now().Sub(e.CreatedAt) > s.ttl
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Key derives the cache key for a request sent to provider.
func Key(provider string, req providers.ChatRequest) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%s\x00%s", provider, req.Model, req.System, req.Prompt)))
	return fmt.Sprintf("%x", h)
}

// Wrap returns a Gateway that answers repeated requests from s and only
// reaches next on a miss. Failed calls are never cached, and neither are
// replies the request's Accept check rejects, so re-running a failed pass
// reaches the gateway again.
func Wrap(next providers.Gateway, s *Store, log *logrus.Entry) providers.Gateway {
	return &cachingGateway{next: next, store: s, log: log}
}

type cachingGateway struct {
	next  providers.Gateway
	store *Store
	log   *logrus.Entry
}

func (c *cachingGateway) Name() string { return c.next.Name() }

func (c *cachingGateway) Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	key := Key(c.next.Name(), req)
	if entry, ok := c.store.Get(key); ok {
		c.log.WithField("model", req.Model).Debug("gateway cache hit")
		return providers.ChatResponse{Content: entry.Content, TokensUsed: entry.TokensUsed}, nil
	}

	resp, err := c.next.Chat(ctx, req)
	if err != nil {
		return resp, err
	}
	if req.Accept != nil {
		if err := req.Accept(resp.Content); err != nil {
			c.log.WithField("model", req.Model).WithError(err).Debug("not caching unusable gateway reply")
			return resp, nil
		}
	}
	if err := c.store.Put(key, resp); err != nil {
		c.log.WithError(err).Warn("failed to write gateway cache entry")
	}
	return resp, nil
}

// DefaultDir returns $XDG_CACHE_HOME/prgate or the OS equivalent.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "prgate"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "prgate"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "prgate", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "prgate", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "prgate"), nil
	}
}
