// Package volumecache keeps a short-lived in-memory listing of the mounted
// volumes directory so path translation doesn't list it on every call.
package volumecache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/sverrirab/mtbridge/internal/logging"
)

// DefaultTTL is the staleness bound for a volume listing.
const DefaultTTL = 30 * time.Second

// Cache manages the volume listing.
type Cache struct {
	fs     afero.Fs
	clock  clockwork.Clock
	root   string
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	volumes   []string
	refreshed time.Time
}

// Options configures a Cache. Zero values pick production defaults.
type Options struct {
	Fs     afero.Fs
	Clock  clockwork.Clock
	TTL    time.Duration
	Logger *slog.Logger
}

// New creates a cache for the volumes under root. If ttl is 0, DefaultTTL is used.
func New(root string, opts Options) *Cache {
	c := &Cache{
		fs:     opts.Fs,
		clock:  opts.Clock,
		root:   root,
		ttl:    opts.TTL,
		logger: logging.OrDiscard(opts.Logger),
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.ttl == 0 {
		c.ttl = DefaultTTL
	}
	return c
}

// Root returns the directory whose entries are listed.
func (c *Cache) Root() string {
	return c.root
}

// Volumes returns the cached volume names, refreshing them if stale.
// A failed listing yields an empty list and is retried on the next call.
func (c *Cache) Volumes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.refreshed.IsZero() && c.clock.Since(c.refreshed) < c.ttl {
		return c.snapshot()
	}

	names, err := afero.ReadDir(c.fs, c.root)
	if err != nil {
		c.logger.Debug("listing volumes failed", "root", c.root, "error", err)
		c.volumes = nil
		c.refreshed = time.Time{}
		return []string{}
	}

	c.volumes = c.volumes[:0]
	for _, fi := range names {
		c.volumes = append(c.volumes, fi.Name())
	}
	c.refreshed = c.clock.Now()
	c.logger.Debug("volumes refreshed", "root", c.root, "count", len(c.volumes))
	return c.snapshot()
}

// Invalidate forces the next Volumes call to list the directory again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshed = time.Time{}
}

func (c *Cache) snapshot() []string {
	out := make([]string, len(c.volumes))
	copy(out, c.volumes)
	return out
}
