// Package badges mirrors club badge images into a local directory so the
// frontend never hits the upstream image CDN directly.
package badges

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
)

// defaultMinBytes guards against upstream error pages saved as images.
const defaultMinBytes = 100

// defaultPause spaces out badge requests so the mirror run does not
// look like a burst to the upstream CDN.
const defaultPause = 300 * time.Millisecond

// BadgeFetcher downloads one club badge by its upstream id.
type BadgeFetcher interface {
	FetchBadge(ctx context.Context, sofascoreID int64) ([]byte, error)
}

// Cache stores badges as <dir>/<sofascore id>.webp and only downloads
// files that are missing.
type Cache struct {
	fetcher  BadgeFetcher
	dir      string
	logger   *logging.Logger
	pause    time.Duration
	minBytes int
}

func NewCache(fetcher BadgeFetcher, dir string, pause time.Duration, minBytes int, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if pause < 0 {
		pause = defaultPause
	}
	if minBytes <= 0 {
		minBytes = defaultMinBytes
	}

	return &Cache{
		fetcher:  fetcher,
		dir:      dir,
		logger:   logger,
		pause:    pause,
		minBytes: minBytes,
	}
}

// Path returns the local file path for a club badge. It does not check
// whether the file exists.
func (c *Cache) Path(sofascoreID int64) string {
	return filepath.Join(c.dir, fmt.Sprintf("%d.webp", sofascoreID))
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// DownloadAll mirrors badges for every team that does not have one yet
// and reports how many files it wrote. Downloads run sequentially with a
// pause between requests. A failed team is logged and skipped so one bad
// badge never aborts the run.
func (c *Cache) DownloadAll(ctx context.Context, teams []team.Team) int {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.ErrorContext(ctx, "create badges dir", "dir", c.dir, "error", err)
		return 0
	}

	downloaded := 0
	for _, t := range teams {
		if ctx.Err() != nil {
			c.logger.WarnContext(ctx, "badge mirror interrupted", "downloaded", downloaded)
			return downloaded
		}

		path := c.Path(t.SofascoreID)
		if _, err := os.Stat(path); err == nil {
			continue
		}

		if downloaded > 0 {
			if err := sleepContext(ctx, c.pause); err != nil {
				return downloaded
			}
		}

		if err := c.download(ctx, t.SofascoreID, path); err != nil {
			c.logger.WarnContext(ctx, "badge download failed",
				"team", t.Name, "sofascore_id", t.SofascoreID, "error", err)
			continue
		}
		downloaded++
	}

	if downloaded > 0 {
		c.logger.InfoContext(ctx, "badges mirrored", "count", downloaded, "dir", c.dir)
	}

	return downloaded
}

func (c *Cache) download(ctx context.Context, sofascoreID int64, path string) error {
	raw, err := c.fetcher.FetchBadge(ctx, sofascoreID)
	if err != nil {
		return err
	}
	if len(raw) < c.minBytes {
		return fmt.Errorf("payload too small (%d bytes), likely an error page", len(raw))
	}

	// Write via a temp file so a crash mid-write never leaves a
	// truncated badge that would be skipped forever.
	tmp, err := os.CreateTemp(c.dir, "badge-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
