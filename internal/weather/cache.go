package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/chris-regnier/agendactl/internal/log"
)

// Cache is a Fetcher that remembers icons on disk. Forecasts for a given
// place and instant don't change once fetched, so entries never expire.
// Failed fetches are not cached.
type Cache struct {
	d    *diskv.Diskv
	next Fetcher
}

// NewCache wraps next with an on-disk cache rooted at dir.
func NewCache(dir string, next Fetcher) *Cache {
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      64 * 1024,
		}),
		next: next,
	}
}

// cacheKey makes `YYYY/MM/DD/lat_lon_ts` (UTC date of ts).
func cacheKey(lat, lon float64, ts int64) string {
	day := time.Unix(ts, 0).UTC().Format("2006/01/02")
	return fmt.Sprintf("%s/%.4f_%.4f_%d", day, lat, lon, ts)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

// FetchIcon returns the cached icon when present, otherwise asks the wrapped
// Fetcher and stores a successful answer.
func (c *Cache) FetchIcon(ctx context.Context, lat, lon float64, ts int64) (string, error) {
	key := cacheKey(lat, lon, ts)
	if c.d.Has(key) {
		if b, err := c.d.Read(key); err == nil {
			log.Debug("weather cache hit", "key", key)
			return string(b), nil
		}
	}

	icon, err := c.next.FetchIcon(ctx, lat, lon, ts)
	if err != nil {
		return "", err
	}
	if err := c.d.Write(key, []byte(icon)); err != nil {
		log.Error("failed to cache weather icon", err, "key", key)
	}
	return icon, nil
}

// Len returns the number of cached icons.
func (c *Cache) Len() int {
	n := 0
	for range c.d.Keys(nil) {
		n++
	}
	return n
}

// Purge removes every cached icon.
func (c *Cache) Purge() error {
	return c.d.EraseAll()
}
