// Package cache keeps per-user read results of the photo service in memory.
// Entries are keyed by user so a write by one user only drops that user's
// entries.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/photomap/pkg/photos"
)

// Cache wraps go-cache with typed accessors for image lists and hashtags.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache. ttl bounds how stale a listing can get if an
// invalidation is ever missed; cleanupInterval is how often expired entries
// are purged.
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, cleanupInterval)}
}

func imagesKey(userID, tag string) string {
	return userID + "|images|" + tag
}

func hashtagsKey(userID string) string {
	return userID + "|hashtags"
}

// Images returns the cached metadata listing for (user, tag).
func (c *Cache) Images(userID, tag string) ([]photos.ImageMetadata, bool) {
	v, ok := c.store.Get(imagesKey(userID, tag))
	if !ok {
		return nil, false
	}
	list, ok := v.([]photos.ImageMetadata)
	return list, ok
}

// SetImages caches a metadata listing.
func (c *Cache) SetImages(userID, tag string, list []photos.ImageMetadata) {
	c.store.SetDefault(imagesKey(userID, tag), list)
}

// Hashtags returns the cached vocabulary of a user.
func (c *Cache) Hashtags(userID string) ([]string, bool) {
	v, ok := c.store.Get(hashtagsKey(userID))
	if !ok {
		return nil, false
	}
	tags, ok := v.([]string)
	return tags, ok
}

// SetHashtags caches a user's vocabulary.
func (c *Cache) SetHashtags(userID string, tags []string) {
	c.store.SetDefault(hashtagsKey(userID), tags)
}

// InvalidateUser drops every entry of userID.
func (c *Cache) InvalidateUser(userID string) {
	prefix := userID + "|"
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, expired ones included until the
// next cleanup.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
