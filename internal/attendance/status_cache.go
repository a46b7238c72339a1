package attendance

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// StatusCache memoizes computed course statuses for a short TTL so dashboard
// style callers do not re-aggregate records on every request. Writes to a
// course or its records must invalidate the entry.
type StatusCache struct {
	entries *gocache.Cache
}

// NewStatusCache constructs a cache with the supplied TTL. Non-positive TTLs
// fall back to 30 seconds.
func NewStatusCache(ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatusCache{entries: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached status for a course, if present and fresh.
func (c *StatusCache) Get(courseID string) (CourseStatus, bool) {
	if c == nil {
		return CourseStatus{}, false
	}
	value, ok := c.entries.Get(courseID)
	if !ok {
		return CourseStatus{}, false
	}
	status, ok := value.(CourseStatus)
	return status, ok
}

// Put stores a computed status.
func (c *StatusCache) Put(status CourseStatus) {
	if c == nil {
		return
	}
	c.entries.SetDefault(status.CourseID, status)
}

// Invalidate drops the entry for a course.
func (c *StatusCache) Invalidate(courseID string) {
	if c == nil {
		return
	}
	c.entries.Delete(courseID)
}
