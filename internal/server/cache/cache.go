// Package cache memoizes per-user read results for a bounded time.
// Entries are keyed by user, query kind and arguments so that a write can
// drop exactly the kinds it affects for exactly one user.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Kind names a family of cached reads.
type Kind string

const (
	KindRecords     Kind = "records"
	KindDailyTotals Kind = "daily_totals"
	KindSubjects    Kind = "subjects"
	KindDaySubjects Kind = "day_subjects"
	KindPresence    Kind = "presence"
	KindGoal        Kind = "goal"
	KindColors      Kind = "colors"
	KindUser        Kind = "user"
)

// RecordKinds are derived from study records and go stale on every record write.
var RecordKinds = []Kind{KindRecords, KindDailyTotals, KindSubjects, KindDaySubjects, KindPresence}

// kindTTL caps the lifetime of some kinds below the cache-wide TTL.
var kindTTL = map[Kind]time.Duration{
	KindRecords: time.Minute,
}

const sep = "\x00"

type entry struct {
	value   any
	expires time.Time
}

// Cache is safe for concurrent use. A nil *Cache caches nothing.
type Cache struct {
	lru *expirable.LRU[string, entry]
	ttl time.Duration
	now func() time.Time
}

// New returns a cache holding at most size entries for ttl each.
// A non-positive ttl disables caching and New returns nil.
func New(size int, ttl time.Duration) *Cache {
	if ttl <= 0 {
		return nil
	}
	if size <= 0 {
		size = 1024
	}
	return &Cache{
		lru: expirable.NewLRU[string, entry](size, nil, ttl),
		ttl: ttl,
		now: time.Now,
	}
}

func key(userID string, kind Kind, args string) string {
	return userID + sep + string(kind) + sep + args
}

func (c *Cache) get(userID string, kind Kind, args string) (any, bool) {
	if c == nil {
		return nil, false
	}
	k := key(userID, kind, args)
	e, ok := c.lru.Get(k)
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		c.lru.Remove(k)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) set(userID string, kind Kind, args string, v any) {
	if c == nil {
		return
	}
	ttl := c.ttl
	if limit, ok := kindTTL[kind]; ok && limit < ttl {
		ttl = limit
	}
	c.lru.Add(key(userID, kind, args), entry{value: v, expires: c.now().Add(ttl)})
}

// Invalidate drops every entry of userID for the given kinds.
func (c *Cache) Invalidate(userID string, kinds ...Kind) {
	if c == nil {
		return
	}
	prefixes := make([]string, len(kinds))
	for i, k := range kinds {
		prefixes[i] = userID + sep + string(k) + sep
	}
	for _, k := range c.lru.Keys() {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				c.lru.Remove(k)
				break
			}
		}
	}
}

// InvalidateUser drops every entry of userID.
func (c *Cache) InvalidateUser(userID string) {
	if c == nil {
		return
	}
	p := userID + sep
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, p) {
			c.lru.Remove(k)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Load returns the cached value for (userID, kind, args) or calls fn and
// caches its result. Errors are never cached.
func Load[T any](c *Cache, userID string, kind Kind, args string, fn func() (T, error)) (T, error) {
	if v, ok := c.get(userID, kind, args); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.set(userID, kind, args, v)
	return v, nil
}
