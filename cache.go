package emit

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
)

const attrCacheShards = 16 // must be a power of two

// DefaultAttrCache is the process-wide cache used by Render, String, Static and any Renderer that was not given its
// own cache.
var DefaultAttrCache = NewAttrCache()

// NewAttrCache returns an empty attribute cache.
func NewAttrCache() *AttrCache {
	cache := &AttrCache{}
	for i := range cache.shards {
		cache.shards[i].entries = make(map[uint64]string, 64)
	}
	return cache
}

// An AttrCache maps the structural hash of an attribute set to its serialized form.  Entries are written once and
// never evicted: attribute sets come from a bounded set of call sites in templates, so the cache stops growing
// once every call site has rendered.  An AttrCache is safe for concurrent use.
type AttrCache struct {
	shards [attrCacheShards]attrCacheShard
	hits   atomic.Uint64
	misses atomic.Uint64
}

type attrCacheShard struct {
	mu      sync.RWMutex
	entries map[uint64]string
}

// CacheStats describes the state of an AttrCache.
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Stats returns the number of entries in the cache and how often it has been consulted.
func (cache *AttrCache) Stats() CacheStats {
	stats := CacheStats{Hits: cache.hits.Load(), Misses: cache.misses.Load()}
	for i := range cache.shards {
		shard := &cache.shards[i]
		shard.mu.RLock()
		stats.Entries += len(shard.entries)
		shard.mu.RUnlock()
	}
	return stats
}

// Serialize converts an attribute set into a fragment suitable for appending after a tag name: each attribute is
// preceded by a space, values are escaped and quoted, true values produce a bare name and false or nil values are
// omitted.  A leading javascript: scheme is stripped from href values.
//
// Attribute sets with the same content produce the same fragment regardless of their order; the first order seen
// wins.  An error wrapping ErrUnsafeAttributeName is returned if any name contains <, >, &, " or '.
func (cache *AttrCache) Serialize(attrs Attrs) (string, error) {
	key := attrs.hash()
	if frag, ok := cache.load(key); ok {
		cache.hits.Add(1)
		return frag, nil
	}
	cache.misses.Add(1)
	frag, err := serializeAttrs(attrs)
	if err != nil {
		return ``, err
	}
	return cache.store(key, frag), nil
}

func (cache *AttrCache) shard(key uint64) *attrCacheShard {
	return &cache.shards[key&(attrCacheShards-1)]
}

func (cache *AttrCache) load(key uint64) (string, bool) {
	shard := cache.shard(key)
	shard.mu.RLock()
	frag, ok := shard.entries[key]
	shard.mu.RUnlock()
	return frag, ok
}

// store inserts frag unless another caller got there first, and returns whichever fragment is cached.
func (cache *AttrCache) store(key uint64, frag string) string {
	shard := cache.shard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if prev, ok := shard.entries[key]; ok {
		return prev
	}
	shard.entries[key] = frag
	return frag
}

func serializeAttrs(attrs Attrs) (string, error) {
	for _, attr := range attrs {
		if strings.ContainsAny(attr.Name, `<>&"'`) {
			return ``, fmt.Errorf(`%w %q, names must not contain <, >, &, " or '`, ErrUnsafeAttributeName, attr.Name)
		}
	}
	buf := make([]byte, 0, 24*len(attrs))
	for _, attr := range attrs {
		str, kind := attrValue(attr.Value)
		switch kind {
		case absentValue:
			continue
		case flagValue:
			buf = append(buf, ' ')
			buf = append(buf, attr.Name...)
			continue
		}
		str = Escape(str)
		if attr.Name == `href` {
			str = rxJavascript.ReplaceAllLiteralString(str, ``)
		}
		buf = append(buf, ' ')
		buf = append(buf, attr.Name...)
		buf = append(buf, '=', '"')
		buf = append(buf, str...)
		buf = append(buf, '"')
	}
	return string(buf), nil
}

// rxJavascript matches one or more javascript: schemes at the start of an href, along with any whitespace before them.
var rxJavascript = regexp.MustCompile(`^\s*(?:javascript:)+`)
