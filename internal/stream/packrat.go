package stream

import "github.com/sigil-lang/sigil/internal/token"

// warmupRounds is the small fixed number of warm-up rounds Put counts
// for each insert (§4.2).
const warmupRounds = 3

// Range is a half-open token index range `[Start, End)` a cache entry
// covers.
type Range struct {
	Start, End int
}

// Key identifies one packrat cache slot: a parser instance and the
// token range it covers. Multiple parser instances (e.g. one per
// open editor buffer) never collide.
type Key struct {
	ParserID int
	Range    Range
}

// Entry is what gets memoized at a Key: the tokens actually consumed,
// the expected-alternative set observed while trying this range, its
// humanized summary, and whether the attempt succeeded.
type Entry struct {
	SampledTokens []token.Token
	Expected      []string
	Summary       string
	Success       bool
}

// Cache is the packrat memoization table keyed by (parser-id, range).
// Entries are stored on both failure and success paths so that a
// repeated lookup over an unchanged range — the common case under
// editor-driven incremental reparse — never re-runs the combinator
// parser.
type Cache struct {
	entries map[Key]*Entry
	hits    int
	misses  int
	warm    int
}

// NewCache returns an empty packrat cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*Entry)}
}

// Get looks up a cached entry, recording a hit or miss in the cache's
// own counters.
func (c *Cache) Get(key Key) (*Entry, bool) {
	e, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

// Put memoizes entry at key and adds warmupRounds to the warm
// counter. It performs no lookups, so the hit and miss counters are
// changed only by Get.
func (c *Cache) Put(key Key, entry *Entry) {
	c.entries[key] = entry
	for i := 0; i < warmupRounds; i++ {
		c.warm++
	}
}

// Invalidate drops every cached entry whose range overlaps [start,
// end) — used when an editor edit changes a span of the source text.
func (c *Cache) Invalidate(start, end int) {
	for key := range c.entries {
		if key.Range.Start < end && start < key.Range.End {
			delete(c.entries, key)
		}
	}
}

// Stats reports the cache's hit/miss/warm counters for the metrics
// snapshot.
type Stats struct {
	Hits, Misses, Warm, Size int
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Warm: c.warm, Size: len(c.entries)}
}
