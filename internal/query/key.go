// Package query is the data-fetching layer: a keyed cache with per-query
// stale times, deduplication of concurrent identical fetches, retries and
// invalidation by key prefix.
package query

import "strings"

const keySeparator = "/"

// Key identifies a cached query, most general segment first, e.g.
// {"employer", "jobs", "15", "applications"}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, keySeparator)
}

// Append returns a new key with extra segments. Empty segments are skipped.
func (k Key) Append(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// matchesPrefix reports whether the encoded key equals prefix or lies below it.
func matchesPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+keySeparator)
}
