// Package usercache implements the cache-aside user service: read-through
// lookups over the relational store with write-invalidation of affected keys.
//
// # Overview
//
// CachedUserService sits between a relational users store and a key-value
// cache. Reads ask the cache first and populate it on miss; writes mutate the
// store and then delete the cache keys the write could have affected. The
// cache is never the source of truth: every entry is a TTL-bounded derived
// copy that can be dropped at any time.
//
// # Read Path
//
//  1. Build the key (user:{id} or users:age:{min}:{max})
//  2. On hit, decode and return
//  3. On miss, read the store; not-found returns store.ErrUserNotFound
//  4. Encode the result and store it with the configured TTL
//
// Cache failures never fail a read: backend errors and undecodable entries
// degrade to a direct store read, and a corrupt entry is deleted so the next
// read repopulates it. Store errors are fatal to the request; there is no
// fallback data source. Negative lookups are not cached, matching the
// reference behavior this service reproduces.
//
// # Write Path and Invalidation
//
// Which age ranges a write affects cannot be determined without indexing
// every issued range key, so writes invalidate conservatively:
//
//   - CreateUser drops all users:age:* keys (the new row may belong to any
//     cached range) and leaves user:{id} alone, since the new id cannot have
//     been cached.
//   - UpdateUser drops user:{id} and all users:age:* keys, because an age
//     change can move the row between ranges.
//
// Precision is deliberately sacrificed for correctness: a range result that
// could have gone stale is never served past its invalidation. Unlike the
// read path, invalidation failures are surfaced: when the cache cannot be
// cleared after a successful store write, CreateUser and UpdateUser return
// the error so the caller knows stale entries may still be served.
//
// # Known Limitation
//
// Between the store write and the invalidation a concurrent reader can
// repopulate a key with pre-write data, which then lives until its TTL. This
// is the classic cache-aside gap; closing it needs distributed locking or
// versioned keys and is out of scope here.
//
// # See Also
//
// The cache package defines the adapter contract, key scheme and codecs; the
// store package owns the relational side; pkg/di wires the three together.
package usercache
