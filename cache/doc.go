// Package cache defines the key-value adapter contract, the cache key
// namespaces, and the value codecs used by the user service.
//
// # Overview
//
// The package exports three pieces:
//
//   - Cache: the get/set/delete/scan adapter interface backends implement
//   - UserKey / AgeRangeKey: the key scheme the service owns
//   - Codec: value serialization (JSON by default, msgpack as an alternate)
//
// Concrete backends live in internal/cacheinfra: a Redis adapter for
// production and a sturdyc-backed in-memory adapter for tests and for running
// the demo without Redis.
//
// # Key Scheme
//
// Every key the service writes lives under one of two prefixes:
//
//	user:{id}                 single-record lookups
//	users:age:{min}:{max}     age-range query results
//
// Invalidation is prefix based. Which age ranges a write affects cannot be
// determined without tracking every issued range, so writes conservatively
// drop all keys under users:age: via a scan-and-delete. The prefixes are
// exported so the service and the backends agree on the namespace.
//
// # Codecs
//
// Cached values are opaque byte slices to the backends; the Codec decides the
// encoding. Decode failures wrap ErrSerialization so callers can treat a
// corrupt or version-mismatched entry as a miss instead of failing the read:
//
//	var users []store.User
//	if err := codec.Unmarshal(data, &users); errors.Is(err, cache.ErrSerialization) {
//		// fall through to the store, drop the bad entry
//	}
package cache
