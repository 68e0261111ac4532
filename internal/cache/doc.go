/*
Package cache implements the on-disk track info store: a process-wide table
mapping file paths to decoded tag/metadata records, persisted between runs in
a versioned binary format and backed by a Bloom filter for fast negative
lookups.

# Overview

The cache is the single source of truth for TrackInfo records. Lookups
either return an existing record (bumping its reference count) or decode
tags via a plugin and insert a new one. A Refresh pass re-stats every
cached path and re-reads tags when the file's mtime has moved, yielding
unchanged/changed/deleted updates for the caller to propagate into the
library, sorted, and queue views.

# On-disk format

	[8-byte header: "CTC\0" + version byte + 3 flag bytes]
	[entry]*

Each entry is word-aligned and begins with its own size, followed by
play count, mtime, duration, bitrate, bpm, 52 reserved bytes, then a
null-terminated string block (filename, codec, codec profile, tag
key/value pairs). See Cache.Close and decodeEntry for the exact layout.

# Negative lookups

A Bloom filter sized for the bucket count lets GetOrLoad answer
"definitely not cached" without walking a bucket chain, which matters
during startup when a large library is being scanned against an empty
or partially-populated cache.
*/
package cache
