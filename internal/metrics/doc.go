/*
Package metrics provides Prometheus metrics collection and export for the
player core's hot paths: the ring buffer, the on-disk track cache, control
operations, track advancement, and the plugin circuit breakers.

# Overview

The package provides metrics for:
  - Ring buffer fill level vs. capacity, per player
  - Cache lookup outcomes (hit/miss) and refresh duration
  - Control operation counts, outcomes, and latency (play/pause/seek/...)
  - Track advance reasons (queue, repeat, shuffle, sorted, tree, none)
  - Plugin circuit breaker state and trip counts

# Metrics Endpoint

Metrics are exposed in Prometheus text format by whatever HTTP handler the
caller wires to promhttp.Handler(); this package only registers collectors
against the default registry.

# Available Metrics

Ring Buffer:
  - ring_buffer_fill_chunks: Chunks currently held in the buffer (gauge)
    Labels: player
  - ring_buffer_capacity_chunks: Configured buffer capacity (gauge)
    Labels: player

Cache:
  - cache_lookups_total: Cache lookups by outcome (counter)
    Labels: result (hit, miss; the cache records the reload of a stale
    entry as a miss)
  - cache_entries: Current number of cached TrackInfo records (gauge)
  - cache_refresh_duration_seconds: Full cache refresh duration (histogram)

Control Operations:
  - player_control_ops_total: Control operations by outcome (counter)
    Labels: op, outcome (ok, error)
  - player_control_op_duration_seconds: Control operation latency (histogram)
    Labels: op

Track Advancement:
  - track_advance_total: Track transitions by selection reason (counter)
    Labels: reason (queue, repeat, shuffle, sorted, tree, none)

Plugin Resilience:
  - plugin_breaker_state: Circuit breaker state (gauge)
    Labels: plugin
    Values: 0=closed, 1=half-open, 2=open
  - plugin_breaker_trips_total: Transitions into the open state (counter)
    Labels: plugin

# Usage Example

	metrics.SetRingBufferFill("main", 12, 64)
	metrics.RecordCacheLookup("hit")
	metrics.RecordCacheRefresh(time.Since(start))

	start := time.Now()
	err := doPlay(ctx)
	metrics.RecordControlOp("play", time.Since(start), err)

	metrics.RecordTrackAdvance("shuffle")
	metrics.SetPluginBreakerState("flac-decoder", "open")

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent
use from multiple goroutines; the Prometheus client library handles
synchronization internally.

# Cardinality

Labels are drawn from small, fixed vocabularies (player names, a handful of
control ops, a handful of advance reasons, plugin names), so none of these
metrics are at risk of unbounded cardinality growth.
*/
package metrics
