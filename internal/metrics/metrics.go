// Package metrics exposes Prometheus instrumentation for the player core's
// hot paths: the ring buffer, the track info cache, the player control
// surface, and the next-track policy. Nothing in the core reads these back;
// they exist purely for external observability.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RingBufferFillChunks reports how full a player's ring buffer is, in chunks.
	RingBufferFillChunks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ring_buffer_fill_chunks",
			Help: "Current number of filled chunks in the producer/consumer ring buffer",
		},
		[]string{"player"},
	)

	// RingBufferCapacityChunks reports the configured chunk count.
	RingBufferCapacityChunks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ring_buffer_capacity_chunks",
			Help: "Configured chunk capacity of the ring buffer",
		},
		[]string{"player"},
	)

	// CacheLookupsTotal counts track-info cache lookups by result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of track info cache lookups",
		},
		[]string{"result"}, // hit, miss (a stale-entry reload is recorded as miss)
	)

	// CacheEntries reports the current number of cached track info records.
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of track info records held by the cache",
		},
	)

	// CacheRefreshDuration observes the duration of a full cache refresh pass.
	CacheRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cache_refresh_duration_seconds",
			Help:    "Duration of a full track info cache refresh pass",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// PlayerControlOpsTotal counts player façade control calls by outcome.
	PlayerControlOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "player_control_ops_total",
			Help: "Total number of player control operations",
		},
		[]string{"op", "outcome"}, // outcome: ok, error
	)

	// PlayerControlOpDuration observes how long each control operation takes
	// to acquire the player lock and apply its effect.
	PlayerControlOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "player_control_op_duration_seconds",
			Help:    "Duration of player control operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// TrackAdvanceTotal counts automatic track-advance decisions by the reason
	// the next-track policy chose them.
	TrackAdvanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "track_advance_total",
			Help: "Total number of automatic track advances, by policy reason",
		},
		[]string{"reason"}, // queue, repeat, shuffle, sorted, tree, none
	)

	// PluginBreakerState reports a plugin circuit breaker's state (0=closed, 1=half-open, 2=open).
	PluginBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "plugin_breaker_state",
			Help: "Plugin circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"plugin"},
	)

	// PluginBreakerTrips counts transitions of a plugin breaker into the open state.
	PluginBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plugin_breaker_trips_total",
			Help: "Total number of times a plugin circuit breaker tripped open",
		},
		[]string{"plugin"},
	)
)

// RecordCacheLookup records a cache lookup outcome.
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordCacheRefresh records the duration of a completed cache refresh pass.
func RecordCacheRefresh(d time.Duration) {
	CacheRefreshDuration.Observe(d.Seconds())
}

// RecordControlOp records a player control operation's outcome and duration.
func RecordControlOp(op string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	PlayerControlOpsTotal.WithLabelValues(op, outcome).Inc()
	PlayerControlOpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordTrackAdvance records the policy reason behind an automatic track advance.
func RecordTrackAdvance(reason string) {
	TrackAdvanceTotal.WithLabelValues(reason).Inc()
}

// SetRingBufferFill updates the fill/capacity gauges for a named player instance.
func SetRingBufferFill(player string, filled, capacity int) {
	RingBufferFillChunks.WithLabelValues(player).Set(float64(filled))
	RingBufferCapacityChunks.WithLabelValues(player).Set(float64(capacity))
}

// breakerStateValue maps the three gobreaker states onto the documented gauge values.
func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetPluginBreakerState updates the state gauge for a named plugin breaker,
// incrementing the trip counter on every transition into the open state.
func SetPluginBreakerState(plugin, state string) {
	PluginBreakerState.WithLabelValues(plugin).Set(breakerStateValue(state))
	if state == "open" {
		PluginBreakerTrips.WithLabelValues(plugin).Inc()
	}
}
