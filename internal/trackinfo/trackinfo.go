// Package trackinfo defines the immutable-after-initialization TrackInfo
// record shared by the cache, the library views, and the player, along with
// its reference counting and tag-matching helpers.
package trackinfo

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrDuplicatePath is returned when an operation would create two TrackInfo
// records for the same path in the same cache.
var ErrDuplicatePath = errors.New("trackinfo: duplicate path")

// Unknown is the sentinel for an unknown duration or bitrate.
const Unknown = -1

// Match flags for Matches, mirroring which fields a search term may hit.
const (
	MatchArtist = 1 << iota
	MatchAlbum
	MatchTitle
	MatchAlbumArtist
)

// TrackInfo describes one audio source: its path, decoded tags, and the
// handful of fields the player and cache need outside the tag dictionary.
// Everything except PlayCount is fixed at construction time; PlayCount is
// the one field the player façade mutates in place (see IncrementPlayCount),
// because persisting it must survive a cache refresh that otherwise leaves
// the record untouched.
type TrackInfo struct {
	Path         string
	MTime        int64 // unix seconds; -1 for remote streams
	Duration     int   // seconds; Unknown if not known
	Bitrate      int   // bits/sec; Unknown if not known
	BPM          int
	Codec        string
	CodecProfile string
	Tags         *Tags

	ref       atomic.Int32
	mu        sync.Mutex
	playCount int32
}

// New creates a TrackInfo with a single reference and an empty tag set.
func New(path string) *TrackInfo {
	ti := &TrackInfo{
		Path:     path,
		Duration: Unknown,
		Bitrate:  Unknown,
		Tags:     NewTags(),
	}
	ti.ref.Store(1)
	return ti
}

// Ref increments the reference count and returns ti, for chaining at call
// sites that hand out a new reference (cache.GetOrLoad, view insertion).
func (ti *TrackInfo) Ref() *TrackInfo {
	ti.ref.Add(1)
	return ti
}

// Unref decrements the reference count and reports whether it reached zero,
// at which point the caller must drop every pointer to ti.
func (ti *TrackInfo) Unref() bool {
	return ti.ref.Add(-1) == 0
}

// RefCount returns the current reference count, chiefly for tests.
func (ti *TrackInfo) RefCount() int {
	return int(ti.ref.Load())
}

// PlayCount returns the current play count.
func (ti *TrackInfo) PlayCount() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return int(ti.playCount)
}

// SetPlayCount sets the play count verbatim, used when restoring a record
// from the on-disk cache.
func (ti *TrackInfo) SetPlayCount(n int) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.playCount = int32(n)
}

// IncrementPlayCount bumps the play count by one. Called by the player
// façade when a track reaches EOF naturally (never on manual skip or
// seek-to-end).
func (ti *TrackInfo) IncrementPlayCount() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.playCount++
	return int(ti.playCount)
}

// IsRemote reports whether Path names an http(s) stream rather than a local
// file: remote tracks disable seeking and use a different mtime/staleness
// policy in the cache.
func (ti *TrackInfo) IsRemote() bool {
	return IsRemotePath(ti.Path)
}

// IsRemotePath reports whether path looks like an http(s) stream URL.
func IsRemotePath(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// HasTag reports whether ti carries any of artist, album, or title, mirroring
// the reference implementation's track_info_has_tag: a record with none of
// these is treated as untagged for display purposes.
func (ti *TrackInfo) HasTag() bool {
	return ti.Tags.Has("artist") || ti.Tags.Has("album") || ti.Tags.Has("title")
}

// Matches reports whether every whitespace-separated word in text is found,
// case-insensitively, as a substring of at least one field selected by
// flags.
func (ti *TrackInfo) Matches(text string, flags int) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return true
	}

	var fields []string
	if flags&MatchArtist != 0 {
		if v, ok := ti.Tags.Get("artist"); ok {
			fields = append(fields, strings.ToLower(v))
		}
	}
	if flags&MatchAlbum != 0 {
		if v, ok := ti.Tags.Get("album"); ok {
			fields = append(fields, strings.ToLower(v))
		}
	}
	if flags&MatchTitle != 0 {
		if v, ok := ti.Tags.Get("title"); ok {
			fields = append(fields, strings.ToLower(v))
		}
	}
	if flags&MatchAlbumArtist != 0 {
		if v, ok := ti.Tags.Get("albumartist"); ok {
			fields = append(fields, strings.ToLower(v))
		}
	}

	for _, word := range words {
		found := false
		for _, field := range fields {
			if strings.Contains(field, word) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsCompilation reports whether this track should be treated as part of a
// various-artists compilation: an explicit "compilation" tag, or an
// albumartist tag that disagrees with the artist tag.
func (ti *TrackInfo) IsCompilation() bool {
	if v, ok := ti.Tags.Get("compilation"); ok {
		v = strings.TrimSpace(v)
		if v != "" && v != "0" {
			return true
		}
	}
	albumArtist, hasAA := ti.Tags.Get("albumartist")
	artist, hasA := ti.Tags.Get("artist")
	if hasAA && hasA && !strings.EqualFold(albumArtist, artist) {
		return true
	}
	return false
}
