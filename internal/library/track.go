// Package library organizes tracks into the lexicographic artist→album→
// track tree and its parallel sorted flat view, with shuffle ordering and
// a two-layer filter (compiled tag expression plus live search). Grounded
// on cmus's lib.c/tree.c/sort.c, reimplemented with handle-based slices
// instead of intrusive red-black trees (see SPEC_FULL.md §9).
package library

import (
	"strconv"
	"strings"

	"github.com/waveterm/core/internal/trackinfo"
)

// AAAMode restricts the set of tracks a shuffle/sorted/tree walk considers
// relative to a reference track: all tracks, same artist, or same album.
type AAAMode int

const (
	AAAAll AAAMode = iota
	AAAArtist
	AAAAlbum
)

// Track is a per-view wrapper around a TrackInfo, carrying the ordering
// keys this view cares about and a membership link back to its album.
type Track struct {
	Info *trackinfo.TrackInfo

	Disc       int
	TrackNum   int
	ShuffleKey uint64

	album *Album
}

// Album returns the album this track currently belongs to.
func (t *Track) Album() *Album { return t.album }

// Artist returns the artist of this track's album.
func (t *Track) Artist() *Artist {
	if t.album == nil {
		return nil
	}
	return t.album.artist
}

func discNumber(ti *trackinfo.TrackInfo) int {
	return numericTag(ti, "discnumber")
}

func trackNumber(ti *trackinfo.TrackInfo) int {
	return numericTag(ti, "tracknumber")
}

// numericTag parses a numeric tag, returning a value that sorts after any
// known numeric value when the tag is absent or unparsable ("unknown
// numeric keys sort after known ones").
func numericTag(ti *trackinfo.TrackInfo, key string) int {
	v, ok := ti.Tags.Get(key)
	if !ok {
		return 1<<31 - 1
	}
	// Tags like "3/12" (track/total) keep only the leading number.
	if i := strings.IndexByte(v, '/'); i >= 0 {
		v = v[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 1<<31 - 1
	}
	return n
}

func title(ti *trackinfo.TrackInfo) string {
	if v, ok := ti.Tags.Get("title"); ok && v != "" {
		return v
	}
	return ti.Path
}
