package library

import (
	"sort"

	"github.com/waveterm/core/internal/collate"
)

// SortKey names one field the sorted list can order by.
type SortKey int

const (
	SortArtist SortKey = iota
	SortAlbum
	SortDisc
	SortTrackNumber
	SortTitle
	SortFilename
	SortDate
)

// DefaultSortKeys is the sorted view's default key tuple (§3).
var DefaultSortKeys = []SortKey{SortArtist, SortAlbum, SortDisc, SortTrackNumber, SortTitle, SortFilename}

// SortedList is a flat ordered sequence over the same TrackInfo set as the
// tree, ordered by a configurable tuple of sort keys.
type SortedList struct {
	collator *collate.Collator
	keys     []SortKey
	tracks   []*Track
}

// NewSortedList builds an empty SortedList using DefaultSortKeys.
func NewSortedList(c *collate.Collator) *SortedList {
	if c == nil {
		c = collate.Default()
	}
	return &SortedList{collator: c, keys: append([]SortKey(nil), DefaultSortKeys...)}
}

// SetKeys replaces the sort-key tuple and re-sorts in O(n log n).
func (s *SortedList) SetKeys(keys []SortKey) {
	s.keys = append([]SortKey(nil), keys...)
	s.resort()
}

// Add inserts track, keeping the list sorted.
func (s *SortedList) Add(track *Track) {
	idx := sort.Search(len(s.tracks), func(i int) bool {
		return !s.less(s.tracks[i], track)
	})
	s.tracks = append(s.tracks, nil)
	copy(s.tracks[idx+1:], s.tracks[idx:])
	s.tracks[idx] = track
}

// Remove drops track from the list.
func (s *SortedList) Remove(track *Track) {
	for i, t := range s.tracks {
		if t == track {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			return
		}
	}
}

// Tracks returns the list in current sort order.
func (s *SortedList) Tracks() []*Track { return s.tracks }

func (s *SortedList) resort() {
	sort.SliceStable(s.tracks, func(i, j int) bool {
		return s.less(s.tracks[i], s.tracks[j])
	})
}

func (s *SortedList) less(a, b *Track) bool {
	for _, k := range s.keys {
		c := s.compareKey(k, a, b)
		if c != 0 {
			return c < 0
		}
	}
	return false
}

func (s *SortedList) compareKey(k SortKey, a, b *Track) int {
	switch k {
	case SortArtist:
		return s.compareStr(artistKeyOf(a), artistKeyOf(b))
	case SortAlbum:
		return s.compareStr(albumKeyOf(a), albumKeyOf(b))
	case SortDisc:
		return compareInt(a.Disc, b.Disc)
	case SortTrackNumber:
		return compareInt(a.TrackNum, b.TrackNum)
	case SortTitle:
		return s.compareStr(title(a.Info), title(b.Info))
	case SortFilename:
		return s.compareStr(a.Info.Path, b.Info.Path)
	case SortDate:
		return compareInt(trackDate(a.Info), trackDate(b.Info))
	}
	return 0
}

func (s *SortedList) compareStr(a, b string) int {
	return s.collator.Compare(a, b)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func artistKeyOf(t *Track) string {
	if a := t.Artist(); a != nil {
		return a.Name
	}
	return treeArtistName(t.Info)
}

func albumKeyOf(t *Track) string {
	if al := t.Album(); al != nil {
		return al.Name
	}
	return treeAlbumName(t.Info)
}
