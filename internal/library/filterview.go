package library

import (
	"strings"

	"github.com/waveterm/core/internal/filter"
	"github.com/waveterm/core/internal/trackinfo"
)

// FilterView composes the two filter layers a library view applies: a
// compiled tag-filter expression (§10.6) and a live search filter
// (substring match over artist/album/title). A track is visible iff both
// accept it.
type FilterView struct {
	tagFilter  filter.Predicate
	liveSearch string
}

// NewFilterView returns a view that accepts everything until a filter or
// live search term is set.
func NewFilterView() *FilterView {
	return &FilterView{tagFilter: func(*trackinfo.TrackInfo) bool { return true }}
}

// SetFilter compiles expr and installs it as the tag-filter layer. An
// empty expr clears the layer back to accept-all.
func (f *FilterView) SetFilter(expr string) error {
	p, err := filter.Compile(expr)
	if err != nil {
		return err
	}
	f.tagFilter = p
	return nil
}

// SetLiveFilter installs text as the live search substring filter. An
// empty string clears it.
func (f *FilterView) SetLiveFilter(text string) {
	f.liveSearch = text
}

// Accepts reports whether ti is visible under both filter layers.
func (f *FilterView) Accepts(ti *trackinfo.TrackInfo) bool {
	if f.tagFilter != nil && !f.tagFilter(ti) {
		return false
	}
	if f.liveSearch == "" {
		return true
	}
	return matchesSubstring(ti, f.liveSearch)
}

func matchesSubstring(ti *trackinfo.TrackInfo, text string) bool {
	needle := strings.ToLower(text)
	for _, key := range []string{"artist", "album", "title"} {
		if v, ok := ti.Tags.Get(key); ok && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// IsStrictlyMoreRestrictive reports whether every track accepted by next
// would also have been accepted by prev — i.e. changing from prev to next
// can only shrink a view, so it's safe to filter in place instead of
// clearing and repopulating from the cache (§4.7).
func IsStrictlyMoreRestrictive(prev, next *FilterView, sample []*trackinfo.TrackInfo) bool {
	for _, ti := range sample {
		if next.Accepts(ti) && !prev.Accepts(ti) {
			return false
		}
	}
	return true
}
