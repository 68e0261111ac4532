package library

import (
	"math/rand"
	"sort"
)

// Reshuffle assigns a fresh random shuffle key to every track, seeded by
// seed for determinism (tests reshuffle with a known seed and expect an
// identical resulting order).
func Reshuffle(tracks []*Track, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for _, t := range tracks {
		t.ShuffleKey = r.Uint64()
	}
}

// ShuffleOrder returns tracks sorted ascending by shuffle key.
func ShuffleOrder(tracks []*Track) []*Track {
	out := append([]*Track(nil), tracks...)
	sortByShuffleKey(out)
	return out
}

func sortByShuffleKey(tracks []*Track) {
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ShuffleKey < tracks[j].ShuffleKey })
}
