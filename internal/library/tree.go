package library

import (
	"sort"
	"strings"

	"github.com/waveterm/core/internal/collate"
	"github.com/waveterm/core/internal/trackinfo"
)

// Album is a container of tracks belonging to one (artist, album name) pair.
type Album struct {
	Name     string
	SortName string
	Date     int

	artist *Artist
	tracks []*Track
}

// Artist returns the owning artist.
func (a *Album) Artist() *Artist { return a.artist }

// Tracks returns the album's tracks in (disc, track, filename, title) order.
func (a *Album) Tracks() []*Track { return a.tracks }

func (a *Album) sortKey(c *collate.Collator) string {
	if a.SortName != "" {
		return a.SortName
	}
	return a.Name
}

// Artist is a container of albums.
type Artist struct {
	Name         string
	SortName     string
	AutoSortName string
	IsCompilation bool
	Expanded     bool

	albums []*Album
}

// Albums returns the artist's albums, ordered per §3 (compilations
// alphabetically, others by date then alphabetically; special "<..."
// names always sort first).
func (a *Artist) Albums() []*Album { return a.albums }

// sortName implements artist_sort_collkey: explicit sort name, else
// (if enabled) the auto-generated "Band, The" form, else the plain name.
func (a *Artist) sortName(smartArtistSort bool) string {
	if a.SortName != "" {
		return a.SortName
	}
	if smartArtistSort && a.AutoSortName != "" {
		return a.AutoSortName
	}
	return a.Name
}

// autoSortName implements auto_artist_sort_name: moves a leading "The " to
// a trailing ", The" form. Returns "" when the name has no such prefix.
func autoSortName(name string) string {
	if len(name) < 4 || !strings.EqualFold(name[:4], "the ") {
		return ""
	}
	rest := strings.TrimLeft(name[4:], " \t")
	if rest == "" {
		return ""
	}
	return rest + ", " + name[:3]
}

// Tree is the artist → album → track navigational view.
type Tree struct {
	collator        *collate.Collator
	smartArtistSort bool
	artists         []*Artist
}

// Config controls Tree construction.
type Config struct {
	Collator        *collate.Collator
	SmartArtistSort bool
}

// NewTree builds an empty Tree.
func NewTree(cfg Config) *Tree {
	c := cfg.Collator
	if c == nil {
		c = collate.Default()
	}
	return &Tree{collator: c, smartArtistSort: cfg.SmartArtistSort}
}

// Artists returns the artists in sort order.
func (t *Tree) Artists() []*Artist { return t.artists }

func isHTTPURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func treeArtistName(ti *trackinfo.TrackInfo) string {
	if isHTTPURL(ti.Path) {
		return "<Stream>"
	}
	if ti.IsCompilation() {
		return "<Various Artists>"
	}
	if v, ok := ti.Tags.Get("albumartist"); ok && v != "" {
		return v
	}
	if v, ok := ti.Tags.Get("artist"); ok && v != "" {
		return v
	}
	return "<No Name>"
}

func treeAlbumName(ti *trackinfo.TrackInfo) string {
	if isHTTPURL(ti.Path) {
		return "<Stream>"
	}
	if v, ok := ti.Tags.Get("album"); ok && v != "" {
		return v
	}
	return "<No Name>"
}

func trackDate(ti *trackinfo.TrackInfo) int {
	if v, ok := ti.Tags.Get("originaldate"); ok {
		if n := numericPrefix(v); n >= 0 {
			return n
		}
	}
	if v, ok := ti.Tags.Get("date"); ok {
		if n := numericPrefix(v); n >= 0 {
			return n
		}
	}
	return 0
}

func numericPrefix(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1
	}
	n := 0
	for _, r := range s[:i] {
		n = n*10 + int(r-'0')
	}
	return n
}

// specialNameCmp keeps names beginning with "<" (reserved sentinels like
// "<Stream>", "<No Name>") sorted first, then falls back to collated
// comparison.
func specialNameCmp(c *collate.Collator, aName, aKey, bName, bKey string) int {
	aSpecial := strings.HasPrefix(aName, "<")
	bSpecial := strings.HasPrefix(bName, "<")
	if aSpecial != bSpecial {
		if aSpecial {
			return -1
		}
		return 1
	}
	return c.Compare(aKey, bKey)
}

// AddTrack inserts ti into the tree, creating its artist/album as needed.
func (t *Tree) AddTrack(ti *trackinfo.TrackInfo) *Track {
	artistName := treeArtistName(ti)
	albumName := treeAlbumName(ti)
	date := trackDate(ti)

	var artistSort, albumSort string
	if !isHTTPURL(ti.Path) {
		artistSort, _ = ti.Tags.Get("artistsort")
		albumSort, _ = ti.Tags.Get("albumsort")
	}

	artist := t.findOrCreateArtist(artistName, artistSort, ti.IsCompilation())
	album := t.findOrCreateAlbum(artist, albumName, albumSort, date)

	track := &Track{Info: ti, Disc: discNumber(ti), TrackNum: trackNumber(ti)}
	t.insertTrack(album, track)

	if date > album.Date {
		album.Date = date
		t.resortAlbums(artist)
	}
	return track
}

func (t *Tree) findOrCreateArtist(name, sortName string, isCompilation bool) *Artist {
	for _, a := range t.artists {
		if a.Name == name {
			if a.SortName == "" && sortName != "" {
				a.SortName = sortName
				t.resortArtists()
			}
			if a.AutoSortName == "" {
				if auto := autoSortName(name); auto != "" {
					a.AutoSortName = auto
				}
			}
			return a
		}
	}
	a := &Artist{Name: name, SortName: sortName, IsCompilation: isCompilation}
	a.AutoSortName = autoSortName(name)
	t.artists = append(t.artists, a)
	t.resortArtists()
	return a
}

func (t *Tree) resortArtists() {
	sort.SliceStable(t.artists, func(i, j int) bool {
		a, b := t.artists[i], t.artists[j]
		return specialNameCmp(t.collator, a.Name, a.sortName(t.smartArtistSort), b.Name, b.sortName(t.smartArtistSort)) < 0
	})
}

func (t *Tree) findOrCreateAlbum(artist *Artist, name, sortName string, date int) *Album {
	for _, al := range artist.albums {
		if al.Name == name {
			return al
		}
	}
	al := &Album{Name: name, SortName: sortName, Date: date, artist: artist}
	artist.albums = append(artist.albums, al)
	t.resortAlbums(artist)
	return al
}

func (t *Tree) resortAlbums(artist *Artist) {
	sort.SliceStable(artist.albums, func(i, j int) bool {
		a, b := artist.albums[i], artist.albums[j]
		if artist.IsCompilation {
			return specialNameCmp(t.collator, a.Name, a.sortKey(t.collator), b.Name, b.sortKey(t.collator)) < 0
		}
		aSpecial := strings.HasPrefix(a.Name, "<")
		bSpecial := strings.HasPrefix(b.Name, "<")
		if aSpecial != bSpecial {
			return aSpecial
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return t.collator.Less(a.sortKey(t.collator), b.sortKey(t.collator))
	})
}

func (t *Tree) insertTrack(album *Album, track *Track) {
	track.album = album
	idx := sort.Search(len(album.tracks), func(i int) bool {
		return !trackLess(album.tracks[i], track)
	})
	album.tracks = append(album.tracks, nil)
	copy(album.tracks[idx+1:], album.tracks[idx:])
	album.tracks[idx] = track
}

// trackLess orders by (disc, track, filename, title) per §3.
func trackLess(a, b *Track) bool {
	if a.Disc != b.Disc {
		return a.Disc < b.Disc
	}
	if a.TrackNum != b.TrackNum {
		return a.TrackNum < b.TrackNum
	}
	if a.Info.Path != b.Info.Path {
		return a.Info.Path < b.Info.Path
	}
	return title(a.Info) < title(b.Info)
}

// RemoveTrack drops track from the tree, removing its album if it becomes
// empty and its artist if the album was the artist's last.
func (t *Tree) RemoveTrack(track *Track) {
	album := track.album
	if album == nil {
		return
	}
	for i, tr := range album.tracks {
		if tr == track {
			album.tracks = append(album.tracks[:i], album.tracks[i+1:]...)
			break
		}
	}
	if len(album.tracks) > 0 {
		return
	}

	artist := album.artist
	for i, al := range artist.albums {
		if al == album {
			artist.albums = append(artist.albums[:i], artist.albums[i+1:]...)
			break
		}
	}
	if len(artist.albums) > 0 {
		return
	}

	for i, a := range t.artists {
		if a == artist {
			t.artists = append(t.artists[:i], t.artists[i+1:]...)
			break
		}
	}
}

// InOrder returns every track in the tree in artist→album→track order.
func (t *Tree) InOrder() []*Track {
	var out []*Track
	for _, artist := range t.artists {
		for _, album := range artist.albums {
			out = append(out, album.tracks...)
		}
	}
	return out
}
