// Package engine is the composition root (§9): the single injected value
// that owns the cache, the three views (tree, sorted list, queue), the
// player façade, and the supervision tree. A host program constructs one
// Engine and drives it; tests construct their own.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/waveterm/core/internal/cache"
	"github.com/waveterm/core/internal/collate"
	"github.com/waveterm/core/internal/library"
	"github.com/waveterm/core/internal/logging"
	"github.com/waveterm/core/internal/nexttrack"
	"github.com/waveterm/core/internal/player"
	"github.com/waveterm/core/internal/playlist"
	"github.com/waveterm/core/internal/plugin"
	"github.com/waveterm/core/internal/queue"
	"github.com/waveterm/core/internal/resilience"
	"github.com/waveterm/core/internal/supervisor"
	"github.com/waveterm/core/internal/trackinfo"
)

// ErrNoPreviousTrack is returned by Previous when the current view has no
// track before the current one.
var ErrNoPreviousTrack = errors.New("engine: no previous track")

// Config wires an Engine to a host's concrete decoder/output plugins and
// cache directory.
type Config struct {
	ConfigDir      string
	DecoderFactory plugin.DecoderFactory
	PluginName     string
	Output         plugin.Output
	BufferChunks   int

	// ResilienceConfig configures the circuit breakers wrapping decoder and
	// output calls (§10.4). Zero value uses resilience.DefaultConfig().
	ResilienceConfig resilience.Config

	SmartArtistSort bool
}

// Engine owns every long-lived piece of player-core state.
type Engine struct {
	mu sync.Mutex

	cfg Config

	cache  *cache.Cache
	tree   *library.Tree
	sorted *library.SortedList
	filter *library.FilterView
	queue  *queue.Queue
	player *player.Player
	super  *supervisor.SupervisorTree

	// playMode holds the next-track policy's toggles, set by the host UI.
	playMode PlayMode

	current *library.Track
}

// PlayMode bundles the next-track policy toggles a host UI exposes (§4.8).
type PlayMode struct {
	PlayLibrary   bool
	PlaySorted    bool
	Shuffle       bool
	Repeat        bool
	AutoReshuffle bool
	AAAMode       nexttrack.AAAMode
	RepeatCurrent bool
}

// DefaultPlayMode returns tree-mode playback with repeat off, matching the
// reference implementation's defaults.
func DefaultPlayMode() PlayMode {
	return PlayMode{PlayLibrary: true, AAAMode: nexttrack.AAAAll}
}

// New constructs an Engine. Call Init to load the on-disk cache, build the
// supervision tree, and initialize the output plugin, then ServeBackground
// to start the tree.
func New(cfg Config) *Engine {
	pluginName := cfg.PluginName
	if pluginName == "" {
		pluginName = "default"
	}
	rcfg := cfg.ResilienceConfig
	if (rcfg == resilience.Config{}) {
		rcfg = resilience.DefaultConfig()
	}

	e := &Engine{cfg: cfg, playMode: DefaultPlayMode()}

	e.queue = queue.New()
	e.tree = library.NewTree(library.Config{Collator: collate.Default(), SmartArtistSort: cfg.SmartArtistSort})
	e.sorted = library.NewSortedList(collate.Default())
	e.filter = library.NewFilterView()

	decoderFactory := cfg.DecoderFactory
	wrappedFactory := plugin.DecoderFactory(func(path string) plugin.Decoder {
		inner := decoderFactory(path)
		return resilience.NewDecoder(pluginName, inner, rcfg)
	})

	e.cache = cache.New(cache.DefaultConfig(cfg.ConfigDir), e.loadTrack(wrappedFactory))

	var out plugin.Output
	if cfg.Output != nil {
		out = resilience.NewOutput(pluginName, cfg.Output, rcfg)
	}

	e.player = player.New(player.Config{
		DecoderFactory: wrappedFactory,
		Output:         out,
		NextTrack:      e.nextTrackCallback,
		ResolveTrack:   e.resolveTrack,
		BufferChunks:   cfg.BufferChunks,
	})

	return e
}

// loadTrack returns a cache.Loader that decodes path via factory and reads
// its tags, bridging the decoder plugin contract into a TrackInfo.
func (e *Engine) loadTrack(factory plugin.DecoderFactory) cache.Loader {
	return func(ctx context.Context, path string) (*trackinfo.TrackInfo, error) {
		dec := factory(path)
		defer dec.Close()

		if _, _, err := dec.Open(ctx, path); err != nil {
			return nil, err
		}
		tags, err := dec.ReadTags()
		if err != nil {
			return nil, err
		}

		ti := trackinfo.New(path)
		ti.Duration = dec.Duration()
		ti.Bitrate = dec.Bitrate()
		ti.Codec = dec.Codec()
		ti.CodecProfile = dec.CodecProfile()
		if !ti.IsRemote() {
			if info, statErr := os.Stat(path); statErr == nil {
				ti.MTime = info.ModTime().Unix()
			}
		} else {
			ti.MTime = -1
		}
		for k, v := range tags {
			ti.Tags.Set(k, v)
		}
		return ti, nil
	}
}

// Init loads the on-disk cache, builds the supervision tree (with the
// producer and consumer services in its pipeline layer), and initializes
// the output plugin. The tree does not run until ServeBackground.
func (e *Engine) Init(ctx context.Context, logger *slog.Logger) error {
	if err := e.cache.Init(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("cache init reported corruption, starting empty")
	}

	for _, ti := range e.cache.Snapshot() {
		e.addToViewsLocked(ti)
	}

	super, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	e.super = super

	producerSvc, consumerSvc := e.player.Services()
	e.super.AddPipelineService(producerSvc)
	e.super.AddPipelineService(consumerSvc)

	return e.player.Init(ctx)
}

// ServeBackground starts the supervision tree in the background.
func (e *Engine) ServeBackground(ctx context.Context) <-chan error {
	return e.super.ServeBackground(ctx)
}

// Exit shuts down the output plugin and persists the cache to disk.
func (e *Engine) Exit(ctx context.Context) error {
	if err := e.player.Exit(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("output plugin exit failed")
	}
	return e.cache.Close()
}

// addToViewsLocked inserts ti into the tree and sorted list. Caller holds e.mu
// or is during single-threaded Init.
func (e *Engine) addToViewsLocked(ti *trackinfo.TrackInfo) {
	track := e.tree.AddTrack(ti)
	e.sorted.Add(track)
}

// Player returns the underlying player façade for direct control by a host
// UI (play/pause/seek/etc).
func (e *Engine) Player() *player.Player { return e.player }

// Queue returns the play queue.
func (e *Engine) Queue() *queue.Queue { return e.queue }

// Tree returns the library tree view.
func (e *Engine) Tree() *library.Tree { return e.tree }

// SortedList returns the flat sorted view.
func (e *Engine) SortedList() *library.SortedList { return e.sorted }

// FilterView returns the composed tag/live-search filter view.
func (e *Engine) FilterView() *library.FilterView { return e.filter }

// AddPath decodes path through the cache and inserts the resulting track
// into the tree and sorted views.
func (e *Engine) AddPath(ctx context.Context, path string) error {
	ti, err := e.cache.GetOrLoad(ctx, path, false)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addToViewsLocked(ti)
	return nil
}

// LoadPlaylist reads a playlist file (§6) and appends each path to the play
// queue in file order, decoding tags through the cache as needed.
func (e *Engine) LoadPlaylist(ctx context.Context, path string) error {
	paths, err := playlist.Load(path)
	if err != nil {
		return err
	}
	for _, p := range paths {
		ti, err := e.cache.GetOrLoad(ctx, p, false)
		if err != nil {
			logging.Ctx(ctx).Warn().Str("path", p).Err(err).Msg("playlist entry failed to load, skipping")
			continue
		}
		e.queue.Append(ti)
	}
	return nil
}

// SavePlaylist writes the current play queue's contents to a playlist file
// (§6), one path per line.
func (e *Engine) SavePlaylist(path string) error {
	items := e.queue.Items()
	paths := make([]string, len(items))
	for i, ti := range items {
		paths[i] = ti.Path
	}
	return playlist.Save(path, paths)
}

// SetPlayMode updates the next-track policy toggles.
func (e *Engine) SetPlayMode(m PlayMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playMode = m
}

// resolveTrack looks up the library.Track owning path, used by the player
// to attach tag metadata to PlayerInfo.Current.
func (e *Engine) resolveTrack(path string) *trackinfo.TrackInfo {
	for _, artist := range e.tree.Artists() {
		for _, album := range artist.Albums() {
			for _, t := range album.Tracks() {
				if t.Info.Path == path {
					return t.Info
				}
			}
		}
	}
	return nil
}

// nextTrackCallback implements the player's NextTrackFunc by translating
// engine view state into a nexttrack.Params call (§4.8).
func (e *Engine) nextTrackCallback(ctx context.Context) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := nexttrack.Resolve(e.buildParamsLocked())
	if res.Item == nil {
		return "", false
	}
	e.current = e.trackByPathLocked(res.Item.Info.Path)
	return res.Item.Info.Path, true
}

// Previous resolves the previous track under the current play mode and, if
// one exists, loads and plays it.
func (e *Engine) Previous(ctx context.Context) error {
	e.mu.Lock()
	res := nexttrack.Previous(e.buildParamsLocked())
	e.mu.Unlock()
	if res.Item == nil {
		return ErrNoPreviousTrack
	}
	return e.player.PlayFile(ctx, res.Item.Info.Path)
}

// buildParamsLocked constructs nexttrack.Params from current view/queue
// state. Caller holds e.mu.
func (e *Engine) buildParamsLocked() nexttrack.Params {
	p := nexttrack.Params{
		Queue:         queuePopperAdapter{e.queue},
		RepeatCurrent: e.playMode.RepeatCurrent,
		PlayLibrary:   e.playMode.PlayLibrary,
		PlaySorted:    e.playMode.PlaySorted,
		Shuffle:       e.playMode.Shuffle,
		Repeat:        e.playMode.Repeat,
		AutoReshuffle: e.playMode.AutoReshuffle,
		AAAMode:       e.playMode.AAAMode,
		TreeOrder:     itemsFromTracks(e.tree.InOrder()),
		SortedOrder:   itemsFromTracks(e.sorted.Tracks()),
		ShuffleOrder:  itemsFromTracks(library.ShuffleOrder(e.sorted.Tracks())),
		Reshuffle: func() []nexttrack.Item {
			tracks := e.sorted.Tracks()
			library.Reshuffle(tracks, reshuffleSeed())
			return itemsFromTracks(library.ShuffleOrder(tracks))
		},
	}
	if e.current != nil {
		item := itemFromTrack(e.current)
		p.Current = &item
	}
	return p
}

func (e *Engine) trackByPathLocked(path string) *library.Track {
	for _, t := range e.sorted.Tracks() {
		if t.Info.Path == path {
			return t
		}
	}
	return nil
}

func itemsFromTracks(tracks []*library.Track) []nexttrack.Item {
	items := make([]nexttrack.Item, len(tracks))
	for i, t := range tracks {
		items[i] = itemFromTrack(t)
	}
	return items
}

func itemFromTrack(t *library.Track) nexttrack.Item {
	item := nexttrack.Item{Info: t.Info}
	if a := t.Artist(); a != nil {
		item.ArtistKey = a.Name
	}
	if a := t.Album(); a != nil {
		item.AlbumKey = a.Name
	}
	return item
}

// queuePopperAdapter adapts *queue.Queue to nexttrack.QueuePopper.
type queuePopperAdapter struct {
	q *queue.Queue
}

func (a queuePopperAdapter) Pop() (*trackinfo.TrackInfo, bool) {
	return a.q.Pop()
}

// reshuffleSeed advances a monotonic counter rather than reading the wall
// clock, so engines under test stay deterministic.
var reshuffleCounter int64

func reshuffleSeed() int64 {
	reshuffleCounter++
	return reshuffleCounter
}
