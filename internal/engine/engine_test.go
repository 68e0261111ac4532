package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/waveterm/core/internal/player"
	"github.com/waveterm/core/internal/plugin"
)

type stubDecoder struct {
	path string
	tags map[string]string
}

func (d *stubDecoder) Open(ctx context.Context, path string) (plugin.SampleFormat, plugin.ChannelMap, error) {
	d.path = path
	return plugin.SampleFormat{Rate: 44100, Channels: 2, Bits: 16, Signed: true}, plugin.StereoChannelMap(), nil
}
func (d *stubDecoder) Read(buf []byte) (int, error)                 { return 0, nil }
func (d *stubDecoder) Seek(seconds float64) error                   { return nil }
func (d *stubDecoder) ReadTags() (map[string]string, error)         { return d.tags, nil }
func (d *stubDecoder) Duration() int                                 { return 120 }
func (d *stubDecoder) Bitrate() int                                  { return 320000 }
func (d *stubDecoder) Codec() string                                 { return "flac" }
func (d *stubDecoder) CodecProfile() string                          { return "" }
func (d *stubDecoder) IsRemote() bool                                { return false }
func (d *stubDecoder) MetadataChanged() bool                         { return false }
func (d *stubDecoder) Metadata() string                              { return "" }
func (d *stubDecoder) EOF() bool                                     { return true }
func (d *stubDecoder) Close() error                                  { return nil }

func stubFactory(tagsByPath map[string]map[string]string) plugin.DecoderFactory {
	return func(path string) plugin.Decoder {
		return &stubDecoder{tags: tagsByPath[path]}
	}
}

func newTestEngine(t *testing.T, tagsByPath map[string]map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	e := New(Config{
		ConfigDir:      dir,
		DecoderFactory: stubFactory(tagsByPath),
		PluginName:     "stub",
		BufferChunks:   4,
	})
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	if err := e.Init(context.Background(), logger); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return e
}

func TestAddPathPopulatesTreeAndSortedList(t *testing.T) {
	tags := map[string]map[string]string{
		"/a/track1.flac": {"artist": "Aardvarks", "album": "First", "title": "One", "tracknumber": "1"},
		"/a/track2.flac": {"artist": "Aardvarks", "album": "First", "title": "Two", "tracknumber": "2"},
	}
	e := newTestEngine(t, tags)

	if err := e.AddPath(context.Background(), "/a/track1.flac"); err != nil {
		t.Fatalf("AddPath: %v", err)
	}
	if err := e.AddPath(context.Background(), "/a/track2.flac"); err != nil {
		t.Fatalf("AddPath: %v", err)
	}

	if len(e.Tree().Artists()) != 1 {
		t.Fatalf("expected 1 artist, got %d", len(e.Tree().Artists()))
	}
	if len(e.SortedList().Tracks()) != 2 {
		t.Fatalf("expected 2 tracks in sorted view, got %d", len(e.SortedList().Tracks()))
	}
}

func TestQueuePriorityOverTreeAdvance(t *testing.T) {
	tags := map[string]map[string]string{
		"/a/track1.flac": {"artist": "A", "album": "X", "title": "One", "tracknumber": "1"},
		"/a/track2.flac": {"artist": "A", "album": "X", "title": "Two", "tracknumber": "2"},
		"/queued.flac":   {"artist": "Q", "album": "Q", "title": "Queued"},
	}
	e := newTestEngine(t, tags)
	ctx := context.Background()
	_ = e.AddPath(ctx, "/a/track1.flac")
	_ = e.AddPath(ctx, "/a/track2.flac")

	queued, err := e.cache.GetOrLoad(ctx, "/queued.flac", false)
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	e.Queue().Append(queued)

	path, ok := e.nextTrackCallback(ctx)
	if !ok || path != "/queued.flac" {
		t.Fatalf("expected queued track first, got %q ok=%v", path, ok)
	}

	path, ok = e.nextTrackCallback(ctx)
	if !ok || filepath.Base(path) != "track1.flac" {
		t.Fatalf("expected tree order to resume at track1, got %q", path)
	}
}

func TestLoadPlaylistAppendsToQueueInOrder(t *testing.T) {
	tags := map[string]map[string]string{
		"/a/track1.flac": {"artist": "A", "album": "X", "title": "One"},
		"/a/track2.flac": {"artist": "A", "album": "X", "title": "Two"},
	}
	e := newTestEngine(t, tags)
	ctx := context.Background()

	dir := t.TempDir()
	plPath := filepath.Join(dir, "session.m3u")
	content := "/a/track1.flac\n/a/track2.flac\n"
	if err := os.WriteFile(plPath, []byte(content), 0o666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := e.LoadPlaylist(ctx, plPath); err != nil {
		t.Fatalf("LoadPlaylist: %v", err)
	}
	if e.Queue().Len() != 2 {
		t.Fatalf("expected 2 queued tracks, got %d", e.Queue().Len())
	}

	first, ok := e.nextTrackCallback(ctx)
	if !ok || filepath.Base(first) != "track1.flac" {
		t.Fatalf("expected track1 first from queue, got %q", first)
	}
}

func TestSavePlaylistRoundTripsQueueOrder(t *testing.T) {
	tags := map[string]map[string]string{
		"/a/track1.flac": {"artist": "A", "album": "X", "title": "One"},
	}
	e := newTestEngine(t, tags)
	ctx := context.Background()

	ti, err := e.cache.GetOrLoad(ctx, "/a/track1.flac", false)
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	e.Queue().Append(ti)

	dir := t.TempDir()
	plPath := filepath.Join(dir, "saved.m3u")
	if err := e.SavePlaylist(plPath); err != nil {
		t.Fatalf("SavePlaylist: %v", err)
	}

	data, err := os.ReadFile(plPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "/a/track1.flac\n" {
		t.Fatalf("unexpected playlist contents: %q", string(data))
	}
}

func TestPlayFileDrivesPlayerStatus(t *testing.T) {
	tags := map[string]map[string]string{
		"/a/track1.flac": {"artist": "A", "album": "X", "title": "One"},
	}
	e := newTestEngine(t, tags)
	ctx := context.Background()
	_ = e.AddPath(ctx, "/a/track1.flac")

	if err := e.Player().PlayFile(ctx, "/a/track1.flac"); err != nil {
		t.Fatalf("PlayFile: %v", err)
	}
	if e.Player().GetFileInfo().Status != player.Playing {
		t.Fatalf("expected Playing status, got %v", e.Player().GetFileInfo().Status)
	}
}
