package player

import (
	"context"
	"testing"

	"github.com/waveterm/core/internal/plugin"
	"github.com/waveterm/core/internal/trackinfo"
)

// fakeDecoder is a minimal plugin.Decoder test double: it reports a fixed
// duration and never actually produces bytes (Read always returns EOF),
// which is all the seek-clamp scenario needs.
type fakeDecoder struct {
	duration   int
	seekCalls  []float64
	lastSeek   float64
	remote     bool
	eof        bool
	readCalled bool
}

func (d *fakeDecoder) Open(ctx context.Context, path string) (plugin.SampleFormat, plugin.ChannelMap, error) {
	return plugin.SampleFormat{Rate: 44100, Channels: 2, Bits: 16, Signed: true}, plugin.StereoChannelMap(), nil
}
func (d *fakeDecoder) Read(buf []byte) (int, error) {
	d.readCalled = true
	d.eof = true
	return 0, nil
}
func (d *fakeDecoder) Seek(seconds float64) error {
	d.seekCalls = append(d.seekCalls, seconds)
	d.lastSeek = seconds
	return nil
}
func (d *fakeDecoder) ReadTags() (map[string]string, error) { return nil, nil }
func (d *fakeDecoder) Duration() int                         { return d.duration }
func (d *fakeDecoder) Bitrate() int                          { return trackinfo.Unknown }
func (d *fakeDecoder) Codec() string                         { return "fake" }
func (d *fakeDecoder) CodecProfile() string                  { return "" }
func (d *fakeDecoder) IsRemote() bool                        { return d.remote }
func (d *fakeDecoder) MetadataChanged() bool                 { return false }
func (d *fakeDecoder) Metadata() string                      { return "" }
func (d *fakeDecoder) EOF() bool                             { return d.eof }
func (d *fakeDecoder) Close() error                          { return nil }

type fakeOutput struct {
	opened  bool
	dropped int
	closed  int
	sf      plugin.SampleFormat
}

func (o *fakeOutput) Init() error { return nil }
func (o *fakeOutput) Exit() error { return nil }
func (o *fakeOutput) Open(sf plugin.SampleFormat, cm plugin.ChannelMap) error {
	o.opened = true
	o.sf = sf
	return nil
}
func (o *fakeOutput) Close() error                  { o.closed++; return nil }
func (o *fakeOutput) Write(buf []byte) (int, error) { return len(buf), nil }
func (o *fakeOutput) BufferSpace() (int, error)      { return 65536, nil }
func (o *fakeOutput) Pause() error                   { return nil }
func (o *fakeOutput) Unpause() error                 { return nil }
func (o *fakeOutput) Drop() error                    { o.dropped++; return nil }
func (o *fakeOutput) SetSampleFormat(sf plugin.SampleFormat) (bool, error) {
	o.sf = sf
	return false, nil
}
func (o *fakeOutput) SetVolume(left, right, max int) error { return nil }
func (o *fakeOutput) Volume() (int, int, int, error)       { return 0, 0, 0, nil }
func (o *fakeOutput) VolumeChanged() bool                  { return false }

func newTestPlayer(dec *fakeDecoder, out *fakeOutput) *Player {
	return New(Config{
		DecoderFactory: func(path string) plugin.Decoder { return dec },
		Output:         out,
		BufferChunks:   4,
	})
}

// Scenario 6: seek clamp.
func TestSeekClamp(t *testing.T) {
	dec := &fakeDecoder{duration: 10}
	out := &fakeOutput{}
	pl := newTestPlayer(dec, out)
	ctx := context.Background()

	if err := pl.SetFile(ctx, "/track.flac"); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	if err := pl.Play(ctx); err != nil {
		t.Fatalf("Play: %v", err)
	}
	// seed the current position at 3s.
	pl.consumerPos = int64(3 * pl.bytesPerSecond())

	if _, err := pl.Seek(ctx, 0.2, SeekCur); err != ErrSeekRejected {
		t.Fatalf("expected small forward seek rejected, got %v", err)
	}

	pos, err := pl.Seek(ctx, 10, SeekCur)
	if err != nil {
		t.Fatalf("Seek +10 CUR: %v", err)
	}
	if pos != 5 {
		t.Fatalf("expected clamp to duration-5=5, got %v", pos)
	}

	// reset position back to 3s for the next sub-case.
	pl.consumerPos = int64(3 * pl.bytesPerSecond())
	pos, err = pl.Seek(ctx, -100, SeekCur)
	if err != nil {
		t.Fatalf("Seek -100 CUR: %v", err)
	}
	if pos != 0 {
		t.Fatalf("expected clamp to 0, got %v", pos)
	}

	pos, err = pl.Seek(ctx, 7, SeekSet)
	if err != nil {
		t.Fatalf("Seek 7 SET: %v", err)
	}
	if pos != 7 {
		t.Fatalf("expected absolute seek to 7, got %v", pos)
	}
}

func TestPlayFromUnloadedUsesNextTrack(t *testing.T) {
	dec := &fakeDecoder{duration: 30}
	out := &fakeOutput{}
	called := false
	pl := New(Config{
		DecoderFactory: func(path string) plugin.Decoder { return dec },
		Output:         out,
		BufferChunks:   4,
		NextTrack: func(ctx context.Context) (string, bool) {
			called = true
			return "/next.flac", true
		},
	})

	if err := pl.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !called {
		t.Fatal("expected next-track callback to be consulted from Unloaded")
	}
	if pl.GetFileInfo().Status != Playing {
		t.Fatalf("expected Playing status, got %v", pl.GetFileInfo().Status)
	}
}

func TestPlayFromUnloadedWithNoNextTrackFails(t *testing.T) {
	pl := New(Config{BufferChunks: 4})
	if err := pl.Play(context.Background()); err != ErrNoNextTrack {
		t.Fatalf("expected ErrNoNextTrack, got %v", err)
	}
}

func TestPauseTogglesStatus(t *testing.T) {
	dec := &fakeDecoder{duration: 30}
	out := &fakeOutput{}
	pl := newTestPlayer(dec, out)
	ctx := context.Background()

	_ = pl.SetFile(ctx, "/a.flac")
	_ = pl.Play(ctx)

	if err := pl.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if pl.GetFileInfo().Status != Paused {
		t.Fatalf("expected Paused, got %v", pl.GetFileInfo().Status)
	}

	if err := pl.Pause(ctx); err != nil {
		t.Fatalf("Pause (unpause): %v", err)
	}
	if pl.GetFileInfo().Status != Playing {
		t.Fatalf("expected Playing after second pause toggle, got %v", pl.GetFileInfo().Status)
	}
}

func TestSetBufferChunksClampsAndResizes(t *testing.T) {
	pl := New(Config{BufferChunks: 4})
	if err := pl.SetBufferChunks(context.Background(), 1000); err != nil {
		t.Fatalf("SetBufferChunks: %v", err)
	}
	if pl.buf.ChunkCount() != 30 {
		t.Fatalf("expected clamp to MaxChunks=30, got %d", pl.buf.ChunkCount())
	}
}

func TestHandleEOFAdvancesToNextTrack(t *testing.T) {
	dec := &fakeDecoder{duration: 30, eof: true}
	nextDec := &fakeDecoder{duration: 30}
	out := &fakeOutput{}
	calls := 0
	pl := New(Config{
		DecoderFactory: func(path string) plugin.Decoder {
			calls++
			if calls == 1 {
				return dec
			}
			return nextDec
		},
		Output:       out,
		BufferChunks: 4,
		NextTrack: func(ctx context.Context) (string, bool) {
			return "/second.flac", true
		},
	})
	ctx := context.Background()
	_ = pl.SetFile(ctx, "/first.flac")
	_ = pl.Play(ctx)
	pl.SetCont(true)

	pl.consumerLock.Lock()
	pl.producerLock.Lock()
	pl.handleEOFLocked(ctx)
	pl.producerLock.Unlock()
	pl.consumerLock.Unlock()

	if calls != 2 {
		t.Fatalf("expected a second decoder to be opened, got %d calls", calls)
	}
	if pl.GetFileInfo().Status != Playing {
		t.Fatalf("expected playback to continue, got %v", pl.GetFileInfo().Status)
	}
}

func TestHandleEOFStopsWhenNoNextTrack(t *testing.T) {
	dec := &fakeDecoder{duration: 30, eof: true}
	out := &fakeOutput{}
	pl := New(Config{
		DecoderFactory: func(path string) plugin.Decoder { return dec },
		Output:         out,
		BufferChunks:   4,
	})
	ctx := context.Background()
	_ = pl.SetFile(ctx, "/first.flac")
	_ = pl.Play(ctx)

	pl.consumerLock.Lock()
	pl.producerLock.Lock()
	pl.handleEOFLocked(ctx)
	pl.producerLock.Unlock()
	pl.consumerLock.Unlock()

	if pl.GetFileInfo().Status != Stopped {
		t.Fatalf("expected Stopped with no next track, got %v", pl.GetFileInfo().Status)
	}
	if out.closed == 0 {
		t.Fatal("expected output to be drained and closed")
	}
}
