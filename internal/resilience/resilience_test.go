package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/waveterm/core/internal/plugin"
)

type fakeDecoder struct {
	openErr error
	readErr error
	reads   int
}

func (f *fakeDecoder) Open(ctx context.Context, path string) (plugin.SampleFormat, plugin.ChannelMap, error) {
	return plugin.SampleFormat{}, nil, f.openErr
}
func (f *fakeDecoder) Read(buf []byte) (int, error) {
	f.reads++
	if f.readErr != nil {
		return 0, f.readErr
	}
	return len(buf), nil
}
func (f *fakeDecoder) Seek(seconds float64) error           { return nil }
func (f *fakeDecoder) ReadTags() (map[string]string, error) { return nil, nil }
func (f *fakeDecoder) Duration() int                        { return 100 }
func (f *fakeDecoder) Bitrate() int                          { return 128000 }
func (f *fakeDecoder) Codec() string                         { return "flac" }
func (f *fakeDecoder) CodecProfile() string                  { return "" }
func (f *fakeDecoder) IsRemote() bool                         { return false }
func (f *fakeDecoder) MetadataChanged() bool                  { return false }
func (f *fakeDecoder) Metadata() string                       { return "" }
func (f *fakeDecoder) EOF() bool                              { return false }
func (f *fakeDecoder) Close() error                           { return nil }

func TestDecoderBreakerTripsOnConsecutiveFailures(t *testing.T) {
	fake := &fakeDecoder{readErr: plugin.NewError(plugin.KindReadFailed, "test", "boom", errors.New("io"))}
	cfg := Config{ConsecutiveFailures: 3, CooldownInterval: time.Minute, HalfOpenMaxRequests: 1}
	d := NewDecoder("test-decoder", fake, cfg)

	for i := 0; i < 3; i++ {
		if _, err := d.Read(make([]byte, 10)); err == nil {
			t.Fatal("expected read error")
		}
	}

	if d.ReadBreakerState() != "open" {
		t.Fatalf("expected breaker open after 3 consecutive failures, got %s", d.ReadBreakerState())
	}

	_, err := d.Read(make([]byte, 10))
	if err == nil {
		t.Fatal("expected fail-fast error while breaker open")
	}
}

func TestDecoderBreakerIgnoresWouldBlock(t *testing.T) {
	fake := &fakeDecoder{readErr: plugin.NewError(plugin.KindWouldBlock, "test", "slow", nil)}
	cfg := Config{ConsecutiveFailures: 2, CooldownInterval: time.Minute, HalfOpenMaxRequests: 1}
	d := NewDecoder("test-decoder-wb", fake, cfg)

	for i := 0; i < 10; i++ {
		_, _ = d.Read(make([]byte, 10))
	}

	if d.ReadBreakerState() != "closed" {
		t.Fatalf("expected breaker to stay closed on would-block errors, got %s", d.ReadBreakerState())
	}
}

type fakeOutput struct {
	writeErr error
}

func (f *fakeOutput) Init() error { return nil }
func (f *fakeOutput) Exit() error { return nil }
func (f *fakeOutput) Open(sf plugin.SampleFormat, cm plugin.ChannelMap) error { return nil }
func (f *fakeOutput) Close() error                                           { return nil }
func (f *fakeOutput) Write(buf []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(buf), nil
}
func (f *fakeOutput) BufferSpace() (int, error)                      { return 4096, nil }
func (f *fakeOutput) Pause() error                                    { return nil }
func (f *fakeOutput) Unpause() error                                  { return nil }
func (f *fakeOutput) Drop() error                                     { return nil }
func (f *fakeOutput) SetSampleFormat(sf plugin.SampleFormat) (bool, error) { return false, nil }
func (f *fakeOutput) SetVolume(left, right, max int) error            { return nil }
func (f *fakeOutput) Volume() (int, int, int, error)                  { return 0, 0, 100, nil }
func (f *fakeOutput) VolumeChanged() bool                             { return false }

func TestOutputBreakerTripsOnWriteFailures(t *testing.T) {
	fake := &fakeOutput{writeErr: plugin.NewError(plugin.KindWriteFailed, "test", "device gone", nil)}
	cfg := Config{ConsecutiveFailures: 2, CooldownInterval: time.Minute, HalfOpenMaxRequests: 1}
	o := NewOutput("test-output", fake, cfg)

	for i := 0; i < 2; i++ {
		if _, err := o.Write([]byte("x")); err == nil {
			t.Fatal("expected write error")
		}
	}

	if o.WriteBreakerState() != "open" {
		t.Fatalf("expected write breaker open, got %s", o.WriteBreakerState())
	}
}
