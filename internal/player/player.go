// Package player implements the producer/consumer audio pipeline and the
// public player façade (§4.4-§4.6): a ring-buffer-backed pipeline that
// decodes one track at a time and drains it to an output device, driven by
// two independently-restartable suture.Service loops and guarded by the
// consumer-before-producer lock order.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/waveterm/core/internal/logging"
	"github.com/waveterm/core/internal/metrics"
	"github.com/waveterm/core/internal/plugin"
	"github.com/waveterm/core/internal/ringbuffer"
	"github.com/waveterm/core/internal/trackinfo"
)

// Whence selects how Seek interprets its offset argument.
type Whence int

const (
	SeekCur Whence = iota
	SeekSet
)

// minForwardSeek is the flood-suppression threshold (§4.6): a forward seek
// smaller than this is rejected with ErrSeekRejected and leaves the position
// unchanged.
const minForwardSeek = 0.5

// endMargin is the reserved trailing margin a relative (SEEK_CUR) seek may
// not cross, preventing a large fast-forward jump from landing in the last
// few seconds of a track and immediately re-triggering end-of-track
// handling. An absolute SEEK_SET is a deliberate target (e.g. a UI seek bar
// or chapter marker) and is allowed up to the track's actual duration
// instead — see DESIGN.md's Open Question decision for §8 scenario 6.
const endMargin = 5

// Config wires a Player to its decoder/output plugins and to the engine's
// next-track policy.
type Config struct {
	DecoderFactory     plugin.DecoderFactory
	Output             plugin.Output
	NextTrack          NextTrackFunc
	ResolveTrack       func(path string) *trackinfo.TrackInfo
	BufferChunks       int
	ChunkSize          int
	SampleFormatPolicy SampleFormatPolicy
}

// Player is the public façade (§4.6): the single value a host program
// drives. It owns the producer and consumer state machines, the shared ring
// buffer, and the observable Info.
type Player struct {
	consumerLock sync.Mutex
	producerLock sync.Mutex

	info *Info
	buf  *ringbuffer.Buffer

	decoderFactory     plugin.DecoderFactory
	nextTrack          NextTrackFunc
	resolveTrack       func(path string) *trackinfo.TrackInfo
	sampleFormatPolicy SampleFormatPolicy

	prodState    prodState
	decoder      plugin.Decoder
	currentPath  string
	currentTrack *trackinfo.TrackInfo
	sf           plugin.SampleFormat
	cm           plugin.ChannelMap

	consState       consState
	output          plugin.Output
	outSampleFormat plugin.SampleFormat
	consumerPos     int64
}

// New constructs a Player. Init must be called before Play/SetFile.
func New(cfg Config) *Player {
	chunks := cfg.BufferChunks
	if chunks < ringbuffer.MinChunks || chunks > ringbuffer.MaxChunks {
		chunks = ringbuffer.MinChunks
	}
	pl := &Player{
		info:               NewInfo(),
		buf:                ringbuffer.New(chunks, cfg.ChunkSize),
		decoderFactory:     cfg.DecoderFactory,
		nextTrack:          cfg.NextTrack,
		resolveTrack:       cfg.ResolveTrack,
		sampleFormatPolicy: cfg.SampleFormatPolicy,
		output:             cfg.Output,
		prodState:          prodUnloaded,
		consState:          consStopped,
	}
	return pl
}

// Services returns the producer and consumer loops as suture.Service values
// ready for internal/supervisor.SupervisorTree.AddPipelineService.
func (pl *Player) Services() (producer, consumer suture.Service) {
	return producerService{player: pl}, consumerService{player: pl}
}

// Info returns the observable player state.
func (pl *Player) Info() *Info { return pl.info }

// controlOp runs fn under a fresh operation-correlation id, logging and
// recording a Prometheus counter keyed by op name and outcome (§4.6, §10.5).
func controlOp(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx = logging.ContextWithNewOpID(ctx)
	start := time.Now()
	err := fn(ctx)
	metrics.RecordControlOp(name, time.Since(start), err)
	if err != nil {
		logging.CtxErr(ctx, err).Str("op", name).Msg("player control op failed")
	} else {
		logging.CtxDebug(ctx).Str("op", name).Dur("took", time.Since(start)).Msg("player control op")
	}
	return err
}

// Init performs one-time output plugin setup.
func (pl *Player) Init(ctx context.Context) error {
	return controlOp(ctx, "init", func(ctx context.Context) error {
		if pl.output == nil {
			return nil
		}
		return pl.output.Init()
	})
}

// Exit releases process-wide output plugin resources.
func (pl *Player) Exit(ctx context.Context) error {
	return controlOp(ctx, "exit", func(ctx context.Context) error {
		if pl.output == nil {
			return nil
		}
		return pl.output.Exit()
	})
}

// Play implements the public play() operation, taking both locks in order.
func (pl *Player) Play(ctx context.Context) error {
	return controlOp(ctx, "play", func(ctx context.Context) error {
		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		pl.producerLock.Lock()
		defer pl.producerLock.Unlock()

		if err := pl.producerPlayLocked(ctx); err != nil {
			return err
		}
		if err := pl.openOutputLocked(); err != nil {
			return err
		}
		pl.consumerPlayLocked()
		pl.info.setStatus(Playing)
		pl.info.clearError()
		return nil
	})
}

// Stop implements the public stop() operation.
func (pl *Player) Stop(ctx context.Context) error {
	return controlOp(ctx, "stop", func(ctx context.Context) error {
		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		pl.producerLock.Lock()
		defer pl.producerLock.Unlock()

		pl.producerStopLocked()
		if pl.output != nil {
			_ = pl.output.Drop()
		}
		pl.consumerStopLocked()
		pl.info.setStatus(Stopped)
		return nil
	})
}

// Pause implements the public pause() operation.
func (pl *Player) Pause(ctx context.Context) error {
	return controlOp(ctx, "pause", func(ctx context.Context) error {
		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		pl.producerLock.Lock()
		defer pl.producerLock.Unlock()

		pl.producerPauseLocked()
		pl.consumerPauseLocked()
		if pl.prodState == prodPaused {
			pl.info.setStatus(Paused)
		} else {
			pl.info.setStatus(Playing)
		}
		return nil
	})
}

// SetFile implements set_file(path): loads path without starting playback.
func (pl *Player) SetFile(ctx context.Context, path string) error {
	return controlOp(ctx, "set_file", func(ctx context.Context) error {
		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		pl.producerLock.Lock()
		defer pl.producerLock.Unlock()

		return pl.producerSetFileLocked(ctx, path)
	})
}

// PlayFile loads path and immediately starts playback.
func (pl *Player) PlayFile(ctx context.Context, path string) error {
	return controlOp(ctx, "play_file", func(ctx context.Context) error {
		if err := pl.SetFile(ctx, path); err != nil {
			return err
		}
		return pl.Play(ctx)
	})
}

// Seek implements the public seek(offset, whence) operation (§4.6, §8
// scenario 6): it rejects small forward jumps, clamps to a valid range
// (whose upper bound depends on whence, see endMargin), and repositions the
// decoder, the output device, and the ring buffer together.
func (pl *Player) Seek(ctx context.Context, offset float64, whence Whence) (float64, error) {
	var newPos float64
	err := controlOp(ctx, "seek", func(ctx context.Context) error {
		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		pl.producerLock.Lock()
		defer pl.producerLock.Unlock()

		if pl.decoder == nil {
			return ErrNotLoaded
		}

		cur := float64(pl.consumerPos) / float64(pl.bytesPerSecond())
		var target float64
		upper := float64(pl.decoder.Duration())
		switch whence {
		case SeekCur:
			target = cur + offset
			if upper >= endMargin {
				upper -= endMargin
			} else {
				upper = 0
			}
		case SeekSet:
			target = offset
		}

		delta := target - cur
		if delta > 0 && delta < minForwardSeek {
			return ErrSeekRejected
		}

		if target < 0 {
			target = 0
		}
		if pl.decoder.Duration() >= 0 && target > upper {
			target = upper
		}

		if err := pl.decoder.Seek(target); err != nil {
			return err
		}
		if pl.output != nil {
			_ = pl.output.Drop()
		}
		pl.buf.Reset()
		pl.consumerPos = int64(target * float64(pl.bytesPerSecond()))
		pl.info.setPosition(target)
		newPos = target
		return nil
	})
	return newPos, err
}

// SetBufferChunks implements set_buffer_chunks(n) (§4.6): clamps to
// [ringbuffer.MinChunks, ringbuffer.MaxChunks], stops both threads, and
// resizes the ring buffer.
func (pl *Player) SetBufferChunks(ctx context.Context, n int) error {
	return controlOp(ctx, "set_buffer_chunks", func(ctx context.Context) error {
		if n < ringbuffer.MinChunks {
			n = ringbuffer.MinChunks
		}
		if n > ringbuffer.MaxChunks {
			n = ringbuffer.MaxChunks
		}

		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		pl.producerLock.Lock()
		defer pl.producerLock.Unlock()

		pl.producerStopLocked()
		pl.consumerStopLocked()
		pl.buf.Resize(n)
		pl.info.setStatus(Stopped)
		return nil
	})
}

// SetCont sets the continue flag consulted by handle-EOF (§4.5).
func (pl *Player) SetCont(cont bool) {
	pl.info.setContinue(cont)
}

// SetVolume sets output device volume in [0, max] per channel.
func (pl *Player) SetVolume(ctx context.Context, left, right, max int) error {
	return controlOp(ctx, "set_volume", func(ctx context.Context) error {
		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		if pl.output == nil {
			return nil
		}
		if err := pl.output.SetVolume(left, right, max); err != nil {
			return err
		}
		pl.info.setVolume(left, right, max)
		return nil
	})
}

// GetFileInfo returns a snapshot of the observable player state.
func (pl *Player) GetFileInfo() Snapshot {
	return pl.info.Snapshot()
}

// SetOutput implements set_op: swaps the active output backend, reopening
// it with the current sample format if playback is active (§4.6).
func (pl *Player) SetOutput(ctx context.Context, out plugin.Output) error {
	return controlOp(ctx, "set_op", func(ctx context.Context) error {
		pl.consumerLock.Lock()
		defer pl.consumerLock.Unlock()
		pl.producerLock.Lock()
		defer pl.producerLock.Unlock()

		wasPaused := pl.consState == consPaused
		wasPlaying := pl.consState == consPlaying || wasPaused

		if pl.output != nil {
			if wasPaused {
				_ = pl.output.Drop()
			}
			_ = pl.output.Close()
		}
		pl.output = out

		if wasPlaying && pl.output != nil {
			if err := pl.openOutputLocked(); err != nil {
				return err
			}
			if wasPaused {
				_ = pl.output.Pause()
			}
		}
		return nil
	})
}
