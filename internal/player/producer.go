package player

import (
	"context"
	"time"

	"github.com/waveterm/core/internal/plugin"
)

// prodState is the producer thread's state machine (§4.4), independent from
// the consumer's.
type prodState int

const (
	prodUnloaded prodState = iota
	prodStopped
	prodPlaying
	prodPaused
)

// idleSleep is how long the producer/consumer loops sleep between polls
// when there is nothing to do (§4.4, §4.5: "~50ms").
const idleSleep = 50 * time.Millisecond

// chunksPerSlice bounds how many chunks the producer pushes before
// releasing producerLock, so a pending control operation can interleave
// (§4.4: "reference: 1").
const chunksPerSlice = 1

// NextTrackFunc asks the caller (normally internal/engine, wiring through
// internal/nexttrack) for the path to play next. ok is false when nothing
// qualifies.
type NextTrackFunc func(ctx context.Context) (path string, ok bool)

// producerPlayLocked implements play() (§4.4). Caller holds producerLock.
func (pl *Player) producerPlayLocked(ctx context.Context) error {
	switch pl.prodState {
	case prodUnloaded:
		path, ok := "", false
		if pl.nextTrack != nil {
			path, ok = pl.nextTrack(ctx)
		}
		if !ok {
			return ErrNoNextTrack
		}
		if err := pl.openDecoderLocked(ctx, path); err != nil {
			return err
		}
		pl.prodState = prodPlaying
		pl.info.setCurrent(pl.currentTrack)
		return nil
	case prodStopped:
		if pl.decoder == nil {
			pl.prodState = prodUnloaded
			return ErrNotLoaded
		}
		sf, cm, err := pl.decoder.Open(ctx, pl.currentPath)
		if err != nil {
			pl.decoder = nil
			pl.prodState = prodUnloaded
			return err
		}
		pl.sf, pl.cm = sf, cm
		pl.prodState = prodPlaying
		return nil
	case prodPlaying:
		if pl.decoder != nil {
			_ = pl.decoder.Seek(0)
		}
		pl.buf.Reset()
		return nil
	case prodPaused:
		pl.prodState = prodPlaying
		return nil
	}
	return nil
}

// producerStopLocked implements stop(): close the decoder but keep the
// instance, reset the ring buffer.
func (pl *Player) producerStopLocked() {
	if pl.decoder != nil {
		_ = pl.decoder.Close()
	}
	pl.buf.Reset()
	pl.prodState = prodStopped
}

// producerUnloadLocked implements unload(): stop, then drop the decoder.
func (pl *Player) producerUnloadLocked() {
	pl.producerStopLocked()
	pl.decoder = nil
	pl.currentPath = ""
	pl.prodState = prodUnloaded
}

// producerPauseLocked toggles Playing<->Paused.
func (pl *Player) producerPauseLocked() {
	switch pl.prodState {
	case prodPlaying:
		pl.prodState = prodPaused
	case prodPaused:
		pl.prodState = prodPlaying
	}
}

// producerSetFileLocked implements set_file(path): unload, open a fresh
// decoder for path, land in Stopped.
func (pl *Player) producerSetFileLocked(ctx context.Context, path string) error {
	pl.producerUnloadLocked()
	if err := pl.openDecoderLocked(ctx, path); err != nil {
		return err
	}
	pl.prodState = prodStopped
	pl.info.setCurrent(pl.currentTrack)
	return nil
}

// openDecoderLocked constructs and opens a decoder for path, recording the
// resulting sample format. Caller holds producerLock.
func (pl *Player) openDecoderLocked(ctx context.Context, path string) error {
	if pl.decoderFactory == nil {
		return ErrNotLoaded
	}
	dec := pl.decoderFactory(path)
	sf, cm, err := dec.Open(ctx, path)
	if err != nil {
		return err
	}
	pl.decoder = dec
	pl.currentPath = path
	pl.sf, pl.cm = sf, cm
	if pl.resolveTrack != nil {
		pl.currentTrack = pl.resolveTrack(path)
	}
	return nil
}

// producerTick runs one iteration of the producer main loop (§4.4).
// Returns the duration to sleep before the next tick.
func (pl *Player) producerTick(ctx context.Context) time.Duration {
	pl.producerLock.Lock()
	defer pl.producerLock.Unlock()

	if pl.prodState != prodPlaying || pl.decoder == nil {
		return idleSleep
	}
	if pl.decoder.EOF() {
		return idleSleep
	}

	for i := 0; i < chunksPerSlice; i++ {
		region := pl.buf.GetWriteRegion()
		if len(region) == 0 {
			break
		}
		n, err := pl.decoder.Read(region)
		if err != nil {
			if plugin.IsWouldBlock(err) {
				break
			}
			pl.info.setError(err.Error())
			pl.producerUnloadLocked()
			return idleSleep
		}
		if n == 0 {
			break
		}
		pl.buf.CommitWrite(n)
		if pl.decoder.MetadataChanged() {
			pl.info.setMetadata(pl.decoder.Metadata())
		}
	}
	return 0
}

// producerService adapts the producer loop to suture.Service so the
// supervision tree can restart it independently of the consumer.
type producerService struct {
	player *Player
}

func (s producerService) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d := s.player.producerTick(ctx); d > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
		}
	}
}
