package player

import (
	"context"
	"time"
)

// consState is the consumer thread's state machine (§4.5), independent
// from the producer's.
type consState int

const (
	consStopped consState = iota
	consPlaying
	consPaused
)

// minWriteBytes is the inner-loop threshold below which the consumer stops
// draining the ring buffer for this tick (§4.5: "~4 KB").
const minWriteBytes = 4096

// consumerPlayLocked starts consumer playback against the currently open
// output device. Caller holds consumerLock.
func (pl *Player) consumerPlayLocked() {
	pl.consState = consPlaying
}

// consumerStopLocked halts consumer playback without closing the device.
func (pl *Player) consumerStopLocked() {
	pl.consState = consStopped
}

// consumerPauseLocked toggles Playing<->Paused on the output device.
func (pl *Player) consumerPauseLocked() {
	switch pl.consState {
	case consPlaying:
		if pl.output != nil {
			_ = pl.output.Pause()
		}
		pl.consState = consPaused
	case consPaused:
		if pl.output != nil {
			_ = pl.output.Unpause()
		}
		pl.consState = consPlaying
	}
}

// openOutputLocked opens (or reconfigures) the output device for sf/cm,
// applying the sample-format promotion policy (§4.6). Caller holds both
// locks (it touches producer-owned sf/cm as well as the consumer's device).
func (pl *Player) openOutputLocked() error {
	if pl.output == nil {
		return nil
	}
	policy := pl.sampleFormatPolicy
	if policy == nil {
		policy = DefaultSampleFormatPolicy
	}
	promoted := policy(pl.sf)
	if err := pl.output.Open(promoted, pl.cm); err != nil {
		return err
	}
	pl.outSampleFormat = promoted
	return nil
}

// bytesPerSecond returns the byte rate of the currently-open output format,
// used to translate consumer_pos into a position in seconds (§4.5).
func (pl *Player) bytesPerSecond() int {
	bps := pl.outSampleFormat.BytesPerSecond()
	if bps <= 0 {
		return 1
	}
	return bps
}

// consumerTick runs one iteration of the consumer main loop (§4.5).
// Returns the duration to sleep before the next tick.
func (pl *Player) consumerTick(ctx context.Context) time.Duration {
	pl.consumerLock.Lock()
	defer pl.consumerLock.Unlock()

	if pl.consState != consPlaying || pl.output == nil {
		return idleSleep
	}

	space, err := pl.output.BufferSpace()
	if err != nil || space < 0 {
		pl.publishPositionLocked()
		return idleSleep
	}

	for space >= minWriteBytes {
		region := pl.buf.GetReadRegion()
		if len(region) == 0 {
			if pl.handleBufferEmptyLocked(ctx) {
				return 0
			}
			pl.publishPositionLocked()
			return idleSleep
		}
		if len(region) > space {
			region = region[:space]
		}
		n, werr := pl.output.Write(region)
		if werr != nil {
			pl.info.setError(werr.Error())
			pl.consumerStopLocked()
			return idleSleep
		}
		if n <= 0 {
			break
		}
		pl.buf.Consume(n)
		pl.consumerPos += int64(n)
		space -= n
	}
	pl.publishPositionLocked()
	return idleSleep
}

// handleBufferEmptyLocked is invoked when the ring buffer has drained: it
// re-checks producer state under producerLock (avoiding a buffer-vs-EOF
// race, §4.5) and dispatches to handleEOFLocked on genuine end of track.
// Returns true if it consumed a tick (EOF handled), false for a transient
// underrun.
func (pl *Player) handleBufferEmptyLocked(ctx context.Context) bool {
	pl.producerLock.Lock()
	defer pl.producerLock.Unlock()

	if pl.prodState == prodPlaying && pl.decoder != nil && pl.decoder.EOF() {
		pl.handleEOFLocked(ctx)
		return true
	}
	return false
}

// handleEOFLocked implements Handle-EOF (§4.5). Caller holds both locks.
func (pl *Player) handleEOFLocked(ctx context.Context) {
	remote := pl.decoder != nil && pl.decoder.IsRemote()
	finishing := pl.currentTrack

	if remote {
		pl.producerStopLocked()
		if pl.output != nil {
			_ = pl.output.Drop()
			_ = pl.output.Close()
		}
		pl.consumerStopLocked()
		pl.info.setError("lost connection")
		pl.info.setStatus(Stopped)
		pl.info.setCurrent(pl.currentTrack)
		return
	}

	if finishing != nil {
		finishing.IncrementPlayCount()
	}
	pl.producerUnloadLocked()

	path, ok := "", false
	if pl.nextTrack != nil {
		path, ok = pl.nextTrack(ctx)
	}
	if !ok {
		if pl.output != nil {
			_ = pl.output.Drop()
			_ = pl.output.Close()
		}
		pl.consumerStopLocked()
		pl.info.setStatus(Stopped)
		pl.info.setCurrent(nil)
		return
	}

	if err := pl.openDecoderLocked(ctx, path); err != nil {
		pl.info.setError(err.Error())
		pl.consumerStopLocked()
		return
	}

	if !pl.info.getContinue() {
		if pl.output != nil {
			_ = pl.output.Drop()
			_ = pl.output.Close()
		}
		pl.consumerStopLocked()
		pl.prodState = prodStopped
		pl.info.setCurrent(pl.currentTrack)
		pl.info.setStatus(Stopped)
		return
	}

	if _, err := pl.output.SetSampleFormat(pl.sf); err != nil {
		pl.info.setError(err.Error())
		pl.consumerStopLocked()
		pl.prodState = prodStopped
		return
	}
	pl.outSampleFormat = pl.sf
	pl.consumerPos = 0
	pl.buf.Reset()
	pl.prodState = prodPlaying
	pl.info.setCurrent(pl.currentTrack)
	pl.info.setStatus(Playing)
}

// publishPositionLocked recomputes position from consumer_pos and latches
// the position_changed dirty bit on integer-second change (§4.5).
func (pl *Player) publishPositionLocked() {
	pos := float64(pl.consumerPos) / float64(pl.bytesPerSecond())
	pl.info.setPosition(pos)
}

// consumerService adapts the consumer loop to suture.Service.
type consumerService struct {
	player *Player
}

func (s consumerService) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d := s.player.consumerTick(ctx); d > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
		}
	}
}
