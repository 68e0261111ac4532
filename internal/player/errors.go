package player

import "errors"

var (
	// ErrNotLoaded is returned by operations that require a file to already
	// be loaded (e.g. seek() with no decoder open).
	ErrNotLoaded = errors.New("player: no file loaded")

	// ErrSeekRejected is returned when a forward seek is smaller than the
	// 0.5s flood-suppression threshold (§4.6).
	ErrSeekRejected = errors.New("player: seek too small, rejected")

	// ErrNoNextTrack is returned by play() from Unloaded when the next-track
	// callback has nothing to offer.
	ErrNoNextTrack = errors.New("player: no next track")
)
