package plugin

// Output is the audio device contract the consumer drives. A host program
// registers one Output implementation per backend (ALSA, PulseAudio, a
// test sink); the player core treats every instance opaquely.
type Output interface {
	// Init performs one-time plugin setup (e.g. connecting to an audio
	// server). Called once before the first Open.
	Init() error

	// Exit releases any process-wide resources. Called once at shutdown.
	Exit() error

	// Open opens the device for the given sample format and channel map.
	Open(sf SampleFormat, cm ChannelMap) error

	// Close closes the device. The instance may be reopened later.
	Close() error

	// Write writes PCM bytes to the device, returning the number of bytes
	// actually accepted.
	Write(buf []byte) (int, error)

	// BufferSpace reports how many bytes can currently be written without
	// blocking, or -1 if the device is busy and cannot report a figure.
	BufferSpace() (int, error)

	// Pause/Unpause suspend and resume playback without dropping buffered
	// audio.
	Pause() error
	Unpause() error

	// Drop discards any audio buffered in the device, used on seek and on
	// stop so stale audio doesn't play after a jump.
	Drop() error

	// SetSampleFormat changes the open device's sample format. It returns
	// reopened=true if doing so required closing and reopening the
	// device (the caller must then re-apply pause state).
	SetSampleFormat(sf SampleFormat) (reopened bool, err error)

	// SetVolume and Volume control device volume in [0, max] per channel.
	SetVolume(left, right, max int) error
	Volume() (left, right, max int, err error)

	// VolumeChanged reports whether the volume was changed by something
	// outside the player (e.g. a hardware mixer knob) since the last poll.
	VolumeChanged() bool
}

// OutputFactory constructs a new Output instance for a named backend.
type OutputFactory func() Output
