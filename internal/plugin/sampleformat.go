// Package plugin defines the decoder and output plugin contracts the player
// core drives, plus the sample format descriptor they exchange. It contains
// no concrete decoders or outputs: those belong to a host program that
// implements these interfaces against real codecs and audio devices.
package plugin

// ChannelPosition names a single channel slot in a ChannelMap, modelled
// after PulseAudio's channel position enum.
type ChannelPosition int

// Channel position constants. Only the handful the core cares about for
// mono/stereo promotion are named; higher positions pass through opaquely.
const (
	ChannelInvalid ChannelPosition = iota - 1
	ChannelMono
	ChannelFrontLeft
	ChannelFrontRight
	ChannelFrontCenter
)

// ChannelLeft and ChannelRight alias the front left/right positions, the
// names used once a stream has been promoted to stereo.
const (
	ChannelLeft  = ChannelFrontLeft
	ChannelRight = ChannelFrontRight
)

// MaxChannels bounds the length of a ChannelMap.
const MaxChannels = 32

// ChannelMap lists the channel position of each channel in a stream, in
// channel order. A nil or empty map means "unknown/default".
type ChannelMap []ChannelPosition

// Valid reports whether the map has been populated.
func (m ChannelMap) Valid() bool {
	return len(m) > 0 && m[0] != ChannelInvalid
}

// StereoChannelMap returns the canonical two-channel left/right map.
func StereoChannelMap() ChannelMap {
	return ChannelMap{ChannelLeft, ChannelRight}
}

// SampleFormat is a packed descriptor of how PCM samples are laid out:
// sample rate, channel count, bits per sample, signedness, and byte order.
// It mirrors cmus's sample_format_t bitfield but as named Go fields.
type SampleFormat struct {
	Rate       int
	Channels   int
	Bits       int
	Signed     bool
	BigEndian  bool
}

// BytesPerSample returns the byte width of one sample on one channel.
func (sf SampleFormat) BytesPerSample() int {
	return (sf.Bits + 7) / 8
}

// FrameSize returns the byte width of one frame (one sample per channel).
func (sf SampleFormat) FrameSize() int {
	return sf.BytesPerSample() * sf.Channels
}

// BytesPerSecond returns the number of PCM bytes that make up one second of
// audio at this format, used throughout the player for position and buffer
// math (consumer_pos / BytesPerSecond == position in seconds).
func (sf SampleFormat) BytesPerSecond() int {
	return sf.FrameSize() * sf.Rate
}

// IsLowRes reports whether this format is mono-or-stereo, 16-bit-or-less:
// the condition the reference output promotes to 16-bit stereo on open
// (see player.SampleFormatPolicy).
func (sf SampleFormat) IsLowRes() bool {
	return sf.Channels <= 2 && sf.Bits <= 16
}

// PromotedToStereo16 returns sf with its channel count and bit depth forced
// to 2-channel, signed 16-bit, keeping the original sample rate. This is the
// exact transform the default SampleFormatPolicy applies.
func (sf SampleFormat) PromotedToStereo16() SampleFormat {
	return SampleFormat{
		Rate:      sf.Rate,
		Channels:  2,
		Bits:      16,
		Signed:    true,
		BigEndian: sf.BigEndian,
	}
}
