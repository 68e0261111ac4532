package player

import "github.com/waveterm/core/internal/plugin"

// SampleFormatPolicy decides whether an output device's sample format should
// be promoted before opening a newly-decoded stream, and to what. This is an
// injection point for the §9 Open Question 2 quirk: the reference output
// plugins refuse to play low-resolution formats faithfully and instead
// upsample to 16-bit stereo. Hosts that don't need the quirk install
// NoopSampleFormatPolicy.
type SampleFormatPolicy func(sf plugin.SampleFormat) plugin.SampleFormat

// DefaultSampleFormatPolicy promotes any mono-or-stereo, ≤16-bit stream to
// 2-channel signed 16-bit, preserving the sample rate.
func DefaultSampleFormatPolicy(sf plugin.SampleFormat) plugin.SampleFormat {
	if sf.IsLowRes() {
		return sf.PromotedToStereo16()
	}
	return sf
}

// NoopSampleFormatPolicy passes the decoder's reported format straight
// through to the output device.
func NoopSampleFormatPolicy(sf plugin.SampleFormat) plugin.SampleFormat {
	return sf
}
