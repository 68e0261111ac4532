//go:build !realplugins

package main

import (
	"context"

	"github.com/waveterm/core/internal/logging"
	"github.com/waveterm/core/internal/plugin"
)

// pluginName identifies which resilience breaker this build's plugins share.
const pluginName = "stub"

// decoderFactory and outputFactory are overridden by a plugins_*.go file
// built with -tags realplugins. The stub build registers a decoder that
// fails every Open and a nil output: the cache and library still work, but
// nothing actually decodes or plays audio.
func decoderFactory(path string) plugin.Decoder {
	return noopDecoder{}
}

func outputFactory() plugin.Output {
	logging.Warn().Msg("no output plugin compiled in (build with -tags realplugins)")
	return nil
}

// noopDecoder implements plugin.Decoder by failing Open, so a library scan
// with no real decoder plugin logs a clean per-path error instead of
// crashing against a nil decoder.
type noopDecoder struct{}

func (noopDecoder) Open(ctx context.Context, path string) (plugin.SampleFormat, plugin.ChannelMap, error) {
	return plugin.SampleFormat{}, plugin.ChannelMap{}, &plugin.Error{
		Kind:    plugin.KindOpenFailed,
		Plugin:  pluginName,
		Message: "no decoder plugin compiled in (build with -tags realplugins)",
	}
}
func (noopDecoder) Read(buf []byte) (int, error) { return 0, nil }
func (noopDecoder) Seek(seconds float64) error {
	return &plugin.Error{Kind: plugin.KindSeekNotSupported, Plugin: pluginName}
}
func (noopDecoder) ReadTags() (map[string]string, error) { return nil, nil }
func (noopDecoder) Duration() int                        { return 0 }
func (noopDecoder) Bitrate() int                         { return 0 }
func (noopDecoder) Codec() string                        { return "" }
func (noopDecoder) CodecProfile() string                 { return "" }
func (noopDecoder) IsRemote() bool                       { return false }
func (noopDecoder) MetadataChanged() bool                { return false }
func (noopDecoder) Metadata() string                     { return "" }
func (noopDecoder) EOF() bool                            { return true }
func (noopDecoder) Close() error                         { return nil }
