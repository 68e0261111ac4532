package resilience

import (
	"context"

	"github.com/waveterm/core/internal/plugin"
)

// guardedOpen is the tuple Open returns, bundled so it fits the single
// return value Breaker[T] expects.
type guardedOpen struct {
	sf plugin.SampleFormat
	cm plugin.ChannelMap
}

// Decoder wraps a plugin.Decoder, guarding Open and Read with circuit
// breakers per §10.4: a decoder wedged against a dead remote stream trips
// its breaker and fails fast instead of blocking the producer loop.
type Decoder struct {
	inner      plugin.Decoder
	openBreak  *Breaker[guardedOpen]
	readBreak  *Breaker[int]
}

// NewDecoder wraps inner with breakers named after plugin name pluginName.
func NewDecoder(pluginName string, inner plugin.Decoder, cfg Config) *Decoder {
	return &Decoder{
		inner:     inner,
		openBreak: New[guardedOpen](pluginName+".open", cfg),
		readBreak: New[int](pluginName+".read", cfg),
	}
}

func (d *Decoder) Open(ctx context.Context, path string) (plugin.SampleFormat, plugin.ChannelMap, error) {
	res, err := d.openBreak.Execute(func() (guardedOpen, error) {
		sf, cm, err := d.inner.Open(ctx, path)
		return guardedOpen{sf: sf, cm: cm}, err
	})
	return res.sf, res.cm, err
}

func (d *Decoder) Read(buf []byte) (int, error) {
	return d.readBreak.Execute(func() (int, error) {
		return d.inner.Read(buf)
	})
}

func (d *Decoder) Seek(seconds float64) error            { return d.inner.Seek(seconds) }
func (d *Decoder) ReadTags() (map[string]string, error)  { return d.inner.ReadTags() }
func (d *Decoder) Duration() int                         { return d.inner.Duration() }
func (d *Decoder) Bitrate() int                          { return d.inner.Bitrate() }
func (d *Decoder) Codec() string                         { return d.inner.Codec() }
func (d *Decoder) CodecProfile() string                  { return d.inner.CodecProfile() }
func (d *Decoder) IsRemote() bool                        { return d.inner.IsRemote() }
func (d *Decoder) MetadataChanged() bool                 { return d.inner.MetadataChanged() }
func (d *Decoder) Metadata() string                      { return d.inner.Metadata() }
func (d *Decoder) EOF() bool                             { return d.inner.EOF() }
func (d *Decoder) Close() error                          { return d.inner.Close() }

// OpenBreakerState returns the Open breaker's current state, for tests and
// diagnostics.
func (d *Decoder) OpenBreakerState() string { return d.openBreak.State() }

// ReadBreakerState returns the Read breaker's current state.
func (d *Decoder) ReadBreakerState() string { return d.readBreak.State() }

var _ plugin.Decoder = (*Decoder)(nil)
