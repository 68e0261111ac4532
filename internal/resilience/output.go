package resilience

import "github.com/waveterm/core/internal/plugin"

// Output wraps a plugin.Output, guarding Open and Write with circuit
// breakers per §10.4: an output device wedged against a hung driver trips
// its breaker and fails fast instead of blocking the consumer loop.
type Output struct {
	inner      plugin.Output
	openBreak  *Breaker[struct{}]
	writeBreak *Breaker[int]
}

// NewOutput wraps inner with breakers named after plugin name pluginName.
func NewOutput(pluginName string, inner plugin.Output, cfg Config) *Output {
	return &Output{
		inner:      inner,
		openBreak:  New[struct{}](pluginName+".open", cfg),
		writeBreak: New[int](pluginName+".write", cfg),
	}
}

func (o *Output) Init() error { return o.inner.Init() }
func (o *Output) Exit() error { return o.inner.Exit() }

func (o *Output) Open(sf plugin.SampleFormat, cm plugin.ChannelMap) error {
	_, err := o.openBreak.Execute(func() (struct{}, error) {
		return struct{}{}, o.inner.Open(sf, cm)
	})
	return err
}

func (o *Output) Close() error { return o.inner.Close() }

func (o *Output) Write(buf []byte) (int, error) {
	return o.writeBreak.Execute(func() (int, error) {
		return o.inner.Write(buf)
	})
}

func (o *Output) BufferSpace() (int, error)    { return o.inner.BufferSpace() }
func (o *Output) Pause() error                 { return o.inner.Pause() }
func (o *Output) Unpause() error               { return o.inner.Unpause() }
func (o *Output) Drop() error                  { return o.inner.Drop() }

func (o *Output) SetSampleFormat(sf plugin.SampleFormat) (bool, error) {
	return o.inner.SetSampleFormat(sf)
}

func (o *Output) SetVolume(left, right, max int) error { return o.inner.SetVolume(left, right, max) }
func (o *Output) Volume() (int, int, int, error)       { return o.inner.Volume() }
func (o *Output) VolumeChanged() bool                  { return o.inner.VolumeChanged() }

// OpenBreakerState returns the Open breaker's current state.
func (o *Output) OpenBreakerState() string { return o.openBreak.State() }

// WriteBreakerState returns the Write breaker's current state.
func (o *Output) WriteBreakerState() string { return o.writeBreak.State() }

var _ plugin.Output = (*Output)(nil)
