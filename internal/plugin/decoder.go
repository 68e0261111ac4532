package plugin

import "context"

// Decoder is the per-file decoding contract the producer drives. A host
// program registers a concrete Decoder implementation per codec; the player
// core treats every instance opaquely.
//
// Open must be called before any other method. Read may be called
// repeatedly until it returns (0, nil) for EOF or a non-would-block error.
// A would-block error (plugin.IsWouldBlock) is expected during normal
// operation against slow remote streams and must not be treated as a
// decode failure.
type Decoder interface {
	// Open opens path and returns the sample format and channel map the
	// decoded PCM will be produced in.
	Open(ctx context.Context, path string) (SampleFormat, ChannelMap, error)

	// Read decodes into buf, returning the number of bytes written. Zero
	// bytes with a nil error means clean EOF.
	Read(buf []byte) (int, error)

	// Seek moves the decode position to the given offset in seconds.
	// Remote streams and some formats may return KindSeekNotSupported.
	Seek(seconds float64) error

	// ReadTags decodes the file's tag dictionary.
	ReadTags() (map[string]string, error)

	// Duration returns the track length in seconds, or Unknown (-1) if it
	// cannot be determined up front (e.g. a live stream).
	Duration() int

	// Bitrate returns the average bitrate in bits/sec, or Unknown (-1).
	Bitrate() int

	// Codec returns the codec name (e.g. "flac", "vorbis").
	Codec() string

	// CodecProfile returns an optional codec-specific profile string.
	CodecProfile() string

	// IsRemote reports whether this source is a network stream: disables
	// seeking and changes the cache's staleness policy for this path.
	IsRemote() bool

	// MetadataChanged reports whether a new stream-title update is
	// available since the last call (only meaningful for remote streams).
	MetadataChanged() bool

	// Metadata returns the current stream-title metadata string.
	Metadata() string

	// EOF reports whether the last Read reached end of stream.
	EOF() bool

	// Close releases any resources associated with this decoder instance.
	Close() error
}

// DecoderFactory constructs a new, unopened Decoder for path. A host program
// supplies one factory per registered codec/format; the engine picks the
// factory by file extension or content sniffing (outside this package's
// scope).
type DecoderFactory func(path string) Decoder
