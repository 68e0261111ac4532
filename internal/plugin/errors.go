package plugin

import "fmt"

// Kind classifies a plugin failure so the player can decide how to react
// (retry, unload, surface to the user) without string-matching messages.
type Kind int

const (
	// KindUnknown is the zero value; never returned by a conforming plugin.
	KindUnknown Kind = iota
	// KindOpenFailed: Open (decoder or output) failed.
	KindOpenFailed
	// KindReadFailed: Decoder.Read failed for a reason other than would-block.
	KindReadFailed
	// KindWriteFailed: Output.Write failed.
	KindWriteFailed
	// KindSeekNotSupported: Decoder.Seek is not implemented for this source
	// (e.g. a remote stream).
	KindSeekNotSupported
	// KindFormatNotSupported: the source's codec/container is not playable.
	KindFormatNotSupported
	// KindTagsUnreadable: Decoder.ReadTags failed.
	KindTagsUnreadable
	// KindSampleFormatFailed: Output.SetSampleFormat failed.
	KindSampleFormatFailed
	// KindWouldBlock: a transient condition; the caller should retry rather
	// than treat this as a real failure. Excluded from circuit breaker
	// failure counting (see internal/resilience).
	KindWouldBlock
)

func (k Kind) String() string {
	switch k {
	case KindOpenFailed:
		return "open_failed"
	case KindReadFailed:
		return "read_failed"
	case KindWriteFailed:
		return "write_failed"
	case KindSeekNotSupported:
		return "seek_not_supported"
	case KindFormatNotSupported:
		return "format_not_supported"
	case KindTagsUnreadable:
		return "tags_unreadable"
	case KindSampleFormatFailed:
		return "sample_format_failed"
	case KindWouldBlock:
		return "would_block"
	default:
		return "unknown"
	}
}

// Error is the typed error every plugin method returns on failure. Plugin is
// the plugin's registered name, used for logging and metrics labeling.
type Error struct {
	Kind    Kind
	Plugin  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, e.Message, e.Err)
	}
	return fmt.Sprintf("plugin %s: %s", e.Plugin, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsWouldBlock reports whether err is a plugin.Error of kind KindWouldBlock,
// the only kind the producer/consumer loops treat as transient rather than
// a failure to log, unload, and surface.
func IsWouldBlock(err error) bool {
	var pe *Error
	if e, ok := err.(*Error); ok {
		pe = e
	}
	return pe != nil && pe.Kind == KindWouldBlock
}

// NewError constructs a plugin.Error, wrapping cause via %w semantics
// through Unwrap.
func NewError(kind Kind, plugin, message string, cause error) *Error {
	return &Error{Kind: kind, Plugin: plugin, Message: message, Err: cause}
}
