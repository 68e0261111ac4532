package player

import (
	"sync"

	"github.com/waveterm/core/internal/trackinfo"
)

// Status is the player's coarse playback state, as published to PlayerInfo.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Info is the observable player state published under player_info_lock
// (§3, §5). Dirty bits latch until the UI clears them after rendering.
type Info struct {
	mu sync.Mutex

	status   Status
	current  *trackinfo.TrackInfo
	position float64
	cont     bool

	volLeft, volRight, volMax int

	bufferFillChunks int
	bufferSizeChunks int

	streamMetadata string
	errorMsg       string

	fileChanged     bool
	metadataChanged bool
	statusChanged   bool
	positionChanged bool
}

// NewInfo returns a freshly-initialized Info with continue enabled.
func NewInfo() *Info {
	return &Info{cont: true}
}

// Snapshot is an immutable copy of Info's fields for safe external reads.
type Snapshot struct {
	Status           Status
	Current          *trackinfo.TrackInfo
	Position         float64
	Continue         bool
	VolLeft, VolRight, VolMax int
	BufferFillChunks int
	BufferSizeChunks int
	StreamMetadata   string
	ErrorMsg         string
}

// Snapshot returns a copy of the current state without clearing dirty bits.
func (i *Info) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Snapshot{
		Status:           i.status,
		Current:          i.current,
		Position:         i.position,
		Continue:         i.cont,
		VolLeft:          i.volLeft,
		VolRight:         i.volRight,
		VolMax:           i.volMax,
		BufferFillChunks: i.bufferFillChunks,
		BufferSizeChunks: i.bufferSizeChunks,
		StreamMetadata:   i.streamMetadata,
		ErrorMsg:         i.errorMsg,
	}
}

// DirtyBits reports and clears the latched "something changed" flags.
type DirtyBits struct {
	FileChanged     bool
	MetadataChanged bool
	StatusChanged   bool
	PositionChanged bool
}

// TakeDirty returns the currently-latched dirty bits and clears them.
func (i *Info) TakeDirty() DirtyBits {
	i.mu.Lock()
	defer i.mu.Unlock()
	d := DirtyBits{i.fileChanged, i.metadataChanged, i.statusChanged, i.positionChanged}
	i.fileChanged = false
	i.metadataChanged = false
	i.statusChanged = false
	i.positionChanged = false
	return d
}

func (i *Info) setStatus(s Status) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status != s {
		i.status = s
		i.statusChanged = true
	}
}

func (i *Info) setCurrent(ti *trackinfo.TrackInfo) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.current = ti
	i.fileChanged = true
}

func (i *Info) setPosition(pos float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if int(pos) != int(i.position) {
		i.positionChanged = true
	}
	i.position = pos
}

func (i *Info) setMetadata(s string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.streamMetadata != s {
		i.streamMetadata = s
		i.metadataChanged = true
	}
}

func (i *Info) setError(msg string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.errorMsg = msg
	i.statusChanged = true
}

func (i *Info) clearError() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.errorMsg = ""
}

func (i *Info) setBuffer(fill, size int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bufferFillChunks = fill
	i.bufferSizeChunks = size
}

func (i *Info) setContinue(c bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cont = c
}

func (i *Info) getContinue() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cont
}

func (i *Info) setVolume(left, right, max int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.volLeft, i.volRight, i.volMax = left, right, max
}
