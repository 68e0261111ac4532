package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/waveterm/core/internal/trackinfo"
)

// headerSize is the fixed 8-byte file header: "CTC" + null + version +
// 3 flag bytes.
const headerSize = 8

const cacheMagic = "CTC"

// version is bumped whenever the on-disk entry layout changes incompatibly.
const version = 1

const (
	flag64Bit     = 0x01
	flagBigEndian = 0x02
)

// entryFixedSize is the byte width of an entry before its string block:
// size(4) + play_count(4) + mtime(8) + duration(4) + bitrate(4) + bpm(4) +
// reserved(52).
const entryFixedSize = 4 + 4 + 8 + 4 + 4 + 4 + 52

const wordAlign = 8

// align rounds n up to the next machine-word boundary.
func align(n int) int {
	return (n + wordAlign - 1) &^ (wordAlign - 1)
}

func hostFlags() byte {
	var f byte
	f |= flag64Bit
	// encoding/binary.NativeEndian is little-endian on every platform this
	// module targets; big-endian hosts would set flagBigEndian here.
	return f
}

func buildHeader() []byte {
	h := make([]byte, headerSize)
	copy(h[0:3], cacheMagic)
	h[3] = 0
	h[4] = version
	h[5] = hostFlags()
	h[6] = 0
	h[7] = 0
	return h
}

// ErrCorrupt is returned by Init when the cache file's header or an entry
// fails validation. The cache starts empty and close will regenerate a
// fresh file.
type ErrCorrupt struct {
	Reason string
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("cache: corrupt file: %s", e.Reason)
}

func validateHeader(h []byte) error {
	if len(h) < headerSize {
		return &ErrCorrupt{Reason: "file shorter than header"}
	}
	if string(h[0:3]) != cacheMagic || h[3] != 0 {
		return &ErrCorrupt{Reason: "bad magic"}
	}
	if h[4] != version {
		return &ErrCorrupt{Reason: fmt.Sprintf("version mismatch: got %d want %d", h[4], version)}
	}
	if h[5] != hostFlags() {
		return &ErrCorrupt{Reason: "build flags mismatch (word size or byte order)"}
	}
	return nil
}

// entryHeader is the fixed-size portion of an on-disk entry.
type entryHeader struct {
	Size      uint32
	PlayCount int32
	MTime     int64
	Duration  int32
	Bitrate   int32
	BPM       int32
}

// encodeEntry serializes ti into its on-disk representation, unaligned
// (callers add boundary padding before writing).
func encodeEntry(ti *trackinfo.TrackInfo) []byte {
	strs := entryStrings(ti)

	var body bytes.Buffer
	for _, s := range strs {
		body.WriteString(s)
		body.WriteByte(0)
	}

	total := entryFixedSize + body.Len()

	hdr := entryHeader{
		Size:      uint32(total),
		PlayCount: int32(ti.PlayCount()),
		MTime:     ti.MTime,
		Duration:  int32(ti.Duration),
		Bitrate:   int32(ti.Bitrate),
		BPM:       int32(ti.BPM),
	}

	buf := make([]byte, 0, total)
	out := bytes.NewBuffer(buf)
	_ = binary.Write(out, binary.LittleEndian, hdr)
	reserved := make([]byte, 52)
	for i := range reserved {
		reserved[i] = 0xFF
	}
	out.Write(reserved)
	out.Write(body.Bytes())
	return out.Bytes()
}

// entryStrings returns the null-separated string block in on-disk order:
// filename, codec, codec_profile, then (key, value) pairs. Count is always
// odd (3 fixed + an even number of tag strings).
func entryStrings(ti *trackinfo.TrackInfo) []string {
	strs := []string{ti.Path, ti.Codec, ti.CodecProfile}
	for _, k := range ti.Tags.Keys() {
		v, _ := ti.Tags.Get(k)
		strs = append(strs, k, v)
	}
	return strs
}

// decodeEntry parses one entry starting at buf[0], returning the TrackInfo
// and the number of bytes the raw (unaligned) entry occupied.
func decodeEntry(buf []byte) (*trackinfo.TrackInfo, int, error) {
	if len(buf) < entryFixedSize {
		return nil, 0, &ErrCorrupt{Reason: "entry shorter than fixed header"}
	}

	var hdr entryHeader
	r := bytes.NewReader(buf[:28])
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, 0, &ErrCorrupt{Reason: "failed to read entry header: " + err.Error()}
	}

	size := int(hdr.Size)
	if size < entryFixedSize || size > len(buf) {
		return nil, 0, &ErrCorrupt{Reason: "entry size out of range"}
	}

	strBlock := buf[entryFixedSize:size]
	if len(strBlock) == 0 || strBlock[len(strBlock)-1] != 0 {
		return nil, 0, &ErrCorrupt{Reason: "string block not null-terminated"}
	}

	parts := splitNullTerminated(strBlock)
	if len(parts)%2 == 0 {
		return nil, 0, &ErrCorrupt{Reason: "even string count (expected odd)"}
	}
	if len(parts) < 3 {
		return nil, 0, &ErrCorrupt{Reason: "missing fixed filename/codec/codec_profile strings"}
	}

	ti := trackinfo.New(parts[0])
	ti.Codec = parts[1]
	ti.CodecProfile = parts[2]
	ti.MTime = hdr.MTime
	ti.Duration = int(hdr.Duration)
	ti.Bitrate = int(hdr.Bitrate)
	ti.BPM = int(hdr.BPM)
	ti.SetPlayCount(int(hdr.PlayCount))

	for i := 3; i+1 < len(parts); i += 2 {
		ti.Tags.Set(parts[i], parts[i+1])
	}

	return ti, size, nil
}

// splitNullTerminated splits buf (which must end with a null byte) on null
// bytes, dropping the trailing empty element produced by the final
// terminator.
func splitNullTerminated(buf []byte) []string {
	all := bytes.Split(buf, []byte{0})
	if len(all) > 0 && len(all[len(all)-1]) == 0 {
		all = all[:len(all)-1]
	}
	out := make([]string, len(all))
	for i, b := range all {
		out[i] = string(b)
	}
	return out
}
