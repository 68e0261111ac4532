// Package ringbuffer implements the fixed-chunk byte ring buffer shared by
// the producer and consumer audio threads. It carries no internal locking:
// single-producer/single-consumer safety comes from the player façade's
// lock discipline, not from this package.
package ringbuffer

// DefaultChunkSize is the reference chunk size (4 KiB).
const DefaultChunkSize = 4096

// MinChunks and MaxChunks bound the buffer's chunk count, matching the
// player façade's set_buffer_chunks clamp.
const (
	MinChunks = 3
	MaxChunks = 30
)

// Buffer is a fixed-count array of fixed-size byte chunks with independent
// read and write indices into a logical infinite stream. get_write_region,
// commit_write, get_read_region, and consume never return byte ranges that
// cross a chunk boundary: both sides round up to the next chunk boundary
// on a short write or a full drain.
type Buffer struct {
	data      []byte
	chunkSize int
	chunks    int

	writePos int64
	readPos  int64
}

// New allocates a buffer of chunks chunks, each chunkSize bytes.
func New(chunks, chunkSize int) *Buffer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunks < 1 {
		chunks = 1
	}
	return &Buffer{
		data:      make([]byte, chunks*chunkSize),
		chunkSize: chunkSize,
		chunks:    chunks,
	}
}

// ChunkSize returns the fixed size of each chunk in bytes.
func (b *Buffer) ChunkSize() int {
	return b.chunkSize
}

// ChunkCount returns the total number of chunks the buffer holds.
func (b *Buffer) ChunkCount() int {
	return b.chunks
}

// FilledChunks returns the number of fully or partially filled chunks
// currently queued for the consumer.
func (b *Buffer) FilledChunks() int {
	return int((b.writePos - b.readPos) / int64(b.chunkSize))
}

// FreeChunks returns the number of chunks available for the producer to
// write into.
func (b *Buffer) FreeChunks() int {
	return b.chunks - b.FilledChunks()
}

// Reset discards all buffered data, returning both indices to zero. Called
// on stop, unload, seek, and buffer resize.
func (b *Buffer) Reset() {
	b.writePos = 0
	b.readPos = 0
}

// Resize reallocates the buffer to hold newChunks chunks, discarding any
// buffered data. Callers must hold both the producer and consumer locks.
func (b *Buffer) Resize(newChunks int) {
	if newChunks < 1 {
		newChunks = 1
	}
	b.data = make([]byte, newChunks*b.chunkSize)
	b.chunks = newChunks
	b.Reset()
}

// GetWriteRegion returns a slice into the current write chunk and reports
// whether any space remains. The slice is truncated to the end of the
// current chunk; it never spans a chunk boundary. An empty, non-nil slice
// is returned when the buffer is full.
func (b *Buffer) GetWriteRegion() []byte {
	if b.FreeChunks() == 0 {
		return b.data[:0]
	}
	chunkStart := b.writePos - (b.writePos % int64(b.chunkSize))
	offsetInChunk := b.writePos - chunkStart
	idx := (chunkStart / int64(b.chunkSize)) % int64(b.chunks)
	start := idx*int64(b.chunkSize) + offsetInChunk
	end := idx*int64(b.chunkSize) + int64(b.chunkSize)
	return b.data[start:end]
}

// CommitWrite advances the write index by n bytes, as returned into the
// slice from GetWriteRegion. If n is less than the space that was available
// in the current chunk, the remainder of the chunk is discarded and the
// write index still rounds up to the next chunk boundary: chunks are always
// consumed as whole chunks even when short. CommitWrite(0) explicitly seals
// the current chunk, signaling e.g. end-of-stream mid-chunk.
func (b *Buffer) CommitWrite(n int) {
	chunkStart := b.writePos - (b.writePos % int64(b.chunkSize))
	b.writePos = chunkStart + int64(b.chunkSize)
	_ = n // n only determines how much of the chunk held real data; the
	// index always advances a full chunk, matching buffer_fill's semantics.
}

// GetReadRegion returns a slice into the current read chunk, truncated to
// the amount of real data remaining there. It never spans a chunk boundary.
func (b *Buffer) GetReadRegion() []byte {
	avail := b.writePos - b.readPos
	if avail <= 0 {
		return b.data[:0]
	}
	chunkStart := b.readPos - (b.readPos % int64(b.chunkSize))
	offsetInChunk := b.readPos - chunkStart
	remainInChunk := int64(b.chunkSize) - offsetInChunk
	if remainInChunk > avail {
		remainInChunk = avail
	}
	idx := (chunkStart / int64(b.chunkSize)) % int64(b.chunks)
	start := idx*int64(b.chunkSize) + offsetInChunk
	return b.data[start : start+remainInChunk]
}

// Consume advances the read index by n bytes, as returned into the slice
// from GetReadRegion. Because CommitWrite always advances the write index
// to a full chunk boundary, consuming every remaining byte in a chunk
// (n == len(GetReadRegion())) naturally lands the read index on the next
// chunk boundary too — there is no separate rounding step to perform here.
func (b *Buffer) Consume(n int) {
	b.readPos += int64(n)
}
