package cache

import (
	"hash/fnv"
	"sync"
)

// BloomFilter is a probabilistic set-membership structure used by the cache
// to short-circuit GetOrLoad for paths it has never seen.
//
// Key characteristics:
//   - No false negatives: if Test() returns false, the path definitely was
//     never added.
//   - Possible false positives: if Test() returns true, the path might have
//     been added; the caller must still walk the hash bucket chain to confirm.
//   - Cannot remove items, which is fine here: the filter is rebuilt whenever
//     the cache is reloaded from disk (see Cache.Init).
type BloomFilter struct {
	mu       sync.RWMutex
	bits     []uint64
	size     uint64
	hashFns  int
	count    int
	capacity int
}

// NewBloomFilter creates a Bloom filter sized for expectedItems entries at
// the given target false positive rate (e.g. 0.01 for 1%).
func NewBloomFilter(expectedItems int, falsePositiveRate float64) *BloomFilter {
	if expectedItems <= 0 {
		expectedItems = 1023
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = 0.01
	}

	ln2 := 0.693147
	ln2Squared := ln2 * ln2
	lnP := approximateLn(falsePositiveRate)

	m := int(-float64(expectedItems) * lnP / ln2Squared)
	if m < 64 {
		m = 64
	}

	k := int(float64(m) / float64(expectedItems) * ln2)
	if k < 1 {
		k = 1
	}
	if k > 10 {
		k = 10
	}

	words := (m + 63) / 64

	return &BloomFilter{
		bits:     make([]uint64, words),
		size:     uint64(words * 64),
		hashFns:  k,
		capacity: expectedItems,
	}
}

// Add records path as present in the filter.
func (bf *BloomFilter) Add(path string) {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	for _, h := range bf.getHashes(path) {
		idx := h % bf.size
		bf.bits[idx/64] |= 1 << (idx % 64)
	}
	bf.count++
}

// Test reports whether path might be present. False means definitely absent.
func (bf *BloomFilter) Test(path string) bool {
	bf.mu.RLock()
	defer bf.mu.RUnlock()

	for _, h := range bf.getHashes(path) {
		idx := h % bf.size
		if bf.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// Clear resets the filter to empty. Called when Cache.Init discards a corrupt
// load.
func (bf *BloomFilter) Clear() {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	for i := range bf.bits {
		bf.bits[i] = 0
	}
	bf.count = 0
}

// Count returns the number of Add calls made (not deduplicated).
func (bf *BloomFilter) Count() int {
	bf.mu.RLock()
	defer bf.mu.RUnlock()
	return bf.count
}

// Capacity returns the expected capacity the filter was sized for.
func (bf *BloomFilter) Capacity() int {
	bf.mu.RLock()
	defer bf.mu.RUnlock()
	return bf.capacity
}

// ApproximateFillRatio returns the fraction of bits currently set, a rough
// indicator of how close the filter is to its designed false-positive rate.
func (bf *BloomFilter) ApproximateFillRatio() float64 {
	bf.mu.RLock()
	defer bf.mu.RUnlock()

	setBits := 0
	for _, word := range bf.bits {
		setBits += popcount(word)
	}
	return float64(setBits) / float64(bf.size)
}

// getHashes generates bf.hashFns hash values for path using double hashing:
// h(i) = h1 + i*h2. Cheaper than computing k independent hash functions.
func (bf *BloomFilter) getHashes(path string) []uint64 {
	h1 := fnv.New64a()
	h1.Write([]byte(path))
	hash1 := h1.Sum64()

	h2 := fnv.New64()
	h2.Write([]byte(path))
	h2.Write([]byte{0xff})
	hash2 := h2.Sum64()

	hashes := make([]uint64, bf.hashFns)
	for i := 0; i < bf.hashFns; i++ {
		hashes[i] = hash1 + uint64(i)*hash2
	}
	return hashes
}

func popcount(x uint64) int {
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}

// approximateLn returns a lookup-table approximation of ln(x) for the small
// false-positive-rate range Bloom filter sizing needs.
func approximateLn(x float64) float64 {
	switch {
	case x >= 0.1:
		return -2.303
	case x >= 0.05:
		return -2.996
	case x >= 0.01:
		return -4.605
	case x >= 0.005:
		return -5.298
	case x >= 0.001:
		return -6.908
	default:
		return -9.210
	}
}
