package hwio

import "math/bits"

const (
	NumBits  = 0x2000             // 13-bit request line identifiers
	wordSize = 64                 // using 64-bit words
	numWords = NumBits / wordSize // 128 words exactly
)

// Bitset is a 8Kbit set. Zero value is an empty set (all bits cleared).
type Bitset struct {
	words [numWords]uint64
}

// Set sets the bit at index i.
func (b *Bitset) Set(i uint) {
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

// Clear clears the bit at index i.
func (b *Bitset) Clear(i uint) {
	b.words[i/wordSize] &^= 1 << (i % wordSize)
}

// Test returns true if the bit at index i is set.
func (b *Bitset) Test(i uint) bool {
	return (b.words[i/wordSize] & (1 << (i % wordSize))) != 0
}

// Reset clears all bits in the Bitset.
func (b *Bitset) Reset() {
	clear(b.words[:])
}

// Each calls fn for every set bit, in increasing order.
func (b *Bitset) Each(fn func(i uint)) {
	for w, word := range b.words {
		for word != 0 {
			n := uint(bits.TrailingZeros64(word))
			fn(uint(w)*wordSize + n)
			word &^= 1 << n
		}
	}
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, word := range b.words {
		n += bits.OnesCount64(word)
	}
	return n
}
