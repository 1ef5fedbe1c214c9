package hwio

import "fmt"

const wordSize = 64

// Bitset is a fixed-size set of bits, sized at creation.
type Bitset struct {
	n     uint
	words []uint64
}

func NewBitset(n uint) *Bitset {
	return &Bitset{n: n, words: make([]uint64, (n+wordSize-1)/wordSize)}
}

// Len returns the number of bits in the set.
func (b *Bitset) Len() uint { return b.n }

func (b *Bitset) Set(i uint) {
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

func (b *Bitset) Clear(i uint) {
	b.words[i/wordSize] &^= 1 << (i % wordSize)
}

func (b *Bitset) Test(i uint) bool {
	return b.words[i/wordSize]&(1<<(i%wordSize)) != 0
}

// TestAndSet sets bit i and reports whether it was already set.
func (b *Bitset) TestAndSet(i uint) bool {
	w, m := &b.words[i/wordSize], uint64(1)<<(i%wordSize)
	was := *w&m != 0
	*w |= m
	return was
}

// SetRange sets all bits in the half-open interval [start, end).
// It panics if start >= end or end > Len().
func (b *Bitset) SetRange(start, end uint) {
	b.checkRange(start, end)
	for i := start; i < end; {
		if i%wordSize == 0 && end-i >= wordSize {
			b.words[i/wordSize] = ^uint64(0)
			i += wordSize
			continue
		}
		b.Set(i)
		i++
	}
}

// ClearRange clears all bits in the half-open interval [start, end).
func (b *Bitset) ClearRange(start, end uint) {
	b.checkRange(start, end)
	for i := start; i < end; {
		if i%wordSize == 0 && end-i >= wordSize {
			b.words[i/wordSize] = 0
			i += wordSize
			continue
		}
		b.Clear(i)
		i++
	}
}

func (b *Bitset) checkRange(start, end uint) {
	if start >= end || end > b.n {
		panic(fmt.Sprintf("invalid range [%d, %d)", start, end))
	}
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for i := range b.n {
		if b.Test(i) {
			n++
		}
	}
	return n
}

func (b *Bitset) Reset() {
	clear(b.words)
}

func (b *Bitset) SetAll() {
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
	if rem := b.n % wordSize; rem != 0 {
		b.words[len(b.words)-1] = (1 << rem) - 1
	}
}

// Equal reports whether both sets have the same size and content.
func (b *Bitset) Equal(o *Bitset) bool {
	if b.n != o.n {
		return false
	}
	for i := range b.words {
		if b.words[i] != o.words[i] {
			return false
		}
	}
	return true
}
