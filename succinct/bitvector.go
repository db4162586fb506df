package succinct

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
)

var (
	// ErrOutOfRange is returned for positions outside a structure's domain.
	ErrOutOfRange = errors.New("position out of range")
	// ErrSelectOutOfRange is returned when a select rank has no occurrence.
	ErrSelectOutOfRange = errors.New("select rank out of range")
)

// blockBits is the rank summary granularity. Each block stores the
// cumulative count of ones preceding it, so rank touches one summary entry
// plus at most blockBits/64 words.
const blockBits = 512

// BitVector is a fixed-length mutable bit array supporting rank and select.
//
// Rank is exclusive of the query position and select is 1-indexed; both are
// total functions over valid inputs. The rank summary is rebuilt lazily
// after mutation.
type BitVector struct {
	size  int
	words []uint64
	ones  int

	// blocks[i] = number of ones in [0, i*blockBits). Nil while stale.
	blocks []uint32
}

// NewBitVector creates a bit vector of n bits, all initially zero.
func NewBitVector(n int) *BitVector {
	return &BitVector{
		size:  n,
		words: make([]uint64, (n+63)/64),
	}
}

// Len returns the number of bits.
func (b *BitVector) Len() int { return b.size }

// Count returns the number of set bits.
func (b *BitVector) Count() int { return b.ones }

// Set sets the bit at position i to v.
func (b *BitVector) Set(i int, v bool) error {
	if i < 0 || i >= b.size {
		return fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, i, b.size)
	}
	word, mask := i/64, uint64(1)<<(uint(i)%64)
	was := b.words[word]&mask != 0
	if was == v {
		return nil
	}
	if v {
		b.words[word] |= mask
		b.ones++
	} else {
		b.words[word] &^= mask
		b.ones--
	}
	b.blocks = nil
	return nil
}

// Get returns the bit at position i.
func (b *BitVector) Get(i int) (bool, error) {
	if i < 0 || i >= b.size {
		return false, fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, i, b.size)
	}
	return b.words[i/64]&(1<<(uint(i)%64)) != 0, nil
}

// Rank1 counts the set bits in [0, p). p may equal Len, in which case the
// total number of ones is returned.
func (b *BitVector) Rank1(p int) (int, error) {
	if p < 0 || p > b.size {
		return 0, fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, p, b.size)
	}
	if p == 0 {
		return 0, nil
	}
	b.ensureIndex()

	block := p / blockBits
	count := int(b.blocks[block])

	// Whole words between the block boundary and p.
	word := block * blockBits / 64
	for ; (word+1)*64 <= p; word++ {
		count += bits.OnesCount64(b.words[word])
	}
	if rem := p - word*64; rem > 0 {
		count += bits.OnesCount64(b.words[word] << (64 - uint(rem)) >> (64 - uint(rem)))
	}
	return count, nil
}

// Rank0 counts the unset bits in [0, p).
func (b *BitVector) Rank0(p int) (int, error) {
	ones, err := b.Rank1(p)
	if err != nil {
		return 0, err
	}
	return p - ones, nil
}

// Select1 returns the position of the k-th set bit (1-indexed).
func (b *BitVector) Select1(k int) (int, error) {
	if k < 1 || k > b.ones {
		return 0, fmt.Errorf("%w: k=%d (ones %d)", ErrSelectOutOfRange, k, b.ones)
	}
	b.ensureIndex()

	// Binary search the last block whose cumulative count is below k, then
	// scan its words.
	block := sort.Search(len(b.blocks), func(i int) bool {
		return int(b.blocks[i]) >= k
	}) - 1
	count := int(b.blocks[block])

	for word := block * blockBits / 64; word < len(b.words); word++ {
		w := b.words[word]
		n := bits.OnesCount64(w)
		if count+n < k {
			count += n
			continue
		}
		return word*64 + selectWord(w, k-count), nil
	}
	return 0, fmt.Errorf("%w: k=%d", ErrSelectOutOfRange, k)
}

// Select0 returns the position of the k-th unset bit (1-indexed).
func (b *BitVector) Select0(k int) (int, error) {
	zeros := b.size - b.ones
	if k < 1 || k > zeros {
		return 0, fmt.Errorf("%w: k=%d (zeros %d)", ErrSelectOutOfRange, k, zeros)
	}
	b.ensureIndex()

	block := sort.Search(len(b.blocks), func(i int) bool {
		limit := i * blockBits
		if limit > b.size {
			limit = b.size
		}
		return limit-int(b.blocks[i]) >= k
	}) - 1
	count := block*blockBits - int(b.blocks[block])

	for word := block * blockBits / 64; word < len(b.words); word++ {
		w := ^b.words[word]
		valid := b.size - word*64
		if valid < 64 {
			w &= (1 << uint(valid)) - 1
		}
		n := bits.OnesCount64(w)
		if count+n < k {
			count += n
			continue
		}
		return word*64 + selectWord(w, k-count), nil
	}
	return 0, fmt.Errorf("%w: k=%d", ErrSelectOutOfRange, k)
}

// ensureIndex rebuilds the block rank summary if a mutation invalidated it.
func (b *BitVector) ensureIndex() {
	if b.blocks != nil {
		return
	}
	numBlocks := b.size/blockBits + 1
	blocks := make([]uint32, numBlocks)
	count := 0
	for i := 1; i < numBlocks; i++ {
		start, end := (i-1)*blockBits/64, i*blockBits/64
		for w := start; w < end && w < len(b.words); w++ {
			count += bits.OnesCount64(b.words[w])
		}
		blocks[i] = uint32(count)
	}
	b.blocks = blocks
}

// selectWord returns the bit offset of the k-th set bit (1-indexed) within w.
func selectWord(w uint64, k int) int {
	for i := 1; i < k; i++ {
		w &= w - 1
	}
	return bits.TrailingZeros64(w)
}
