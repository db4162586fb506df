package succinct

import (
	"errors"
	"fmt"
)

// ErrSymbolNotFound is returned for symbols outside a tree's alphabet or
// absent from the indexed sequence.
var ErrSymbolNotFound = errors.New("symbol not found")

// WaveletTree answers rank, select and access queries over a sequence of
// symbols drawn from the alphabet [0, σ). It is built once and immutable
// afterwards; a changed sequence requires constructing a new tree.
type WaveletTree struct {
	root     *waveletNode
	length   int
	alphabet int
}

type waveletNode struct {
	// bv routes each position: 0 into the lower alphabet half, 1 into the
	// upper half. Nil at leaves.
	bv          *BitVector
	left, right *waveletNode
	lo, hi, mid int
	count       int
}

// NewWaveletTree builds a wavelet tree over seq with the given alphabet size
// (all symbols must lie in [0, alphabetSize)).
func NewWaveletTree(seq []int, alphabetSize int) (*WaveletTree, error) {
	if alphabetSize < 1 {
		return nil, fmt.Errorf("alphabet size must be positive, got %d", alphabetSize)
	}
	for i, s := range seq {
		if s < 0 || s >= alphabetSize {
			return nil, fmt.Errorf("%w: symbol %d at position %d outside [0, %d)", ErrSymbolNotFound, s, i, alphabetSize)
		}
	}
	return &WaveletTree{
		root:     buildWaveletNode(seq, 0, alphabetSize-1),
		length:   len(seq),
		alphabet: alphabetSize,
	}, nil
}

func buildWaveletNode(seq []int, lo, hi int) *waveletNode {
	node := &waveletNode{lo: lo, hi: hi, count: len(seq)}
	if lo == hi {
		return node
	}
	node.mid = lo + (hi-lo)/2

	bv := NewBitVector(len(seq))
	var left, right []int
	for i, s := range seq {
		if s <= node.mid {
			left = append(left, s)
		} else {
			bv.Set(i, true) //nolint:errcheck // i < len(seq) by construction
			right = append(right, s)
		}
	}
	node.bv = bv
	node.left = buildWaveletNode(left, lo, node.mid)
	node.right = buildWaveletNode(right, node.mid+1, hi)
	return node
}

// Len returns the length of the indexed sequence.
func (t *WaveletTree) Len() int { return t.length }

// AlphabetSize returns σ, the size of the alphabet.
func (t *WaveletTree) AlphabetSize() int { return t.alphabet }

// Rank counts the occurrences of symbol in the sequence prefix [0, p).
// p may equal Len.
func (t *WaveletTree) Rank(symbol, p int) (int, error) {
	if p < 0 || p > t.length {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrOutOfRange, p, t.length)
	}
	if symbol < 0 || symbol >= t.alphabet {
		return 0, fmt.Errorf("%w: %d", ErrSymbolNotFound, symbol)
	}

	node := t.root
	for node.lo != node.hi {
		var err error
		if symbol <= node.mid {
			p, err = node.bv.Rank0(p)
			node = node.left
		} else {
			p, err = node.bv.Rank1(p)
			node = node.right
		}
		if err != nil {
			return 0, err
		}
	}
	return p, nil
}

// Select returns the position of the k-th occurrence of symbol (1-indexed).
func (t *WaveletTree) Select(symbol, k int) (int, error) {
	if symbol < 0 || symbol >= t.alphabet {
		return 0, fmt.Errorf("%w: %d", ErrSymbolNotFound, symbol)
	}

	// Descend to the symbol's leaf recording the branch taken at each level.
	type step struct {
		node *waveletNode
		bit  bool
	}
	var path []step
	node := t.root
	for node.lo != node.hi {
		bit := symbol > node.mid
		path = append(path, step{node: node, bit: bit})
		if bit {
			node = node.right
		} else {
			node = node.left
		}
	}
	if k < 1 || k > node.count {
		return 0, fmt.Errorf("%w: k=%d for symbol %d (count %d)", ErrSelectOutOfRange, k, symbol, node.count)
	}

	// Ascend, translating the occurrence index into each parent's positions.
	pos := k
	for i := len(path) - 1; i >= 0; i-- {
		var (
			p   int
			err error
		)
		if path[i].bit {
			p, err = path[i].node.bv.Select1(pos)
		} else {
			p, err = path[i].node.bv.Select0(pos)
		}
		if err != nil {
			return 0, err
		}
		pos = p + 1
	}
	return pos - 1, nil
}

// Access returns the symbol at position p of the sequence.
func (t *WaveletTree) Access(p int) (int, error) {
	if p < 0 || p >= t.length {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrOutOfRange, p, t.length)
	}

	node := t.root
	for node.lo != node.hi {
		bit, err := node.bv.Get(p)
		if err != nil {
			return 0, err
		}
		if bit {
			p, err = node.bv.Rank1(p)
			node = node.right
		} else {
			p, err = node.bv.Rank0(p)
			node = node.left
		}
		if err != nil {
			return 0, err
		}
	}
	return node.lo, nil
}
