package succinct

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveletTreeKnownSequence(t *testing.T) {
	seq := []int{3, 1, 4, 1, 5, 9, 2, 6, 5}

	wt, err := NewWaveletTree(seq, 10)
	require.NoError(t, err)
	require.Equal(t, len(seq), wt.Len())
	require.Equal(t, 10, wt.AlphabetSize())

	r, err := wt.Rank(5, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, r)

	r, err = wt.Rank(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, r)

	r, err = wt.Rank(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, r)

	pos, err := wt.Select(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	pos, err = wt.Select(5, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, pos)

	for i, want := range seq {
		got, err := wt.Access(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "access(%d)", i)
	}
}

func TestWaveletTreeErrors(t *testing.T) {
	wt, err := NewWaveletTree([]int{0, 1, 2}, 3)
	require.NoError(t, err)

	_, err = wt.Rank(3, 1)
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = wt.Rank(0, 4)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = wt.Select(1, 2)
	assert.ErrorIs(t, err, ErrSelectOutOfRange)

	_, err = wt.Select(5, 1)
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = wt.Access(3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewWaveletTree([]int{0, 7}, 4)
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = NewWaveletTree(nil, 0)
	assert.Error(t, err)
}

func TestWaveletTreeSingleSymbolAlphabet(t *testing.T) {
	wt, err := NewWaveletTree([]int{0, 0, 0, 0}, 1)
	require.NoError(t, err)

	r, err := wt.Rank(0, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, r)

	pos, err := wt.Select(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	sym, err := wt.Access(1)
	require.NoError(t, err)
	assert.Equal(t, 0, sym)
}

func TestWaveletTreeAgainstLinearScan(t *testing.T) {
	const (
		n     = 1000
		sigma = 17
	)
	rng := rand.New(rand.NewSource(7))
	seq := make([]int, n)
	for i := range seq {
		seq[i] = rng.Intn(sigma)
	}

	wt, err := NewWaveletTree(seq, sigma)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// Rank against a running count.
	counts := make([]int, sigma)
	for p := 0; p <= n; p++ {
		for s := 0; s < sigma; s++ {
			r, err := wt.Rank(s, p)
			if err != nil {
				t.Fatalf("rank(%d, %d): %v", s, p, err)
			}
			if r != counts[s] {
				t.Fatalf("rank(%d, %d) = %d, want %d", s, p, r, counts[s])
			}
		}
		if p < n {
			counts[seq[p]]++
		}
	}

	// access(select(s, k)) == s, and select is the k-th occurrence.
	for s := 0; s < sigma; s++ {
		seen := 0
		for i, sym := range seq {
			if sym != s {
				continue
			}
			seen++
			pos, err := wt.Select(s, seen)
			if err != nil {
				t.Fatalf("select(%d, %d): %v", s, seen, err)
			}
			if pos != i {
				t.Fatalf("select(%d, %d) = %d, want %d", s, seen, pos, i)
			}
			got, err := wt.Access(pos)
			if err != nil || got != s {
				t.Fatalf("access(%d) = %d (%v), want %d", pos, got, err, s)
			}
		}
		if _, err := wt.Select(s, seen+1); !errors.Is(err, ErrSelectOutOfRange) {
			t.Fatalf("select past last occurrence of %d: got %v", s, err)
		}
	}
}
