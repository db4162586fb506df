package succinct

import (
	"errors"
	"math/rand"
	"testing"
)

func TestBitVectorSetGet(t *testing.T) {
	bv := NewBitVector(100)

	if err := bv.Set(3, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := bv.Set(99, true); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := bv.Get(3)
	if err != nil || !got {
		t.Fatalf("expected bit 3 set, got %v (%v)", got, err)
	}
	got, err = bv.Get(4)
	if err != nil || got {
		t.Fatalf("expected bit 4 unset, got %v (%v)", got, err)
	}

	if err := bv.Set(100, true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := bv.Get(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestBitVectorRankDelta(t *testing.T) {
	// rank1(i+1) - rank1(i) == 1 iff bit i is set.
	rng := rand.New(rand.NewSource(1))
	bv := NewBitVector(2000)
	for i := 0; i < 2000; i++ {
		if rng.Intn(3) == 0 {
			bv.Set(i, true)
		}
	}

	for i := 0; i < 2000; i++ {
		hi, err := bv.Rank1(i + 1)
		if err != nil {
			t.Fatalf("rank1(%d): %v", i+1, err)
		}
		lo, err := bv.Rank1(i)
		if err != nil {
			t.Fatalf("rank1(%d): %v", i, err)
		}
		set, _ := bv.Get(i)
		want := 0
		if set {
			want = 1
		}
		if hi-lo != want {
			t.Fatalf("rank delta at %d: got %d, want %d", i, hi-lo, want)
		}
	}

	total, err := bv.Rank1(bv.Len())
	if err != nil {
		t.Fatalf("rank1(N): %v", err)
	}
	if total != bv.Count() {
		t.Fatalf("rank1(N) = %d, want total ones %d", total, bv.Count())
	}
}

func TestBitVectorSelect(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	bv := NewBitVector(1500)
	for i := 0; i < 1500; i++ {
		if rng.Intn(4) == 0 {
			bv.Set(i, true)
		}
	}

	for k := 1; k <= bv.Count(); k++ {
		pos, err := bv.Select1(k)
		if err != nil {
			t.Fatalf("select1(%d): %v", k, err)
		}
		set, _ := bv.Get(pos)
		if !set {
			t.Fatalf("select1(%d) = %d, bit not set", k, pos)
		}
		r, _ := bv.Rank1(pos + 1)
		if r != k {
			t.Fatalf("rank1(select1(%d)+1) = %d, want %d", k, r, k)
		}
	}

	if _, err := bv.Select1(0); !errors.Is(err, ErrSelectOutOfRange) {
		t.Fatalf("expected ErrSelectOutOfRange for k=0, got %v", err)
	}
	if _, err := bv.Select1(bv.Count() + 1); !errors.Is(err, ErrSelectOutOfRange) {
		t.Fatalf("expected ErrSelectOutOfRange for k>ones, got %v", err)
	}
}

func TestBitVectorRank0Select0(t *testing.T) {
	bv := NewBitVector(130)
	for i := 0; i < 130; i += 2 {
		bv.Set(i, true)
	}

	r0, err := bv.Rank0(130)
	if err != nil {
		t.Fatalf("rank0: %v", err)
	}
	if r0 != 65 {
		t.Fatalf("rank0(130) = %d, want 65", r0)
	}

	for k := 1; k <= 65; k++ {
		pos, err := bv.Select0(k)
		if err != nil {
			t.Fatalf("select0(%d): %v", k, err)
		}
		// Zeros live at odd positions.
		if pos != 2*k-1 {
			t.Fatalf("select0(%d) = %d, want %d", k, pos, 2*k-1)
		}
	}
}

func TestBitVectorLazyReindex(t *testing.T) {
	bv := NewBitVector(1024)
	bv.Set(10, true)

	r, err := bv.Rank1(1024)
	if err != nil || r != 1 {
		t.Fatalf("rank1 = %d (%v), want 1", r, err)
	}

	// Mutate after the summary was built; the next query must see the change.
	bv.Set(700, true)
	bv.Set(10, false)

	r, err = bv.Rank1(1024)
	if err != nil || r != 1 {
		t.Fatalf("rank1 after mutation = %d (%v), want 1", r, err)
	}
	pos, err := bv.Select1(1)
	if err != nil || pos != 700 {
		t.Fatalf("select1(1) after mutation = %d (%v), want 700", pos, err)
	}
}

func TestBitVectorRankAgainstLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 3000
	bv := NewBitVector(n)
	ref := make([]bool, n)
	for i := 0; i < n; i++ {
		if rng.Intn(2) == 0 {
			bv.Set(i, true)
			ref[i] = true
		}
	}

	count := 0
	for p := 0; p <= n; p++ {
		r, err := bv.Rank1(p)
		if err != nil {
			t.Fatalf("rank1(%d): %v", p, err)
		}
		if r != count {
			t.Fatalf("rank1(%d) = %d, want %d", p, r, count)
		}
		if p < n && ref[p] {
			count++
		}
	}
}
