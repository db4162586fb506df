package index

import (
	"regexp"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/btree"

	"github.com/hupe1980/lattice/record"
	"github.com/hupe1980/lattice/succinct"
)

// orderEntry is one distinct value in a field's sorted order structure,
// carrying the positions holding that value.
type orderEntry struct {
	value     record.Value
	positions *roaring.Bitmap
}

// FieldIndex holds the auxiliary structures for a single schema field.
type FieldIndex struct {
	field string
	kind  record.Kind

	// Exact-match buckets: stable value key → positions.
	postings map[string]*roaring.Bitmap

	// Sorted table of distinct values; nil for non-orderable kinds.
	order *btree.BTreeG[*orderEntry]

	// Per-position symbol sequence over distinct-value ids, feeding the
	// wavelet encoding.
	symbols  []int
	valueIDs map[string]int
	distinct []record.Value

	// Lazily (re)built from symbols; nil while stale.
	wavelet *succinct.WaveletTree
}

// NewFieldIndex creates an empty index for one field of the given kind.
func NewFieldIndex(field string, kind record.Kind) *FieldIndex {
	fi := &FieldIndex{
		field:    field,
		kind:     kind,
		postings: make(map[string]*roaring.Bitmap),
		valueIDs: make(map[string]int),
	}
	if kind.Orderable() {
		fi.order = btree.NewG(32, func(a, b *orderEntry) bool {
			return record.Compare(a.value, b.value) < 0
		})
	}
	return fi
}

// Add appends the value at the given record position. Positions must arrive
// strictly increasing; the caller (CollectionIndex) enforces this.
func (fi *FieldIndex) Add(pos uint32, v record.Value) {
	key := v.Key()

	ids, ok := fi.postings[key]
	if !ok {
		ids = roaring.New()
		fi.postings[key] = ids
	}
	ids.Add(pos)

	if fi.order != nil {
		probe := &orderEntry{value: v}
		entry, ok := fi.order.Get(probe)
		if !ok {
			entry = &orderEntry{value: v, positions: roaring.New()}
			fi.order.ReplaceOrInsert(entry)
		}
		entry.positions.Add(pos)
	}

	id, ok := fi.valueIDs[key]
	if !ok {
		id = len(fi.distinct)
		fi.valueIDs[key] = id
		fi.distinct = append(fi.distinct, v)
	}
	fi.symbols = append(fi.symbols, id)
	fi.wavelet = nil
}

// Build constructs the wavelet encoding of the field's value sequence. It is
// also built lazily on the first structural query after a mutation.
func (fi *FieldIndex) Build() error {
	if len(fi.symbols) == 0 {
		fi.wavelet = nil
		return nil
	}
	wt, err := succinct.NewWaveletTree(fi.symbols, len(fi.distinct))
	if err != nil {
		return err
	}
	fi.wavelet = wt
	return nil
}

func (fi *FieldIndex) ensureWavelet() (*succinct.WaveletTree, error) {
	if fi.wavelet == nil {
		if err := fi.Build(); err != nil {
			return nil, err
		}
	}
	if fi.wavelet == nil {
		return nil, succinct.ErrOutOfRange
	}
	return fi.wavelet, nil
}

// ValueAt returns the field value stored at a record position, answered from
// the wavelet encoding without touching the record payloads.
func (fi *FieldIndex) ValueAt(pos int) (record.Value, error) {
	wt, err := fi.ensureWavelet()
	if err != nil {
		return record.Value{}, err
	}
	sym, err := wt.Access(pos)
	if err != nil {
		return record.Value{}, err
	}
	return fi.distinct[sym], nil
}

// Occurrences counts how many of the first upTo records hold the value.
func (fi *FieldIndex) Occurrences(v record.Value, upTo int) (int, error) {
	wt, err := fi.ensureWavelet()
	if err != nil {
		return 0, err
	}
	id, ok := fi.valueIDs[v.Key()]
	if !ok {
		if upTo < 0 || upTo > wt.Len() {
			return 0, succinct.ErrOutOfRange
		}
		return 0, nil
	}
	return wt.Rank(id, upTo)
}

// Position returns the record position of the k-th occurrence of the value
// (1-indexed).
func (fi *FieldIndex) Position(v record.Value, k int) (int, error) {
	wt, err := fi.ensureWavelet()
	if err != nil {
		return 0, err
	}
	id, ok := fi.valueIDs[v.Key()]
	if !ok {
		return 0, succinct.ErrSymbolNotFound
	}
	return wt.Select(id, k)
}

// lookup returns the exact-match positions for a value. The returned bitmap
// is owned by the index; callers must clone before mutating.
func (fi *FieldIndex) lookup(v record.Value) *roaring.Bitmap {
	if ids, ok := fi.postings[v.Key()]; ok {
		return ids
	}
	return roaring.New()
}

// lookupRange returns positions with lo ≤ value ≤ hi via boundary search in
// the order structure. Non-orderable fields match nothing.
func (fi *FieldIndex) lookupRange(lo, hi record.Value) *roaring.Bitmap {
	out := roaring.New()
	if fi.order == nil {
		return out
	}
	fi.order.AscendGreaterOrEqual(&orderEntry{value: lo}, func(e *orderEntry) bool {
		if record.Compare(e.value, hi) > 0 {
			return false
		}
		out.Or(e.positions)
		return true
	})
	return out
}

// lookupPrefix returns positions whose string value starts with prefix,
// found as a contiguous bound in the sorted order structure.
func (fi *FieldIndex) lookupPrefix(prefix string) *roaring.Bitmap {
	out := roaring.New()
	if fi.order == nil || fi.kind != record.KindString {
		return out
	}
	fi.order.AscendGreaterOrEqual(&orderEntry{value: record.String(prefix)}, func(e *orderEntry) bool {
		s, ok := e.value.AsString()
		if !ok || !strings.HasPrefix(s, prefix) {
			return false
		}
		out.Or(e.positions)
		return true
	})
	return out
}

// lookupRegex returns positions whose string value contains a match of re.
// This is a linear scan over distinct values; there is no succinct
// acceleration for regular expressions.
func (fi *FieldIndex) lookupRegex(re *regexp.Regexp) *roaring.Bitmap {
	out := roaring.New()
	for id, v := range fi.distinct {
		s, ok := v.AsString()
		if !ok || !re.MatchString(s) {
			continue
		}
		if ids, ok := fi.postings[fi.distinct[id].Key()]; ok {
			out.Or(ids)
		}
	}
	return out
}

// lookupIn returns the union of exact-match sets for each value.
func (fi *FieldIndex) lookupIn(vs []record.Value) *roaring.Bitmap {
	out := roaring.New()
	for _, v := range vs {
		out.Or(fi.lookup(v))
	}
	return out
}

// lookupNot returns the complement of the exact-match set within the
// universe.
func (fi *FieldIndex) lookupNot(v record.Value, universe *roaring.Bitmap) *roaring.Bitmap {
	out := universe.Clone()
	out.AndNot(fi.lookup(v))
	return out
}
