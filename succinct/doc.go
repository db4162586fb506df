// Package succinct provides the bit-level structures behind lattice's field
// indexes: a BitVector with constant-time rank and logarithmic select, and a
// WaveletTree answering rank/select/access over arbitrary-alphabet sequences
// in O(log σ).
//
// The BitVector keeps a block-level rank summary that is invalidated by
// mutation and rebuilt lazily on the next query. Staleness is never
// observable as a wrong answer, only as extra latency on the first
// post-mutation query. A WaveletTree is immutable after construction; any
// change to the underlying sequence requires a full rebuild.
package succinct
