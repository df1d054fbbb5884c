// Package partition divides the rows of a sparse matrix into contiguous
// chunks, one per execution unit. A Distribution always covers [0, N)
// exactly: chunks are non-overlapping, in ascending row order, and never
// empty.
package partition

import (
	"errors"
	"sort"
)

// Balance selects the balancing policy used when cutting rows into chunks.
type Balance uint8

const (
	// BalanceRows gives every chunk (nearly) the same number of rows.
	BalanceRows Balance = iota

	// BalanceNonzeros targets an equal per-chunk nonzero count, so chunks
	// doing the matrix-vector product get comparable work even when the
	// nonzero distribution is skewed. Requires per-row weights.
	BalanceNonzeros
)

var (
	// ErrBadChunkCount is returned when the requested chunk count is not in
	// [1, N]; every chunk must own at least one row.
	ErrBadChunkCount = errors.New("partition: chunk count not in [1, rows]")

	// ErrMissingWeights is returned when BalanceNonzeros is requested
	// without per-row weights.
	ErrMissingWeights = errors.New("partition: nonzero balancing requires per-row weights")

	// ErrWeightLength is returned when the weight slice does not have one
	// entry per row.
	ErrWeightLength = errors.New("partition: weight length does not match row count")
)

// Distribution describes a partition of row indices [0, N) into
// NumChunks contiguous ranges. Chunk c owns rows
// [Offsets[c], Offsets[c]+Lengths[c]).
type Distribution struct {
	NumChunks int
	Offsets   []int
	Lengths   []int
}

// New builds a Distribution of n rows into the given number of chunks.
// With BalanceNonzeros, weights must hold one non-negative cost per row
// (typically the row's nonzero count); with BalanceRows, weights is ignored
// and may be nil.
func New(n, chunks int, balance Balance, weights []int) (*Distribution, error) {
	if chunks < 1 || chunks > n {
		return nil, ErrBadChunkCount
	}
	switch balance {
	case BalanceNonzeros:
		if weights == nil {
			return nil, ErrMissingWeights
		}
		if len(weights) != n {
			return nil, ErrWeightLength
		}
		return byWeight(weights, chunks), nil
	default:
		return byRows(n, chunks), nil
	}
}

// byRows cuts n rows into chunks of size n/chunks, distributing the
// remainder one row at a time to the leading chunks.
func byRows(n, chunks int) *Distribution {
	d := &Distribution{
		NumChunks: chunks,
		Offsets:   make([]int, chunks),
		Lengths:   make([]int, chunks),
	}

	base := n / chunks
	rem := n % chunks
	row := 0
	for c := 0; c < chunks; c++ {
		length := base
		if c < rem {
			length++
		}
		d.Offsets[c] = row
		d.Lengths[c] = length
		row += length
	}

	return d
}

// byWeight greedily accumulates rows until a chunk reaches its share of the
// remaining total weight. The target is recomputed per chunk so that early
// over- or undershoot does not starve the trailing chunks, and every chunk
// is guaranteed at least one row.
func byWeight(weights []int, chunks int) *Distribution {
	n := len(weights)
	d := &Distribution{
		NumChunks: chunks,
		Offsets:   make([]int, chunks),
		Lengths:   make([]int, chunks),
	}

	remaining := 0
	for _, w := range weights {
		remaining += w
	}

	row := 0
	for c := 0; c < chunks; c++ {
		left := chunks - c
		target := (remaining + left - 1) / left

		start := row
		acc := 0
		// Stop before eating rows that later chunks need.
		for row < n-(left-1) {
			acc += weights[row]
			row++
			if acc >= target {
				break
			}
		}
		if row == start {
			acc = weights[row]
			row++
		}

		d.Offsets[c] = start
		d.Lengths[c] = row - start
		remaining -= acc
	}

	// The greedy loop may leave a tail of rows; the last chunk owns them.
	d.Lengths[chunks-1] = n - d.Offsets[chunks-1]

	return d
}

// N reports the total number of rows covered by the distribution.
func (d *Distribution) N() int {
	last := d.NumChunks - 1
	return d.Offsets[last] + d.Lengths[last]
}

// FindChunk maps a row in [0, N) to the chunk owning it.
func (d *Distribution) FindChunk(row int) int {
	// First chunk whose offset lies beyond row, minus one.
	c := sort.Search(d.NumChunks, func(i int) bool {
		return d.Offsets[i] > row
	})
	return c - 1
}
