package matrix

import "github.com/cwbudde/algo-cg/internal/partition"

// SplitCRS builds one independent CRS instance per chunk of d, each covering
// exactly the chunk's row range, directly from the COO source. Row indices
// are chunk-local; column indices stay global.
func SplitCRS(coo *COO, d *partition.Distribution) []*CRS {
	chunks := make([]*CRS, d.NumChunks)

	// Per-row write cursors into the owning chunk's Index/Value arrays.
	cursor := make([]int, coo.N)

	for c := range chunks {
		offset := d.Offsets[c]
		length := d.Lengths[c]

		m := &CRS{N: length, Ptr: make([]int, length+1)}
		for r := 1; r <= length; r++ {
			cursor[offset+r-1] = m.Ptr[r-1]
			m.Ptr[r] = m.Ptr[r-1] + coo.NzPerRow[offset+r-1]
		}
		m.Nz = m.Ptr[length]
		m.Index = make([]int, m.Nz)
		m.Value = make([]float64, m.Nz)
		chunks[c] = m
	}

	for k := 0; k < coo.Nz; k++ {
		row := coo.I[k]
		m := chunks[d.FindChunk(row)]
		m.Index[cursor[row]] = coo.J[k]
		m.Value[cursor[row]] = coo.V[k]
		cursor[row]++
	}

	return chunks
}

// SplitELL builds one independent ELLPACK instance per chunk of d. Each
// chunk's padding width is the maximum per-row nonzero count restricted to
// its own rows, and its column-major stride is the chunk length.
func SplitELL(coo *COO, d *partition.Distribution) []*ELL {
	chunks := make([]*ELL, d.NumChunks)

	for c := range chunks {
		offset := d.Offsets[c]
		length := d.Lengths[c]

		nz := 0
		for r := offset; r < offset+length; r++ {
			nz += coo.NzPerRow[r]
		}

		m := newELL(length, nz, coo.MaxNz(offset, offset+length))
		copy(m.Length, coo.NzPerRow[offset:offset+length])
		chunks[c] = m
	}

	cursor := make([]int, coo.N)
	for k := 0; k < coo.Nz; k++ {
		row := coo.I[k]
		c := d.FindChunk(row)
		m := chunks[c]

		slot := cursor[row]*m.N + row - d.Offsets[c]
		m.Index[slot] = coo.J[k]
		m.Data[slot] = coo.V[k]
		cursor[row]++
	}

	return chunks
}
