package libbc

// EncodeBC4 compresses a single channel plane into BC4_UNORM blocks,
// 8 bytes per block.
func EncodeBC4(plane []float32, w, h int) []byte {
	bw, bh := blocksAcross(w), blocksAcross(h)
	out := make([]byte, bw*bh*8)

	var block [16]float32
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			extractBlock(plane, w, h, bx, by, &block)
			encodeBC4Block(&block, out[(by*bw+bx)*8:])
		}
	}
	return out
}

// encodeBC4Block writes one 8 byte alpha/gray block: two endpoint bytes
// followed by 16 3-bit palette indices.
func encodeBC4Block(block *[16]float32, dst []byte) {
	lo, hi := 255, 0
	var vals [16]int
	for i, v := range block {
		b := clampUnitByte(v)
		vals[i] = b
		if b < lo {
			lo = b
		}
		if b > hi {
			hi = b
		}
	}

	dst[0] = byte(hi)
	dst[1] = byte(lo)

	if hi == lo {
		// constant block, indices stay zero
		for i := 2; i < 8; i++ {
			dst[i] = 0
		}
		return
	}

	// a0 > a1 selects the 8 interpolant mode
	var palette [8]int
	palette[0] = hi
	palette[1] = lo
	for i := 1; i <= 6; i++ {
		palette[i+1] = ((7-i)*hi + i*lo) / 7
	}

	var bits uint64
	for i, v := range vals {
		best, bestD := 0, 1<<30
		for pi, pv := range palette {
			d := (v - pv) * (v - pv)
			if d < bestD {
				best, bestD = pi, d
			}
		}
		bits |= uint64(best) << uint(3*i)
	}

	for i := 0; i < 6; i++ {
		dst[2+i] = byte(bits >> uint(8*i))
	}
}
