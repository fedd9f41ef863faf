package libbc

// EncodeBC7 compresses an RGBA image into BC7_UNORM blocks, 16 bytes per
// block. Every block uses mode 6: a single subset with 7.7.7.7 endpoints,
// per-endpoint p-bits and 4-bit indices. Mode 6 keeps full RGBA precision
// and avoids the partition search of the multi-subset modes.
func EncodeBC7(r, g, b, a []float32, w, h int) []byte {
	bw, bh := blocksAcross(w), blocksAcross(h)
	out := make([]byte, bw*bh*16)

	var rb, gb, bb, ab [16]float32
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			extractBlock(r, w, h, bx, by, &rb)
			extractBlock(g, w, h, bx, by, &gb)
			extractBlock(b, w, h, bx, by, &bb)
			extractBlock(a, w, h, bx, by, &ab)
			encodeBC7Mode6Block(&rb, &gb, &bb, &ab, out[(by*bw+bx)*16:(by*bw+bx)*16+16])
		}
	}
	return out
}

func encodeBC7Mode6Block(r, g, b, a *[16]float32, dst []byte) {
	var texels [16][4]int
	planes := [4]*[16]float32{r, g, b, a}
	for i := 0; i < 16; i++ {
		for c := 0; c < 4; c++ {
			texels[i][c] = clampUnitByte(planes[c][i])
		}
	}

	// endpoints span the farthest texel pair. A per channel bounding box
	// would pull anti-correlated channels (normal map X against Y) off the
	// palette line and collapse the block toward its midpoint.
	e0, e1 := 0, 0
	maxDist := -1
	for i := 0; i < 16; i++ {
		for j := i + 1; j < 16; j++ {
			d := 0
			for c := 0; c < 4; c++ {
				dv := texels[i][c] - texels[j][c]
				d += dv * dv
			}
			if d > maxDist {
				maxDist, e0, e1 = d, i, j
			}
		}
	}

	// mode 6 endpoints reconstruct as q<<1|p; the p-bit is shared across
	// channels per endpoint, so pick it from the red LSB and quantize the
	// rest against it
	ep := [2][4]int{texels[e0], texels[e1]}
	var q [2][4]int
	var pbit [2]int
	for e := 0; e < 2; e++ {
		pbit[e] = ep[e][0] & 1
		for c := 0; c < 4; c++ {
			qq := (ep[e][c] - pbit[e]) >> 1
			if qq < 0 {
				qq = 0
			}
			if qq > 127 {
				qq = 127
			}
			q[e][c] = qq
		}
	}

	// decoded 8-bit endpoints
	var dec [2][4]int
	for e := 0; e < 2; e++ {
		for c := 0; c < 4; c++ {
			dec[e][c] = q[e][c]<<1 | pbit[e]
		}
	}

	var idx [16]int
	for i := 0; i < 16; i++ {
		best, bestD := 0, 1<<30
		for wi, wgt := range weights4 {
			d := 0
			for c := 0; c < 4; c++ {
				pv := int((uint32(dec[0][c])*(64-wgt) + uint32(dec[1][c])*wgt + 32) >> 6)
				dv := texels[i][c] - pv
				d += dv * dv
			}
			if d < bestD {
				best, bestD = wi, d
			}
		}
		idx[i] = best
	}

	// the anchor index omits its MSB, which must therefore be zero
	if idx[0] >= 8 {
		q[0], q[1] = q[1], q[0]
		pbit[0], pbit[1] = pbit[1], pbit[0]
		for i := range idx {
			idx[i] = 15 - idx[i]
		}
	}

	var bits blockBits
	bits.put(1<<6, 7) // mode 6
	for c := 0; c < 4; c++ {
		bits.put(uint32(q[0][c]), 7)
		bits.put(uint32(q[1][c]), 7)
	}
	bits.put(uint32(pbit[0]), 1)
	bits.put(uint32(pbit[1]), 1)
	bits.put(uint32(idx[0]), 3)
	for i := 1; i < 16; i++ {
		bits.put(uint32(idx[i]), 4)
	}

	copy(dst, bits.data[:])
}
