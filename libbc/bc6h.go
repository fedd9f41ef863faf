package libbc

// EncodeBC6H compresses an RGB image into BC6H_UF16 blocks, 16 bytes per
// block. Every block uses mode 11: a single region with 10-bit unsigned
// half-float endpoints and 4-bit indices. Negative input is clamped to zero,
// the unsigned variant cannot represent it.
func EncodeBC6H(r, g, b []float32, w, h int) []byte {
	bw, bh := blocksAcross(w), blocksAcross(h)
	out := make([]byte, bw*bh*16)

	var rb, gb, bb [16]float32
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			extractBlock(r, w, h, bx, by, &rb)
			extractBlock(g, w, h, bx, by, &gb)
			extractBlock(b, w, h, bx, by, &bb)
			encodeBC6HMode11Block(&rb, &gb, &bb, out[(by*bw+bx)*16:(by*bw+bx)*16+16])
		}
	}
	return out
}

func encodeBC6HMode11Block(r, g, b *[16]float32, dst []byte) {
	planes := [3]*[16]float32{r, g, b}

	var halves [16][3]uint16
	var lo, hi [3]uint16
	for c := 0; c < 3; c++ {
		lo[c] = 0x7bff
	}
	for i := 0; i < 16; i++ {
		for c := 0; c < 3; c++ {
			v := planes[c][i]
			if v < 0 {
				v = 0
			}
			hbits := Float32ToHalf(v)
			if hbits > 0x7bff {
				// clamp inf/nan to the largest finite half
				hbits = 0x7bff
			}
			halves[i][c] = hbits
			if hbits < lo[c] {
				lo[c] = hbits
			}
			if hbits > hi[c] {
				hi[c] = hbits
			}
		}
	}

	var qlo, qhi [3]uint32
	for c := 0; c < 3; c++ {
		qlo[c] = quantize10(lo[c])
		qhi[c] = quantize10(hi[c])
	}

	// palette in finished half-float space
	var palette [16][3]float32
	for wi, wgt := range weights4 {
		for c := 0; c < 3; c++ {
			ua := unquantize10(qlo[c])
			ub := unquantize10(qhi[c])
			interp := (ua*(64-wgt) + ub*wgt + 32) >> 6
			palette[wi][c] = HalfToFloat32(finish16(interp))
		}
	}

	var idx [16]int
	for i := 0; i < 16; i++ {
		best, bestD := 0, float32(1e38)
		for wi := range weights4 {
			var d float32
			for c := 0; c < 3; c++ {
				dv := HalfToFloat32(halves[i][c]) - palette[wi][c]
				d += dv * dv
			}
			if d < bestD {
				best, bestD = wi, d
			}
		}
		idx[i] = best
	}

	if idx[0] >= 8 {
		qlo, qhi = qhi, qlo
		for i := range idx {
			idx[i] = 15 - idx[i]
		}
	}

	var bits blockBits
	bits.put(0x03, 5) // mode 11
	bits.put(qlo[0], 10)
	bits.put(qlo[1], 10)
	bits.put(qlo[2], 10)
	bits.put(qhi[0], 10)
	bits.put(qhi[1], 10)
	bits.put(qhi[2], 10)
	bits.put(uint32(idx[0]), 3)
	for i := 1; i < 16; i++ {
		bits.put(uint32(idx[i]), 4)
	}

	copy(dst, bits.data[:])
}

// quantize10 maps unsigned half bits onto the 10-bit endpoint range. The
// decoder reconstructs an interior endpoint q as 31*q+15 half bit units
// (unquantize10 followed by the 31/64 finishing scale), so the inverse
// must cover that whole chain, not just the 10 bit expansion.
func quantize10(h uint16) uint32 {
	if h == 0 {
		return 0
	}
	q := (2*uint32(h) + 1) / 62
	if q > 1023 {
		q = 1023
	}
	return q
}

// unquantize10 is the decoder's expansion of a 10-bit unsigned endpoint.
func unquantize10(q uint32) uint32 {
	switch {
	case q == 0:
		return 0
	case q >= 1023:
		return 0xffff
	default:
		return (q<<16 + 0x8000) >> 10
	}
}

// finish16 applies the decoder's final scale, yielding half-float bits.
func finish16(v uint32) uint16 {
	return uint16(v * 31 / 64)
}
