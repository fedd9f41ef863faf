package libbc

// EncodeBC3 compresses an RGBA image into BC3_UNORM blocks, 16 bytes per
// block: an alpha block followed by a DXT1 style color block.
func EncodeBC3(r, g, b, a []float32, w, h int) []byte {
	bw, bh := blocksAcross(w), blocksAcross(h)
	out := make([]byte, bw*bh*16)

	var rb, gb, bb, ab [16]float32
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			extractBlock(r, w, h, bx, by, &rb)
			extractBlock(g, w, h, bx, by, &gb)
			extractBlock(b, w, h, bx, by, &bb)
			extractBlock(a, w, h, bx, by, &ab)

			dst := out[(by*bw+bx)*16:]
			encodeBC4Block(&ab, dst)
			encodeColorBlock(&rb, &gb, &bb, dst[8:])
		}
	}
	return out
}

// encodeColorBlock writes one 8 byte 565 color block with 2-bit indices.
// Endpoints are the block's extremes along the luminance axis; BC3 color
// blocks always decode in 4-color mode so endpoint order carries no meaning.
func encodeColorBlock(r, g, b *[16]float32, dst []byte) {
	loI, hiI := 0, 0
	var loL, hiL float32 = 1e30, -1e30
	for i := 0; i < 16; i++ {
		l := 0.299*r[i] + 0.587*g[i] + 0.114*b[i]
		if l < loL {
			loL, loI = l, i
		}
		if l > hiL {
			hiL, hiI = l, i
		}
	}

	c0 := pack565(r[hiI], g[hiI], b[hiI])
	c1 := pack565(r[loI], g[loI], b[loI])

	dst[0] = byte(c0)
	dst[1] = byte(c0 >> 8)
	dst[2] = byte(c1)
	dst[3] = byte(c1 >> 8)

	var palette [4][3]int
	palette[0] = unpack565(c0)
	palette[1] = unpack565(c1)
	for c := 0; c < 3; c++ {
		palette[2][c] = (2*palette[0][c] + palette[1][c]) / 3
		palette[3][c] = (palette[0][c] + 2*palette[1][c]) / 3
	}

	var bits uint32
	for i := 0; i < 16; i++ {
		pr, pg, pb := clampUnitByte(r[i]), clampUnitByte(g[i]), clampUnitByte(b[i])
		best, bestD := 0, 1<<30
		for pi, pv := range palette {
			dr, dg, db := pr-pv[0], pg-pv[1], pb-pv[2]
			d := dr*dr + dg*dg + db*db
			if d < bestD {
				best, bestD = pi, d
			}
		}
		bits |= uint32(best) << uint(2*i)
	}

	dst[4] = byte(bits)
	dst[5] = byte(bits >> 8)
	dst[6] = byte(bits >> 16)
	dst[7] = byte(bits >> 24)
}

func pack565(r, g, b float32) uint16 {
	ri := clampUnitByte(r) >> 3
	gi := clampUnitByte(g) >> 2
	bi := clampUnitByte(b) >> 3
	return uint16(ri<<11 | gi<<5 | bi)
}

func unpack565(c uint16) [3]int {
	r := int(c >> 11 & 0x1f)
	g := int(c >> 5 & 0x3f)
	b := int(c & 0x1f)
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}
