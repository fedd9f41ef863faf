// Package libbc implements the block compression formats the texture compiler
// emits: BC3 and BC4 for LDR content, BC6H and BC7 for HDR and high quality
// output. All encoders work on 4x4 texel blocks and favor a fast single-mode
// encoding over exhaustive partition search.
package libbc

// BlockDim is the texel dimension of every supported block format.
const BlockDim = 4

// BlockSize returns the compressed size in bytes of one block.
func BlockSize(bytesPerBlock int, w, h int) int {
	return blocksAcross(w) * blocksAcross(h) * bytesPerBlock
}

func blocksAcross(n int) int {
	return (n + BlockDim - 1) / BlockDim
}

// extractBlock copies a 4x4 region starting at (bx*4, by*4) out of a single
// channel plane, replicating edge texels for partial blocks.
func extractBlock(plane []float32, w, h, bx, by int, dst *[16]float32) {
	for ty := 0; ty < BlockDim; ty++ {
		y := by*BlockDim + ty
		if y >= h {
			y = h - 1
		}
		for tx := 0; tx < BlockDim; tx++ {
			x := bx*BlockDim + tx
			if x >= w {
				x = w - 1
			}
			dst[ty*BlockDim+tx] = plane[y*w+x]
		}
	}
}

// blockBits packs values LSB first into a 128 bit block, the bit convention
// shared by all BC formats.
type blockBits struct {
	data [16]byte
	pos  int
}

func (b *blockBits) put(v uint32, n int) {
	for i := 0; i < n; i++ {
		if v>>uint(i)&1 != 0 {
			b.data[b.pos>>3] |= 1 << uint(b.pos&7)
		}
		b.pos++
	}
}

// interpolation weights for 2, 3 and 4 bit indices (shared across BC6H/BC7)
var (
	weights3 = [8]uint32{0, 9, 18, 27, 37, 46, 55, 64}
	weights4 = [16]uint32{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}
)

func clampUnitByte(v float32) int {
	i := int(v*255 + 0.5)
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return i
}
