package libtex

import "fmt"

// MaxDim is the largest accepted texture dimension.
const MaxDim = 65535

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// ValidateSize rejects dimensions the container and the mip chain math cannot
// represent. Runs before any codec or GPU work.
func ValidateSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("image size %dx%d is empty", w, h)
	}
	if w > MaxDim || h > MaxDim {
		return fmt.Errorf("image size %dx%d exceeds %d", w, h, MaxDim)
	}
	if !IsPowerOfTwo(w) || !IsPowerOfTwo(h) {
		return fmt.Errorf("image size %dx%d is not a power of two", w, h)
	}
	return nil
}
