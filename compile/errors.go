// Package compile orchestrates the texture compilation pipeline: decode,
// validate, channel packing, GPU rendering for cube assets, and the mip
// chain compression into output containers. The first error anywhere
// aborts the invocation and removes any partially written output files.
package compile

import "errors"

// Error kinds, matchable with errors.Is. All are terminal for the
// current invocation; nothing is retried.
var (
	ErrDecode      = errors.New("decode error")
	ErrValidation  = errors.New("validation error")
	ErrGpuResource = errors.New("gpu resource error")
	ErrReadback    = errors.New("readback error")
	ErrCodec       = errors.New("codec error")
)
