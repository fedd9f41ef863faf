package ibl

var (
	EncodeRgbeChunk = encodeRgbeChunk
	DecodeRgbeChunk = decodeRgbeChunk
)
