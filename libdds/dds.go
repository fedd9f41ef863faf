// Package libdds writes DDS containers with a DX10 extension header, the
// output format consumed by the engine's texture loader. Payload bytes are
// appended in face-major, mip-minor order; the loader relies on that exact
// layout.
package libdds

import (
	"fmt"
)

// DXGI_FORMAT values for the formats the compiler emits.
const (
	DXGIFormatRGBA16Float = 10
	DXGIFormatRGBA8Unorm  = 28
	DXGIFormatR8Unorm     = 61
	DXGIFormatBC3Unorm    = 77
	DXGIFormatBC4Unorm    = 80
	DXGIFormatBC6HUF16    = 95
	DXGIFormatBC7Unorm    = 98
)

// FormatName returns a human-readable name for a DXGI_FORMAT value.
func FormatName(format uint32) string {
	switch format {
	case DXGIFormatRGBA16Float:
		return "R16G16B16A16_FLOAT"
	case DXGIFormatRGBA8Unorm:
		return "R8G8B8A8_UNORM"
	case DXGIFormatR8Unorm:
		return "R8_UNORM"
	case DXGIFormatBC3Unorm:
		return "BC3_UNORM"
	case DXGIFormatBC4Unorm:
		return "BC4_UNORM"
	case DXGIFormatBC6HUF16:
		return "BC6H_UF16"
	case DXGIFormatBC7Unorm:
		return "BC7_UNORM"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", format)
	}
}

// Compressed reports whether the format is block compressed.
func Compressed(format uint32) bool {
	switch format {
	case DXGIFormatBC3Unorm, DXGIFormatBC4Unorm, DXGIFormatBC6HUF16, DXGIFormatBC7Unorm:
		return true
	}
	return false
}

// LevelSize returns the payload size in bytes of one mip level.
func LevelSize(format uint32, w, h int) int {
	if Compressed(format) {
		blockSize := 16
		if format == DXGIFormatBC4Unorm {
			blockSize = 8
		}
		return (w + 3) / 4 * ((h + 3) / 4) * blockSize
	}
	return w * h * bytesPerPixel(format)
}

func bytesPerPixel(format uint32) int {
	switch format {
	case DXGIFormatRGBA16Float:
		return 8
	case DXGIFormatRGBA8Unorm:
		return 4
	case DXGIFormatR8Unorm:
		return 1
	}
	return 0
}
