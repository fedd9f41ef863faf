package libtex

import (
	"fmt"

	"texc/libdds"
)

// TextureClass selects the channel packing and default formats of one input.
type TextureClass int

const (
	ClassAlbedoRoughness TextureClass = iota
	ClassNormalMetalnessAO
	ClassParallax
	ClassCubeMap
)

func (c TextureClass) String() string {
	switch c {
	case ClassAlbedoRoughness:
		return "albedo-roughness"
	case ClassNormalMetalnessAO:
		return "normal-metalness-ao"
	case ClassParallax:
		return "parallax"
	case ClassCubeMap:
		return "cube-map"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Profile is the requested quality tier.
type Profile int

const (
	// ProfileQuality trades compression time for maximum fidelity.
	ProfileQuality Profile = iota
	// ProfileFast favors iteration speed during development.
	ProfileFast
	// ProfileLossless stores uncompressed pixels.
	ProfileLossless
)

func (p Profile) String() string {
	switch p {
	case ProfileQuality:
		return "quality"
	case ProfileFast:
		return "fast"
	case ProfileLossless:
		return "lossless"
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// Format is a concrete pixel or block layout.
type Format int

const (
	FormatBC7 Format = iota
	FormatBC3
	FormatBC4
	FormatBC6H
	FormatRawRGBA8
	FormatRawR8
	FormatRawRGBA16F
)

func (f Format) String() string {
	return libdds.FormatName(f.DXGI())
}

// DXGI returns the container format id.
func (f Format) DXGI() uint32 {
	switch f {
	case FormatBC7:
		return libdds.DXGIFormatBC7Unorm
	case FormatBC3:
		return libdds.DXGIFormatBC3Unorm
	case FormatBC4:
		return libdds.DXGIFormatBC4Unorm
	case FormatBC6H:
		return libdds.DXGIFormatBC6HUF16
	case FormatRawRGBA8:
		return libdds.DXGIFormatRGBA8Unorm
	case FormatRawR8:
		return libdds.DXGIFormatR8Unorm
	case FormatRawRGBA16F:
		return libdds.DXGIFormatRGBA16Float
	}
	return 0
}

// CubeOutput distinguishes the three cube map containers, which follow
// different format policies.
type CubeOutput int

const (
	CubeBase CubeOutput = iota
	CubeIrradiance
	CubePrefilter
)

// SelectFormat resolves the format policy for the 2D texture classes.
func SelectFormat(class TextureClass, tier Profile) Format {
	switch class {
	case ClassAlbedoRoughness, ClassNormalMetalnessAO:
		switch tier {
		case ProfileQuality:
			return FormatBC7
		case ProfileFast:
			return FormatBC3
		default:
			return FormatRawRGBA8
		}
	case ClassParallax:
		// BC4 is fast and good enough at both tiers
		if tier == ProfileLossless {
			return FormatRawR8
		}
		return FormatBC4
	}
	return FormatRawRGBA8
}

// SelectCubeFormat resolves the format policy for the cube map containers.
func SelectCubeFormat(out CubeOutput, tier Profile) Format {
	switch out {
	case CubeBase:
		switch tier {
		case ProfileQuality:
			return FormatBC6H
		case ProfileFast:
			// BC6H is too slow on big HDR captures
			return FormatBC3
		default:
			return FormatRawRGBA16F
		}
	case CubeIrradiance:
		// too small to benefit from block compression
		return FormatRawRGBA16F
	case CubePrefilter:
		// BC6H is fast enough at prefilter resolutions, even at both tiers
		if tier == ProfileLossless {
			return FormatRawRGBA16F
		}
		return FormatBC6H
	}
	return FormatRawRGBA16F
}
