package ibl

import (
	"encoding/binary"
	"fmt"
	"io"

	"texc/libio"

	"github.com/pierrec/lz4/v4"
)

type EncodeContext struct {
	Compression IblEnvCompression
	Writer      io.Writer
}

type EncodeOption func(ctx *EncodeContext) error

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// OptCompress wraps the pixel stream in an lz4 writer. Level 0 selects
// the fast mode, 1-9 map to the corresponding compression levels and a
// negative level disables compression.
func OptCompress(level int) EncodeOption {
	if level < 0 {
		return nil
	}
	if level >= len(lz4Levels) {
		level = len(lz4Levels) - 1
	}

	return func(ctx *EncodeContext) error {
		if ctx.Compression != IblEnvCompressionNone {
			return fmt.Errorf("compression already configured")
		}
		lzw := lz4.NewWriter(ctx.Writer)
		if err := lzw.Apply(lz4.CompressionLevelOption(lz4Levels[level])); err != nil {
			return err
		}
		if level == 0 {
			ctx.Compression = IblEnvCompressionLZ4Fast
		} else {
			ctx.Compression = IblEnvCompressionLZ4
		}
		ctx.Writer = lzw
		return nil
	}
}

// EncodeIblEnv writes the environment container: a fixed header on the
// raw stream, then the RGBE packed faces through whatever the options
// wrapped around it.
func EncodeIblEnv(w io.Writer, env *IblEnv, options ...EncodeOption) error {
	ctx := EncodeContext{Writer: w}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(&ctx); err != nil {
			return err
		}
	}

	bw := &libio.BinaryWriter{Dst: w, Order: binary.LittleEndian}
	header := IblEnvHeader{
		Check:       MagicNumberIBLENV,
		Version:     IblEnvVersion1_001_000,
		Compression: ctx.Compression,
		Size:        uint32(env.Size),
	}
	if !bw.WriteRef(&header) {
		return fmt.Errorf("could not write environment header: %w", bw.Err)
	}

	if err := EncodeRgbe(ctx.Writer, env.Concat(), false); err != nil {
		return fmt.Errorf("could not write environment pixels: %w", err)
	}

	if closer, ok := ctx.Writer.(io.WriteCloser); ok {
		return closer.Close()
	}
	return nil
}

// DecodeIblEnv reads a container written by EncodeIblEnv. The header
// names the face size, so the pixel payload is read at its exact length.
func DecodeIblEnv(r io.Reader) (*IblEnv, error) {
	br := &libio.BinaryReader{Src: r, Order: binary.LittleEndian}

	header := IblEnvHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("could not read environment header: %w", br.Err)
	}
	if header.Check != MagicNumberIBLENV {
		return nil, fmt.Errorf("environment header is corrupt")
	}
	if header.Version != IblEnvVersion1_001_000 {
		return nil, fmt.Errorf("environment version %d unsupported", header.Version)
	}

	pixr := io.Reader(br.Src)
	switch header.Compression {
	case IblEnvCompressionNone:
	case IblEnvCompressionLZ4, IblEnvCompressionLZ4Fast:
		pixr = lz4.NewReader(br.Src)
	default:
		return nil, fmt.Errorf("environment compression id %d unsupported", header.Compression)
	}

	pixels := 6 * int(header.Size) * int(header.Size)
	packed := make([]byte, pixels*4)
	if _, err := io.ReadFull(pixr, packed); err != nil {
		return nil, fmt.Errorf("expected %d encoded pixels: %w", pixels, err)
	}

	colors := make([]float32, pixels*3)
	decodeRgbeChunk(3, packed, colors)
	return NewIblEnv(colors, int(header.Size)), nil
}
