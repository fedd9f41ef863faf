package compile

import (
	"errors"
	"fmt"
	"os"

	"texc/ibl"
	"texc/libbc"
	"texc/libgpu"
	"texc/libimg"
	"texc/libtex"
	"texc/libutil"
)

type CubeOptions struct {
	Profile libtex.Profile

	// Face resolutions of the three output cube maps.
	Size           int
	IrradianceSize int
	PrefilterSize  int

	OutPath        string
	IrradiancePath string
	PrefilterPath  string

	// EnvPath dumps the captured environment in the engine native iblenv
	// format next to the containers. Empty disables the dump.
	EnvPath string
	// EnvCompress is the lz4 level for the iblenv dump, negative stores
	// the pixels uncompressed.
	EnvCompress int

	Progress func(stage string, done, total int)
}

// CompileCubeMap runs the GPU path: capture the panorama onto a cube
// map, compress its full chain, then convolve and compress the
// irradiance and prefiltered specular cube maps. The first error aborts
// everything and no partially written output file is left behind.
func CompileCubeMap(dev libgpu.Device, inPath string, opts CubeOptions) (err error) {
	inFile, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: cannot open %q: %v", ErrDecode, inPath, err)
	}
	defer inFile.Close()

	conf := libimg.Configuration{FlipVertically: true}
	hdr, err := conf.LoadHdr(inFile)
	if err != nil {
		return fmt.Errorf("%w: cannot decode %q: %v", ErrDecode, inPath, err)
	}

	if err := libtex.ValidateSize(hdr.Rect.Dx(), hdr.Rect.Dy()); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrValidation, inPath, err)
	}
	for _, size := range []int{opts.Size, opts.IrradianceSize, opts.PrefilterSize} {
		if err := libtex.ValidateSize(size, size); err != nil {
			return fmt.Errorf("%w: cube size %d: %v", ErrValidation, size, err)
		}
	}

	pipeline, err := ibl.NewPipeline(dev)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGpuResource, err)
	}
	defer pipeline.Release()

	va := &libgpu.ViewAlloc{}
	capture, err := pipeline.Capture(va, hdr, opts.Size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGpuResource, err)
	}
	defer capture.Release()

	written := []string{}
	defer func() {
		if err != nil {
			removeOutputs(written)
		}
	}()

	// environment cube map, every mip independently rendered
	written = append(written, opts.OutPath)
	sink, err := newCubeSink(opts.OutPath, opts.Size, capture.Mips, libtex.SelectCubeFormat(libtex.CubeBase, opts.Profile))
	if err != nil {
		return err
	}
	sink.progress = opts.progressFunc(opts.OutPath)

	var envPixels []float32
	if opts.EnvPath != "" {
		envPixels = make([]float32, 6*opts.Size*opts.Size*3)
	}

	for face := 0; face < 6; face++ {
		for mip := 0; mip < capture.Mips; mip++ {
			data, err := capture.ReadFace(va, face, mip)
			if err != nil {
				sink.abort()
				return fmt.Errorf("%w: face %d mip %d: %v", ErrReadback, face, mip, err)
			}
			if envPixels != nil && mip == 0 {
				copyRgb(envPixels[face*opts.Size*opts.Size*3:], libutil.AsUint16s(data))
			}
			if err := sink.write(face, mip, libtex.MipSize(opts.Size, mip), data); err != nil {
				return err
			}
		}
	}
	if err := sink.finish(); err != nil {
		return err
	}

	if opts.EnvPath != "" {
		written = append(written, opts.EnvPath)
		if err := writeIblEnv(opts.EnvPath, ibl.NewIblEnv(envPixels, opts.Size), opts.EnvCompress); err != nil {
			return err
		}
	}

	// diffuse irradiance, a single mip per face
	written = append(written, opts.IrradiancePath)
	sink, err = newCubeSink(opts.IrradiancePath, opts.IrradianceSize, 1, libtex.SelectCubeFormat(libtex.CubeIrradiance, opts.Profile))
	if err != nil {
		return err
	}
	sink.progress = opts.progressFunc(opts.IrradiancePath)

	err = pipeline.Irradiance(va, capture, opts.IrradianceSize, func(face int, data []byte) error {
		return sink.write(face, 0, opts.IrradianceSize, data)
	})
	if err != nil {
		sink.abort()
		return wrapConvolve(err)
	}
	if err := sink.finish(); err != nil {
		return err
	}

	// prefiltered specular, roughness increasing with the mip level
	written = append(written, opts.PrefilterPath)
	sink, err = newCubeSink(opts.PrefilterPath, opts.PrefilterSize, libtex.CountMips(opts.PrefilterSize), libtex.SelectCubeFormat(libtex.CubePrefilter, opts.Profile))
	if err != nil {
		return err
	}
	sink.progress = opts.progressFunc(opts.PrefilterPath)

	err = pipeline.Prefilter(va, capture, opts.PrefilterSize, func(face, mip, mipSize int, data []byte) error {
		return sink.write(face, mip, mipSize, data)
	})
	if err != nil {
		sink.abort()
		return wrapConvolve(err)
	}
	return sink.finish()
}

func (o *CubeOptions) progressFunc(stage string) func(done, total int) {
	if o.Progress == nil {
		return nil
	}
	return func(done, total int) {
		o.Progress(stage, done, total)
	}
}

func wrapConvolve(err error) error {
	var ce *codecError
	if errors.As(err, &ce) {
		return ce.err
	}
	return fmt.Errorf("%w: %v", ErrReadback, err)
}

// cubeSink couples one output file with its mip compressor and latches
// codec failures delivered through the injected handler.
type cubeSink struct {
	path     string
	file     *os.File
	mc       *libtex.MipCompressor
	codecErr error
	progress func(done, total int)
}

func newCubeSink(path string, size, mips int, format libtex.Format) (*cubeSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create %q: %v", ErrCodec, path, err)
	}

	s := &cubeSink{path: path, file: file}
	s.mc, err = libtex.NewMipCompressorCube(file, func(err error) { s.codecErr = err }, size, mips, format)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %q: %v", ErrCodec, path, err)
	}
	return s, nil
}

func (s *cubeSink) write(face, mip, mipSize int, data []byte) error {
	surface := libtex.NewSurfaceFromHalves(mipSize, mipSize, libutil.AsUint16s(data))
	s.mc.Progress = s.progress
	if err := s.mc.WriteSurface(face, mip, surface); err != nil {
		s.abort()
		return &codecError{fmt.Errorf("%w: %q: %v", ErrCodec, s.path, err)}
	}
	if s.codecErr != nil {
		err := s.codecErr
		s.abort()
		return &codecError{fmt.Errorf("%w: %q: %v", ErrCodec, s.path, err)}
	}
	return nil
}

func (s *cubeSink) finish() error {
	defer s.file.Close()
	if err := s.mc.Complete(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCodec, s.path, err)
	}
	if s.codecErr != nil {
		return fmt.Errorf("%w: %q: %v", ErrCodec, s.path, s.codecErr)
	}
	return nil
}

func (s *cubeSink) abort() {
	s.file.Close()
}

// codecError marks sink failures surfacing through the convolution
// callbacks so they are not rewrapped as readback errors.
type codecError struct {
	err error
}

func (e *codecError) Error() string { return e.err.Error() }
func (e *codecError) Unwrap() error { return e.err }

func copyRgb(dst []float32, halves []uint16) {
	pixels := len(halves) / 4
	for i := 0; i < pixels; i++ {
		dst[i*3+0] = libbc.HalfToFloat32(halves[i*4+0])
		dst[i*3+1] = libbc.HalfToFloat32(halves[i*4+1])
		dst[i*3+2] = libbc.HalfToFloat32(halves[i*4+2])
	}
}

func writeIblEnv(path string, env *ibl.IblEnv, level int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: cannot create %q: %v", ErrCodec, path, err)
	}
	defer file.Close()

	if err := ibl.EncodeIblEnv(file, env, ibl.OptCompress(level)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCodec, path, err)
	}
	return nil
}
