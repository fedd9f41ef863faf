package compile

import (
	"fmt"
	"os"

	"texc/libimg"
	"texc/libtex"
)

type Options struct {
	Profile libtex.Profile
	// Progress reports completed levels per container. Optional.
	Progress func(stage string, done, total int)
}

func (o *Options) progress(stage string) func(done, total int) {
	if o.Progress == nil {
		return nil
	}
	return func(done, total int) {
		o.Progress(stage, done, total)
	}
}

// CompileAlbedoRoughness compiles an RGB albedo + alpha roughness image
// into a single container.
func CompileAlbedoRoughness(inPath, outPath string, opts Options) error {
	return compileLdr(inPath, libtex.ClassAlbedoRoughness, []string{outPath}, opts)
}

// CompileNormalMetalnessAO compiles a packed normal/metalness/AO image
// into two containers: the reconstructed normal map and the metalness/AO
// map.
func CompileNormalMetalnessAO(inPath, outNormalPath, outMetalAOPath string, opts Options) error {
	return compileLdr(inPath, libtex.ClassNormalMetalnessAO, []string{outNormalPath, outMetalAOPath}, opts)
}

// CompileParallax compiles a single channel height map.
func CompileParallax(inPath, outPath string, opts Options) error {
	return compileLdr(inPath, libtex.ClassParallax, []string{outPath}, opts)
}

func compileLdr(inPath string, class libtex.TextureClass, outPaths []string, opts Options) error {
	inFile, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: cannot open %q: %v", ErrDecode, inPath, err)
	}
	defer inFile.Close()

	img, err := libimg.Load(inFile)
	if err != nil {
		return fmt.Errorf("%w: cannot decode %q: %v", ErrDecode, inPath, err)
	}

	if err := libtex.ValidateSize(img.Rect.Dx(), img.Rect.Dy()); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrValidation, inPath, err)
	}

	surfaces, err := libtex.BuildSurfaces(img, class)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCodec, inPath, err)
	}

	format := libtex.SelectFormat(class, opts.Profile)
	for i, s := range surfaces {
		if err := writeContainer2D(outPaths[i], s, format, opts); err != nil {
			removeOutputs(outPaths[:i+1])
			return err
		}
	}
	return nil
}

func writeContainer2D(path string, s *libtex.Surface, format libtex.Format, opts Options) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: cannot create %q: %v", ErrCodec, path, err)
	}
	defer outFile.Close()

	var codecErr error
	mc, err := libtex.NewMipCompressor2D(outFile, func(err error) { codecErr = err }, s.Width, s.Height, format)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCodec, path, err)
	}
	mc.Progress = opts.progress(path)

	if err := mc.Compress2D(s); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCodec, path, err)
	}
	if codecErr != nil {
		return fmt.Errorf("%w: %q: %v", ErrCodec, path, codecErr)
	}
	return nil
}

func removeOutputs(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}
