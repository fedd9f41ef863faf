package main

import (
	"flag"
	"fmt"
	"runtime"

	"texc/compile"
	"texc/libgpu"
	"texc/libtex"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type cubemapArgs struct {
	commonArgs
	size           int
	irradiance     string
	irradianceSize int
	prefilter      string
	prefilterSize  int
	env            string
	envCompress    int
}

func createCubemapCommand() *command {
	args := cubemapArgs{
		commonArgs: commonArgs{
			profile: profileArg(libtex.ProfileQuality),
		},
		size:           1024,
		irradianceSize: 32,
		prefilterSize:  256,
		envCompress:    4,
	}

	flags := flag.NewFlagSet("cubemap", flag.ExitOnError)
	registerCommonFlags(flags, &args.commonArgs)
	flags.IntVar(&args.size, "size", args.size, "the environment cubemap face resolution")
	flags.IntVar(&args.size, "s", args.size, "shorthand for size")
	flags.StringVar(&args.irradiance, "irradiance", args.irradiance, "the irradiance output container file")
	flags.IntVar(&args.irradianceSize, "irradiance-size", args.irradianceSize, "the irradiance cubemap face resolution")
	flags.StringVar(&args.prefilter, "prefilter", args.prefilter, "the prefiltered specular output container file")
	flags.IntVar(&args.prefilterSize, "prefilter-size", args.prefilterSize, "the prefiltered specular cubemap face resolution")
	flags.StringVar(&args.env, "env", args.env, "also dump the captured environment as an iblenv file")
	flags.IntVar(&args.envCompress, "env-compress", args.envCompress, "the iblenv lz4 level from 0 (fast) to 9, negative stores raw")

	return &command{
		Name: "cubemap",
		Help: "compile an equirectangular hdr panorama into the ibl cubemap set",
		Run: func(self *command) {
			if args.in == "" {
				printCommandUsage(self)
			}
			if args.out == "" {
				args.out = outName(args.in, ".dds")
			}
			if args.irradiance == "" {
				args.irradiance = outName(args.in, "_irradiance.dds")
			}
			if args.prefilter == "" {
				args.prefilter = outName(args.in, "_prefilter.dds")
			}

			runCubemap(args)
		},
		Flags: flags,
	}
}

func runCubemap(args cubemapArgs) {
	runtime.LockOSThread()

	dev, release, err := newGlDevice()
	harderr(err)
	defer release()

	opts := compile.CubeOptions{
		Profile:        libtex.Profile(args.profile),
		Size:           args.size,
		IrradianceSize: args.irradianceSize,
		PrefilterSize:  args.prefilterSize,
		OutPath:        args.out,
		IrradiancePath: args.irradiance,
		PrefilterPath:  args.prefilter,
		EnvPath:        args.env,
		EnvCompress:    args.envCompress,
	}
	if !args.quiet {
		opts.Progress = func(stage string, done, total int) {
			if done == total {
				fmt.Printf("Wrote %q\n", stage)
			}
		}
		fmt.Printf("Compiling %q with the %s profile ...\n", args.in, libtex.Profile(args.profile))
	}

	harderr(compile.CompileCubeMap(dev, args.in, opts))
}

// newGlDevice boots a hidden window for an OpenGL 4.5 context and wraps
// it in the render device.
func newGlDevice() (libgpu.Device, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("cannot initialize glfw: %w", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	ctx, err := glfw.CreateWindow(1, 1, "texc", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("cannot create hidden context window: %w", err)
	}
	ctx.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("cannot initialize opengl: %w", err)
	}

	return libgpu.NewGlDevice(), func() {
		ctx.Destroy()
		glfw.Terminate()
	}, nil
}
