package main

import (
	"flag"
	"fmt"
	"time"

	"texc/compile"
	"texc/libtex"
)

func createAlbedoCommand() *command {
	args := commonArgs{
		profile: profileArg(libtex.ProfileQuality),
	}

	flags := flag.NewFlagSet("albedo", flag.ExitOnError)
	registerCommonFlags(flags, &args)

	return &command{
		Name: "albedo",
		Help: "compile an rgb albedo + alpha roughness image",
		Run: func(self *command) {
			if args.in == "" {
				printCommandUsage(self)
			}
			if args.out == "" {
				args.out = outName(args.in, ".dds")
			}

			run(args, func() error {
				return compile.CompileAlbedoRoughness(args.in, args.out, options(args))
			}, args.out)
		},
		Flags: flags,
	}
}

func createNormalCommand() *command {
	args := commonArgs{
		profile: profileArg(libtex.ProfileQuality),
	}
	var outMao string

	flags := flag.NewFlagSet("normal", flag.ExitOnError)
	registerCommonFlags(flags, &args)
	flags.StringVar(&outMao, "out-mao", outMao, "the metalness/ambient occlusion output container file")

	return &command{
		Name: "normal",
		Help: "compile a packed normal/metalness/ambient occlusion image",
		Run: func(self *command) {
			if args.in == "" {
				printCommandUsage(self)
			}
			if args.out == "" {
				args.out = outName(args.in, "_n.dds")
			}
			if outMao == "" {
				outMao = outName(args.in, "_mao.dds")
			}

			run(args, func() error {
				return compile.CompileNormalMetalnessAO(args.in, args.out, outMao, options(args))
			}, args.out, outMao)
		},
		Flags: flags,
	}
}

func createParallaxCommand() *command {
	args := commonArgs{
		profile: profileArg(libtex.ProfileQuality),
	}

	flags := flag.NewFlagSet("parallax", flag.ExitOnError)
	registerCommonFlags(flags, &args)

	return &command{
		Name: "parallax",
		Help: "compile a single channel height map",
		Run: func(self *command) {
			if args.in == "" {
				printCommandUsage(self)
			}
			if args.out == "" {
				args.out = outName(args.in, ".dds")
			}

			run(args, func() error {
				return compile.CompileParallax(args.in, args.out, options(args))
			}, args.out)
		},
		Flags: flags,
	}
}

func options(args commonArgs) compile.Options {
	return compile.Options{
		Profile: libtex.Profile(args.profile),
	}
}

func run(args commonArgs, fn func() error, outputs ...string) {
	if !args.quiet {
		fmt.Printf("Compiling %q with the %s profile ...\n", args.in, libtex.Profile(args.profile))
	}
	start := time.Now()
	harderr(fn())
	if !args.quiet {
		took := float32(time.Since(start).Milliseconds()) / 1000
		for _, out := range outputs {
			fmt.Printf("Wrote %q\n", out)
		}
		fmt.Printf("Finished in %.3f seconds\n", took)
	}
}
