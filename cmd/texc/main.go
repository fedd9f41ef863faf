package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"texc/libtex"

	"golang.org/x/exp/slices"
)

type profileArg libtex.Profile

func (p *profileArg) String() string {
	return libtex.Profile(*p).String()
}

func (p *profileArg) Set(s string) error {
	switch strings.ToLower(s) {
	case "quality":
		*p = profileArg(libtex.ProfileQuality)
	case "fast":
		*p = profileArg(libtex.ProfileFast)
	case "lossless":
		*p = profileArg(libtex.ProfileLossless)
	default:
		return fmt.Errorf("%s is not a valid profile", s)
	}
	return nil
}

type commonArgs struct {
	in      string
	out     string
	profile profileArg
	quiet   bool
}

type command struct {
	Run   func(self *command)
	Name  string
	Help  string
	Flags *flag.FlagSet
}

var commands = []*command{}

func printGeneralUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [arguments]\n\n", exe)
	fmt.Fprintf(os.Stderr, "The commands are:\n\n")
	longest := slices.MaxFunc(commands, func(a, b *command) int {
		return len(a.Name) - len(b.Name)
	})
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "    %*s%s\n", -len(longest.Name)-4, c.Name, c.Help)
	}
	fmt.Fprintln(os.Stderr, "")
	os.Exit(1)
}

func printCommandUsage(cmd *command) {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s %s [arguments]\n\n", exe, cmd.Name)
	fmt.Fprintf(os.Stderr, "The arguments are:\n\n")
	cmd.Flags.SetOutput(os.Stderr)
	cmd.Flags.PrintDefaults()
	os.Exit(1)
}

func main() {
	commands = append(commands, createAlbedoCommand())
	commands = append(commands, createNormalCommand())
	commands = append(commands, createParallaxCommand())
	commands = append(commands, createCubemapCommand())

	slices.SortFunc(commands, func(a, b *command) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(os.Args) < 2 {
		printGeneralUsage()
	}

	var cmd *command
	for _, c := range commands {
		if strings.EqualFold(c.Name, os.Args[1]) {
			cmd = c
			break
		}
	}
	if cmd == nil {
		printGeneralUsage()
	}

	err := cmd.Flags.Parse(os.Args[2:])
	harderr(err)

	cmd.Run(cmd)
}

func registerCommonFlags(flags *flag.FlagSet, args *commonArgs) {
	flags.StringVar(&args.in, "in", args.in, "the input image file")
	flags.StringVar(&args.in, "i", args.in, "shorthand for in")
	flags.StringVar(&args.out, "out", args.out, "the output container file")
	flags.StringVar(&args.out, "o", args.out, "shorthand for out")
	flags.Var(&args.profile, "profile", "the compression profile; quality, fast or lossless")
	flags.Var(&args.profile, "p", "shorthand for profile")
	flags.BoolVar(&args.quiet, "quiet", args.quiet, "disables informational logging")
	flags.BoolVar(&args.quiet, "q", args.quiet, "shorthand for quiet")
}

// outName derives a default output path from the input file.
func outName(in, suffix string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + suffix
}

func harderr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
