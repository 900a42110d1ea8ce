// epoxyctl drives the emulated Epoxy kernel from the command line: it builds a kernel.Image from
// a YAML manifest, boots it onto an emulated hart, and steps the trap loop until the kernel
// halts, shuts down, or a step bound is reached.
//
// Grounded in Mu-L-gvisor's runsc, whose main.go registers each subcommands.Command and defers
// to subcommands.Execute; this tool has a much smaller command set (boot, trace, image) since
// there is no container runtime underneath it, only a single-hart kernel.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/blitz/epoxy-riscv/internal/log"
)

// logWriter is where every subcommand's logger writes; a CLI tool has no other sink to pick
// from, unlike a long-running service that might fan logs out to multiple destinations.
var logWriter = os.Stderr

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&bootCommand{}, "")
	subcommands.Register(&traceCommand{}, "")
	subcommands.Register(&imageCommand{}, "")

	flag.Parse()

	os.Exit(int(subcommands.Execute(context.Background())))
}

// logFormat is shared by the boot and trace subcommands' --log-format flag.
type logFormat string

func (f *logFormat) asFormat() log.Format {
	if *f == "logrus" {
		return log.FormatLogrus
	}

	return log.FormatText
}
