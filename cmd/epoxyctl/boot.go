package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/blitz/epoxy-riscv/internal/log"
)

// bootCommand implements subcommands.Command for "boot", grounded in Mu-L-gvisor's runsc
// subcommand shape (Name/Synopsis/Usage/SetFlags/Execute).
type bootCommand struct {
	format   logFormat
	maxSteps int
}

func (*bootCommand) Name() string     { return "boot" }
func (*bootCommand) Synopsis() string { return "boot a kernel image and run it to completion" }
func (*bootCommand) Usage() string {
	return "boot [flags] <image.yaml>\n"
}

func (c *bootCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar((*string)(&c.format), "log-format", "text", "log sink: text or logrus")
	f.IntVar(&c.maxSteps, "max-steps", defaultMaxSteps, "maximum clock steps (one tick each) to run before giving up")
}

func (c *bootCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	logger := log.New(logWriter, c.format.asFormat())

	if err := run(ctx, f.Arg(0), logger, c.maxSteps); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
