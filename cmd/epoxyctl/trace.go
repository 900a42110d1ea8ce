package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/blitz/epoxy-riscv/internal/log"
)

// traceCommand is "boot" with debug logging forced on, so an operator can watch every object
// invocation without editing the image.
type traceCommand struct {
	format   logFormat
	maxSteps int
}

func (*traceCommand) Name() string     { return "trace" }
func (*traceCommand) Synopsis() string { return "boot a kernel image with debug logging enabled" }
func (*traceCommand) Usage() string {
	return "trace [flags] <image.yaml>\n"
}

func (c *traceCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar((*string)(&c.format), "log-format", "text", "log sink: text or logrus")
	f.IntVar(&c.maxSteps, "max-steps", defaultMaxSteps, "maximum clock steps (one tick each) to run before giving up")
}

func (c *traceCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	log.LogLevel.Set(log.Debug)
	logger := log.New(logWriter, c.format.asFormat())

	if err := run(ctx, f.Arg(0), logger, c.maxSteps); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
