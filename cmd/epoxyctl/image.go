package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/blitz/epoxy-riscv/internal/kernel"
)

// imageCommand validates a YAML image manifest without booting it: parse, then materialize it
// against a throwaway hart just to catch dangling capability/virq references early.
type imageCommand struct{}

func (*imageCommand) Name() string     { return "image" }
func (*imageCommand) Synopsis() string { return "validate a kernel image manifest" }
func (*imageCommand) Usage() string {
	return "image <image.yaml>\n"
}

func (*imageCommand) SetFlags(*flag.FlagSet) {}

func (*imageCommand) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	img, err := kernel.ParseImage(data)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	if _, err := img.Build(validationHart()); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("ok: %d processes, %d virqs\n", len(img.Processes), len(img.Virqs))

	return subcommands.ExitSuccess
}
