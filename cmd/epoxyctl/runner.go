package main

// runner.go holds the step loop shared by the boot and trace subcommands.
//
// epoxy-riscv's Non-goals (spec.md §1) put instruction-level emulation of user code out of
// scope: there is no RISC-V ISA interpreter here, only the kernel's trap-handling mechanism. So
// this driver cannot execute a user program's ecalls for it. What it can honestly demonstrate is
// the timer-preemption path end to end: arm the one-shot timer from the image's firmware
// configuration, advance a TickClock until it's due, deliver a synthetic timer interrupt, and
// repeat until the scheduler reports no thread left runnable (spec.md §7) or a step bound is hit.
//
// Grounded in the teacher's main_test.go end-to-end harness, which bounds a run with
// context.WithTimeout rather than letting a broken loop hang forever.

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/blitz/epoxy-riscv/internal/arch"
	"github.com/blitz/epoxy-riscv/internal/kernel"
	"github.com/blitz/epoxy-riscv/internal/log"
)

const defaultMaxSteps = 10_000

// validationHart builds a throwaway hart for the "image" subcommand, which only needs Image.Build
// to succeed; it never runs a trap loop against it.
func validationHart() *arch.Hart {
	clock := &arch.TickClock{}
	return arch.NewHart(arch.NewSBIFirmware(arch.NewFuncConsole(func(byte) {}), clock), clock)
}

// run builds and boots an image, then drives the timer-preemption loop until the firmware is
// asked to shut down, the kernel reports no runnable thread, a fatal fault occurs, or maxSteps
// clock steps (one tick each) have run.
func run(ctx context.Context, path string, logger *log.Logger, maxSteps int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("epoxyctl: read image: %w", err)
	}

	img, err := kernel.ParseImage(data)
	if err != nil {
		return fmt.Errorf("epoxyctl: %w", err)
	}

	clock := &arch.TickClock{}
	console := arch.NewFuncConsole(func(b byte) { os.Stdout.Write([]byte{b}) })
	fw := arch.NewSBIFirmware(console, clock)
	hart := arch.NewHart(fw, clock)

	k, err := kernel.Boot(hart, img, logger)
	if err != nil {
		return fmt.Errorf("epoxyctl: %w", err)
	}

	for step := 0; step < maxSteps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if fw.Halted() {
			logger.Log(nil, log.Info, "shutdown requested")
			return nil
		}

		clock.Advance(1)

		if !fw.Due() {
			continue
		}

		err := k.HandleTrap(arch.CauseIRQ|arch.IntTimer, 0, 0)
		if errors.Is(err, kernel.ErrNoRunnableThread) {
			logger.Log(nil, log.Info, "no runnable thread left, halting")
			return nil
		}

		if err != nil {
			return fmt.Errorf("epoxyctl: fatal trap: %w", err)
		}
	}

	return fmt.Errorf("epoxyctl: exceeded %d steps without halting", maxSteps)
}
