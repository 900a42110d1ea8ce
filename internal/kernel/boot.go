package kernel

// boot.go implements the kernel start sequence of spec.md §6: architectural init, build the
// world from an Image, schedule thread 0, and hand off.
//
// Grounded in original_source's kernel.cpp's `kmain`, which runs these same steps in this order
// before ever executing user code, and the teacher's internal/vm.New/Run split between
// constructing a machine and running it.

import (
	"errors"
	"fmt"

	"github.com/blitz/epoxy-riscv/internal/arch"
	"github.com/blitz/epoxy-riscv/internal/log"
)

// Kernel bundles the pieces boot assembles: the world, the dispatcher that runs on every trap,
// and a logger.
type Kernel struct {
	State      *GlobalState
	Dispatcher *Dispatcher
	Logger     *log.Logger
}

// Boot performs spec.md §6's start sequence over an already-constructed Image: architectural
// init on the hart, materializing the image into a GlobalState, and activating thread 0 so the
// first trap return resumes it.
func Boot(hart *arch.Hart, img *Image, logger *log.Logger) (*Kernel, error) {
	hart.ArchInit()

	st, err := img.Build(hart)
	if err != nil {
		return nil, fmt.Errorf("kernel: boot: %w", err)
	}

	if len(st.Threads) == 0 {
		return nil, fmt.Errorf("kernel: boot: image declares no threads")
	}

	sched := NewScheduler(len(st.Threads))
	dispatcher := NewDispatcher(st, sched, logger)

	if _, err := sched.Schedule(st); err != nil {
		return nil, fmt.Errorf("kernel: boot: %w", err)
	}

	logger.Log(nil, log.Info, "boot complete",
		log.Int("THREADS", len(st.Threads)),
		log.Int("PROCESSES", len(st.Processes)),
		log.Int("VIRQS", len(st.Virqs)))

	return &Kernel{State: st, Dispatcher: dispatcher, Logger: logger}, nil
}

// HandleTrap runs one trap through the dispatcher and activates whichever thread it selects,
// mirroring the run loop's "dispatch, then resume" shape from spec.md §4 and §7 ("on a fatal
// fault, print the three registers and spin forever").
//
// An idle result (spec.md §4.3 step 3) is not a fault: ErrIdle means some thread is merely
// Blocked and the kernel should keep ticking, while ErrNoRunnableThread means every thread has
// Exited and the run is over; neither is logged as a fatal fault.
func (k *Kernel) HandleTrap(scause, sepc, stval arch.Word) error {
	_, err := k.Dispatcher.HandleTrap(scause, sepc, stval)

	switch {
	case errors.Is(err, ErrIdle):
		k.Logger.Log(nil, log.Info, "idle: no runnable thread, waiting for interrupt")
		return nil

	case errors.Is(err, ErrNoRunnableThread):
		return err

	case err != nil:
		cause := "unknown"

		var fault *FaultError
		if errors.As(err, &fault) {
			cause = fault.Cause.Error()
		}

		k.Logger.Log(nil, log.Error, "fatal fault", log.Cause(cause), log.String("ERROR", err.Error()))

		return err
	}

	return nil
}
