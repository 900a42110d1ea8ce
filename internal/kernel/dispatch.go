package kernel

// dispatch.go implements the trap dispatcher: the function the (out-of-scope) assembly entry
// stub calls on every trap, following spec.md §4's decision tree over SCAUSE.
//
// Grounded in original_source's kernel.cpp's `handle_trap`, which branches on the interrupt bit
// and then on cause, and in the teacher's internal/vm run loop (Fetch/Decode/Execute staged as
// plain sequential method calls rather than a table of function pointers) for the overall shape
// of "one function, one switch, one case per documented path."

import (
	"log/slog"

	"github.com/blitz/epoxy-riscv/internal/arch"
	"github.com/blitz/epoxy-riscv/internal/log"
)

// Dispatcher runs the trap handling decision tree against a GlobalState and reports what the
// run loop should do next.
type Dispatcher struct {
	State     *GlobalState
	Scheduler *Scheduler
	Logger    *log.Logger
}

// NewDispatcher creates a dispatcher over the given kernel state and scheduler.
func NewDispatcher(st *GlobalState, sched *Scheduler, logger *log.Logger) *Dispatcher {
	return &Dispatcher{State: st, Scheduler: sched, Logger: logger}
}

// HandleTrap is called once per trap with the current values of SCAUSE, SEPC, and STVAL latched
// by the entry stub. On success it has already activated the thread it returns.
//
// spec.md §4.1's decision tree:
//  1. interrupt + timer cause -> preempt: reschedule.
//  2. exception + ecall-from-user -> syscall dispatch (spec.md §4.2).
//  3. exception from supervisor mode -> fatal kernel fault.
//  4. any other exception from user -> fatal (ErrUnhandledUserFault; see DESIGN NOTES).
func (d *Dispatcher) HandleTrap(scause, sepc, stval arch.Word) (ThreadID, error) {
	switch {
	case scause&arch.CauseIRQ != 0:
		cause := scause &^ arch.CauseIRQ
		if cause == arch.IntTimer {
			d.State.Hart.ClearCSRBits(arch.SIE, arch.SieSTIE) // ack: spec.md §4.1 timer path
			return d.reschedule()
		}

		return 0, &FaultError{Cause: ErrKernelFault, SCAUSE: uint64(scause), SEPC: uint64(sepc), STVAL: uint64(stval)}

	case scause == arch.ExcEcallUser:
		return d.syscall()

	case !d.State.Hart.InUserMode():
		return 0, &FaultError{Cause: ErrKernelFault, SCAUSE: uint64(scause), SEPC: uint64(sepc), STVAL: uint64(stval)}

	default:
		return 0, &FaultError{Cause: ErrUnhandledUserFault, SCAUSE: uint64(scause), SEPC: uint64(sepc), STVAL: uint64(stval)}
	}
}

// syscall implements spec.md §4.2: read a0..a4 from the trapped thread's frame, advance its
// saved PC past the ecall, look up the capability, invoke it (or leave NOCAP in a0), and decide
// whether to resume the caller or reschedule.
func (d *Dispatcher) syscall() (ThreadID, error) {
	caller := d.State.Current
	frame := &d.State.Thread(caller).Frame
	frame.AdvancePastEcall()

	idx := CapabilityIndex(int64(frame.A0()))
	proc := d.State.Process(caller)

	obj, err := proc.Lookup(idx)
	if err != nil {
		frame.SetA0(uint64(ResultNoCap))
		ActivateThread(d.State, caller)

		return caller, nil
	}

	result := obj.Invoke(d.State, caller, ArgsFromFrame(frame))
	frame.SetA0(uint64(result.Code))

	d.Logger.Log(nil, slog.LevelDebug, "syscall",
		log.ThreadID(int(caller)), log.ProcessID(int(proc.ID)), log.String("OBJECT", obj.Kind()))

	if result.Resched {
		return d.reschedule()
	}

	ActivateThread(d.State, caller)

	return caller, nil
}

// reschedule asks the scheduler for the next runnable thread, in round-robin order, arms the
// timer, and activates it (spec.md §4.3).
func (d *Dispatcher) reschedule() (ThreadID, error) {
	return d.Scheduler.Schedule(d.State)
}
