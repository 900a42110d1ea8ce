package kernel

// types.go defines the wire-level syscall result vocabulary and the invocation return value.
//
// Grounded in original_source's api.hpp (result_code_t: ok = 0, nocap = 1) and DESIGN NOTES
// "Exit path without return": since Go cannot express a function that hands control to
// previously-saved user registers and never returns to its caller, invocation is modeled as a
// small sum type the trap dispatcher inspects instead.

import "fmt"

// ResultCode is the value a syscall leaves in a0 on return to user mode (spec.md §4.2/§6).
type ResultCode uint64

const (
	// ResultOK means the kernel object handled the invocation.
	ResultOK ResultCode = 0

	// ResultNoCap means a0 named no capability: out of range, negative, or an empty slot.
	ResultNoCap ResultCode = 1
)

func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultNoCap:
		return "NOCAP"
	default:
		return fmt.Sprintf("ResultCode(%d)", uint64(r))
	}
}

// Args bundles a syscall's four payload registers (spec.md §4.2: a1..a4), read from the trapped
// thread's frame before a kernel object's Invoke runs.
type Args struct {
	A1, A2, A3, A4 uint64
}

// ArgsFromFrame copies a trap frame's payload registers into an Args value.
func ArgsFromFrame(f *TrapFrame) Args {
	return Args{A1: f.A1(), A2: f.A2(), A3: f.A3(), A4: f.A4()}
}

// InvokeResult is what a kernel object's Invoke leaves behind: the result code for a0, and
// whether the scheduler should run a different thread next instead of resuming the caller.
// This is the seam DESIGN NOTES calls for in place of a non-returning Exit: the dispatcher reads
// Resched and, when true, defers to the scheduler rather than resuming the trapped thread.
type InvokeResult struct {
	Code    ResultCode
	Resched bool
}

// OK builds a successful, non-rescheduling result — the common case for Log and VirqTrigger.
func OK() InvokeResult { return InvokeResult{Code: ResultOK} }

// NoCap builds the NOCAP result (spec.md §4.2 step 3).
func NoCap() InvokeResult { return InvokeResult{Code: ResultNoCap} }

// Reschedule builds a successful result that also asks the dispatcher to run the scheduler
// before resuming anyone, used by Exit (the caller is no longer runnable) and by VirqWait when
// the calling thread blocks (spec.md §4.6, §4.7).
func Reschedule() InvokeResult { return InvokeResult{Code: ResultOK, Resched: true} }
