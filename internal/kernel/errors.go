package kernel

// errors.go collects the kernel's sentinel errors, following the wrapped-sentinel style of
// internal/vm/mem.go (ErrMemory, ErrAccessControl) and internal/vm/intr.go (the interruptable
// error hierarchy).

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCapability is returned from Process.Lookup (never directly to user code — it
	// becomes ResultNoCap on the wire) when a capability index is out of range.
	ErrNoCapability = errors.New("capability: index out of range")

	// ErrUnhandledUserFault marks the "any other exception from user" path of spec.md §4.1.
	// This version treats it as fatal; the TODO'd future behavior (thread termination) has
	// this single seam to change, per DESIGN NOTES "Handling of non-ecall user exceptions."
	ErrUnhandledUserFault = errors.New("kernel: unhandled user exception")

	// ErrKernelFault marks an exception taken while already in supervisor mode — always a
	// kernel bug per spec.md §4.1/§7.
	ErrKernelFault = errors.New("kernel: exception from supervisor mode")

	// ErrAssertion is raised by invariant checks that are not recoverable, e.g. enqueueing a
	// non-Runnable thread onto a vIRQ's wait list (spec.md §4.7).
	ErrAssertion = errors.New("kernel: assertion failed")
)

// FaultError carries the three registers the kernel prints on a fatal exception (spec.md §7:
// "the kernel prints the cause/epc/tval registers and spins forever").
type FaultError struct {
	Cause error // One of ErrUnhandledUserFault, ErrKernelFault.
	SCAUSE, SEPC, STVAL uint64
}

func (f *FaultError) Error() string {
	return fmt.Sprintf("%s: scause=%#x sepc=%#x stval=%#x", f.Cause, f.SCAUSE, f.SEPC, f.STVAL)
}

func (f *FaultError) Unwrap() error { return f.Cause }

func (f *FaultError) Is(target error) bool {
	return errors.Is(f.Cause, target)
}
