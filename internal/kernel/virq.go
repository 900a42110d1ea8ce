package kernel

// virq.go implements virtual interrupts: a triggered latch plus a bounded, FIFO-ordered wait
// list, optionally bound to a physical PLIC source.
//
// Grounded in original_source's virq.hpp/virq.cpp: a virq is either "triggered" (latched until
// consumed) or not, and threads block on it in arrival order; the assertion in virq.cpp that a
// thread being enqueued must already be Runnable is preserved as an ErrAssertion panic in
// VirqWaitObject.Invoke, the only caller that blocks a thread on a virq.

import (
	"fmt"

	"github.com/blitz/epoxy-riscv/internal/plic"
)

// VirqID indexes GlobalState.Virqs.
type VirqID int

// MaxWaiters bounds a virq's wait list. original_source sizes this per the number of threads in
// the image; here it is a fixed constant, independent of the image's thread count, and Enqueue
// panics once a wait list already holds MaxWaiters threads.
const MaxWaiters = 8

// Virq is a virtual interrupt: a sticky triggered bit and a FIFO queue of threads blocked on it.
type Virq struct {
	ID        VirqID
	Triggered bool

	// plicSource is the physical interrupt source this virq re-arms on consumption, or 0 if
	// unbound (spec.md §4.7).
	plicSource plic.Line
	bound      bool

	waiters []ThreadID
}

// NewVirq creates an untriggered, unbound virq with its wait list preallocated to MaxWaiters so
// Enqueue never triggers a reallocation (spec.md §4.7: "bounded by total thread count, no
// dynamic allocation").
func NewVirq(id VirqID) *Virq {
	return &Virq{ID: id, waiters: make([]ThreadID, 0, MaxWaiters)}
}

// BindPLIC associates this virq with a physical PLIC interrupt source, so Consume's re-arm step
// can unmask it (spec.md §4.7's "optionally bound to a physical interrupt source").
func (v *Virq) BindPLIC(source plic.Line) {
	v.plicSource = source
	v.bound = true
}

// Trigger sets the triggered flag and, if a thread is already waiting, wakes the longest-waiting
// one instead of leaving the flag set (spec.md §4.6/§4.7: "if the wait list is non-empty, dequeue
// the first waiter, mark it Runnable").
func (v *Virq) Trigger() (woken ThreadID, ok bool) {
	v.Triggered = true

	if len(v.waiters) == 0 {
		return 0, false
	}

	woken, v.waiters = v.waiters[0], v.waiters[1:]
	v.Triggered = false // the trigger has been delivered directly to a waiter; nothing is latched.

	return woken, true
}

// Consume reads and clears the triggered flag, per spec.md §4.7's consume(): "read-and-clear the
// flag; if it was set and a physical source is bound, unmask that source." ctrl may be nil when
// no PLIC is wired (e.g. in unit tests); the re-arm step is then skipped.
func (v *Virq) Consume(ctrl *plic.Controller) bool {
	if !v.Triggered {
		return false
	}

	v.Triggered = false

	if v.bound && ctrl != nil {
		ctrl.Unmask(v.plicSource)
	}

	return true
}

// Enqueue blocks tid on this virq's wait list, in arrival order. It panics via ErrAssertion if
// tid is already queued, mirroring virq.cpp's assertion that a thread cannot wait on the same
// virq twice concurrently; callers must mark the thread Blocked themselves before calling this,
// matching virq.cpp's "thread must be Runnable on entry" precondition on the caller's state just
// prior to the transition.
func (v *Virq) Enqueue(tid ThreadID) {
	if len(v.waiters) == MaxWaiters {
		panic(fmt.Errorf("%w: virq %d wait list exceeds %d threads", ErrAssertion, v.ID, MaxWaiters))
	}

	for _, w := range v.waiters {
		if w == tid {
			panic(fmt.Errorf("%w: thread %d already waiting on virq %d", ErrAssertion, tid, v.ID))
		}
	}

	v.waiters = append(v.waiters, tid)
}

func (v *Virq) String() string {
	return fmt.Sprintf("Virq{id=%d triggered=%t waiters=%v}", v.ID, v.Triggered, v.waiters)
}
