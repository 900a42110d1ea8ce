package kernel

// scheduler.go implements round-robin thread selection with a persistent cursor, timer
// re-arming, and activation.
//
// Grounded in original_source's scheduler.cpp, whose `next()` walks `threads` starting just past
// the last-scheduled index, wrapping modulo the table length, and skipping anything not
// Runnable. Its constructor seeds the cursor at `array_size(threads) - 1` ("to ensure we
// schedule thread[0] initially") — SPEC_FULL.md's Open Questions section adopts this exact
// variant, so NewScheduler reproduces it rather than starting the cursor at 0. Arming the timer
// and enabling the timer-interrupt bit on every activation follows the same file's `schedule()`.

import (
	"errors"

	"github.com/blitz/epoxy-riscv/internal/arch"
)

var (
	// ErrNoRunnableThread is returned when every thread in the table has Exited — the kernel has
	// no more work at all and, per spec.md §7, should halt.
	ErrNoRunnableThread = errors.New("scheduler: no runnable thread")

	// ErrIdle is returned when no thread is Runnable but at least one is only Blocked (e.g.
	// awaiting a virq trigger) — the kernel is not done, it merely has nothing to run until the
	// next interrupt delivers new work (spec.md §4.3 step 3).
	ErrIdle = errors.New("scheduler: idle, waiting for interrupt")
)

// TimerFrequency and ScheduleRateHz are the compile-time constants spec.md §4.3 derives the
// timer slice from: "a compile-time constant defined as timer_frequency / schedule_rate_hz (the
// repository uses ~128 Hz)". The emulated clock has no real frequency of its own, so these are
// named the way original_source names them rather than measured from anything.
const (
	TimerFrequency = 10_000_000
	ScheduleRateHz = 128

	// SliceTicks is the number of clock ticks a thread runs before the timer preempts it
	// (spec.md §4.3, §8 Testable Property 3).
	SliceTicks = TimerFrequency / ScheduleRateHz
)

// Scheduler selects the next runnable thread in round-robin order over a fixed thread table.
type Scheduler struct {
	cursor ThreadID
}

// NewScheduler creates a scheduler over n threads, with its cursor seeded one before the start
// so the first call to Next lands on thread 0 (original_source scheduler.cpp).
func NewScheduler(n int) *Scheduler {
	return &Scheduler{cursor: ThreadID(n - 1)}
}

// Next advances the cursor by one (mod len(threads)) repeatedly until it lands on a Runnable
// thread, or it has examined every thread once without finding one.
func (s *Scheduler) Next(threads []Thread) (ThreadID, error) {
	n := ThreadID(len(threads))
	if n == 0 {
		return 0, ErrNoRunnableThread
	}

	for i := ThreadID(0); i < n; i++ {
		s.cursor = (s.cursor + 1) % n

		if threads[s.cursor].IsRunnable() {
			return s.cursor, nil
		}
	}

	return 0, ErrNoRunnableThread
}

// Schedule implements spec.md §4.3's per-decision algorithm: find the next runnable thread, arm
// the one-shot timer one slice ahead of the current tick, enable the timer interrupt, and
// activate it. If nothing is Runnable, it takes the idle path (step 3) instead of activating
// anyone, returning ErrNoRunnableThread if every thread has Exited (a terminal halt) or ErrIdle
// if some are merely Blocked (waiting on a trigger that can still arrive).
func (s *Scheduler) Schedule(st *GlobalState) (ThreadID, error) {
	next, err := s.Next(st.Threads)
	if err != nil {
		return 0, s.idle(st)
	}

	st.Hart.Firmware.SetTimer(st.Hart.Clock.Now() + SliceTicks)
	st.Hart.SetCSRBits(arch.SIE, arch.SieSTIE)

	ActivateThread(st, next)

	return next, nil
}

// idle implements spec.md §4.3 step 3 for the "nothing Runnable" case: reset the kernel stack,
// enable supervisor interrupts so a future trigger or timer can wake the scheduler, and report
// whether this is a terminal halt or a true idle wait.
func (s *Scheduler) idle(st *GlobalState) error {
	st.Hart.ResetKernelStack()
	st.Hart.SetCSRBits(arch.SSTATUS, arch.SstatusSIE)

	if st.RunningThreads == 0 {
		return ErrNoRunnableThread
	}

	return ErrIdle
}
