package kernel

// state.go holds the kernel's single global mutable state: the thread table, the process table,
// and the virq table, each a fixed-size slice built once at boot from an Image (spec.md §3
// Lifecycle).
//
// Grounded in original_source's kernel.hpp, which keeps exactly these three arrays as static
// globals rather than heap-allocating per-entity; DESIGN NOTES "Cyclic references" calls for
// indices instead of pointers between them, which is what ThreadID/ProcessID/VirqID are for.

import (
	"fmt"

	"github.com/blitz/epoxy-riscv/internal/arch"
	"github.com/blitz/epoxy-riscv/internal/plic"
)

// GlobalState is the kernel's entire mutable world: every thread, process, and virq that exists,
// plus the hart they run on.
type GlobalState struct {
	Hart      *arch.Hart
	Threads   []Thread
	Processes []*Process
	Virqs     []*Virq

	// PLIC is the platform interrupt controller virqs re-arm through on consumption (spec.md
	// §4.7, §6). Image.Build never sets it, so it stays nil, and bound sources are not re-armed,
	// unless a caller assigns a controller after Build.
	PLIC *plic.Controller

	// Current is the thread presently (or about to be) running, set by the scheduler and read
	// by ActivateThread.
	Current ThreadID

	// RunningThreads counts threads not yet Exited, seeded from the image's thread count at boot
	// and decremented by ExitObject; reaching zero requests firmware shutdown (spec.md §3
	// Lifecycle, §4.6, §8 Testable Property 6).
	RunningThreads int
}

// NewGlobalState creates an empty kernel world over the given hart. Threads, processes, and
// virqs are populated by an Image during boot.
func NewGlobalState(hart *arch.Hart) *GlobalState {
	return &GlobalState{Hart: hart}
}

// Thread returns a pointer to the thread with the given ID, for callers that need to mutate it
// in place rather than through GlobalState.Threads[id] (which is equivalent but less readable at
// call sites doing several field updates).
func (st *GlobalState) Thread(id ThreadID) *Thread {
	return &st.Threads[id]
}

// Process returns the process owning a thread.
func (st *GlobalState) Process(id ThreadID) *Process {
	return st.Processes[st.Threads[id].ProcessID]
}

func (st *GlobalState) String() string {
	return fmt.Sprintf("GlobalState{threads=%d processes=%d virqs=%d current=%d}",
		len(st.Threads), len(st.Processes), len(st.Virqs), st.Current)
}
