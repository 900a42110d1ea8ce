package kernel

// thread.go defines the schedulable entity. Grounded in original_source's thread.hpp
// (thread_state enum, a process back-reference, an embedded exception_frame) and in DESIGN
// NOTES "Cyclic references," which specifies thread<->process links as indices into static
// tables rather than owning pointers.

import "fmt"

// ThreadID indexes GlobalState.Threads.
type ThreadID int

// ThreadState is a thread's scheduling state (spec.md §3).
type ThreadState uint8

const (
	Runnable ThreadState = iota
	Blocked
	Exited
)

//go:generate stringer -type=ThreadState

func (s ThreadState) String() string {
	switch s {
	case Runnable:
		return "RUNNABLE"
	case Blocked:
		return "BLOCKED"
	case Exited:
		return "EXITED"
	default:
		return fmt.Sprintf("ThreadState(%d)", uint8(s))
	}
}

// Thread is the schedulable entity: it owns a trap frame, belongs to exactly one process, and
// carries a runnable/blocked/exited state (spec.md §3).
type Thread struct {
	ID        ThreadID
	ProcessID ProcessID
	Frame     TrapFrame
	State     ThreadState
}

// IsRunnable reports whether the thread is eligible for the scheduler to pick.
func (t *Thread) IsRunnable() bool { return t.State == Runnable }

func (t *Thread) String() string {
	return fmt.Sprintf("Thread{id=%d proc=%d state=%s pc=%#x}",
		t.ID, t.ProcessID, t.State, t.Frame.PC)
}
