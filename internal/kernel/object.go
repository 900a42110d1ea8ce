package kernel

// object.go defines the kernel object vocabulary and the tagged-variant dispatch spec.md §4
// calls for: Log, Exit, VirqTrigger, VirqWait.
//
// Grounded in original_source's kobject.hpp/kobject.cpp, which gives each object kind its own
// invoke() rather than a single polymorphic dispatch table; the teacher's internal/vm/instr.go
// shows the same "one Go type per operation, a common interface, a switch at the call site" shape
// for LC-3 opcodes, which this follows for kernel objects instead.

import "fmt"

// KernelObject is anything a process can name by capability index and invoke via ecall
// (spec.md §4.2 step 4, §4.6).
type KernelObject interface {
	// Invoke runs the object's syscall behavior against the trapping thread's state and the
	// global kernel state, and reports the result to leave in a0 plus whether the caller should
	// be rescheduled instead of resumed.
	Invoke(st *GlobalState, caller ThreadID, args Args) InvokeResult

	// Kind names the object's type for logging and tracing, e.g. "log", "exit".
	Kind() string
}

// LogBufferSize is the fixed capacity of a LogObject's line buffer (spec.md §4.6: "a per-object
// line buffer of fixed capacity, e.g. 80 bytes").
const LogBufferSize = 80

// LogObject accumulates characters into a fixed-size buffer and flushes a formatted line to the
// firmware console on newline, per spec.md §4.6/§6 ("lines emitted as `<prefix> | <contents>\n`").
// Grounded in original_source's klog_kobject.hpp/kobject.cpp line_buffer_flush.
type LogObject struct {
	Prefix string
	buf    [LogBufferSize]byte
	len    int
}

// NewLogObject creates a log capability with the given line prefix (spec.md §6: "Prefix default
// \"UU process=<pid>\"").
func NewLogObject(prefix string) *LogObject {
	return &LogObject{Prefix: prefix}
}

func (o *LogObject) Kind() string { return "log" }

// Invoke implements spec.md §4.6's Log object: args.A1's low byte is the character to emit; a
// newline flushes the buffered line (overflow flushes first, then appends).
func (o *LogObject) Invoke(st *GlobalState, caller ThreadID, args Args) InvokeResult {
	c := byte(args.A1)

	if c == '\n' {
		o.flush(st)
		return OK()
	}

	if o.len == len(o.buf) {
		o.flush(st)
	}

	o.buf[o.len] = c
	o.len++

	return OK()
}

func (o *LogObject) flush(st *GlobalState) {
	line := fmt.Sprintf("%s | %s\n", o.Prefix, o.buf[:o.len])

	for i := range line {
		st.Hart.Firmware.PutChar(line[i])
	}

	o.len = 0
}

// ExitObject terminates the calling thread and, once every thread has exited, requests firmware
// shutdown (spec.md §4.6, §8 Testable Property 6, scenario S5). Grounded in original_source's
// exit_kobject::invoke, which decrements a global running-thread counter seeded at image build.
type ExitObject struct{}

// NewExitObject creates the thread-exit capability.
func NewExitObject() *ExitObject { return &ExitObject{} }

func (o *ExitObject) Kind() string { return "exit" }

func (o *ExitObject) Invoke(st *GlobalState, caller ThreadID, _ Args) InvokeResult {
	st.Threads[caller].State = Exited
	st.RunningThreads--

	if st.RunningThreads == 0 {
		st.Hart.Firmware.Shutdown()
	}

	return Reschedule()
}

// VirqTriggerObject triggers a fixed virq (spec.md §4.6). The virq a capability triggers is
// fixed at image-build time, same as LogObject's prefix.
type VirqTriggerObject struct {
	Virq *Virq
}

// NewVirqTriggerObject creates a capability that triggers the given virq when invoked.
func NewVirqTriggerObject(v *Virq) *VirqTriggerObject {
	return &VirqTriggerObject{Virq: v}
}

func (o *VirqTriggerObject) Kind() string { return "virq-trigger" }

func (o *VirqTriggerObject) Invoke(st *GlobalState, caller ThreadID, _ Args) InvokeResult {
	if woken, ok := o.Virq.Trigger(); ok {
		st.Threads[woken].State = Runnable
	}

	return OK()
}

// VirqWaitObject blocks the calling thread on a fixed virq until triggered (spec.md §4.7).
type VirqWaitObject struct {
	Virq *Virq
}

// NewVirqWaitObject creates a capability that waits on the given virq when invoked.
func NewVirqWaitObject(v *Virq) *VirqWaitObject {
	return &VirqWaitObject{Virq: v}
}

func (o *VirqWaitObject) Kind() string { return "virq-wait" }

func (o *VirqWaitObject) Invoke(st *GlobalState, caller ThreadID, _ Args) InvokeResult {
	if o.Virq.Consume(st.PLIC) {
		return OK()
	}

	if st.Threads[caller].State != Runnable {
		panic(fmt.Errorf("%w: thread %d is not Runnable on entry to virq %d wait", ErrAssertion, caller, o.Virq.ID))
	}

	st.Threads[caller].State = Blocked
	o.Virq.Enqueue(caller)

	return Reschedule()
}
