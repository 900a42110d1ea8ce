package kernel

// process.go defines the address-space owner and its capability table. Grounded in
// original_source's process.hpp/process.cpp (a fixed-size capability array, lookup() bounds
// checking, a cached "active" flag to skip redundant SATP writes) and DESIGN NOTES "Cyclic
// references."

import "fmt"

// ProcessID indexes GlobalState.Processes.
type ProcessID int

// CapabilityIndex is the a0 register value a syscall uses to name a kernel object. A negative
// value is the "invalid capability" sentinel (spec.md §4.2: "a0 == -1 is the sentinel for "no
// capability"").
type CapabilityIndex int64

// InvalidCapability is the sentinel for "no capability," spec.md §4.2.
const InvalidCapability CapabilityIndex = -1

// MaxCapabilities bounds a process's capability table. original_source's process.hpp sizes this
// statically; this port keeps the same fixed-capacity feel rather than an unbounded slice.
const MaxCapabilities = 8

// Process owns an address space (identified by SATP value) and a table of kernel object
// capabilities it can invoke by index (spec.md §3, §4.2).
type Process struct {
	ID    ProcessID
	SATP  uint64
	Caps  [MaxCapabilities]KernelObject

	// active caches whether this process's address space is the one currently loaded into the
	// hart, so ActivateThread can skip a redundant SATP write + sfence.vma (spec.md §5).
	active bool
}

// NewProcess creates a process over the given address space with an empty capability table.
func NewProcess(id ProcessID, satp uint64) *Process {
	return &Process{ID: id, SATP: satp}
}

// Grant installs obj at index idx of the process's capability table. Out-of-range indices panic:
// the image builder is the only caller and a bad index there is a configuration bug, not a
// runtime condition (spec.md §3 Lifecycle: capability tables are fixed at image-build time).
func (p *Process) Grant(idx CapabilityIndex, obj KernelObject) {
	if idx < 0 || int(idx) >= len(p.Caps) {
		panic(fmt.Sprintf("kernel: capability index %d out of range", idx))
	}

	p.Caps[idx] = obj
}

// Lookup resolves a capability index to a kernel object, per spec.md §4.2 step 3: "if a0 is
// negative or >= the process's capability table length, or the slot is empty, return NOCAP."
func (p *Process) Lookup(idx CapabilityIndex) (KernelObject, error) {
	if idx < 0 || int(idx) >= len(p.Caps) || p.Caps[idx] == nil {
		return nil, ErrNoCapability
	}

	return p.Caps[idx], nil
}

func (p *Process) String() string {
	return fmt.Sprintf("Process{id=%d satp=%#x}", p.ID, p.SATP)
}
