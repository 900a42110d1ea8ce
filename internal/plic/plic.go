// Package plic implements the small interface to a platform-level interrupt controller that
// spec.md §6 documents: claim, complete, mask, unmask, set-priority, set-threshold. It is used
// only by the virtual-IRQ kernel object pair when a vIRQ is bound to a real interrupt source
// (spec.md §4.7); most of the kernel never touches it.
//
// Grounded in original_source's plic.hpp (the SiFive PLIC register layout: per-source priority
// words, a pending bitfield, a per-hart enable bitfield, and per-hart threshold/claim/complete
// registers) and in the teacher's memory-mapped device abstraction (internal/vm/devices.go),
// which also turns a flat register file into a small typed interface.
package plic

import "fmt"

// Line identifies one interrupt source, 1..ndev-1 for a Controller created with New(regs, ndev). Source 0 means "no interrupt," per the
// PLIC specification and plic.hpp's asserts (`src > 0 and src < ndev_`).
type Line int

// Registers is the minimal register file a PLIC implementation must expose. Production code
// backs it with real MMIO (not provided here — out of scope, spec.md §1); the plic tests use
// FakeRegisters.
type Registers interface {
	Priority(src Line) uint32
	SetPriority(src Line, level uint32)

	Pending(src Line) bool

	Enabled(src Line) bool
	SetEnabled(src Line, enabled bool)

	Threshold() uint32
	SetThreshold(level uint32)

	// Claim returns the highest-priority pending, enabled source above threshold, marking it
	// as claimed. It returns 0 if none is pending.
	Claim() Line

	// Complete signals that the claimed source has been fully handled.
	Complete(src Line)
}

// Controller wraps a register file with the bounds checking and naming the spec documents.
type Controller struct {
	regs  Registers
	ndev  Line
}

// New creates a Controller over ndev interrupt sources (source 0 excluded, so valid sources are
// 1..ndev-1, matching plic.hpp's ndev_ semantics).
func New(regs Registers, ndev int) *Controller {
	return &Controller{regs: regs, ndev: Line(ndev)}
}

func (c *Controller) valid(src Line) bool { return src > 0 && src < c.ndev }

// Claim returns the next pending interrupt source, or 0 if none.
func (c *Controller) Claim() Line { return c.regs.Claim() }

// Complete marks src as fully handled.
func (c *Controller) Complete(src Line) {
	if !c.valid(src) {
		panic(fmt.Sprintf("plic: complete: source out of range: %d", src))
	}

	c.regs.Complete(src)
}

// Mask disables a source so it never becomes pending for this hart.
func (c *Controller) Mask(src Line) {
	if !c.valid(src) {
		panic(fmt.Sprintf("plic: mask: source out of range: %d", src))
	}

	c.regs.SetEnabled(src, false)
}

// Unmask enables a source. The virtual-IRQ wait object calls this when it consumes a triggered
// vIRQ that is bound to a physical source (spec.md §4.7).
func (c *Controller) Unmask(src Line) {
	if !c.valid(src) {
		panic(fmt.Sprintf("plic: unmask: source out of range: %d", src))
	}

	c.regs.SetEnabled(src, true)
}

// SetPriority sets a source's interrupt priority.
func (c *Controller) SetPriority(src Line, level uint32) {
	if !c.valid(src) {
		panic(fmt.Sprintf("plic: set-priority: source out of range: %d", src))
	}

	c.regs.SetPriority(src, level)
}

// SetThreshold sets the priority threshold below which this hart will not take interrupts.
func (c *Controller) SetThreshold(level uint32) { c.regs.SetThreshold(level) }
