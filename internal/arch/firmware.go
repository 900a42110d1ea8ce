package arch

// firmware.go models the SBI legacy extensions the kernel relies on for console output, timer
// programming, and shutdown (spec.md §6 Firmware interface). Grounded in original_source's
// sbi.hpp, which encodes the same three calls as a function-id/extension-id ecall with
// arguments in a0/a1 and the extension/function ids in a6/a7.

import (
	"fmt"
	"sync"
)

// SBI legacy extension ids, named exactly as sbi.hpp does.
const (
	SBIExtSetTimer Word = 0
	SBIExtPutChar  Word = 1
	SBIExtShutdown Word = 8
)

// Firmware is the kernel's view of the platform firmware: a console, a one-shot timer, and a
// shutdown request. The kernel's calls into it are assumed infallible (spec.md §7: "firmware
// calls are assumed infallible; their return values are ignored by design").
type Firmware interface {
	// PutChar writes one character to the firmware console (legacy extension 1).
	PutChar(c byte)

	// SetTimer arms the one-shot timer to fire at the given absolute tick (legacy extension 0).
	SetTimer(deadline uint64)

	// Shutdown requests the platform power off (legacy extension 8). It is requested, not
	// necessarily executed synchronously — spec.md §4.6 Exit object only "requests" it.
	Shutdown()
}

// Clock is the hart's view of wall-clock ticks, standing in for the RISC-V `rdtime` instruction.
type Clock interface {
	Now() uint64
}

// TickClock is a Clock driven explicitly by test code or a CLI driver loop, rather than a real
// timer device. Production code and tests both use it; there is no "real" clock to read from in
// an emulator.
type TickClock struct {
	mu   sync.Mutex
	tick uint64
}

func (c *TickClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tick
}

// Advance moves the clock forward by n ticks and returns the new value. A production driver
// loop calls this once per emulated instruction or once per idle poll; tests call it directly
// to simulate the timer firing.
func (c *TickClock) Advance(n uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick += n

	return c.tick
}

// SBIFirmware is the production Firmware: it keeps the effect of each call (console bytes go to
// a Console, the timer deadline and the shutdown request are stored in fields) rather than
// trapping into real firmware, since this process is not running in RISC-V supervisor mode. It
// does not record the SBI extension or function ids. A real deployment replaces this with the assembly
// ecall sequence from sbi.hpp; this type exists so cmd/epoxyctl has something concrete to wire
// the kernel to.
type SBIFirmware struct {
	console  Console
	clock    *TickClock
	deadline uint64
	halted   bool
}

// Console is where SBIFirmware's legacy putchar extension writes characters.
type Console interface {
	WriteByte(c byte) error
}

// NewSBIFirmware creates a firmware model that writes console output to out and programs the
// given clock's deadline on SetTimer.
func NewSBIFirmware(out Console, clock *TickClock) *SBIFirmware {
	return &SBIFirmware{console: out, clock: clock}
}

func (fw *SBIFirmware) PutChar(c byte) {
	_ = fw.console.WriteByte(c) // infallible by design, per spec.md §7
}

func (fw *SBIFirmware) SetTimer(deadline uint64) {
	fw.deadline = deadline
}

func (fw *SBIFirmware) Shutdown() {
	fw.halted = true
}

// Halted reports whether Shutdown has been requested.
func (fw *SBIFirmware) Halted() bool { return fw.halted }

// Due reports whether the armed timer deadline has passed the clock's current tick. A driver
// loop polls this once per step to decide whether to synthesize a timer interrupt.
func (fw *SBIFirmware) Due() bool { return fw.clock.Now() >= fw.deadline }

// byteConsole adapts a per-byte callback to Console for simple callers.
type byteConsole struct {
	write func(byte)
}

func (c byteConsole) WriteByte(b byte) error {
	c.write(b)
	return nil
}

// NewFuncConsole wraps a callback as a Console, useful for tests that just want to capture
// bytes in a slice.
func NewFuncConsole(fn func(byte)) Console { return byteConsole{write: fn} }

// FakeFirmware is the Firmware used throughout the kernel test suite: it records every call so
// tests can assert on them, the same way the teacher's devices_test.go exercises fake Display
// and Keyboard devices directly rather than real MMIO.
type FakeFirmware struct {
	Console   []byte
	Deadlines []uint64
	ShutdownN int
}

func (f *FakeFirmware) PutChar(c byte)          { f.Console = append(f.Console, c) }
func (f *FakeFirmware) SetTimer(deadline uint64) { f.Deadlines = append(f.Deadlines, deadline) }
func (f *FakeFirmware) Shutdown()               { f.ShutdownN++ }

func (f *FakeFirmware) String() string {
	return fmt.Sprintf("FakeFirmware(console=%d bytes, timers=%d, shutdowns=%d)",
		len(f.Console), len(f.Deadlines), f.ShutdownN)
}
