package kernel

// frame.go defines the trap frame: the saved user register file plus program counter.
//
// Grounded in original_source's exception_frame.hpp (31 general-purpose words, x1..x31, plus a
// static_assert that the frame starts at offset zero so assembly entry/exit code can rely on
// fixed offsets) and in the teacher's RegisterFile (internal/vm/words.go), which names its eight
// registers by ABI role rather than raw index.

import "unsafe"

// NumGPR is the number of general-purpose registers the RISC-V integer ABI defines excluding
// the hardwired zero register x0, which is never saved (spec.md §3: "Register 0 is implicit
// zero and never stored").
const NumGPR = 31

// TrapFrame is the saved state of a trapped or not-yet-run thread: its general-purpose
// registers x1..x31 followed by the program counter. The field order is part of the contract
// with the (unwritten, out-of-scope) assembly trap-entry/exit stub and must not change; DESIGN
// NOTES calls for a compile-time layout check, enforced below.
type TrapFrame struct {
	X   [NumGPR]uint64 // x[i] holds register x(i+1); x0 is implicit and absent.
	PC  uint64
}

// init asserts the frame's layout matches the assembly contract: registers first, PC
// immediately after, no padding sneaking in between. Go has no static_assert, so this is
// checked once at process start rather than at compile time, same intent as
// exception_frame.hpp's `static_assert(offsetof(exception_frame, regs) == 0)`.
func init() {
	if unsafe.Offsetof(TrapFrame{}.X) != 0 {
		panic("kernel: trap frame layout: X must be the first field")
	}

	if unsafe.Offsetof(TrapFrame{}.PC) != unsafe.Sizeof(TrapFrame{}.X) {
		panic("kernel: trap frame layout: PC must immediately follow X")
	}
}

// RISC-V integer ABI register names for the five argument/result registers the syscall ABI
// uses (spec.md §4.2). a0 is x[9] (x10), a1 is x[10] (x11), and so on.
const (
	regA0 = 9
	regA1 = 10
	regA2 = 11
	regA3 = 12
	regA4 = 13
)

// A0 returns the syscall capability index / result-code register.
func (f *TrapFrame) A0() uint64 { return f.X[regA0] }

// SetA0 sets the syscall result register.
func (f *TrapFrame) SetA0(v uint64) { f.X[regA0] = v }

// A1 through A4 return the syscall payload registers (spec.md §4.2).
func (f *TrapFrame) A1() uint64 { return f.X[regA1] }
func (f *TrapFrame) A2() uint64 { return f.X[regA2] }
func (f *TrapFrame) A3() uint64 { return f.X[regA3] }
func (f *TrapFrame) A4() uint64 { return f.X[regA4] }

// EcallWidth is the size in bytes of the ecall instruction the dispatcher advances SEPC past
// (spec.md §4.2 step 2).
const EcallWidth = 4

// AdvancePastEcall moves the frame's saved program counter past the instruction that trapped.
func (f *TrapFrame) AdvancePastEcall() { f.PC += EcallWidth }

// NewTrapFrame creates a frame pre-initialized to a thread's entry conditions: PC at the
// process's user entry point, all general-purpose registers zero (spec.md §3 Lifecycle: "all
// entities are created at kernel start from the image").
func NewTrapFrame(entry uint64) TrapFrame {
	return TrapFrame{PC: entry}
}
