package kernel

// activate.go implements spec.md §4.4's thread activation / exit-to-user sequence: the seven
// steps between "the scheduler has chosen a thread" and "the hart is running user code again."
//
// Grounded in original_source's process.cpp's `activate()` (the SATP/active-bit caching, step 2)
// and thread.cpp's `activate()` (clear_lrsc_reservation, SPP/SSCRATCH/SEPC programming, sret,
// steps 3-7), and in the teacher's internal/vm run loop, which also treats "load state, then
// resume" as a single function rather than splitting dispatch from resumption.

import "github.com/blitz/epoxy-riscv/internal/arch"

// ActivateThread makes tid the running thread and exits to user mode on its behalf: it records
// current (step 1), loads its process's address space unless already active (step 2), clears any
// outstanding LR/SC reservation (step 3), clears SPP so the eventual sret lands in user mode
// (step 4), marks SSCRATCH with a non-zero frame marker so a later trap can tell this is a
// user-origin return (step 5), programs SEPC with the frame's saved PC (step 6), and issues the
// privileged return (step 7).
func ActivateThread(st *GlobalState, tid ThreadID) {
	thread := st.Thread(tid)
	proc := st.Processes[thread.ProcessID]

	st.Current = tid

	if !proc.active {
		for _, other := range st.Processes {
			other.active = false
		}

		st.Hart.WriteCSR(arch.SATP, arch.Word(proc.SATP))
		proc.active = true
	}

	hart := st.Hart

	hart.ClearReservation()
	hart.SetSPP(false)
	hart.WriteCSR(arch.SSCRATCH, arch.Word(tid)+1)
	hart.WriteCSR(arch.SEPC, arch.Word(thread.Frame.PC))
	hart.SRET()
}
