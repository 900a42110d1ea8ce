package arch_test

import (
	"testing"

	"github.com/blitz/epoxy-riscv/internal/arch"
)

func TestArchInit(t *testing.T) {
	h := arch.NewHart(&arch.FakeFirmware{}, &arch.TickClock{})
	h.WriteCSR(arch.SSTATUS, arch.SstatusMXR|arch.SstatusSIE)

	h.ArchInit()

	if got := h.ReadCSR(arch.SSTATUS); got&arch.SstatusMXR != 0 {
		t.Errorf("ArchInit: MXR not cleared: %s", got)
	} else if got&arch.SstatusSIE != 0 {
		t.Errorf("ArchInit: SIE not cleared: %s", got)
	} else if got&arch.SstatusSUM == 0 {
		t.Errorf("ArchInit: SUM not set: %s", got)
	}

	if got := h.ReadCSR(arch.SSCRATCH); got != 0 {
		t.Errorf("ArchInit: SSCRATCH not zeroed: %s", got)
	}
}

func TestSetSPP(t *testing.T) {
	h := arch.NewHart(&arch.FakeFirmware{}, &arch.TickClock{})

	h.SetSPP(true)
	if h.InUserMode() {
		t.Errorf("SetSPP(true): expected supervisor previous privilege")
	}

	h.SetSPP(false)
	if !h.InUserMode() {
		t.Errorf("SetSPP(false): expected user previous privilege")
	}
}

func TestTickClock(t *testing.T) {
	c := &arch.TickClock{}

	if c.Now() != 0 {
		t.Errorf("TickClock: expected zero start")
	}

	if got := c.Advance(100); got != 100 {
		t.Errorf("TickClock.Advance: want 100, got %d", got)
	}
}

func TestSBIFirmwareTimer(t *testing.T) {
	clock := &arch.TickClock{}
	var console []byte
	fw := arch.NewSBIFirmware(arch.NewFuncConsole(func(b byte) { console = append(console, b) }), clock)

	fw.SetTimer(100)
	if fw.Due() {
		t.Errorf("Due: expected false before deadline")
	}

	clock.Advance(100)

	if !fw.Due() {
		t.Errorf("Due: expected true at deadline")
	}

	fw.PutChar('A')
	if string(console) != "A" {
		t.Errorf("PutChar: want %q, got %q", "A", console)
	}

	fw.Shutdown()
	if !fw.Halted() {
		t.Errorf("Shutdown: expected Halted() true")
	}
}
