package plic_test

import (
	"testing"

	"github.com/blitz/epoxy-riscv/internal/plic"
)

func TestClaimCompleteCycle(t *testing.T) {
	regs := plic.NewFakeRegisters()
	ctrl := plic.New(regs, 8)

	ctrl.SetPriority(3, 5)
	ctrl.SetThreshold(0)
	ctrl.Unmask(3)

	regs.Raise(3)

	if got := ctrl.Claim(); got != 3 {
		t.Fatalf("Claim: want 3, got %d", got)
	}

	if got := ctrl.Claim(); got != 0 {
		t.Errorf("Claim: expected no pending source after claim, got %d", got)
	}

	ctrl.Complete(3)
}

func TestMaskUnmask(t *testing.T) {
	regs := plic.NewFakeRegisters()
	ctrl := plic.New(regs, 8)

	ctrl.SetPriority(2, 5)
	ctrl.SetThreshold(0)
	regs.Raise(2)

	if got := ctrl.Claim(); got != 0 {
		t.Fatalf("Claim: expected masked source not to claim, got %d", got)
	}

	ctrl.Unmask(2)
	regs.Raise(2)

	if got := ctrl.Claim(); got != 2 {
		t.Errorf("Claim: want 2, got %d", got)
	}
}

func TestOutOfRangeSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for out-of-range source")
		}
	}()

	regs := plic.NewFakeRegisters()
	ctrl := plic.New(regs, 4)
	ctrl.SetPriority(99, 1)
}
