package kernel

import "testing"

func TestVirqConsumeClearsLatchedTrigger(t *testing.T) {
	v := NewVirq(0)

	if _, woke := v.Trigger(); woke {
		t.Errorf("Trigger: expected no waiter to wake, got one")
	}

	if !v.Consume(nil) {
		t.Errorf("Consume: expected true for a latched, un-delivered trigger")
	}

	if v.Consume(nil) {
		t.Errorf("Consume: expected false on the second consume with no intervening trigger")
	}
}

func TestVirqTriggerWakesWaiterDirectly(t *testing.T) {
	v := NewVirq(0)
	v.Enqueue(1)
	v.Enqueue(2)

	woken, ok := v.Trigger()
	if !ok || woken != 1 {
		t.Fatalf("Trigger: want (1, true), got (%d, %t)", woken, ok)
	}

	woken, ok = v.Trigger()
	if !ok || woken != 2 {
		t.Errorf("Trigger: want (2, true), got (%d, %t)", woken, ok)
	}
}

func TestVirqDoubleEnqueuePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic enqueueing the same thread twice")
		}
	}()

	v := NewVirq(0)
	v.Enqueue(1)
	v.Enqueue(1)
}
