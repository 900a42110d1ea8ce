package kernel

import "testing"

func TestSchedulerSchedulesThreadZeroFirst(t *testing.T) {
	threads := []Thread{
		{ID: 0, State: Runnable},
		{ID: 1, State: Runnable},
		{ID: 2, State: Runnable},
	}

	sched := NewScheduler(len(threads))

	got, err := sched.Next(threads)
	if err != nil {
		t.Fatalf("Next: %s", err)
	}

	if got != 0 {
		t.Errorf("Next: want thread 0 first, got %d", got)
	}
}

func TestSchedulerSkipsNonRunnable(t *testing.T) {
	threads := []Thread{
		{ID: 0, State: Exited},
		{ID: 1, State: Blocked},
		{ID: 2, State: Runnable},
	}

	sched := NewScheduler(len(threads))

	got, err := sched.Next(threads)
	if err != nil {
		t.Fatalf("Next: %s", err)
	}

	if got != 2 {
		t.Errorf("Next: want thread 2, got %d", got)
	}
}

func TestSchedulerWrapsAround(t *testing.T) {
	threads := []Thread{
		{ID: 0, State: Runnable},
		{ID: 1, State: Runnable},
	}

	sched := NewScheduler(len(threads))

	first, _ := sched.Next(threads)
	second, _ := sched.Next(threads)
	third, _ := sched.Next(threads)

	if first != 0 || second != 1 || third != 0 {
		t.Errorf("round robin: want 0,1,0; got %d,%d,%d", first, second, third)
	}
}

func TestSchedulerNoRunnableThread(t *testing.T) {
	threads := []Thread{
		{ID: 0, State: Exited},
		{ID: 1, State: Exited},
	}

	sched := NewScheduler(len(threads))

	if _, err := sched.Next(threads); err != ErrNoRunnableThread {
		t.Errorf("Next: want ErrNoRunnableThread, got %v", err)
	}
}
