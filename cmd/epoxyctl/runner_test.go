package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blitz/epoxy-riscv/internal/log"
)

const testImage = `
processes:
  - name: p0
    satp: 1
    threads:
      - entry: 0x1000
    capabilities:
      - index: 0
        kind: exit
`

// TestRunStopsAtStepBound drives a one-thread, exit-only image and expects the loop to stop at
// its step bound with an error well within the context timeout, the same way
// cmd/elsie/main_test.go bounds its own run with a context timeout so a broken loop can't hang
// the test suite forever.
func TestRunStopsAtStepBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.yaml")
	if err := os.WriteFile(path, []byte(testImage), 0o644); err != nil {
		t.Fatalf("write test image: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := log.New(os.Stderr, log.FormatText)
	log.LogLevel.Set(log.Error)

	// Thread 0 never calls Exit on its own here (there is no instruction emulator to drive its
	// ecall), so the loop runs until maxSteps and reports that as an error; what matters for
	// this test is that it returns promptly instead of hanging.
	err := run(ctx, path, logger, 50)
	if err == nil {
		t.Fatalf("run: expected the step bound to be hit, got nil error")
	}

	if ctx.Err() != nil {
		t.Errorf("run: took too long, context expired: %s", ctx.Err())
	}
}
