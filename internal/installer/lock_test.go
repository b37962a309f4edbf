// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireLockReleases(t *testing.T) {
	t.Parallel()

	inst := quietInstaller(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "probe.lock")
	ctx := context.Background()

	release, err := inst.acquireLock(ctx, path, "probe")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	release()

	release, err = inst.acquireLock(ctx, path, "probe")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release()
}

func TestAcquireLockContention(t *testing.T) {
	t.Parallel()

	inst := quietInstaller(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "probe.lock")
	ctx := context.Background()

	release, err := inst.acquireLock(ctx, path, "probe")
	if err != nil {
		t.Fatalf("holder acquire: %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		r, err := inst.acquireLock(ctx, path, "probe")
		if err == nil {
			r()
		}
		acquired <- err
	}()

	// The waiter polls; give it time to observe the held lock before
	// releasing.
	select {
	case err := <-acquired:
		t.Fatalf("waiter acquired a held lock: err=%v", err)
	case <-time.After(500 * time.Millisecond):
	}
	release()

	select {
	case err := <-acquired:
		if err != nil {
			t.Fatalf("waiter acquire after release: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never acquired the released lock")
	}
}

func TestAcquireLockContextCanceled(t *testing.T) {
	t.Parallel()

	inst := quietInstaller(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "probe.lock")

	release, err := inst.acquireLock(context.Background(), path, "probe")
	if err != nil {
		t.Fatalf("holder acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if _, err := inst.acquireLock(ctx, path, "probe"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want context.DeadlineExceeded", err)
	}
}
