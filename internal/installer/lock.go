// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const (
	// lockNotifyInterval is how often a waiting notice is emitted while
	// another process holds the lock.
	lockNotifyInterval = 5 * time.Second

	// lockPollInterval is how often acquisition is reattempted.
	lockPollInterval = 250 * time.Millisecond
)

// acquireLock blocks until the cross-process lock at path is held and
// returns a release function. Contention is never an error: the caller
// waits as long as it takes, with a progress notice every few seconds
// and a confirmation once acquired after a non-trivial wait. Only
// context cancellation aborts the wait.
func (inst *Installer) acquireLock(ctx context.Context, path, name string) (func(), error) {
	fl := flock.New(path)
	start := time.Now()
	lastNotice := start

	for {
		locked, err := fl.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquiring lock %s: %w", path, err)
		}
		if locked {
			break
		}
		if time.Since(lastNotice) >= lockNotifyInterval {
			inst.logger.Info("waiting for another process to release the lock",
				"name", name, "waited", time.Since(start).Round(time.Second))
			lastNotice = time.Now()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	if waited := time.Since(start); waited > 100*time.Millisecond {
		inst.logger.Info("lock acquired",
			"name", name, "waited", waited.Round(time.Millisecond))
	}
	return func() { _ = fl.Unlock() }, nil
}
