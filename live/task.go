package live

import (
	"context"
	"time"
)

// repeatingTask calls fn once per period until fn returns false or the task
// is cancelled. The period is re-read before every wait, so a speed change
// applies from the next tick on.
type repeatingTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startRepeating(parent context.Context, period func() time.Duration, fn func() bool) *repeatingTask {
	ctx, cancel := context.WithCancel(parent)
	t := &repeatingTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		timer := time.NewTimer(period())
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				if ctx.Err() != nil || !fn() {
					return
				}
				timer.Reset(period())
			}
		}
	}()
	return t
}

// stop cancels the task without waiting; a tick already blocked on the
// driver lock is discarded by the generation check.
func (t *repeatingTask) stop() {
	t.cancel()
}

// wait blocks until the task goroutine has exited.
func (t *repeatingTask) wait() {
	<-t.done
}
