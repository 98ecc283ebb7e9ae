package server

import (
	"time"

	"Hearthvale/internal/dialogue"
)

// loopClock adapts wall time to the engine's Clock port for one session.
// Timer callbacks are posted into the session's inbox so they execute on
// the session loop goroutine, which is the engine's single-thread
// requirement.
type loopClock struct {
	epoch time.Time
	post  func(fn func())
}

func newLoopClock(post func(fn func())) *loopClock {
	return &loopClock{epoch: time.Now(), post: post}
}

// Now returns monotonic seconds since the session connected.
func (c *loopClock) Now() float64 {
	return time.Since(c.epoch).Seconds()
}

// Schedule defers fn onto the session loop after delayS seconds. If the
// session has shut down by then, the post is dropped by the inbox.
func (c *loopClock) Schedule(delayS float64, fn func()) dialogue.TimerHandle {
	if delayS < 0 {
		delayS = 0
	}
	d := time.Duration(delayS * float64(time.Second))
	return time.AfterFunc(d, func() {
		c.post(fn)
	})
}

// Cancel stops a pending timer. The engine's generation guard covers the
// race where the timer fired and its callback is already in the inbox.
func (c *loopClock) Cancel(handle dialogue.TimerHandle) {
	if t, ok := handle.(*time.Timer); ok {
		t.Stop()
	}
}
