package dialogue

// TickClock is a Clock driven by an external per-tick Advance call, the way
// a game loop advances simulation time. Due callbacks fire inside Advance,
// on the caller's goroutine, in deadline order. It is also the deterministic
// clock used by the engine tests.
type TickClock struct {
	now    float64
	nextID int
	timers map[int]*tickTimer
}

type tickTimer struct {
	id  int
	due float64
	seq int
	fn  func()
}

// NewTickClock creates a clock starting at t=0.
func NewTickClock() *TickClock {
	return &TickClock{timers: make(map[int]*tickTimer)}
}

// Now returns the current clock time in seconds.
func (c *TickClock) Now() float64 { return c.now }

// Schedule registers fn to run once delayS seconds from now. A non-positive
// delay fires on the next Advance call.
func (c *TickClock) Schedule(delayS float64, fn func()) TimerHandle {
	if delayS < 0 {
		delayS = 0
	}
	c.nextID++
	t := &tickTimer{id: c.nextID, due: c.now + delayS, seq: c.nextID, fn: fn}
	c.timers[t.id] = t
	return t.id
}

// Cancel removes a pending timer. Unknown or fired handles are ignored.
func (c *TickClock) Cancel(handle TimerHandle) {
	id, ok := handle.(int)
	if !ok {
		return
	}
	delete(c.timers, id)
}

// Advance moves the clock forward by dt seconds and fires every timer whose
// deadline has passed, in deadline order (scheduling order breaks ties).
// Callbacks may schedule or cancel other timers; newly due work is picked up
// in the same call.
func (c *TickClock) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.now += dt
	for {
		next := c.dueTimer()
		if next == nil {
			return
		}
		delete(c.timers, next.id)
		next.fn()
	}
}

func (c *TickClock) dueTimer() *tickTimer {
	var best *tickTimer
	for _, t := range c.timers {
		if t.due > c.now {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}
