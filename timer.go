package main

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// timerCoordinator schedules one-shot and periodic callbacks scoped to a
// room. At most one timer is live per (room, key); scheduling the same key
// again replaces the previous timer. A cancelled timer never fires: the
// firing goroutine re-checks registration under the coordinator lock before
// invoking the callback, so cancel and fire cannot interleave.
type timerCoordinator struct {
	clock clockwork.Clock

	mu     sync.Mutex
	nextID uint64
	active map[string]map[string]*activeTimer // room code -> key -> timer
}

type timerHandle struct {
	room string
	key  string
	id   uint64
}

type activeTimer struct {
	id     uint64
	cancel chan struct{}
	stop   func() bool // stops the underlying clockwork timer or ticker
}

func newTimerCoordinator(clock clockwork.Clock) *timerCoordinator {
	return &timerCoordinator{
		clock:  clock,
		active: make(map[string]map[string]*activeTimer),
	}
}

func (tc *timerCoordinator) storeLocked(room, key string, at *activeTimer) {
	keys, ok := tc.active[room]
	if !ok {
		keys = make(map[string]*activeTimer)
		tc.active[room] = keys
	}

	// Replace any existing timer for this key
	if prev, ok := keys[key]; ok {
		tc.stopLocked(prev)
	}
	keys[key] = at
}

func (tc *timerCoordinator) stopLocked(at *activeTimer) {
	if !at.stop() {
		// Timer already fired or was stopped; nothing to drain, the firing
		// goroutine will see it is no longer registered and bail out.
	}
	close(at.cancel)
}

// schedule registers a one-shot callback for the room under the given key.
func (tc *timerCoordinator) schedule(room, key string, delay time.Duration, fn func()) timerHandle {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.nextID++
	at := &activeTimer{
		id:     tc.nextID,
		cancel: make(chan struct{}),
	}

	timer := tc.clock.NewTimer(delay)
	at.stop = timer.Stop

	tc.storeLocked(room, key, at)

	go func() {
		select {
		case <-timer.Chan():
			tc.mu.Lock()
			if tc.active[room][key] != at {
				// Cancelled or replaced between fire and lock acquisition
				tc.mu.Unlock()
				return
			}
			delete(tc.active[room], key)
			tc.mu.Unlock()
			fn()
		case <-at.cancel:
		}
	}()

	return timerHandle{room: room, key: key, id: at.id}
}

// scheduleEvery registers a periodic callback for the room under the given
// key. It keeps firing until cancelled.
func (tc *timerCoordinator) scheduleEvery(room, key string, interval time.Duration, fn func()) timerHandle {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.nextID++
	at := &activeTimer{
		id:     tc.nextID,
		cancel: make(chan struct{}),
	}

	ticker := tc.clock.NewTicker(interval)
	at.stop = func() bool {
		ticker.Stop()
		return true
	}

	tc.storeLocked(room, key, at)

	go func() {
		for {
			select {
			case <-ticker.Chan():
				tc.mu.Lock()
				live := tc.active[room][key] == at
				tc.mu.Unlock()
				if !live {
					return
				}
				fn()
			case <-at.cancel:
				return
			}
		}
	}()

	return timerHandle{room: room, key: key, id: at.id}
}

// cancel stops the timer behind the handle, if it is still the live timer
// for its (room, key) slot.
func (tc *timerCoordinator) cancel(handle timerHandle) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	at, ok := tc.active[handle.room][handle.key]
	if !ok || at.id != handle.id {
		return
	}

	delete(tc.active[handle.room], handle.key)
	tc.stopLocked(at)
}

// cancelKey stops whatever timer currently occupies the (room, key) slot.
func (tc *timerCoordinator) cancelKey(room, key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	at, ok := tc.active[room][key]
	if !ok {
		return
	}

	delete(tc.active[room], key)
	tc.stopLocked(at)
}

// cancelAll stops every timer for the room; called on room destruction so no
// leaked callback can touch a destroyed room.
func (tc *timerCoordinator) cancelAll(room string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	for _, at := range tc.active[room] {
		tc.stopLocked(at)
	}
	delete(tc.active, room)
}
