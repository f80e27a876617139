package main

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func waitFired(t *testing.T, fired <-chan string, want string) {
	t.Helper()

	select {
	case got := <-fired:
		if got != want {
			t.Fatalf("expected %q to fire, got %q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timer %q never fired", want)
	}
}

func expectQuiet(t *testing.T, fired <-chan string) {
	t.Helper()

	select {
	case got := <-fired:
		t.Fatalf("unexpected firing of %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduleFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tc := newTimerCoordinator(clock)
	fired := make(chan string, 4)

	tc.schedule("ROOM", "buzz", time.Second, func() { fired <- "buzz" })

	clock.Advance(time.Second)
	waitFired(t, fired, "buzz")
}

func TestCancelledTimerNeverFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tc := newTimerCoordinator(clock)
	fired := make(chan string, 4)

	tc.schedule("ROOM", "buzz", time.Second, func() { fired <- "buzz" })
	tc.cancelKey("ROOM", "buzz")

	clock.Advance(2 * time.Second)
	expectQuiet(t, fired)
}

func TestScheduleSameKeyReplaces(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tc := newTimerCoordinator(clock)
	fired := make(chan string, 4)

	tc.schedule("ROOM", "buzz", 2*time.Second, func() { fired <- "old" })
	tc.schedule("ROOM", "buzz", time.Second, func() { fired <- "new" })

	clock.Advance(2 * time.Second)
	waitFired(t, fired, "new")
	expectQuiet(t, fired)
}

func TestCancelByHandleIgnoresReplacement(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tc := newTimerCoordinator(clock)
	fired := make(chan string, 4)

	old := tc.schedule("ROOM", "buzz", time.Second, func() { fired <- "old" })
	tc.schedule("ROOM", "buzz", time.Second, func() { fired <- "new" })

	// The stale handle must not kill the replacement.
	tc.cancel(old)

	clock.Advance(time.Second)
	waitFired(t, fired, "new")
}

func TestScheduleEveryRepeatsUntilCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tc := newTimerCoordinator(clock)
	fired := make(chan string, 4)

	tc.scheduleEvery("ROOM", "tick", time.Second, func() { fired <- "tick" })

	clock.Advance(time.Second)
	waitFired(t, fired, "tick")

	clock.Advance(time.Second)
	waitFired(t, fired, "tick")

	tc.cancelKey("ROOM", "tick")
	clock.Advance(3 * time.Second)
	expectQuiet(t, fired)
}

func TestCancelAllStopsEveryTimerForRoom(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tc := newTimerCoordinator(clock)
	fired := make(chan string, 8)

	tc.schedule("ROOM", "buzz", time.Second, func() { fired <- "buzz" })
	tc.schedule("ROOM", "answer", time.Second, func() { fired <- "answer" })
	tc.scheduleEvery("ROOM", "tick", time.Second, func() { fired <- "tick" })
	tc.schedule("OTHER", "buzz", time.Second, func() { fired <- "other" })

	tc.cancelAll("ROOM")

	clock.Advance(time.Second)
	waitFired(t, fired, "other")
	expectQuiet(t, fired)
}
