package main

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestFirstBuzzWins(t *testing.T) {
	b := newBuzzerArbiter(clockwork.NewFakeClock())

	b.open("ROOM")

	if got := b.tryBuzz("ROOM", "p1"); got != buzzWon {
		t.Fatalf("first buzz should win, got %v", got)
	}
	if got := b.tryBuzz("ROOM", "p2"); got != buzzTooLate {
		t.Fatalf("second buzz should be too late, got %v", got)
	}
	if got := b.tryBuzz("ROOM", "p1"); got != buzzTooLate {
		t.Fatalf("the winner cannot win twice, got %v", got)
	}
}

func TestBuzzOutsideWindow(t *testing.T) {
	b := newBuzzerArbiter(clockwork.NewFakeClock())

	if got := b.tryBuzz("ROOM", "p1"); got != buzzTooLate {
		t.Fatalf("buzz with no window should be too late, got %v", got)
	}

	b.open("ROOM")
	b.close("ROOM")

	if got := b.tryBuzz("ROOM", "p1"); got != buzzTooLate {
		t.Fatalf("buzz after close should be too late, got %v", got)
	}
}

func TestLockedOutBuzzerNeverWins(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := newBuzzerArbiter(clock)

	b.open("ROOM")
	b.applyLockout("ROOM", "p1", 200*time.Millisecond)

	// Locked out even when first in line.
	if got := b.tryBuzz("ROOM", "p1"); got != buzzLockout {
		t.Fatalf("expected lockout, got %v", got)
	}
	if got := b.tryBuzz("ROOM", "p2"); got != buzzWon {
		t.Fatalf("an unlocked buzzer should win, got %v", got)
	}
}

func TestLockoutExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := newBuzzerArbiter(clock)

	b.applyLockout("ROOM", "p1", 200*time.Millisecond)
	b.open("ROOM")

	if got := b.tryBuzz("ROOM", "p1"); got != buzzLockout {
		t.Fatalf("expected lockout, got %v", got)
	}

	clock.Advance(250 * time.Millisecond)

	if got := b.tryBuzz("ROOM", "p1"); got != buzzWon {
		t.Fatalf("expired lockout should not block, got %v", got)
	}
}

func TestLockoutsSurviveReopen(t *testing.T) {
	b := newBuzzerArbiter(clockwork.NewFakeClock())

	b.open("ROOM")
	b.applyLockout("ROOM", "p1", time.Minute)
	b.close("ROOM")
	b.open("ROOM")

	if got := b.tryBuzz("ROOM", "p1"); got != buzzLockout {
		t.Fatalf("lockouts should carry into the reopened window, got %v", got)
	}
	if !b.lockedOut("ROOM", "p1") {
		t.Fatal("lockedOut should agree")
	}
}

func TestResetLockoutsClearsPenalties(t *testing.T) {
	b := newBuzzerArbiter(clockwork.NewFakeClock())

	b.open("ROOM")
	b.applyLockout("ROOM", "p1", time.Minute)
	b.resetLockouts("ROOM")
	b.open("ROOM")

	if got := b.tryBuzz("ROOM", "p1"); got != buzzWon {
		t.Fatalf("penalties should not leak past a reset, got %v", got)
	}
}

func TestRoomsAreIsolated(t *testing.T) {
	b := newBuzzerArbiter(clockwork.NewFakeClock())

	b.open("AAAA")
	b.applyLockout("AAAA", "p1", time.Minute)
	b.open("BBBB")

	if got := b.tryBuzz("BBBB", "p1"); got != buzzWon {
		t.Fatalf("lockouts must not cross rooms, got %v", got)
	}
	if got := b.tryBuzz("AAAA", "p1"); got != buzzLockout {
		t.Fatalf("expected lockout in the original room, got %v", got)
	}
}
