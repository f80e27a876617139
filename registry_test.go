package main

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestRegistry() (*registry, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()

	return newRegistry(&Config{}, clock, &stubProvider{}, newNormalizedJudge()), clock
}

func waitGone(t *testing.T, reg *registry, code string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for reg.get(code) != nil {
		if time.Now().After(deadline) {
			t.Fatalf("room %s was never destroyed", code)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRoomCodeFormat(t *testing.T) {
	reg, _ := newTestRegistry()

	r := reg.createRoom("host")
	defer reg.destroy(r.code)

	if len(r.code) != roomCodeLength {
		t.Fatalf("expected a %d character code, got %q", roomCodeLength, r.code)
	}
	for _, c := range r.code {
		if !strings.ContainsRune(roomCodeAlphabet, c) {
			t.Fatalf("code %q uses %q, outside the alphabet", r.code, c)
		}
	}

	if reg.get(r.code) != r {
		t.Fatal("lookup by code should return the room")
	}
	if reg.get("ZZZZ") != nil {
		t.Fatal("lookup of an unknown code should return nil")
	}
}

func TestCreateRoomAvoidsCollisions(t *testing.T) {
	reg, _ := newTestRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		r := reg.createRoom("host")
		if seen[r.code] {
			t.Fatalf("duplicate room code %s", r.code)
		}
		seen[r.code] = true
	}

	for code := range seen {
		reg.destroy(code)
	}
}

func TestSweepDestroysAbandonedRoom(t *testing.T) {
	reg, clock := newTestRegistry()

	r := reg.createRoom("host")
	code := r.code

	// Three sweep intervals comfortably clear the grace period.
	clock.Advance(sweepGrace / 2)
	clock.Advance(sweepGrace / 2)
	clock.Advance(sweepGrace / 2)

	waitGone(t, reg, code)
}

func TestSweepSparesOccupiedRoom(t *testing.T) {
	reg, clock := newTestRegistry()

	r := reg.createRoom("host")
	defer reg.destroy(r.code)

	if !r.attach(newTestClient("host")) {
		t.Fatal("attach to a fresh room should succeed")
	}
	// Let the room loop process the registration.
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 6; i++ {
		clock.Advance(sweepGrace / 2)
	}
	time.Sleep(100 * time.Millisecond)

	if reg.get(r.code) == nil {
		t.Fatal("an occupied room must never be swept")
	}
}

func TestDestroyedRoomRefusesAttach(t *testing.T) {
	reg, _ := newTestRegistry()

	r := reg.createRoom("host")
	reg.destroy(r.code)

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("room never shut down")
	}

	if r.attach(newTestClient("host")) {
		t.Fatal("attach to a destroyed room should fail")
	}
	if reg.get(r.code) != nil {
		t.Fatal("destroyed room should be gone from the table")
	}
}
