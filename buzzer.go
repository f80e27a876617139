package main

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type buzzResult int

const (
	buzzWon buzzResult = iota
	buzzTooLate
	buzzLockout
)

// buzzerArbiter resolves "who buzzed first" for one open buzz window per
// room. Commands for a room are processed one at a time, so the first tryBuzz
// processed wins by arrival order -- claimed client timestamps are never
// consulted. Lockouts survive across re-opened windows for the same clue.
type buzzerArbiter struct {
	clock clockwork.Clock

	mu      sync.Mutex
	windows map[string]*buzzState
}

type buzzState struct {
	open     bool
	winnerID string
	lockouts map[string]time.Time // participant ID -> unlock time
}

func newBuzzerArbiter(clock clockwork.Clock) *buzzerArbiter {
	return &buzzerArbiter{
		clock:   clock,
		windows: make(map[string]*buzzState),
	}
}

func (b *buzzerArbiter) stateFor(code string) *buzzState {
	state, ok := b.windows[code]
	if !ok {
		state = &buzzState{
			lockouts: make(map[string]time.Time),
		}
		b.windows[code] = state
	}
	return state
}

// open starts accepting buzzes for the room. Existing lockouts are kept so a
// participant penalized in the previous window stays penalized in this one.
func (b *buzzerArbiter) open(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.stateFor(code)
	state.open = true
	state.winnerID = ""
}

func (b *buzzerArbiter) close(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if state, ok := b.windows[code]; ok {
		state.open = false
	}
}

// tryBuzz arbitrates a single buzz. A locked-out participant is rejected even
// if they are first; the first non-locked buzz wins and closes the window, so
// at most one participant ever wins a given window.
func (b *buzzerArbiter) tryBuzz(code, participantID string) buzzResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.windows[code]
	if !ok || !state.open {
		return buzzTooLate
	}

	if until, locked := state.lockouts[participantID]; locked && b.clock.Now().Before(until) {
		return buzzLockout
	}

	state.winnerID = participantID
	state.open = false

	return buzzWon
}

// applyLockout inserts or refreshes a lockout entry for the participant.
func (b *buzzerArbiter) applyLockout(code, participantID string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.stateFor(code)
	state.lockouts[participantID] = b.clock.Now().Add(d)
}

func (b *buzzerArbiter) lockedOut(code, participantID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.windows[code]
	if !ok {
		return false
	}

	until, locked := state.lockouts[participantID]

	return locked && b.clock.Now().Before(until)
}

// resetLockouts drops all lockouts for the room; called when a clue is
// resolved so penalties never leak into the next clue.
func (b *buzzerArbiter) resetLockouts(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if state, ok := b.windows[code]; ok {
		state.open = false
		state.lockouts = make(map[string]time.Time)
	}
}

// clear forgets the room entirely; called when the room is destroyed.
func (b *buzzerArbiter) clear(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.windows, code)
}
