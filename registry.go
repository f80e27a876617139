package main

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// Room codes avoid easily-confused glyphs (I/O/0/1) so they survive
	// being read aloud or typed from a phone.
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 4

	// A room whose every participant has been disconnected for longer than
	// this is destroyed by the sweep.
	sweepGrace = 60000 * time.Millisecond
)

// registry is the process-wide table of room code -> live room. It owns room
// creation, lookup, and the periodic sweep of abandoned rooms. It is plain
// injectable state so tests can spin up isolated instances.
type registry struct {
	cfg    *Config
	clock  clockwork.Clock
	timers *timerCoordinator
	buzzer *buzzerArbiter
	scores *scoreLedger
	boards BoardProvider
	judge  AnswerJudge

	mu    sync.RWMutex
	rooms map[string]*room
}

// sweepOwner is the pseudo room code the registry uses for its own timer.
const sweepOwner = "_registry"

func newRegistry(cfg *Config, clock clockwork.Clock, boards BoardProvider, judge AnswerJudge) *registry {
	reg := &registry{
		cfg:    cfg,
		clock:  clock,
		timers: newTimerCoordinator(clock),
		buzzer: newBuzzerArbiter(clock),
		scores: newScoreLedger(),
		boards: boards,
		judge:  judge,
		rooms:  make(map[string]*room),
	}

	reg.timers.scheduleEvery(sweepOwner, "sweep", sweepGrace/2, reg.sweep)

	return reg
}

// newRoomCode generates a code not currently in use. Caller must hold reg.mu.
func (reg *registry) newRoomCodeLocked() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeAlphabet[randInt(len(roomCodeAlphabet))]
		}

		if _, exists := reg.rooms[string(code)]; !exists {
			return string(code)
		}
	}
}

// createRoom makes a new room owned by the given host and starts its loop.
func (reg *registry) createRoom(hostID string) *room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.newRoomCodeLocked()
	r := newRoom(reg, code, hostID)
	reg.rooms[code] = r

	go r.run()

	logf(reg.cfg, "GAMES: Created room %s", code)

	return r
}

func (reg *registry) get(code string) *room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return reg.rooms[code]
}

// destroy removes the room from the table and asks its loop to shut down.
// The shutdown command travels through the room's own queue, so any command
// already being processed completes first.
func (reg *registry) destroy(code string) {
	reg.mu.Lock()
	r, ok := reg.rooms[code]
	if ok {
		delete(reg.rooms, code)
	}
	reg.mu.Unlock()

	if !ok {
		return
	}

	r.enqueue(command{kind: cmdShutdown})

	logf(reg.cfg, "GAMES: Destroyed room %s", code)
}

// remove drops the table entry without signaling the room; used by a room
// that is already shutting itself down.
func (reg *registry) remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	delete(reg.rooms, code)
}

// sweep destroys rooms abandoned for longer than the grace period.
func (reg *registry) sweep() {
	cutoff := reg.clock.Now().Add(-sweepGrace)

	reg.mu.RLock()
	var abandoned []string
	for code, r := range reg.rooms {
		if since := r.emptySinceTime(); !since.IsZero() && since.Before(cutoff) {
			abandoned = append(abandoned, code)
		}
	}
	reg.mu.RUnlock()

	for _, code := range abandoned {
		logf(reg.cfg, "GAMES: Sweeping abandoned room %s", code)
		reg.destroy(code)
	}
}
