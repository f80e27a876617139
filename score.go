package main

import (
	"sync"
)

// scoreLedger tracks participant scores per room. Deltas are applied exactly
// once, inside the state transition that decided the judging outcome -- the
// session never calls apply speculatively.
type scoreLedger struct {
	mu     sync.RWMutex
	scores map[string]map[string]int // room code -> participant ID -> score
}

func newScoreLedger() *scoreLedger {
	return &scoreLedger{
		scores: make(map[string]map[string]int),
	}
}

func (l *scoreLedger) apply(code, participantID string, delta int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	room, ok := l.scores[code]
	if !ok {
		room = make(map[string]int)
		l.scores[code] = room
	}
	room[participantID] += delta

	return room[participantID]
}

func (l *scoreLedger) get(code, participantID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.scores[code][participantID]
}

func (l *scoreLedger) snapshot(code string) map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]int, len(l.scores[code]))
	for id, score := range l.scores[code] {
		out[id] = score
	}

	return out
}

// drop forgets a room's scores entirely; called when the room is destroyed.
func (l *scoreLedger) drop(code string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.scores, code)
}
