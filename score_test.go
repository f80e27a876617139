package main

import "testing"

func TestScoreLedger(t *testing.T) {
	ledger := newScoreLedger()

	if got := ledger.get("ROOM", "p1"); got != 0 {
		t.Fatalf("unknown participant should score 0, got %d", got)
	}

	if got := ledger.apply("ROOM", "p1", 400); got != 400 {
		t.Fatalf("apply should return the new score, got %d", got)
	}
	if got := ledger.apply("ROOM", "p1", -600); got != -200 {
		t.Fatalf("scores can go negative, got %d", got)
	}
	ledger.apply("ROOM", "p2", 1000)
	ledger.apply("OTHER", "p1", 5)

	if got := ledger.get("ROOM", "p1"); got != -200 {
		t.Fatalf("expected -200, got %d", got)
	}
	if got := ledger.get("OTHER", "p1"); got != 5 {
		t.Fatalf("rooms must not share scores, got %d", got)
	}

	snap := ledger.snapshot("ROOM")
	if len(snap) != 2 || snap["p1"] != -200 || snap["p2"] != 1000 {
		t.Fatalf("unexpected snapshot %v", snap)
	}

	// The snapshot is a copy.
	snap["p1"] = 9999
	if got := ledger.get("ROOM", "p1"); got != -200 {
		t.Fatalf("mutating a snapshot must not touch the ledger, got %d", got)
	}

	ledger.drop("ROOM")
	if got := ledger.get("ROOM", "p2"); got != 0 {
		t.Fatalf("dropped room should be forgotten, got %d", got)
	}
	if got := ledger.get("OTHER", "p1"); got != 5 {
		t.Fatalf("drop must not touch other rooms, got %d", got)
	}
}
