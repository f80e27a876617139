package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedClueSetLoads(t *testing.T) {
	if _, err := newSampleBoardProvider(""); err != nil {
		t.Fatalf("embedded clue set should load: %v", err)
	}
}

func TestBoardLayout(t *testing.T) {
	provider, err := newSampleBoardProvider("")
	if err != nil {
		t.Fatalf("newSampleBoardProvider: %v", err)
	}

	cases := []struct {
		round        round
		baseValue    int
		dailyDoubles int
	}{
		{roundOne, 200, 1},
		{roundTwo, 400, 2},
	}

	for _, tc := range cases {
		// Placement and category choice are random, so sample repeatedly.
		for i := 0; i < 20; i++ {
			board, err := provider.Board(tc.round)
			if err != nil {
				t.Fatalf("Board(%s): %v", tc.round, err)
			}

			if len(board.Categories) != boardCategories || len(board.Clues) != boardCategories {
				t.Fatalf("%s: expected %d categories, got %d/%d", tc.round, boardCategories, len(board.Categories), len(board.Clues))
			}

			seenNames := make(map[string]bool)
			for _, name := range board.Categories {
				if seenNames[name] {
					t.Fatalf("%s: category %q appears twice", tc.round, name)
				}
				seenNames[name] = true
			}

			ddCategories := make(map[int]bool)
			ddCount := 0
			for c, column := range board.Clues {
				if len(column) != boardRows {
					t.Fatalf("%s: expected %d rows, got %d", tc.round, boardRows, len(column))
				}
				for r, clue := range column {
					if want := tc.baseValue * (r + 1); clue.Value != want {
						t.Fatalf("%s: clue [%d][%d] worth %d, want %d", tc.round, c, r, clue.Value, want)
					}
					if clue.Revealed {
						t.Fatalf("%s: clue [%d][%d] starts revealed", tc.round, c, r)
					}
					if clue.IsDailyDouble {
						ddCount++
						if r == 0 {
							t.Fatalf("%s: daily double placed on the lowest-value row", tc.round)
						}
						if ddCategories[c] {
							t.Fatalf("%s: two daily doubles in category %d", tc.round, c)
						}
						ddCategories[c] = true
					}
				}
			}
			if ddCount != tc.dailyDoubles {
				t.Fatalf("%s: expected %d daily doubles, got %d", tc.round, tc.dailyDoubles, ddCount)
			}
		}
	}
}

func TestNoBoardOutsidePlayableRounds(t *testing.T) {
	provider, err := newSampleBoardProvider("")
	if err != nil {
		t.Fatalf("newSampleBoardProvider: %v", err)
	}

	for _, r := range []round{roundLobby, roundFinal, roundDone} {
		if _, err := provider.Board(r); err == nil {
			t.Fatalf("expected an error for round %s", r)
		}
	}
}

func TestFinalClueComplete(t *testing.T) {
	provider, err := newSampleBoardProvider("")
	if err != nil {
		t.Fatalf("newSampleBoardProvider: %v", err)
	}

	final, err := provider.FinalClue()
	if err != nil {
		t.Fatalf("FinalClue: %v", err)
	}
	if final.Category == "" || final.Text == "" || final.ReferenceAnswer == "" {
		t.Fatalf("final clue has empty fields: %+v", final)
	}
}

func TestAllRevealed(t *testing.T) {
	board := staticBoard(roundOne)

	if board.allRevealed() {
		t.Fatal("fresh board should not be all revealed")
	}

	for _, column := range board.Clues {
		for _, clue := range column {
			clue.Revealed = true
		}
	}

	if !board.allRevealed() {
		t.Fatal("fully played board should report all revealed")
	}
}

func TestBoardFileErrors(t *testing.T) {
	if _, err := newSampleBoardProvider("/nonexistent/clues.json"); err == nil {
		t.Fatal("expected an error for a missing board file")
	}

	path := filepath.Join(t.TempDir(), "clues.json")
	if err := os.WriteFile(path, []byte(`{"categories":[],"finals":[]}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := newSampleBoardProvider(path); err == nil {
		t.Fatal("expected an error for a clue set with too few categories")
	}

	if err := os.WriteFile(path, []byte(`not json`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := newSampleBoardProvider(path); err == nil {
		t.Fatal("expected an error for malformed json")
	}
}
