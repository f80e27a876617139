package main

import (
	"crypto/rand"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// round identifies where a room is in its lifecycle.
type round int

const (
	roundLobby round = iota
	roundOne
	roundTwo
	roundFinal
	roundDone
)

func (r round) String() string {
	switch r {
	case roundLobby:
		return "lobby"
	case roundOne:
		return "round1"
	case roundTwo:
		return "round2"
	case roundFinal:
		return "final"
	case roundDone:
		return "complete"
	}
	return "unknown"
}

const (
	boardCategories = 6
	boardRows       = 5
)

type Clue struct {
	ID              string
	Category        string
	Text            string
	ReferenceAnswer string
	Value           int
	Revealed        bool
	IsDailyDouble   bool
}

type Board struct {
	Categories []string
	Clues      [][]*Clue // [category][row]
}

type FinalClue struct {
	Category        string
	Text            string
	ReferenceAnswer string
}

// allRevealed reports whether every clue on the board has been played.
func (b *Board) allRevealed() bool {
	for _, column := range b.Clues {
		for _, clue := range column {
			if !clue.Revealed {
				return false
			}
		}
	}
	return true
}

func (b *Board) view() boardView {
	view := boardView{
		Categories: b.Categories,
		Clues:      make([][]clueCell, len(b.Clues)),
	}
	for i, column := range b.Clues {
		view.Clues[i] = make([]clueCell, len(column))
		for j, clue := range column {
			view.Clues[i][j] = clueCell{
				Value:    clue.Value,
				Revealed: clue.Revealed,
			}
		}
	}
	return view
}

// BoardProvider supplies boards and the closing clue. The session treats it
// as an opaque capability that may fail; a failure during game start is
// surfaced as a retryable condition rather than crashing the room.
type BoardProvider interface {
	Board(r round) (*Board, error)
	FinalClue() (*FinalClue, error)
}

// Embedded sample clue set, used unless --board-file points elsewhere.
//
//go:embed trivia/clues.json
var embeddedClues []byte

type clueData struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

type categoryData struct {
	Name  string     `json:"name"`
	Clues []clueData `json:"clues"`
}

type finalData struct {
	Category string `json:"category"`
	Text     string `json:"text"`
	Answer   string `json:"answer"`
}

type clueSet struct {
	Categories []categoryData `json:"categories"`
	Finals     []finalData    `json:"finals"`
}

// sampleBoardProvider builds boards from a static clue set: six random
// categories per round, standard values, and Daily Doubles placed per the
// board rules.
type sampleBoardProvider struct {
	set clueSet
}

func newSampleBoardProvider(path string) (*sampleBoardProvider, error) {
	data := embeddedClues
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading board file: %w", err)
		}
	}

	var set clueSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing clue set: %w", err)
	}

	if len(set.Categories) < boardCategories {
		return nil, fmt.Errorf("clue set has %d categories, need at least %d", len(set.Categories), boardCategories)
	}
	for _, category := range set.Categories {
		if len(category.Clues) < boardRows {
			return nil, fmt.Errorf("category %q has %d clues, need at least %d", category.Name, len(category.Clues), boardRows)
		}
	}
	if len(set.Finals) == 0 {
		return nil, fmt.Errorf("clue set has no final clues")
	}

	return &sampleBoardProvider{set: set}, nil
}

func (p *sampleBoardProvider) Board(r round) (*Board, error) {
	var baseValue, dailyDoubles int
	switch r {
	case roundOne:
		baseValue, dailyDoubles = 200, 1
	case roundTwo:
		baseValue, dailyDoubles = 400, 2
	default:
		return nil, fmt.Errorf("no board for round %s", r)
	}

	indices := make([]int, len(p.set.Categories))
	for i := range indices {
		indices[i] = i
	}
	shuffle(indices)

	board := &Board{
		Categories: make([]string, boardCategories),
		Clues:      make([][]*Clue, boardCategories),
	}

	for i := 0; i < boardCategories; i++ {
		category := p.set.Categories[indices[i]]
		board.Categories[i] = category.Name
		board.Clues[i] = make([]*Clue, boardRows)
		for j := 0; j < boardRows; j++ {
			board.Clues[i][j] = &Clue{
				ID:              uuid.NewString(),
				Category:        category.Name,
				Text:            category.Clues[j].Text,
				ReferenceAnswer: category.Clues[j].Answer,
				Value:           baseValue * (j + 1),
			}
		}
	}

	placeDailyDoubles(board, dailyDoubles)

	return board, nil
}

func (p *sampleBoardProvider) FinalClue() (*FinalClue, error) {
	final := p.set.Finals[randInt(len(p.set.Finals))]

	return &FinalClue{
		Category:        final.Category,
		Text:            final.Text,
		ReferenceAnswer: final.Answer,
	}, nil
}

// Row weights for Daily Double placement: never the lowest-value row, and
// biased toward the higher-value rows.
var dailyDoubleRows = []int{1, 2, 2, 3, 3, 3, 4, 4, 4, 4}

// placeDailyDoubles marks n clues as Daily Doubles, in distinct categories.
func placeDailyDoubles(board *Board, n int) {
	used := make(map[int]bool)

	for placed := 0; placed < n; placed++ {
		category := randInt(len(board.Clues))
		for used[category] {
			category = randInt(len(board.Clues))
		}
		used[category] = true

		row := dailyDoubleRows[randInt(len(dailyDoubleRows))]
		board.Clues[category][row].IsDailyDouble = true
	}
}

// randInt returns a random int in [0, n) from crypto/rand.
func randInt(n int) int {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return int(b[0]) % n
}

// Fisher-Yates shuffle using crypto/rand
func shuffle(values []int) {
	for i := len(values) - 1; i > 0; i-- {
		j := randInt(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
