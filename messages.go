package main

import (
	"fmt"
)

// Error kinds carried by the "error" message. All of them are recoverable at
// the room level: the room keeps serving commands after rejecting one.
type errorKind string

const (
	errRoomNotFound     errorKind = "RoomNotFound"
	errForbidden        errorKind = "Forbidden"
	errInvalidPhase     errorKind = "InvalidPhase"
	errAlreadyRevealed  errorKind = "AlreadyRevealed"
	errInvalidWager     errorKind = "InvalidWager"
	errBoardUnavailable errorKind = "BoardUnavailable"
	errNameTaken        errorKind = "NameTaken"
	errInternal         errorKind = "Internal"
)

// rejection is the outcome of a command that was valid to receive but not
// valid to apply. It is delivered only to the actor, never broadcast.
type rejection struct {
	kind    errorKind
	message string
}

func (r *rejection) Error() string {
	return string(r.kind) + ": " + r.message
}

func reject(kind errorKind, format string, args ...any) *rejection {
	return &rejection{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`                // "join", "start_game", "select_clue", "reading_complete", "dd_wager", "buzz", "answer", "judge_answer", "return_to_board", "end_game", "final_wager", "final_answer"
	Name     string `json:"name,omitempty"`      // join
	Category int    `json:"category,omitempty"`  // select_clue
	Clue     int    `json:"clue,omitempty"`      // select_clue
	Amount   *int   `json:"amount,omitempty"`    // dd_wager / final_wager (pointer so a $0 wager is distinguishable from absent)
	Text     string `json:"text,omitempty"`      // answer / final_answer
	TargetID string `json:"target_id,omitempty"` // judge_answer
	Correct  *bool  `json:"correct,omitempty"`   // judge_answer
}

// commandKind enumerates every event a room can process: one variant per
// inbound client command, plus the internal timer-driven ones. Timer firings
// re-enter the room through the same queue as client commands, so nothing
// ever races the per-room loop.
type commandKind int

const (
	cmdJoin commandKind = iota
	cmdStartGame
	cmdSelectClue
	cmdReadingComplete
	cmdDailyDoubleWager
	cmdBuzz
	cmdAnswer
	cmdJudgeAnswer
	cmdReturnToBoard
	cmdEndGame
	cmdFinalWager
	cmdFinalAnswer

	// internal, enqueued by timer callbacks
	cmdBuzzExpired
	cmdAnswerExpired
	cmdAutoReveal
	cmdTick
	cmdShutdown
)

type command struct {
	kind      commandKind
	client    *client // originator, nil for timer-driven commands
	actor     string  // participant ID of the originator
	name      string
	category  int
	clue      int
	amount    int
	hasAmount bool
	text      string
	targetID  string
	correct   bool
	seq       uint64 // clue-lifecycle generation, stale timer commands are dropped
}

// Views shared by several outbound messages

type participantView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsHost    bool   `json:"is_host"`
	Connected bool   `json:"connected"`
}

type clueCell struct {
	Value    int  `json:"value"`
	Revealed bool `json:"revealed"`
}

type boardView struct {
	Categories []string     `json:"categories"`
	Clues      [][]clueCell `json:"clues"`
}

type clueView struct {
	Category      string `json:"category"`
	CategoryIndex int    `json:"category_index"`
	ClueIndex     int    `json:"clue_index"`
	Value         int    `json:"value"`
	Text          string `json:"text,omitempty"` // withheld on Daily Doubles until the wager is in
	IsDailyDouble bool   `json:"is_daily_double"`
}

// Messages sent to clients

// SessionInfoMessage is sent immediately on connect so the client knows its
// role and the current room state.
type SessionInfoMessage struct {
	Type       string            `json:"type"` // "session_info"
	Code       string            `json:"code"`
	IsHost     bool              `json:"is_host"`
	IsExisting bool              `json:"is_existing"`
	Name       string            `json:"name,omitempty"`
	Phase      string            `json:"phase"`
	Round      string            `json:"round"`
	Roster     []participantView `json:"roster"`
	Board      *boardView        `json:"board,omitempty"`
	Selecting  string            `json:"selecting,omitempty"`
}

type RoomCreatedMessage struct {
	Type string `json:"type"` // "room_created"
	Code string `json:"code"`
}

type ParticipantJoinedMessage struct {
	Type        string            `json:"type"` // "participant_joined"
	Participant participantView   `json:"participant"`
	Roster      []participantView `json:"roster"`
}

type GameStartedMessage struct {
	Type       string    `json:"type"` // "game_started"
	Categories []string  `json:"categories"`
	Board      boardView `json:"board"`
	Selecting  string    `json:"selecting"`
}

type ClueSelectedMessage struct {
	Type string   `json:"type"` // "clue_selected"
	Clue clueView `json:"clue"`
}

// ClueReadingMessage carries the clue text of a Daily Double once the wager
// has been accepted.
type ClueReadingMessage struct {
	Type string   `json:"type"` // "clue_reading"
	Clue clueView `json:"clue"`
}

type BuzzWindowOpenedMessage struct {
	Type     string `json:"type"`     // "buzz_window_opened"
	Deadline int64  `json:"deadline"` // unix milliseconds
}

type BuzzRejectedMessage struct {
	Type   string `json:"type"`   // "buzz_rejected"
	Reason string `json:"reason"` // "too_late" or "lockout"
}

type ParticipantBuzzedMessage struct {
	Type          string `json:"type"` // "participant_buzzed"
	ParticipantID string `json:"participant_id"`
	Deadline      int64  `json:"deadline"` // answer deadline, unix milliseconds
}

type WagerPlacedMessage struct {
	Type          string `json:"type"` // "wager_placed"
	ParticipantID string `json:"participant_id"`
}

type AnswerSubmittedMessage struct {
	Type          string `json:"type"` // "answer_submitted"
	ParticipantID string `json:"participant_id"`
	Text          string `json:"text"`
}

type AnswerJudgedMessage struct {
	Type          string `json:"type"` // "answer_judged"
	ParticipantID string `json:"participant_id"`
	Correct       bool   `json:"correct"`
	NewScore      int    `json:"new_score"`
}

type TimeExpiredMessage struct {
	Type            string `json:"type"` // "time_expired"
	ReferenceAnswer string `json:"reference_answer"`
}

type ReturnedToBoardMessage struct {
	Type      string    `json:"type"` // "returned_to_board"
	Board     boardView `json:"board"`
	Selecting string    `json:"selecting"`
}

type RoundChangedMessage struct {
	Type      string    `json:"type"` // "round_changed"
	Round     string    `json:"round"`
	Board     boardView `json:"board"`
	Selecting string    `json:"selecting"`
}

type FinalRoundEnteredMessage struct {
	Type     string   `json:"type"` // "final_round_entered"
	Category string   `json:"category"`
	Eligible []string `json:"eligible"`
}

type FinalClueMessage struct {
	Type     string `json:"type"` // "final_clue"
	Category string `json:"category"`
	Text     string `json:"text"`
}

type FinalWagersRevealedMessage struct {
	Type   string         `json:"type"` // "final_wagers_revealed"
	Wagers map[string]int `json:"wagers"`
}

type FinalAnswerJudgedMessage struct {
	Type          string `json:"type"` // "final_answer_judged"
	ParticipantID string `json:"participant_id"`
	Answer        string `json:"answer"`
	Correct       bool   `json:"correct"`
	NewScore      int    `json:"new_score"`
}

type GameOverMessage struct {
	Type        string         `json:"type"` // "game_over"
	Winners     []string       `json:"winners"`
	FinalScores map[string]int `json:"final_scores"`
}

type ParticipantDisconnectedMessage struct {
	Type          string `json:"type"` // "participant_disconnected"
	ParticipantID string `json:"participant_id"`
}

type HostDisconnectedMessage struct {
	Type string `json:"type"` // "host_disconnected"
}

type TimerTickMessage struct {
	Type      string `json:"type"` // "timer_tick"
	Remaining int64  `json:"remaining"` // milliseconds
}

type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func errorMessageFor(rej *rejection) ErrorMessage {
	return ErrorMessage{
		Type:    "error",
		Kind:    string(rej.kind),
		Message: rej.message,
	}
}
