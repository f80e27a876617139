package main

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type phase int

const (
	phaseLobby phase = iota
	phaseBoardView
	phaseClueReading
	phaseDDWagering
	phaseBuzzing
	phaseAnswering
	phaseJudged
	phaseFinalWagering
	phaseFinalAnswering
	phaseFinalRevealing
	phaseGameOver
)

func (p phase) String() string {
	switch p {
	case phaseLobby:
		return "lobby"
	case phaseBoardView:
		return "board_view"
	case phaseClueReading:
		return "clue_reading"
	case phaseDDWagering:
		return "dd_wagering"
	case phaseBuzzing:
		return "buzzing"
	case phaseAnswering:
		return "answering"
	case phaseJudged:
		return "judged"
	case phaseFinalWagering:
		return "final_wagering"
	case phaseFinalAnswering:
		return "final_answering"
	case phaseFinalRevealing:
		return "final_revealing"
	case phaseGameOver:
		return "game_over"
	}
	return "unknown"
}

const (
	buzzWindowDuration   = 5000 * time.Millisecond
	answerWindowDuration = 5000 * time.Millisecond
	rebuzzLockout        = 200 * time.Millisecond
	revealDelay          = 3000 * time.Millisecond
	tickInterval         = time.Second
)

type participant struct {
	id        string
	name      string
	isHost    bool
	connected bool
}

type activeClue struct {
	clue            *Clue
	categoryIndex   int
	clueIndex       int
	buzzedID        string
	submittedAnswer string
	wager           int
	hasWager        bool
}

// room owns one match: its participants, board, and phase. A single
// goroutine (run) consumes every command for the room, one at a time, in
// arrival order -- that serialization is what makes buzzer arbitration and
// phase transitions deterministic without any locking of room state. Timer
// expirations re-enter through the same queue.
type room struct {
	reg   *registry
	cfg   *Config
	code  string
	clock clockwork.Clock

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	commands   chan command
	done       chan struct{}

	hostID       string
	participants map[string]*participant
	joinOrder    []string
	round        round
	phase        phase
	board        *Board
	active       *activeClue
	final        *finalRound
	selectingID  string
	createdAt    time.Time

	// seq is bumped whenever the active clue lifecycle restarts; timer-driven
	// commands carry the seq they were scheduled under and stale ones are
	// dropped on arrival.
	seq      uint64
	deadline time.Time
	stopping bool

	mu         sync.Mutex // guards emptySince, read by the registry sweep
	emptySince time.Time
}

func newRoom(reg *registry, code, hostID string) *room {
	return &room{
		reg:          reg,
		cfg:          reg.cfg,
		code:         code,
		clock:        reg.clock,
		clients:      make(map[*client]bool),
		register:     make(chan *client),
		unregister:   make(chan *client),
		commands:     make(chan command, 64),
		done:         make(chan struct{}),
		hostID:       hostID,
		participants: make(map[string]*participant),
		round:        roundLobby,
		phase:        phaseLobby,
		createdAt:    reg.clock.Now(),
		// A freshly created room counts as empty until someone connects, so
		// rooms nobody ever joins still get swept.
		emptySince: reg.clock.Now(),
	}
}

func (r *room) run() {
	for {
		select {
		case c := <-r.register:
			r.handleRegister(c)
		case c := <-r.unregister:
			r.handleUnregister(c)
		case cmd := <-r.commands:
			if cmd.kind == cmdShutdown {
				r.shutdown()
				return
			}
			r.dispatch(cmd)
			if r.stopping {
				r.shutdown()
				return
			}
		}
	}
}

// enqueue delivers a command to the room loop, giving up if the room has
// already shut down.
func (r *room) enqueue(cmd command) {
	select {
	case r.commands <- cmd:
	case <-r.done:
	}
}

func (r *room) attach(c *client) bool {
	select {
	case r.register <- c:
		return true
	case <-r.done:
		return false
	}
}

func (r *room) detach(c *client) {
	select {
	case r.unregister <- c:
	case <-r.done:
	}
}

func (r *room) emptySinceTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.emptySince
}

func (r *room) setEmptySince(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.emptySince = t
}

func (r *room) shutdown() {
	close(r.done)

	r.reg.timers.cancelAll(r.code)
	r.reg.buzzer.clear(r.code)
	r.reg.scores.drop(r.code)
	r.reg.remove(r.code)

	for c := range r.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(r.clients, c)
	}
}

// dispatch runs one command through the state machine. A panic while
// handling a single command is contained here: the actor gets a generic
// error and the room keeps serving.
func (r *room) dispatch(cmd command) {
	defer func() {
		if p := recover(); p != nil {
			logf(r.cfg, "GAMES: Recovered from panic in room %s: %v", r.code, p)
			r.sendError(cmd.client, reject(errInternal, "something went wrong handling that command"))
		}
	}()

	if rej := r.handle(cmd); rej != nil {
		r.sendError(cmd.client, rej)
	}
}

// handle validates the command against the current phase and applies the
// transition. Every invalid command yields an explicit rejection; none of
// them disturb room state.
func (r *room) handle(cmd command) *rejection {
	switch cmd.kind {
	case cmdJoin:
		return r.handleJoin(cmd)
	case cmdStartGame:
		return r.handleStartGame(cmd)
	case cmdSelectClue:
		return r.handleSelectClue(cmd)
	case cmdReadingComplete:
		return r.handleReadingComplete(cmd)
	case cmdDailyDoubleWager:
		return r.handleDailyDoubleWager(cmd)
	case cmdBuzz:
		return r.handleBuzz(cmd)
	case cmdAnswer:
		return r.handleAnswer(cmd)
	case cmdJudgeAnswer:
		return r.handleJudgeAnswer(cmd)
	case cmdReturnToBoard:
		return r.handleReturnToBoard(cmd)
	case cmdEndGame:
		return r.handleEndGame(cmd)
	case cmdFinalWager:
		return r.handleFinalWager(cmd)
	case cmdFinalAnswer:
		return r.handleFinalAnswer(cmd)
	case cmdBuzzExpired:
		r.handleBuzzExpired(cmd)
	case cmdAnswerExpired:
		r.handleAnswerExpired(cmd)
	case cmdAutoReveal:
		r.handleAutoReveal(cmd)
	case cmdTick:
		r.handleTick(cmd)
	}
	return nil
}

// =============================================================================
// CONNECTION LIFECYCLE
// =============================================================================

func (r *room) handleRegister(c *client) {
	r.clients[c] = true
	r.setEmptySince(time.Time{})

	p, existing := r.participants[c.playerID]
	if existing && !p.connected {
		p.connected = true
		r.broadcast(ParticipantJoinedMessage{
			Type:        "participant_joined",
			Participant: r.participantView(p),
			Roster:      r.roster(),
		})
	}

	info := SessionInfoMessage{
		Type:       "session_info",
		Code:       r.code,
		IsHost:     c.playerID == r.hostID,
		IsExisting: existing,
		Phase:      r.phase.String(),
		Round:      r.round.String(),
		Roster:     r.roster(),
		Selecting:  r.selectingID,
	}
	if existing {
		info.Name = p.name
	}
	if r.board != nil {
		view := r.board.view()
		info.Board = &view
	}

	r.send(c, info)
}

func (r *room) handleUnregister(c *client) {
	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		close(c.send)
	}

	// Another tab may still be connected for the same participant
	stillConnected := false
	for other := range r.clients {
		if other.playerID == c.playerID {
			stillConnected = true
			break
		}
	}

	if p, ok := r.participants[c.playerID]; ok && !stillConnected && p.connected {
		p.connected = false
		if p.isHost {
			r.broadcast(HostDisconnectedMessage{Type: "host_disconnected"})
		} else {
			r.broadcast(ParticipantDisconnectedMessage{
				Type:          "participant_disconnected",
				ParticipantID: p.id,
			})
		}
	}

	if len(r.clients) == 0 {
		r.setEmptySince(r.clock.Now())
	}
}

// =============================================================================
// LOBBY
// =============================================================================

func (r *room) handleJoin(cmd command) *rejection {
	if r.phase == phaseGameOver {
		return reject(errInvalidPhase, "this game is over")
	}

	name := strings.TrimSpace(cmd.name)
	if name == "" {
		return reject(errForbidden, "a display name is required")
	}

	if p, ok := r.participants[cmd.actor]; ok {
		// Rejoin under the existing identity; the original name sticks.
		p.connected = true
		r.broadcast(ParticipantJoinedMessage{
			Type:        "participant_joined",
			Participant: r.participantView(p),
			Roster:      r.roster(),
		})
		return nil
	}

	for _, id := range r.joinOrder {
		other := r.participants[id]
		if other.connected && strings.EqualFold(other.name, name) {
			return reject(errNameTaken, "the name %q is already taken", name)
		}
	}

	p := &participant{
		id:        cmd.actor,
		name:      name,
		isHost:    cmd.actor == r.hostID,
		connected: true,
	}
	r.participants[p.id] = p
	r.joinOrder = append(r.joinOrder, p.id)

	logf(r.cfg, "GAMES: %q joined room %s", name, r.code)

	if p.isHost {
		r.sendToParticipant(p.id, RoomCreatedMessage{Type: "room_created", Code: r.code})
	}

	r.broadcast(ParticipantJoinedMessage{
		Type:        "participant_joined",
		Participant: r.participantView(p),
		Roster:      r.roster(),
	})

	return nil
}

func (r *room) handleStartGame(cmd command) *rejection {
	if r.phase != phaseLobby {
		return reject(errInvalidPhase, "the game has already started")
	}
	if cmd.actor != r.hostID {
		return reject(errForbidden, "only the host can start the game")
	}
	if r.contestantCount() < 1 {
		return reject(errForbidden, "at least one participant besides the host is needed")
	}

	// The provider call is the only blocking operation in the room loop; it
	// holds up this room only, never the others.
	board, err := r.reg.boards.Board(roundOne)
	if err != nil {
		logf(r.cfg, "GAMES: Board provider failed for room %s: %v", r.code, err)
		return reject(errBoardUnavailable, "the board could not be generated, try again")
	}

	r.board = board
	r.round = roundOne
	r.phase = phaseBoardView
	r.selectingID = r.firstContestant()

	logf(r.cfg, "GAMES: Room %s started with %d contestants", r.code, r.contestantCount())

	r.broadcast(GameStartedMessage{
		Type:       "game_started",
		Categories: board.Categories,
		Board:      board.view(),
		Selecting:  r.selectingID,
	})

	return nil
}

// =============================================================================
// CLUE SELECTION AND READING
// =============================================================================

func (r *room) handleSelectClue(cmd command) *rejection {
	if r.phase != phaseBoardView {
		return reject(errInvalidPhase, "clues can only be selected from the board")
	}
	if cmd.actor != r.selectingID {
		return reject(errForbidden, "it is not your turn to select")
	}
	if cmd.category < 0 || cmd.category >= len(r.board.Clues) ||
		cmd.clue < 0 || cmd.clue >= len(r.board.Clues[cmd.category]) {
		return reject(errInvalidPhase, "no such clue")
	}

	clue := r.board.Clues[cmd.category][cmd.clue]
	if clue.Revealed {
		return reject(errAlreadyRevealed, "that clue has already been played")
	}

	// Marked revealed immediately, before anything else, so a racing second
	// selection always loses.
	clue.Revealed = true
	r.seq++
	r.active = &activeClue{
		clue:          clue,
		categoryIndex: cmd.category,
		clueIndex:     cmd.clue,
	}

	if clue.IsDailyDouble {
		r.phase = phaseDDWagering
		r.broadcast(ClueSelectedMessage{
			Type: "clue_selected",
			Clue: r.activeClueView(false),
		})
		return nil
	}

	r.phase = phaseClueReading
	r.broadcast(ClueSelectedMessage{
		Type: "clue_selected",
		Clue: r.activeClueView(true),
	})

	return nil
}

func (r *room) handleDailyDoubleWager(cmd command) *rejection {
	if r.phase != phaseDDWagering {
		return reject(errInvalidPhase, "no wager is expected right now")
	}
	if cmd.actor != r.selectingID {
		return reject(errForbidden, "only the selecting participant wagers on a Daily Double")
	}
	if !cmd.hasAmount {
		return reject(errInvalidWager, "a wager amount is required")
	}

	limit := r.reg.scores.get(r.code, cmd.actor)
	if top := r.topClueValue(); top > limit {
		limit = top
	}
	if cmd.amount < 0 || cmd.amount > limit {
		return reject(errInvalidWager, "wager must be between 0 and %d", limit)
	}

	r.active.wager = cmd.amount
	r.active.hasWager = true
	r.phase = phaseClueReading

	r.broadcast(WagerPlacedMessage{Type: "wager_placed", ParticipantID: cmd.actor})
	r.broadcast(ClueReadingMessage{
		Type: "clue_reading",
		Clue: r.activeClueView(true),
	})

	return nil
}

func (r *room) handleReadingComplete(cmd command) *rejection {
	if r.phase != phaseClueReading {
		return reject(errInvalidPhase, "no clue is being read")
	}
	if cmd.actor != r.hostID {
		return reject(errForbidden, "only the host display signals reading completion")
	}

	if r.active.clue.IsDailyDouble {
		// No buzzing on a Daily Double: the selector answers directly.
		r.active.buzzedID = r.selectingID
		r.phase = phaseAnswering
		deadline := r.startAnswerTimer()
		r.broadcast(ParticipantBuzzedMessage{
			Type:          "participant_buzzed",
			ParticipantID: r.selectingID,
			Deadline:      deadline.UnixMilli(),
		})
		return nil
	}

	r.openBuzzWindow()

	return nil
}

// =============================================================================
// BUZZING AND ANSWERING
// =============================================================================

func (r *room) openBuzzWindow() {
	r.reg.buzzer.open(r.code)
	r.phase = phaseBuzzing

	seq := r.seq
	deadline := r.clock.Now().Add(buzzWindowDuration)
	r.deadline = deadline

	r.reg.timers.schedule(r.code, "buzz", buzzWindowDuration, func() {
		r.enqueue(command{kind: cmdBuzzExpired, seq: seq})
	})
	r.startTicker(seq)

	r.broadcast(BuzzWindowOpenedMessage{
		Type:     "buzz_window_opened",
		Deadline: deadline.UnixMilli(),
	})
}

func (r *room) startAnswerTimer() time.Time {
	seq := r.seq
	deadline := r.clock.Now().Add(answerWindowDuration)
	r.deadline = deadline

	r.reg.timers.schedule(r.code, "answer", answerWindowDuration, func() {
		r.enqueue(command{kind: cmdAnswerExpired, seq: seq})
	})
	r.startTicker(seq)

	return deadline
}

// startTicker drives the cosmetic countdown broadcast. Scheduling under the
// same key restarts it cleanly whenever a new window opens.
func (r *room) startTicker(seq uint64) {
	r.reg.timers.scheduleEvery(r.code, "tick", tickInterval, func() {
		r.enqueue(command{kind: cmdTick, seq: seq})
	})
}

func (r *room) handleBuzz(cmd command) *rejection {
	// Buzzes racing a winner that was processed first still belong to the
	// window: they get too_late from the arbiter, not a phase error.
	if r.phase != phaseBuzzing && r.phase != phaseAnswering {
		return reject(errInvalidPhase, "the buzzers are not open")
	}
	p, ok := r.participants[cmd.actor]
	if !ok || p.isHost {
		return reject(errForbidden, "only contestants can buzz")
	}

	switch r.reg.buzzer.tryBuzz(r.code, cmd.actor) {
	case buzzTooLate:
		r.send(cmd.client, BuzzRejectedMessage{Type: "buzz_rejected", Reason: "too_late"})
		return nil
	case buzzLockout:
		r.send(cmd.client, BuzzRejectedMessage{Type: "buzz_rejected", Reason: "lockout"})
		return nil
	}

	r.reg.timers.cancelKey(r.code, "buzz")
	r.active.buzzedID = cmd.actor
	r.phase = phaseAnswering
	deadline := r.startAnswerTimer()

	r.broadcast(ParticipantBuzzedMessage{
		Type:          "participant_buzzed",
		ParticipantID: cmd.actor,
		Deadline:      deadline.UnixMilli(),
	})

	return nil
}

func (r *room) handleAnswer(cmd command) *rejection {
	if r.phase != phaseAnswering {
		return reject(errInvalidPhase, "no answer is expected right now")
	}
	if cmd.actor != r.active.buzzedID {
		return reject(errForbidden, "you did not win the buzz")
	}

	r.active.submittedAnswer = cmd.text
	r.reg.timers.cancelKey(r.code, "answer")

	if r.reg.judge == nil {
		// Manual judging: surface the answer and wait for the host's ruling.
		r.broadcast(AnswerSubmittedMessage{
			Type:          "answer_submitted",
			ParticipantID: cmd.actor,
			Text:          cmd.text,
		})
		return nil
	}

	r.applyJudgment(cmd.actor, r.reg.judge.Judge(cmd.text, r.active.clue.ReferenceAnswer))

	return nil
}

func (r *room) handleJudgeAnswer(cmd command) *rejection {
	if cmd.actor != r.hostID {
		return reject(errForbidden, "only the host can judge answers")
	}
	if r.phase != phaseAnswering {
		return reject(errInvalidPhase, "there is no answer awaiting judgment")
	}
	if cmd.targetID != r.active.buzzedID {
		return reject(errForbidden, "that participant is not answering")
	}

	r.reg.timers.cancelKey(r.code, "answer")
	r.applyJudgment(cmd.targetID, cmd.correct)

	return nil
}

// applyJudgment settles the active clue for the answering participant. The
// score delta is applied here and nowhere else, exactly once per judging
// event; once the phase leaves answering the clue cannot be re-judged.
func (r *room) applyJudgment(participantID string, correct bool) {
	value := r.active.clue.Value
	if r.active.clue.IsDailyDouble {
		value = r.active.wager
	}

	if correct {
		newScore := r.reg.scores.apply(r.code, participantID, value)
		r.selectingID = participantID
		r.phase = phaseJudged
		r.reg.timers.cancelKey(r.code, "tick")

		r.broadcast(AnswerJudgedMessage{
			Type:          "answer_judged",
			ParticipantID: participantID,
			Correct:       true,
			NewScore:      newScore,
		})

		r.scheduleReveal()

		return
	}

	newScore := r.reg.scores.apply(r.code, participantID, -value)
	r.reg.buzzer.applyLockout(r.code, participantID, rebuzzLockout)

	r.broadcast(AnswerJudgedMessage{
		Type:          "answer_judged",
		ParticipantID: participantID,
		Correct:       false,
		NewScore:      newScore,
	})

	if !r.active.clue.IsDailyDouble && r.hasEligibleBuzzer() {
		// Someone else can still ring in: give the clue another window.
		r.openBuzzWindow()
		return
	}

	r.phase = phaseJudged
	r.reg.timers.cancelKey(r.code, "tick")
	r.broadcast(TimeExpiredMessage{
		Type:            "time_expired",
		ReferenceAnswer: r.active.clue.ReferenceAnswer,
	})
	r.scheduleReveal()
}

// hasEligibleBuzzer reports whether any connected contestant could win a
// re-opened window right now. The participant just judged incorrect carries
// a fresh lockout, so they do not count.
func (r *room) hasEligibleBuzzer() bool {
	for _, id := range r.joinOrder {
		p := r.participants[id]
		if p.isHost || !p.connected {
			continue
		}
		if !r.reg.buzzer.lockedOut(r.code, id) {
			return true
		}
	}
	return false
}

func (r *room) scheduleReveal() {
	seq := r.seq
	r.reg.timers.schedule(r.code, "reveal", revealDelay, func() {
		r.enqueue(command{kind: cmdAutoReveal, seq: seq})
	})
}

// =============================================================================
// TIMER-DRIVEN COMMANDS
// =============================================================================

func (r *room) handleBuzzExpired(cmd command) {
	if cmd.seq != r.seq || r.phase != phaseBuzzing {
		return
	}

	r.reg.buzzer.close(r.code)
	r.phase = phaseJudged
	r.reg.timers.cancelKey(r.code, "tick")

	r.broadcast(TimeExpiredMessage{
		Type:            "time_expired",
		ReferenceAnswer: r.active.clue.ReferenceAnswer,
	})

	r.scheduleReveal()
}

func (r *room) handleAnswerExpired(cmd command) {
	if cmd.seq != r.seq || r.phase != phaseAnswering {
		return
	}

	// Running out of time counts as an incorrect answer.
	r.applyJudgment(r.active.buzzedID, false)
}

func (r *room) handleAutoReveal(cmd command) {
	if cmd.seq != r.seq || r.phase != phaseJudged {
		return
	}

	r.returnToBoardNow()
}

func (r *room) handleTick(cmd command) {
	if cmd.seq != r.seq || r.deadline.IsZero() {
		return
	}

	remaining := r.deadline.Sub(r.clock.Now())
	if remaining < 0 {
		remaining = 0
	}

	r.broadcast(TimerTickMessage{
		Type:      "timer_tick",
		Remaining: remaining.Milliseconds(),
	})
}

// =============================================================================
// BOARD RETURN AND ROUND ADVANCEMENT
// =============================================================================

func (r *room) handleReturnToBoard(cmd command) *rejection {
	if cmd.actor != r.hostID {
		return reject(errForbidden, "only the host can return to the board")
	}
	if r.phase != phaseJudged {
		return reject(errInvalidPhase, "there is nothing to return from")
	}

	r.returnToBoardNow()

	return nil
}

func (r *room) returnToBoardNow() {
	r.seq++
	r.deadline = time.Time{}
	r.reg.timers.cancelKey(r.code, "buzz")
	r.reg.timers.cancelKey(r.code, "answer")
	r.reg.timers.cancelKey(r.code, "reveal")
	r.reg.timers.cancelKey(r.code, "tick")
	r.reg.buzzer.resetLockouts(r.code)
	r.active = nil

	if r.board.allRevealed() {
		r.advanceRound()
		return
	}

	r.phase = phaseBoardView
	r.broadcast(ReturnedToBoardMessage{
		Type:      "returned_to_board",
		Board:     r.board.view(),
		Selecting: r.selectingID,
	})
}

func (r *room) advanceRound() {
	switch r.round {
	case roundOne:
		board, err := r.reg.boards.Board(roundTwo)
		if err != nil {
			// Stay in judged so return_to_board can be retried.
			logf(r.cfg, "GAMES: Board provider failed for room %s: %v", r.code, err)
			r.phase = phaseJudged
			r.broadcast(ErrorMessage{
				Type:    "error",
				Kind:    string(errBoardUnavailable),
				Message: "the next board could not be generated, try again",
			})
			return
		}

		r.board = board
		r.round = roundTwo
		r.phase = phaseBoardView
		r.broadcast(RoundChangedMessage{
			Type:      "round_changed",
			Round:     r.round.String(),
			Board:     board.view(),
			Selecting: r.selectingID,
		})

	case roundTwo:
		r.enterFinalRound()
	}
}

func (r *room) handleEndGame(cmd command) *rejection {
	if cmd.actor != r.hostID {
		return reject(errForbidden, "only the host can end the game")
	}

	r.finishGame()
	r.stopping = true

	return nil
}

// topClueValue returns the highest clue value for the current round, used as
// the Daily Double wager floor for low-scoring participants.
func (r *room) topClueValue() int {
	if r.round == roundTwo {
		return 400 * boardRows
	}
	return 200 * boardRows
}

// =============================================================================
// VIEWS AND DELIVERY
// =============================================================================

func (r *room) contestantCount() int {
	count := 0
	for _, p := range r.participants {
		if !p.isHost {
			count++
		}
	}
	return count
}

func (r *room) firstContestant() string {
	for _, id := range r.joinOrder {
		if !r.participants[id].isHost {
			return id
		}
	}
	return ""
}

func (r *room) participantView(p *participant) participantView {
	return participantView{
		ID:        p.id,
		Name:      p.name,
		Score:     r.reg.scores.get(r.code, p.id),
		IsHost:    p.isHost,
		Connected: p.connected,
	}
}

func (r *room) roster() []participantView {
	roster := make([]participantView, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		roster = append(roster, r.participantView(r.participants[id]))
	}
	return roster
}

func (r *room) activeClueView(withText bool) clueView {
	view := clueView{
		Category:      r.active.clue.Category,
		CategoryIndex: r.active.categoryIndex,
		ClueIndex:     r.active.clueIndex,
		Value:         r.active.clue.Value,
		IsDailyDouble: r.active.clue.IsDailyDouble,
	}
	if withText {
		view.Text = r.active.clue.Text
	}
	return view
}

// broadcast delivers a message to every connected client, evicting any
// client too slow to drain its send buffer.
func (r *room) broadcast(msg any) {
	for c := range r.clients {
		select {
		case c.send <- msg:
		default:
			delete(r.clients, c)
			close(c.send)
		}
	}
}

func (r *room) send(c *client, msg any) {
	if c == nil {
		return
	}
	if _, ok := r.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(r.clients, c)
		close(c.send)
	}
}

func (r *room) sendToParticipant(participantID string, msg any) {
	for c := range r.clients {
		if c.playerID == participantID {
			r.send(c, msg)
		}
	}
}

func (r *room) sendError(c *client, rej *rejection) {
	if c == nil {
		logf(r.cfg, "GAMES: Dropped internal rejection in room %s: %s", r.code, rej.Error())
		return
	}

	r.send(c, errorMessageFor(rej))
}
