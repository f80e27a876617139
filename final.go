package main

// finalRound tracks the closing phase: eligible contestants wager blind,
// answer the single final clue, and are judged all at once. Nobody buzzes.
type finalRound struct {
	clue      *FinalClue
	eligible  map[string]bool
	wagers    map[string]int
	answers   map[string]string
	judgments map[string]finalJudgment
}

type finalJudgment struct {
	correct    bool
	scoreDelta int
}

func newFinalRound(clue *FinalClue, eligible []string) *finalRound {
	f := &finalRound{
		clue:      clue,
		eligible:  make(map[string]bool, len(eligible)),
		wagers:    make(map[string]int),
		answers:   make(map[string]string),
		judgments: make(map[string]finalJudgment),
	}
	for _, id := range eligible {
		f.eligible[id] = true
	}
	return f
}

func (f *finalRound) allWagered() bool {
	for id := range f.eligible {
		if _, ok := f.wagers[id]; !ok {
			return false
		}
	}
	return true
}

func (f *finalRound) allAnswered() bool {
	for id := range f.wagers {
		if _, ok := f.answers[id]; !ok {
			return false
		}
	}
	return true
}

func (r *room) enterFinalRound() {
	clue, err := r.reg.boards.FinalClue()
	if err != nil {
		// Stay in judged so return_to_board can be retried.
		logf(r.cfg, "GAMES: Final clue unavailable for room %s: %v", r.code, err)
		r.phase = phaseJudged
		r.broadcast(ErrorMessage{
			Type:    "error",
			Kind:    string(errBoardUnavailable),
			Message: "the final clue could not be generated, try again",
		})
		return
	}

	// Only contestants in the black may play the final round.
	var eligible []string
	for _, id := range r.joinOrder {
		p := r.participants[id]
		if p.isHost {
			continue
		}
		if r.reg.scores.get(r.code, id) > 0 {
			eligible = append(eligible, id)
		}
	}

	if len(eligible) == 0 {
		// Nobody qualifies; the game ends on the round-two standings.
		r.finishGame()
		return
	}

	r.final = newFinalRound(clue, eligible)
	r.round = roundFinal
	r.phase = phaseFinalWagering

	r.broadcast(FinalRoundEnteredMessage{
		Type:     "final_round_entered",
		Category: clue.Category,
		Eligible: eligible,
	})
}

func (r *room) handleFinalWager(cmd command) *rejection {
	if r.phase != phaseFinalWagering {
		return reject(errInvalidPhase, "final wagers are not being accepted")
	}
	if !r.final.eligible[cmd.actor] {
		return reject(errForbidden, "only participants with a positive score may wager")
	}
	if !cmd.hasAmount {
		return reject(errInvalidWager, "a wager amount is required")
	}

	score := r.reg.scores.get(r.code, cmd.actor)
	if cmd.amount < 0 || cmd.amount > score {
		return reject(errInvalidWager, "wager must be between 0 and %d", score)
	}

	r.final.wagers[cmd.actor] = cmd.amount
	r.broadcast(WagerPlacedMessage{Type: "wager_placed", ParticipantID: cmd.actor})

	if r.final.allWagered() {
		r.phase = phaseFinalAnswering
		r.broadcast(FinalClueMessage{
			Type:     "final_clue",
			Category: r.final.clue.Category,
			Text:     r.final.clue.Text,
		})
	}

	return nil
}

func (r *room) handleFinalAnswer(cmd command) *rejection {
	if r.phase != phaseFinalAnswering {
		return reject(errInvalidPhase, "final answers are not being accepted")
	}
	if _, wagered := r.final.wagers[cmd.actor]; !wagered {
		return reject(errForbidden, "you are not playing the final round")
	}

	r.final.answers[cmd.actor] = cmd.text

	if r.final.allAnswered() {
		r.revealFinal()
	}

	return nil
}

func (r *room) revealFinal() {
	r.phase = phaseFinalRevealing

	r.broadcast(FinalWagersRevealedMessage{
		Type:   "final_wagers_revealed",
		Wagers: r.final.wagers,
	})

	// The final round always needs a verdict for every answer, so fall back
	// to the built-in judge when manual judging is configured.
	judge := r.reg.judge
	if judge == nil {
		judge = newNormalizedJudge()
	}

	for _, id := range r.joinOrder {
		wager, wagered := r.final.wagers[id]
		if !wagered {
			continue
		}

		answer := r.final.answers[id]
		correct := judge.Judge(answer, r.final.clue.ReferenceAnswer)
		delta := wager
		if !correct {
			delta = -wager
		}

		newScore := r.reg.scores.apply(r.code, id, delta)
		r.final.judgments[id] = finalJudgment{correct: correct, scoreDelta: delta}

		r.broadcast(FinalAnswerJudgedMessage{
			Type:          "final_answer_judged",
			ParticipantID: id,
			Answer:        answer,
			Correct:       correct,
			NewScore:      newScore,
		})
	}

	r.finishGame()
}

// finishGame computes the winners (ties allowed) and ends the match.
func (r *room) finishGame() {
	r.phase = phaseGameOver
	r.round = roundDone

	finalScores := make(map[string]int)
	best := 0
	haveBest := false
	for _, id := range r.joinOrder {
		if r.participants[id].isHost {
			continue
		}
		score := r.reg.scores.get(r.code, id)
		finalScores[id] = score
		if !haveBest || score > best {
			best = score
			haveBest = true
		}
	}

	var winners []string
	for _, id := range r.joinOrder {
		if !r.participants[id].isHost && finalScores[id] == best && haveBest {
			winners = append(winners, id)
		}
	}

	logf(r.cfg, "GAMES: Room %s finished, %d winner(s)", r.code, len(winners))

	r.broadcast(GameOverMessage{
		Type:        "game_over",
		Winners:     winners,
		FinalScores: finalScores,
	})
}
