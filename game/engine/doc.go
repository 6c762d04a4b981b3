// Package engine provides the turn-resolution core of Ladder Dare.
//
// A game is played on 100 cells by two to four players. Each turn the
// current player rolls a die, moves, may be redirected by a snake or ladder,
// and may land on a cell holding a truth-or-dare card. The card waits for the
// player to accept it or redraw it; accepted cards can move the player again
// ("Maju 3", "Mundur 5").
//
// Core Types:
//
// GameEngine implements Engine as a phase state machine:
//
//	idle -> rolling -> moving -> hazard_check -> challenge_check
//	     -> effect_apply -> turn_end -> idle
//
// with game_over as the terminal phase. Commands that do not fit the current
// phase are ignored and report Accepted=false; they never return errors.
// GameState holds everything a renderer needs and TurnReport describes what
// a single command did.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultGameConfig(), []string{"Ani", "Budi"}, 1,
//		engine.WithChallengeSource(challenges),
//		engine.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report := eng.RollDice()
//	if report.Challenge != nil {
//		report = eng.AcceptChallenge()
//	}
//
// An engine is not safe for concurrent use. Callers that share one serialise
// commands themselves and hand observers the result of Snapshot.
package engine
