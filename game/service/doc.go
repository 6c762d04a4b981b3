// Package service provides the business logic layer for Ladder Dare.
//
// The service sits between the transports (HTTP, WebSocket, MCP, the
// terminal driver) and the game engine. It validates rosters and levels
// before they reach an engine, serialises commands with a single mutex and
// hands observers snapshots of the state.
//
// Core Interfaces:
//
// GameService is the main service interface. SessionManager stores sessions
// and ChallengeManager reads the challenge files behind each level.
//
// Usage:
//
//	challenges, _ := config.NewManager("configs", logger)
//	sessions := session.NewManager(session.WithChallengeSource(challenges))
//	svc := service.NewGameService(sessions, challenges, engine.DefaultGameConfig(), logger)
//
//	info, err := svc.CreateSession(ctx, []string{"Ani", "Budi"}, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.RollDice(ctx, info.ID)
//	if result.GameState.Pending != nil {
//		result, err = svc.AcceptChallenge(ctx, info.ID)
//	}
package service
