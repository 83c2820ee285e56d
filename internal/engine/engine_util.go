package engine

func checkDrawing(s State, actorID string) error {
	if s.GameOver {
		return ErrGameOver
	}
	if s.Phase != PhaseDrawing {
		return ErrWrongPhase
	}
	if actorID == "" || actorID != s.Drawer {
		return ErrNotDrawer
	}
	return nil
}

// seat puts id into a vacant seat, keeping an existing seat if it
// already has one. With both seats taken it is a no-op.
func seat(s State, id string) State {
	if s.PlayerA == id || s.PlayerB == id {
		return s
	}
	if s.PlayerA == "" {
		s.PlayerA = id
	} else if s.PlayerB == "" {
		s.PlayerB = id
	}
	return s
}

// revealFor picks the reveal record of the current drawer's perspective.
func revealFor(s *State, drawerIsA bool) *[GridSize]Reveal {
	if drawerIsA {
		return &s.RevealedForA
	}
	return &s.RevealedForB
}

// advanceTurn swaps the roles and resets everything scoped to one
// drawing-then-guessing cycle.
func advanceTurn(s State) State {
	s.Drawer, s.Guesser = s.Guesser, s.Drawer
	s.Committed = nil
	s.Pending = nil
	s.TurnNumber++
	s.CorrectGuesses = 0
	s.Phase = PhaseDrawing
	return s
}

func endGame(s State, won bool, reason string) State {
	s.GameOver = true
	s.Won = won
	s.EndReason = reason
	s.Phase = PhaseGameOver
	return s
}

// unionGreensRevealed counts cells green on either key card that carry a
// green reveal under either perspective.
func unionGreensRevealed(s State) int {
	n := 0
	for i := 0; i < GridSize; i++ {
		if s.KeyA[i] != CardGreen && s.KeyB[i] != CardGreen {
			continue
		}
		if s.RevealedForA[i] == RevealGreen || s.RevealedForB[i] == RevealGreen {
			n++
		}
	}
	return n
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
