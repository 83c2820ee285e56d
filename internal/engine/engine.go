package engine

import "errors"

// Sentinel rejections. The room actor drops commands that fail with any
// of these without broadcasting: stale or racing clients are expected
// and stay quiet on the wire.
var ErrNotDrawer = errors.New("actor is not the current drawer")
var ErrNotGuesser = errors.New("actor is not the current guesser")
var ErrWrongPhase = errors.New("command not valid in current phase")
var ErrGameOver = errors.New("game already over")
var ErrIndexOutOfRange = errors.New("guess index out of range")
var ErrAlreadyRevealed = errors.New("cell already resolved for this perspective")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdAssignRole    CommandType = "AssignRole"
	CmdAddStroke     CommandType = "AddStroke"
	CmdClearCanvas   CommandType = "ClearCanvas"
	CmdSubmitDrawing CommandType = "SubmitDrawing"
	CmdGuessWord     CommandType = "GuessWord"
	CmdEndGuessing   CommandType = "EndGuessing"
	CmdDisconnect    CommandType = "Disconnect"
)

type Command struct {
	Type    CommandType
	ActorID string
	Stroke  Stroke   // AddStroke
	Strokes []Stroke // SubmitDrawing: optional late-binding replacement
	Index   int      // GuessWord
	// Disconnect: client ids still connected, for auto-promotion.
	Remaining []string
}

type EventType string

const (
	EvtRoleAssigned     EventType = "RoleAssigned"
	EvtStrokeAdded      EventType = "StrokeAdded"
	EvtCanvasCleared    EventType = "CanvasCleared"
	EvtDrawingSubmitted EventType = "DrawingSubmitted"
	EvtCardRevealed     EventType = "CardRevealed"
	EvtTurnAdvanced     EventType = "TurnAdvanced"
	EvtGameWon          EventType = "GameWon"
	EvtGameLost         EventType = "GameLost"
	EvtPlayerPromoted   EventType = "PlayerPromoted"
)

type Event struct {
	Type     EventType
	ClientID string
	Role     Role
	Index    int
	Reveal   Reveal
}

// Apply runs one command against the state and returns the events it
// produced plus the successor state. On error the returned state is the
// input unchanged.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdAssignRole:
		return applyAssignRole(s, cmd.ActorID)
	case CmdAddStroke:
		return applyAddStroke(s, cmd)
	case CmdClearCanvas:
		return applyClearCanvas(s, cmd)
	case CmdSubmitDrawing:
		return applySubmitDrawing(s, cmd)
	case CmdGuessWord:
		return applyGuessWord(s, cmd)
	case CmdEndGuessing:
		return applyEndGuessing(s, cmd)
	case CmdDisconnect:
		return applyDisconnect(s, cmd)
	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// applyAssignRole seats a connecting client. First distinct id becomes
// the drawer, second the guesser, everyone after spectates. Reconnects
// of an already-seated id are a successful no-op.
func applyAssignRole(s State, id string) ([]Event, State, error) {
	if id == "" {
		return nil, s, nil
	}
	if id == s.PlayerA || id == s.PlayerB {
		return nil, s, nil
	}

	ns := s
	switch {
	case ns.Drawer == "":
		ns = seat(ns, id)
		ns.Drawer = id
		return []Event{{Type: EvtRoleAssigned, ClientID: id, Role: RoleDrawer}}, ns, nil
	case ns.Guesser == "":
		ns = seat(ns, id)
		ns.Guesser = id
		return []Event{{Type: EvtRoleAssigned, ClientID: id, Role: RoleGuesser}}, ns, nil
	}
	return []Event{{Type: EvtRoleAssigned, ClientID: id, Role: RoleSpectator}}, s, nil
}

func applyAddStroke(s State, cmd Command) ([]Event, State, error) {
	if err := checkDrawing(s, cmd.ActorID); err != nil {
		return nil, s, err
	}
	ns := s
	ns.Pending = append(ns.Pending, cmd.Stroke)
	return []Event{{Type: EvtStrokeAdded, ClientID: cmd.ActorID}}, ns, nil
}

func applyClearCanvas(s State, cmd Command) ([]Event, State, error) {
	if err := checkDrawing(s, cmd.ActorID); err != nil {
		return nil, s, err
	}
	ns := s
	ns.Pending = nil
	return []Event{{Type: EvtCanvasCleared, ClientID: cmd.ActorID}}, ns, nil
}

func applySubmitDrawing(s State, cmd Command) ([]Event, State, error) {
	if err := checkDrawing(s, cmd.ActorID); err != nil {
		return nil, s, err
	}
	ns := s
	if len(cmd.Strokes) > 0 {
		// Client sent its authoritative final stroke list; trust it over
		// the incrementally buffered one.
		ns.Pending = cmd.Strokes
	}
	ns.Committed = append(ns.Committed, ns.Pending...)
	ns.Pending = nil
	ns.Phase = PhaseGuessing
	return []Event{{Type: EvtDrawingSubmitted, ClientID: cmd.ActorID}}, ns, nil
}

func applyGuessWord(s State, cmd Command) ([]Event, State, error) {
	if s.GameOver {
		return nil, s, ErrGameOver
	}
	if s.Phase != PhaseGuessing {
		return nil, s, ErrWrongPhase
	}
	if cmd.ActorID == "" || cmd.ActorID != s.Guesser {
		return nil, s, ErrNotGuesser
	}
	if cmd.Index < 0 || cmd.Index >= GridSize {
		return nil, s, ErrIndexOutOfRange
	}

	drawerIsA := s.Drawer == s.PlayerA
	keyDrawer, keyGuesser := s.KeyA, s.KeyB
	if !drawerIsA {
		keyDrawer, keyGuesser = s.KeyB, s.KeyA
	}
	if revealFor(&s, drawerIsA)[cmd.Index] != RevealUnset {
		return nil, s, ErrAlreadyRevealed
	}

	ns := s
	i := cmd.Index

	// Precedence matters: a cell fatal from the drawer's perspective
	// loses the game even when it is also the guesser's own assassin.
	switch {
	case keyDrawer[i] == CardAssassin && keyGuesser[i] == CardAssassin:
		revealFor(&ns, drawerIsA)[i] = RevealAssassin
		ns = endGame(ns, false, "double assassin revealed")
		return []Event{
			{Type: EvtCardRevealed, Index: i, Reveal: RevealAssassin},
			{Type: EvtGameLost},
		}, ns, nil

	case keyDrawer[i] == CardAssassin:
		revealFor(&ns, drawerIsA)[i] = RevealAssassin
		ns = endGame(ns, false, "drawer's assassin revealed")
		return []Event{
			{Type: EvtCardRevealed, Index: i, Reveal: RevealAssassin},
			{Type: EvtGameLost},
		}, ns, nil

	case keyGuesser[i] == CardAssassin:
		// Guesser hit their own assassin. Not fatal, and carries no
		// information under the drawer's perspective, so no reveal write.
		ns = advanceTurn(ns)
		return []Event{{Type: EvtTurnAdvanced}}, ns, nil
	}

	reveal := RevealNeutral
	if keyDrawer[i] == CardGreen {
		reveal = RevealGreen
	}
	revealFor(&ns, drawerIsA)[i] = reveal
	events := []Event{{Type: EvtCardRevealed, Index: i, Reveal: reveal}}

	if unionGreensRevealed(ns) >= TargetGreens {
		ns = endGame(ns, true, "all green words revealed")
		return append(events, Event{Type: EvtGameWon}), ns, nil
	}

	if reveal == RevealGreen {
		ns.CorrectGuesses++
		return events, ns, nil
	}
	ns = advanceTurn(ns)
	return append(events, Event{Type: EvtTurnAdvanced}), ns, nil
}

func applyEndGuessing(s State, cmd Command) ([]Event, State, error) {
	if s.GameOver {
		return nil, s, ErrGameOver
	}
	if s.Phase != PhaseGuessing {
		return nil, s, ErrWrongPhase
	}
	if cmd.ActorID == "" || cmd.ActorID != s.Guesser {
		return nil, s, ErrNotGuesser
	}
	ns := advanceTurn(s)
	return []Event{{Type: EvtTurnAdvanced}}, ns, nil
}

// applyDisconnect vacates whatever seat and role pointers the leaving
// client held. Promotion depends only on who is left, not on what the
// leaver held: whenever exactly one player remains connected and a role
// slot is vacant, that player takes it, drawer first. A spectator
// leaving can otherwise strand a lone guesser with no drawer.
func applyDisconnect(s State, cmd Command) ([]Event, State, error) {
	id := cmd.ActorID
	ns := s
	if ns.PlayerA == id {
		ns.PlayerA = ""
	}
	if ns.PlayerB == id {
		ns.PlayerB = ""
	}
	if ns.Drawer == id {
		ns.Drawer = ""
	}
	if ns.Guesser == id {
		ns.Guesser = ""
	}
	if len(cmd.Remaining) != 1 {
		return nil, ns, nil
	}

	cand := cmd.Remaining[0]
	var events []Event
	switch {
	case ns.Drawer == "":
		if ns.Guesser == cand {
			ns.Guesser = ""
		}
		ns = seat(ns, cand)
		ns.Drawer = cand
		events = append(events, Event{Type: EvtPlayerPromoted, ClientID: cand, Role: RoleDrawer})
	case ns.Guesser == "" && cand != ns.Drawer:
		ns = seat(ns, cand)
		ns.Guesser = cand
		events = append(events, Event{Type: EvtPlayerPromoted, ClientID: cand, Role: RoleGuesser})
	}
	return events, ns, nil
}
