package room

import (
	"sort"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
	"github.com/sketchcodes/sketch-codes-backend/internal/types"
)

// snapshotFor encodes the observable state for one recipient. Everything
// is shared except the in-progress stroke buffer, which only the current
// drawer sees, and only while the drawing phase is active.
func (r *Room) snapshotFor(clientID string) *types.GameSnapshot {
	s := r.state

	connected := make([]string, 0, len(r.clients))
	for id := range r.clients {
		connected = append(connected, id)
	}
	sort.Strings(connected)

	snap := &types.GameSnapshot{
		RoomID:                 r.id,
		Words:                  s.Words[:],
		KeyA:                   s.KeyA[:],
		KeyB:                   s.KeyB[:],
		RevealedForA:           s.RevealedForA[:],
		RevealedForB:           s.RevealedForB[:],
		PlayerA:                s.PlayerA,
		PlayerB:                s.PlayerB,
		CurrentDrawer:          s.Drawer,
		CurrentGuesser:         s.Guesser,
		Phase:                  s.Phase,
		TurnNumber:             s.TurnNumber,
		CorrectGuessesThisTurn: s.CorrectGuesses,
		GameOver:               s.GameOver,
		Won:                    s.Won,
		EndReason:              s.EndReason,
		ConnectedClients:       connected,
		Strokes:                strokesOrEmpty(s.Committed),
	}
	if s.Phase == engine.PhaseDrawing && clientID != "" && clientID == s.Drawer {
		snap.PendingStrokes = s.Pending
	}
	return snap
}

// strokesOrEmpty keeps the wire field a JSON array rather than null.
func strokesOrEmpty(strokes []engine.Stroke) []engine.Stroke {
	if strokes == nil {
		return []engine.Stroke{}
	}
	return strokes
}
