// Package types defines the websocket wire protocol.
//
// Client -> Server, envelope { type, payload }:
//
//	NEW_STROKE:      payload is a Stroke (points required; id assigned
//	                 server-side, color/width/tool defaulted)
//	CLEAR_CANVAS:    payload empty
//	SUBMIT_DRAWING:  payload { strokes?: Stroke[] } — optional final list
//	                 replacing the buffered one
//	GUESS_WORD:      payload { index: 0..24 }
//	END_GUESSING:    payload empty
//
// Server -> Client:
//
//	INITIAL_GAME_DATA:      post-attach snapshot plus the resolved role
//	GAME_STATE:             full snapshot after every mutation
//	CURRENT_STROKES_UPDATE: drawer-only echo of the in-progress buffer
//	ERROR:                  { message }
package types

import (
	"encoding/json"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
)

const (
	MsgNewStroke     = "NEW_STROKE"
	MsgClearCanvas   = "CLEAR_CANVAS"
	MsgSubmitDrawing = "SUBMIT_DRAWING"
	MsgGuessWord     = "GUESS_WORD"
	MsgEndGuessing   = "END_GUESSING"
)

const (
	MsgInitialGameData = "INITIAL_GAME_DATA"
	MsgGameState       = "GAME_STATE"
	MsgStrokesUpdate   = "CURRENT_STROKES_UPDATE"
	MsgError           = "ERROR"
)

type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SubmitDrawingPayload struct {
	Strokes []engine.Stroke `json:"strokes,omitempty"`
}

type GuessWordPayload struct {
	Index int `json:"index"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	RoomID  string `json:"room_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type InitialGameData struct {
	Role  engine.Role   `json:"role"`
	State *GameSnapshot `json:"state"`
}

type StrokesUpdate struct {
	Strokes []engine.Stroke `json:"strokes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// GameSnapshot is the observable room state sent to every connected
// client. Key cards go out uniformly; hiding them from the opposing
// player is a presentation concern. PendingStrokes is populated only in
// the current drawer's own copy while the drawing phase is active.
type GameSnapshot struct {
	RoomID                 string             `json:"room_id"`
	Words                  []string           `json:"words"`
	KeyA                   []engine.CardClass `json:"key_a"`
	KeyB                   []engine.CardClass `json:"key_b"`
	RevealedForA           []engine.Reveal    `json:"revealed_for_a"`
	RevealedForB           []engine.Reveal    `json:"revealed_for_b"`
	PlayerA                string             `json:"player_a,omitempty"`
	PlayerB                string             `json:"player_b,omitempty"`
	CurrentDrawer          string             `json:"current_drawer,omitempty"`
	CurrentGuesser         string             `json:"current_guesser,omitempty"`
	Phase                  engine.Phase       `json:"phase"`
	TurnNumber             int                `json:"turn_number"`
	CorrectGuessesThisTurn int                `json:"correct_guesses_this_turn"`
	GameOver               bool               `json:"game_over"`
	Won                    bool               `json:"won,omitempty"`
	EndReason              string             `json:"end_reason,omitempty"`
	ConnectedClients       []string           `json:"connected_clients"`
	Strokes                []engine.Stroke    `json:"strokes"`
	PendingStrokes         []engine.Stroke    `json:"pending_strokes,omitempty"`
}
