package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
	"github.com/sketchcodes/sketch-codes-backend/internal/hub"
	"github.com/sketchcodes/sketch-codes-backend/internal/room"
	"github.com/sketchcodes/sketch-codes-backend/internal/types"
)

type wireMsg struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"room_id"`
	Payload json.RawMessage `json:"payload"`
}

type wireSnapshot struct {
	Phase                  string          `json:"phase"`
	TurnNumber             int             `json:"turn_number"`
	CorrectGuessesThisTurn int             `json:"correct_guesses_this_turn"`
	CurrentDrawer          string          `json:"current_drawer"`
	CurrentGuesser         string          `json:"current_guesser"`
	GameOver               bool            `json:"game_over"`
	Strokes                []engine.Stroke `json:"strokes"`
	RevealedForA           []string        `json:"revealed_for_a"`
}

type wireInitial struct {
	Role  string       `json:"role"`
	State wireSnapshot `json:"state"`
}

// fixedState mirrors the engine test deck: shared greens 0-2, shared
// assassin 3, A-only greens 4-9, B-only greens 10-15.
func fixedState() engine.State {
	var keyA, keyB engine.KeyCard
	for i := range keyA {
		keyA[i], keyB[i] = engine.CardNeutral, engine.CardNeutral
	}
	for _, i := range []int{0, 1, 2} {
		keyA[i], keyB[i] = engine.CardGreen, engine.CardGreen
	}
	keyA[3], keyB[3] = engine.CardAssassin, engine.CardAssassin
	for i := 4; i <= 9; i++ {
		keyA[i] = engine.CardGreen
	}
	for i := 10; i <= 15; i++ {
		keyB[i] = engine.CardGreen
	}
	keyA[16], keyA[17] = engine.CardAssassin, engine.CardAssassin
	keyB[18], keyB[19] = engine.CardAssassin, engine.CardAssassin

	var w [engine.GridSize]string
	for i := range w {
		w[i] = fmt.Sprintf("word%d", i)
	}
	return engine.NewState(w, keyA, keyB)
}

func newGameServer(t *testing.T, roomID string) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := hub.NewHub(ctx, zap.NewNop())
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.CreateRoom{ID: roomID, State: fixedState(), Reply: reply}
	require.NotNil(t, <-reply)

	r := chi.NewRouter()
	r.Get("/ws/{roomID}/{clientID}", Handler(h, zap.NewNop(), nil))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, roomID, clientID string) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := strings.Replace(srv.URL, "http://", "ws://", 1) + "/ws/" + roomID + "/" + clientID
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()

	env := types.ClientMessage{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		env.Payload = raw
	}
	data, err := json.Marshal(env)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

// readUntil drains messages until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) wireMsg {
	t.Helper()

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, data, err := conn.Read(ctx)
		cancel()
		require.NoError(t, err)

		var msg wireMsg
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("never received %s", msgType)
	return wireMsg{} // unreachable
}

func snapshot(t *testing.T, msg wireMsg) wireSnapshot {
	t.Helper()
	var snap wireSnapshot
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	return snap
}

func TestHandler_UnknownRoomRefused(t *testing.T) {
	srv := newGameServer(t, "bravefox7")

	resp, err := http.Get(srv.URL + "/ws/nosuchroom1/alice")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_FullGameFlow(t *testing.T) {
	srv := newGameServer(t, "bravefox7")

	drawer := dial(t, srv, "bravefox7", "alice")
	init := readUntil(t, drawer, types.MsgInitialGameData)
	var drawerInit wireInitial
	require.NoError(t, json.Unmarshal(init.Payload, &drawerInit))
	require.Equal(t, "drawer", drawerInit.Role)
	require.Equal(t, "bravefox7", init.RoomID)

	guesser := dial(t, srv, "bravefox7", "bob")
	init = readUntil(t, guesser, types.MsgInitialGameData)
	var guesserInit wireInitial
	require.NoError(t, json.Unmarshal(init.Payload, &guesserInit))
	require.Equal(t, "guesser", guesserInit.Role)

	// Drawer sketches and submits.
	send(t, drawer, types.MsgNewStroke, engine.Stroke{
		Points: []engine.Point{{1, 2}, {3, 4}},
		Tool:   "pen",
	})
	echo := readUntil(t, drawer, types.MsgStrokesUpdate)
	var update struct {
		Strokes []engine.Stroke `json:"strokes"`
	}
	require.NoError(t, json.Unmarshal(echo.Payload, &update))
	require.Len(t, update.Strokes, 1)
	require.True(t, strings.HasPrefix(update.Strokes[0].ID, "stroke-"), "server should assign stroke ids")

	send(t, drawer, types.MsgSubmitDrawing, nil)
	snap := snapshot(t, readUntil(t, guesser, types.MsgGameState))
	for snap.Phase != string(engine.PhaseGuessing) {
		snap = snapshot(t, readUntil(t, guesser, types.MsgGameState))
	}
	require.Len(t, snap.Strokes, 1)

	// Green guess: counted, phase stays guessing.
	send(t, guesser, types.MsgGuessWord, types.GuessWordPayload{Index: 4})
	snap = snapshot(t, readUntil(t, guesser, types.MsgGameState))
	require.Equal(t, 1, snap.CorrectGuessesThisTurn)
	require.Equal(t, string(engine.PhaseGuessing), snap.Phase)
	require.Equal(t, "green", snap.RevealedForA[4])

	// Neutral guess: turn flips, roles swap, canvas resets.
	send(t, guesser, types.MsgGuessWord, types.GuessWordPayload{Index: 20})
	snap = snapshot(t, readUntil(t, guesser, types.MsgGameState))
	require.Equal(t, 2, snap.TurnNumber)
	require.Equal(t, "bob", snap.CurrentDrawer)
	require.Equal(t, "alice", snap.CurrentGuesser)
	require.Empty(t, snap.Strokes)
	require.False(t, snap.GameOver)
}

func TestHandler_MalformedPayloadGetsError(t *testing.T) {
	srv := newGameServer(t, "bravefox7")

	conn := dial(t, srv, "bravefox7", "alice")
	readUntil(t, conn, types.MsgInitialGameData)

	send(t, conn, types.MsgGuessWord, map[string]any{"index": 99})
	msg := readUntil(t, conn, types.MsgError)

	var errPayload types.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &errPayload))
	require.Contains(t, errPayload.Message, "out of range")
}

func TestToCommand_ClosedSet(t *testing.T) {
	cases := []struct {
		name    string
		msg     types.ClientMessage
		wantErr bool
		wantCmd engine.CommandType
	}{
		{
			name:    "unknown type rejected",
			msg:     types.ClientMessage{Type: "HACK_THE_GIBSON"},
			wantErr: true,
		},
		{
			name:    "stroke without points rejected",
			msg:     types.ClientMessage{Type: types.MsgNewStroke, Payload: json.RawMessage(`{"points":[]}`)},
			wantErr: true,
		},
		{
			name:    "stroke with non-numeric points rejected",
			msg:     types.ClientMessage{Type: types.MsgNewStroke, Payload: json.RawMessage(`{"points":[["a","b"]]}`)},
			wantErr: true,
		},
		{
			name:    "valid stroke accepted",
			msg:     types.ClientMessage{Type: types.MsgNewStroke, Payload: json.RawMessage(`{"points":[[1,2]],"tool":"eraser"}`)},
			wantCmd: engine.CmdAddStroke,
		},
		{
			name:    "clear canvas needs no payload",
			msg:     types.ClientMessage{Type: types.MsgClearCanvas},
			wantCmd: engine.CmdClearCanvas,
		},
		{
			name:    "guess out of range rejected",
			msg:     types.ClientMessage{Type: types.MsgGuessWord, Payload: json.RawMessage(`{"index":25}`)},
			wantErr: true,
		},
		{
			name:    "valid guess accepted",
			msg:     types.ClientMessage{Type: types.MsgGuessWord, Payload: json.RawMessage(`{"index":0}`)},
			wantCmd: engine.CmdGuessWord,
		},
		{
			name:    "end guessing accepted",
			msg:     types.ClientMessage{Type: types.MsgEndGuessing},
			wantCmd: engine.CmdEndGuessing,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := toCommand(tc.msg, "alice")
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, cmd.Type)
			require.Equal(t, "alice", cmd.ActorID)
		})
	}
}

func TestToCommand_EraserToolCarriedVerbatim(t *testing.T) {
	cmd, err := toCommand(types.ClientMessage{
		Type:    types.MsgNewStroke,
		Payload: json.RawMessage(`{"points":[[1,1],[2,2]],"tool":"eraser","color":"#ffffff","width":12}`),
	}, "alice")
	require.NoError(t, err)
	require.Equal(t, "eraser", cmd.Stroke.Tool)
	require.Equal(t, "#ffffff", cmd.Stroke.Color)
	require.Equal(t, 12, cmd.Stroke.Width)
}
