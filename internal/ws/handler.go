// Package ws is the connection gateway: one reader loop plus one writer
// goroutine per socket, decoding wire envelopes into the closed engine
// command set and relaying room broadcasts back out.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
	"github.com/sketchcodes/sketch-codes-backend/internal/hub"
	"github.com/sketchcodes/sketch-codes-backend/internal/room"
	"github.com/sketchcodes/sketch-codes-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades /ws/{roomID}/{clientID}. Unknown rooms are refused
// before the upgrade; lazy creation over a websocket URL would let any
// typo mint a room.
func Handler(h *hub.Hub, log *zap.Logger, allowedOrigins []string) http.HandlerFunc {
	originPatterns := hostPatterns(allowedOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		clientID := chi.URLParam(r, "clientID")
		if roomID == "" || clientID == "" {
			http.Error(w, "missing room or client id", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{ID: roomID, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clog := log.With(zap.String("room", roomID), zap.String("client", clientID))
		clog.Info("client connected")

		// Faults in this connection's handling must not leak past it.
		defer func() {
			if rec := recover(); rec != nil {
				clog.Error("panic in connection gateway", zap.Any("panic", rec))
				writeMsg(r.Context(), conn, types.ServerMessage{
					Type:    types.MsgError,
					Payload: types.ErrorPayload{Message: "internal error"},
				})
				conn.Close(websocket.StatusInternalError, "internal error")
			}
		}()

		// Every room send selects on Done: the room may self-destruct at
		// any moment (last client dropped), and its inbox then has no
		// reader left.
		out := make(chan types.ServerMessage, 16)
		select {
		case rm.Inbox() <- room.Join{ClientID: clientID, Outbox: out}:
		case <-rm.Done():
			conn.Close(websocket.StatusTryAgainLater, "room closed")
			return
		}
		defer func() {
			select {
			case rm.Inbox() <- room.Leave{ClientID: clientID}:
			case <-rm.Done():
			}
			clog.Info("client disconnected")
		}()

		// Writer: drains the outbox until the room closes it. Ending the
		// shared context also ends the reader below, so a dropped client
		// tears down cleanly instead of lingering half-connected.
		connCtx, connCancel := context.WithCancel(r.Context())
		defer connCancel()
		go func() {
			defer connCancel()
			for {
				select {
				case msg, ok := <-out:
					if !ok {
						return
					}
					if !writeMsg(connCtx, conn, msg) {
						return
					}
				case <-connCtx.Done():
					return
				}
			}
		}()

		for {
			_, data, err := conn.Read(connCtx)
			if err != nil {
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				sendError(connCtx, conn, "bad json")
				continue
			}

			cmd, err := toCommand(cm, clientID)
			if err != nil {
				sendError(connCtx, conn, err.Error())
				continue
			}

			select {
			case rm.Inbox() <- room.FromClient{ClientID: clientID, Cmd: cmd}:
			case <-rm.Done():
				return
			}
		}
	}
}

// toCommand validates an envelope against the closed command set. A
// failure here means a malformed payload; nothing reaches the room.
func toCommand(m types.ClientMessage, clientID string) (engine.Command, error) {
	switch m.Type {
	case types.MsgNewStroke:
		var stroke engine.Stroke
		if err := json.Unmarshal(m.Payload, &stroke); err != nil {
			return engine.Command{}, fmt.Errorf("invalid stroke payload: %w", err)
		}
		if len(stroke.Points) == 0 {
			return engine.Command{}, errors.New("stroke has no points")
		}
		normalizeStroke(&stroke)
		return engine.Command{Type: engine.CmdAddStroke, ActorID: clientID, Stroke: stroke}, nil

	case types.MsgClearCanvas:
		return engine.Command{Type: engine.CmdClearCanvas, ActorID: clientID}, nil

	case types.MsgSubmitDrawing:
		var p types.SubmitDrawingPayload
		if len(m.Payload) > 0 {
			if err := json.Unmarshal(m.Payload, &p); err != nil {
				return engine.Command{}, fmt.Errorf("invalid submit payload: %w", err)
			}
		}
		for i := range p.Strokes {
			normalizeStroke(&p.Strokes[i])
		}
		return engine.Command{Type: engine.CmdSubmitDrawing, ActorID: clientID, Strokes: p.Strokes}, nil

	case types.MsgGuessWord:
		var p types.GuessWordPayload
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			return engine.Command{}, fmt.Errorf("invalid guess payload: %w", err)
		}
		if p.Index < 0 || p.Index >= engine.GridSize {
			return engine.Command{}, fmt.Errorf("guess index %d out of range", p.Index)
		}
		return engine.Command{Type: engine.CmdGuessWord, ActorID: clientID, Index: p.Index}, nil

	case types.MsgEndGuessing:
		return engine.Command{Type: engine.CmdEndGuessing, ActorID: clientID}, nil

	default:
		return engine.Command{}, fmt.Errorf("unknown message type %q", m.Type)
	}
}

// normalizeStroke fills server-assigned and defaulted fields. The tool
// tag is carried as-is; the server gives it no meaning.
func normalizeStroke(s *engine.Stroke) {
	if s.ID == "" {
		s.ID = "stroke-" + uuid.NewString()
	}
	if s.Color == "" {
		s.Color = "#000000"
	}
	if s.Width <= 0 {
		s.Width = 2
	}
	if s.Tool == "" {
		s.Tool = "pen"
	}
}

// hostPatterns reduces configured CORS origins (scheme://host:port) to
// the host[:port] patterns the websocket accept check matches against.
func hostPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}

func sendError(ctx context.Context, conn *websocket.Conn, message string) {
	writeMsg(ctx, conn, types.ServerMessage{
		Type:    types.MsgError,
		Payload: types.ErrorPayload{Message: message},
	})
}

func writeMsg(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) bool {
	payload, err := json.Marshal(msg)
	if err != nil {
		return false
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, payload) == nil
}
