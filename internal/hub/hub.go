package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
	"github.com/sketchcodes/sketch-codes-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	ID    string
	State engine.State
	Reply chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

type RemoveRoom struct {
	ID string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub is the process-wide room registry. Like the rooms themselves it is
// a single-goroutine actor: creation, lookup, and destruction are
// serialized through the inbox, and the handle is passed explicitly from
// main into whatever needs it.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut down.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if rm := h.rooms[msg.ID]; rm != nil {
					msg.Reply <- rm
					break
				}
				id := msg.ID
				rm := room.New(h.ctx, id, msg.State, h.log, func() {
					// Rooms destroy themselves when their connection set
					// drains; this unregisters them without blocking the
					// room goroutine on a dead hub.
					select {
					case h.inbox <- RemoveRoom{ID: id}:
					case <-h.ctx.Done():
					}
				})
				h.rooms[id] = rm
				h.log.Info("room created", zap.String("room", id))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case RemoveRoom:
				delete(h.rooms, msg.ID)
				h.log.Info("room removed", zap.String("room", msg.ID))

			case ShutdownHub:
				for _, rm := range h.rooms {
					// Non-blocking: a room with a saturated inbox must
					// not wedge the hub. Cancellation below stops it.
					select {
					case rm.Inbox() <- room.Shutdown{}:
					default:
					}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}
