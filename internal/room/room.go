package room

import (
	"context"

	"go.uber.org/zap"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
	"github.com/sketchcodes/sketch-codes-backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// FromClient carries one validated engine command. ClientID is the
// sender, used for targeted replies (stroke echo) and fault isolation.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

func (FromClient) isRoomMsg() {}

type Join struct {
	ClientID string
	Outbox   chan types.ServerMessage // where this client receives messages
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

// View reflects internal state without data races; test-only.
type View struct {
	NumClients int
	State      engine.State
}

// Room owns one game session. A single goroutine drains the inbox, so
// command application plus its resulting broadcast is one atomic unit;
// no lock is ever taken and rooms never contend with each other.
type Room struct {
	id      string
	inbox   chan Msg
	state   engine.State
	clients map[string]chan types.ServerMessage
	log     *zap.Logger
	onEmpty func() // invoked once when the connection set drains
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, id string, initial engine.State, log *zap.Logger, onEmpty func()) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		id:      id,
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[string]chan types.ServerMessage),
		log:     log.With(zap.String("room", id)),
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room goroutine has shut down. Senders select
// on it so a self-destructed room cannot strand them on a full inbox.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) ID() string { return r.id }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			if done := r.handle(m); done {
				return
			}
		}
	}
}

// handle processes one message. A panic while handling a client command
// must not take the whole room down: it is recovered here, reported to
// the offending client, and that client is dropped.
func (r *Room) handle(m Msg) (done bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("panic while handling room message", zap.Any("panic", rec))
			if fc, ok := m.(FromClient); ok {
				if out, live := r.clients[fc.ClientID]; live {
					trySend(out, types.ServerMessage{
						Type:    types.MsgError,
						RoomID:  r.id,
						Payload: types.ErrorPayload{Message: "internal error"},
					})
				}
				done = r.drop(fc.ClientID)
			}
		}
	}()

	switch msg := m.(type) {
	case Join:
		r.clients[msg.ClientID] = msg.Outbox
		_, ns, err := engine.Apply(r.state, engine.Command{Type: engine.CmdAssignRole, ActorID: msg.ClientID})
		if err == nil {
			r.state = ns
		}
		trySend(msg.Outbox, types.ServerMessage{
			Type:   types.MsgInitialGameData,
			RoomID: r.id,
			Payload: types.InitialGameData{
				Role:  engine.RoleOf(r.state, msg.ClientID),
				State: r.snapshotFor(msg.ClientID),
			},
		})
		return r.broadcast()

	case Leave:
		if _, ok := r.clients[msg.ClientID]; !ok {
			break
		}
		if done := r.drop(msg.ClientID); done {
			return true
		}
		return r.broadcast()

	case FromClient:
		_, ns, err := engine.Apply(r.state, msg.Cmd)
		if err != nil {
			// Deliberately quiet: racing or stale clients send commands
			// out of role or phase all the time.
			r.log.Debug("command rejected",
				zap.String("client", msg.ClientID),
				zap.String("cmd", string(msg.Cmd.Type)),
				zap.Error(err))
			break
		}
		r.state = ns
		if msg.Cmd.Type == engine.CmdAddStroke {
			// The in-progress buffer echoes back to the drawer only.
			if out, ok := r.clients[msg.ClientID]; ok {
				trySend(out, types.ServerMessage{
					Type:    types.MsgStrokesUpdate,
					RoomID:  r.id,
					Payload: types.StrokesUpdate{Strokes: r.state.Pending},
				})
			}
			break
		}
		return r.broadcast()

	case GetView:
		msg.Reply <- View{
			NumClients: len(r.clients),
			State:      r.state,
		}

	case Shutdown:
		r.shutdown()
		return true
	}
	return false
}

// drop removes a client, applies the disconnect transition, and tears
// the room down if nobody is left. Returns true when the loop must exit.
func (r *Room) drop(clientID string) bool {
	if out, ok := r.clients[clientID]; ok {
		close(out)
		delete(r.clients, clientID)
	}

	remaining := make([]string, 0, len(r.clients))
	for id := range r.clients {
		remaining = append(remaining, id)
	}
	_, ns, err := engine.Apply(r.state, engine.Command{
		Type:      engine.CmdDisconnect,
		ActorID:   clientID,
		Remaining: remaining,
	})
	if err == nil {
		r.state = ns
	}

	if len(r.clients) == 0 {
		r.log.Info("room empty, destroying")
		if r.onEmpty != nil {
			r.onEmpty()
		}
		r.shutdown()
		return true
	}
	return false
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}

// broadcast encodes and fans out the current state. Snapshots are built
// per recipient because the pending stroke buffer is drawer-only. A
// client whose outbox is full cannot block delivery to the rest: it is
// logged and scheduled for removal instead. Returns true when dropping
// the last client destroyed the room.
func (r *Room) broadcast() (done bool) {
	var dead []string
	for id, ch := range r.clients {
		msg := types.ServerMessage{
			Type:    types.MsgGameState,
			RoomID:  r.id,
			Payload: r.snapshotFor(id),
		}
		select {
		case ch <- msg:
		default:
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		r.log.Warn("client outbox full, dropping", zap.String("client", id))
		if r.drop(id) {
			return true
		}
	}
	return false
}

func trySend(ch chan types.ServerMessage, msg types.ServerMessage) {
	select {
	case ch <- msg:
	default:
	}
}
