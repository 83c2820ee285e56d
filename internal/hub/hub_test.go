package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
	"github.com/sketchcodes/sketch-codes-backend/internal/room"
	"github.com/sketchcodes/sketch-codes-backend/internal/types"
)

func newHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, zap.NewNop())
}

func newRoomState() engine.State {
	keyA, keyB := engine.NewKeyCards()
	var w [engine.GridSize]string
	for i := range w {
		w[i] = "word"
	}
	return engine.NewState(w, keyA, keyB)
}

func TestHub_CreateThenGet_SamePointer(t *testing.T) {
	h := newHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{ID: "sleepyotter42", State: newRoomState(), Reply: reply}
	rm1 := <-reply

	h.Inbox() <- GetRoom{ID: "sleepyotter42", Reply: reply}
	rm2 := <-reply

	require.NotNil(t, rm1)
	require.Same(t, rm1, rm2)
}

func TestHub_GetUnknownRoom_ReturnsNil(t *testing.T) {
	h := newHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- GetRoom{ID: "nosuchroom1", Reply: reply}
	require.Nil(t, <-reply)
}

func TestHub_CreateExisting_ReturnsOriginal(t *testing.T) {
	h := newHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{ID: "bravefox7", State: newRoomState(), Reply: reply}
	rm1 := <-reply
	h.Inbox() <- CreateRoom{ID: "bravefox7", State: newRoomState(), Reply: reply}
	rm2 := <-reply

	require.Same(t, rm1, rm2)
}

func TestHub_EmptyRoomUnregistersItself(t *testing.T) {
	h := newHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{ID: "jollyduck3", State: newRoomState(), Reply: reply}
	rm := <-reply

	out := make(chan types.ServerMessage, 8)
	rm.Inbox() <- room.Join{ClientID: "alice", Outbox: out}
	rm.Inbox() <- room.Leave{ClientID: "alice"}

	require.Eventually(t, func() bool {
		r := make(chan *room.Room, 1)
		h.Inbox() <- GetRoom{ID: "jollyduck3", Reply: r}
		return <-r == nil
	}, time.Second, 10*time.Millisecond, "empty room should be removed from the registry")
}

func TestHub_ShutdownNotBlockedByWedgedRoom(t *testing.T) {
	h := newHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{ID: "zanypuma9", State: newRoomState(), Reply: reply}
	rm := <-reply

	// Wedge the room: an unread view request stalls its loop, then the
	// inbox fills to capacity.
	stuck := make(chan room.View)
	rm.Inbox() <- room.GetView{Reply: stuck}
fill:
	for {
		select {
		case rm.Inbox() <- room.Leave{ClientID: "nobody"}:
		default:
			break fill
		}
	}

	h.Inbox() <- ShutdownHub{}
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub shutdown wedged behind a full room inbox")
	}

	// Release the stalled room goroutine so it can observe cancellation.
	<-stuck
}
