package httpapi

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
	"github.com/sketchcodes/sketch-codes-backend/internal/hub"
	"github.com/sketchcodes/sketch-codes-backend/internal/room"
	"github.com/sketchcodes/sketch-codes-backend/internal/words"
)

// Memorable room ids read like "sleepyotter42". The number suffix keeps
// collisions rare enough that the retry loop almost never spins.
var adjectives = []string{
	"quick", "lazy", "sleepy", "noisy", "hungry", "funny", "silly", "clever",
	"brave", "calm", "eager", "jolly", "kind", "proud", "witty", "zany",
}

var nouns = []string{
	"fox", "dog", "cat", "bear", "lion", "tiger", "puma", "wolf", "bird", "duck",
	"panda", "koala", "lemur", "otter", "squid", "crab", "shark", "owl",
}

const maxIDAttempts = 10

func generateRoomID() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, 1+rand.Intn(999))
}

// CreateRoom mints a registry-unique memorable id, samples the word
// grid, deals the key cards, and registers the new room.
func CreateRoom(h *hub.Hub, corpus *words.Corpus, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		for i := 0; i < maxIDAttempts; i++ {
			candidate := generateRoomID()
			reply := make(chan *room.Room, 1)
			h.Inbox() <- hub.GetRoom{ID: candidate, Reply: reply}
			if <-reply == nil {
				id = candidate
				break
			}
			log.Info("room id collision, regenerating", zap.String("room", candidate))
		}
		if id == "" {
			// Vanishingly unlikely, but uuids cannot collide twice.
			id = uuid.NewString()
		}

		keyA, keyB := engine.NewKeyCards()
		state := engine.NewState(corpus.Grid(), keyA, keyB)

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.CreateRoom{ID: id, State: state, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			RoomID string `json:"room_id"`
		}{RoomID: id})
	}
}

// GetWords previews a 25-word sample, mirroring what room creation uses.
func GetWords(corpus *words.Corpus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(corpus.Sample(engine.GridSize))
	}
}

// RoomQR renders a join-link QR code for an existing room.
func RoomQR(h *hub.Hub, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "roomID")

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{ID: id, Reply: reply}
		if <-reply == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		joinURL := strings.TrimSuffix(publicURL, "/") + "/?room=" + url.QueryEscape(id)
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to render qr code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// SPAHandler serves a built frontend: real files as-is, everything else
// falls back to index.html so client-side routes resolve.
func SPAHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
