package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sketchcodes/sketch-codes-backend/internal/config"
	"github.com/sketchcodes/sketch-codes-backend/internal/hub"
	"github.com/sketchcodes/sketch-codes-backend/internal/words"
	"github.com/sketchcodes/sketch-codes-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, corpus *words.Corpus, cfg *config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Post("/api/rooms", CreateRoom(h, corpus, log))
	r.Get("/api/words", GetWords(corpus))
	r.Get("/api/rooms/{roomID}/qr", RoomQR(h, cfg.PublicURL))
	r.Get("/healthz", Healthz)
	r.Get("/ws/{roomID}/{clientID}", ws.Handler(h, log, cfg.AllowedOrigins))

	if cfg.FrontendDir != "" {
		r.NotFound(SPAHandler(cfg.FrontendDir))
	}

	return r
}
