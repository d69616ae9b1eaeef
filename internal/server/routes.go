package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/mafia-backend/internal"
	"github.com/scythe504/mafia-backend/internal/game"
	"github.com/scythe504/mafia-backend/internal/utils"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/rooms", s.CreateRoomCodeHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/rooms/{roomId}/exists", s.RoomExistsHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms/{roomId}/qr", s.RoomQRHandler).Methods(http.MethodGet)

	r.HandleFunc("/ws/{roomId}", game.HandleWebSocket(s.hub, s.coord))

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case slices.Contains(s.allowedOrigins, "*"):
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.allowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		// If it's a websocket upgrade, the hub checks the origin itself
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// RoomExistsHandler answers the room-exists check without creating anything.
func (s *Server) RoomExistsHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	roomId := mux.Vars(r)["roomId"]

	writeResponse(w, internal.Response{
		StatusCode:    http.StatusOK,
		RespStartTime: startTime,
		Data:          s.coord.RoomExists(roomId),
	})
}

// CreateRoomCodeHandler hands out a code that no live room uses yet.
func (s *Server) CreateRoomCodeHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	code, err := utils.UniqueRoomCode(s.coord.RoomExists)
	if err != nil {
		log.Error().Err(err).Msg("[CreateRoomCodeHandler] No free room code")
		writeResponse(w, internal.Response{
			StatusCode:    http.StatusServiceUnavailable,
			RespStartTime: startTime,
			Data:          err.Error(),
		})
		return
	}

	writeResponse(w, internal.Response{
		StatusCode:    http.StatusCreated,
		RespStartTime: startTime,
		Data:          code,
	})
}

// RoomQRHandler renders a PNG invite pointing at the room page.
func (s *Server) RoomQRHandler(w http.ResponseWriter, r *http.Request) {
	roomId := mux.Vars(r)["roomId"]
	if !s.coord.RoomExists(roomId) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(s.publicURL+"/room/"+roomId, qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("room", roomId).Msg("[RoomQRHandler] Failed to encode QR code")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func writeResponse(w http.ResponseWriter, resp internal.Response) {
	// Calculate response times
	endTime := time.Now().UnixMilli()
	resp.RespEndTime = endTime
	resp.NetRespTime = endTime - resp.RespStartTime

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("[writeResponse] Error encoding response")
	}
}
