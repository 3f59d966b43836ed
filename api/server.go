package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hackz-rabuka/room-server/game/room"
	"github.com/hackz-rabuka/room-server/game/service"
	"github.com/hackz-rabuka/room-server/transport/websocket"
)

// Server is the HTTP server for the room coordinator.
type Server struct {
	service service.RoomService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server.
func NewServer(roomService service.RoomService, hub *websocket.Hub) *Server {
	s := &Server{
		service: roomService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.Use(corsMiddleware)

	s.router.HandleFunc("/result", s.handleResult).Methods("GET")
	s.router.HandleFunc("/api/rooms", s.handleListRooms).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	// WebSocket endpoints
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/relay", s.handleRelay)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// corsMiddleware lets the browser client on another origin reach the
// read endpoint.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleResult serves the ordered score table for one room.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		respondError(w, http.StatusBadRequest, "roomId is required")
		return
	}

	scores, err := s.service.Result(r.Context(), roomID)
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		respondError(w, http.StatusNotFound, "Room not found")
		return
	case errors.Is(err, service.ErrInvalidFormat):
		respondError(w, http.StatusInternalServerError, "Invalid data format")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, scores)
}

// handleListRooms returns a summary of every live room.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListRooms(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.service.RoomCount(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"rooms":  count,
	})
}

// handleWebSocket upgrades a game connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, s.service)
}

// handleRelay upgrades a peer echo connection.
func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeRelay(w, r)
}
