package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/lifegame/game/engine"
	"github.com/wricardo/mcp-training/lifegame/game/patterns"
	"github.com/wricardo/mcp-training/lifegame/game/service"
	"github.com/wricardo/mcp-training/lifegame/observability"
	"github.com/wricardo/mcp-training/lifegame/transport/websocket"
)

// maxBodyBytes bounds request bodies; a 256x256 grid of booleans fits easily.
const maxBodyBytes = 4 << 20

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	handler http.Handler
}

// Option configures a Server
type Option func(*serverOptions)

type serverOptions struct {
	corsOrigins []string
}

// WithCORSOrigins sets the origins allowed by CORS. The default is "*".
func WithCORSOrigins(origins ...string) Option {
	return func(o *serverOptions) {
		o.corsOrigins = origins
	}
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	options := serverOptions{corsOrigins: []string{"*"}}
	for _, opt := range opts {
		opt(&options)
	}

	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: options.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(s.router)

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(observability.RequestLogger(log.Logger))

	api := s.router.PathPrefix("/api").Subrouter()

	// Boards
	api.HandleFunc("/boards", s.handleCreateBoard).Methods("POST")
	api.HandleFunc("/boards", s.handleListBoards).Methods("GET")
	api.HandleFunc("/boards/{id}", s.handleGetBoard).Methods("GET")

	// Simulation
	api.HandleFunc("/boards/{id}/next", s.handleNext).Methods("GET")
	api.HandleFunc("/boards/{id}/generations/{count}", s.handleGenerations).Methods("GET")
	api.HandleFunc("/boards/{id}/final", s.handleFinal).Methods("GET")

	// Patterns
	api.HandleFunc("/patterns", s.handleListPatterns).Methods("GET")
	api.HandleFunc("/patterns", s.handleCreatePattern).Methods("POST")
	api.HandleFunc("/patterns/reload", s.handleReloadPatterns).Methods("POST")
	api.HandleFunc("/patterns/{name}", s.handleGetPattern).Methods("GET")

	// Legacy /game routes
	game := s.router.PathPrefix("/game").Subrouter()
	game.HandleFunc("/create", s.handleCreateBoard).Methods("POST")
	game.HandleFunc("/{id}/next", s.handleNext).Methods("GET")
	game.HandleFunc("/{id}/generations/{count}", s.handleGenerations).Methods("GET")
	game.HandleFunc("/{id}/final", s.handleFinal).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// API description
	s.router.HandleFunc(OpenAPIPath, s.handleOpenAPI).Methods("GET")
	s.router.HandleFunc("/swagger", s.handleSwaggerUI).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", observability.MetricsHandler()).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps a service error onto an HTTP status
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrBoardNotFound),
		errors.Is(err, patterns.ErrPatternNotFound),
		errors.Is(err, service.ErrNoPatternStore):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidDimensions),
		errors.Is(err, engine.ErrInvalidArgument),
		errors.Is(err, patterns.ErrInvalidPattern):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNoStableState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrBoardAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Board Handlers

type createBoardRequest struct {
	Grid    engine.Cells `json:"grid,omitempty"`
	Pattern string       `json:"pattern,omitempty"`
}

// decodeCreateBoard accepts {"grid": [[...]]}, {"pattern": "name"} or a bare
// [[...]] grid.
func decodeCreateBoard(r *http.Request) (*createBoardRequest, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("request body is required")
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body")
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("request body is required")
	}

	var req createBoardRequest
	if body[0] == '[' {
		if err := json.Unmarshal(body, &req.Grid); err != nil {
			return nil, fmt.Errorf("invalid grid: %v", err)
		}
		return &req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %v", err)
	}
	if req.Pattern != "" && req.Grid != nil {
		return nil, fmt.Errorf("provide either grid or pattern, not both")
	}
	return &req, nil
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateBoard(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var board *service.BoardInfo
	if req.Pattern != "" {
		board, err = s.service.CreateBoardFromPattern(r.Context(), req.Pattern)
	} else {
		board, err = s.service.CreateBoard(r.Context(), req.Grid)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, board)
}

type boardListResponse struct {
	Count  int                  `json:"count"`
	Boards []*service.BoardInfo `json:"boards"`
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.ListBoards(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, boardListResponse{Count: len(boards), Boards: boards})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	board, err := s.service.GetBoard(r.Context(), boardID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// Simulation Handlers

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	board, err := s.service.NextState(r.Context(), boardID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(board)
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	boardID := vars["id"]

	count, err := strconv.Atoi(vars["count"])
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("count must be an integer, got %q", vars["count"]))
		return
	}

	board, err := s.service.StateAfterGenerations(r.Context(), boardID, count)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(board)
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleFinal(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	board, err := s.service.FinalState(r.Context(), boardID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(board)
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) broadcast(board *service.BoardInfo) {
	if s.hub != nil {
		s.hub.BroadcastBoard(board)
	}
}

// Pattern Handlers

func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListPatterns(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	pattern, err := s.service.LoadPattern(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pattern)
}

type savePatternRequest struct {
	ID string `json:"id,omitempty"` // derived from name when empty
	engine.Pattern
}

type savePatternResponse struct {
	Message   string `json:"message"`
	PatternID string `json:"pattern_id"`
}

func (s *Server) handleCreatePattern(w http.ResponseWriter, r *http.Request) {
	var req savePatternRequest

	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Pattern name is required")
		return
	}

	id := req.ID
	if id == "" {
		id = patternID(req.Name)
	}

	if err := s.service.SavePattern(r.Context(), id, &req.Pattern); err != nil {
		status := statusForError(err)
		if errors.Is(err, patterns.ErrNoDirectory) {
			status = http.StatusConflict
		}
		respondError(w, status, fmt.Sprintf("Failed to save pattern: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, savePatternResponse{
		Message:   "Pattern saved successfully",
		PatternID: id,
	})
}

func (s *Server) handleReloadPatterns(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ReloadPatterns(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// patternID derives a file-safe id from a display name
func patternID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket updates are disabled")
		return
	}

	boardID := r.URL.Query().Get("board")
	if boardID == "" {
		respondError(w, http.StatusBadRequest, "board parameter required")
		return
	}

	board, err := s.service.GetBoard(r.Context(), boardID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.hub.ServeWS(w, r, board.ID, board)
}

type healthResponse struct {
	Status string `json:"status"`
	Boards int    `json:"boards"`
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status: "healthy",
		Boards: s.service.BoardCount(r.Context()),
	})
}
