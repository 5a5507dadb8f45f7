// Package server exposes the chat service over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/quixabot/quixabot/internal/alocacao"
	"github.com/quixabot/quixabot/internal/chat"
	"github.com/quixabot/quixabot/internal/docentes"
)

// Server holds the handlers' dependencies.
type Server struct {
	chat         *chat.Service
	directory    *docentes.Directory
	allocations  *alocacao.Store
	allowOrigins []string
	log          *slog.Logger
}

func New(chatSvc *chat.Service, directory *docentes.Directory, allocations *alocacao.Store, allowOrigins []string, log *slog.Logger) *Server {
	return &Server{
		chat:         chatSvc,
		directory:    directory,
		allocations:  allocations,
		allowOrigins: allowOrigins,
		log:          log.With("component", "server"),
	}
}

// ChatRequest is the body of POST /chat/{session_id}.
type ChatRequest struct {
	Message string `json:"message"`
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/start-chat", s.handleStart)
	mux.HandleFunc("/chat/", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/debug/docentes", s.handleDebugDocentes)
	mux.HandleFunc("/debug/alocacoes", s.handleDebugAlocacoes)
	return s.cors(mux)
}

// cors applies the configured origin allow-list. With no origins configured
// CORS stays disabled.
func (s *Server) cors(next http.Handler) http.Handler {
	if len(s.allowOrigins) == 0 {
		return next
	}
	allowed := make(map[string]bool, len(s.allowOrigins))
	for _, o := range s.allowOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	res, err := s.chat.Start(r.Context())
	if err != nil {
		s.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sessionID := strings.TrimPrefix(r.URL.Path, "/chat/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		writeError(w, http.StatusNotFound, "Sessão inválida")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	reply, err := s.chat.Handle(r.Context(), sessionID, req.Message)
	if err != nil {
		s.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDebugDocentes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	index := s.directory.Load(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  index.Len(),
		"sample": index.Keys(),
	})
}

func (s *Server) handleDebugAlocacoes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	snap := s.allocations.Load(r.Context())
	errText := ""
	if snap.Err != nil {
		errText = snap.Err.Error()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(snap.Rows),
		"doc_url":     snap.DocURL,
		"error":       errText,
		"sample_rows": snap.Rows,
	})
}

// writeChatError maps the chat service taxonomy onto HTTP statuses, always
// with a {"detail": ...} body like the original API contract.
func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chat.ErrEngineBusy):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error("erro interno no chat", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
