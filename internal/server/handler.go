package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ghostsay/internal/speech"
	"github.com/julienschmidt/httprouter"
)

// SayPath is the only route served.
const SayPath = "/say"

const (
	msgSpoken       = "Text spoken successfully"
	msgSpeakFailed  = "Failed to execute say command"
	msgMissingParam = "Missing or invalid 'text' parameter"
)

// SayResponse is the body of a /say request that reached the speaker.
type SayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of a rejected /say request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves GET /say. It keeps no per-request state.
type Handler struct {
	speaker speech.Speaker
	logger  *log.Logger
	router  *httprouter.Router
}

// NewHandler returns a handler speaking through speaker.
func NewHandler(speaker speech.Speaker, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		speaker: speaker,
		logger:  logger,
		router:  httprouter.New(),
	}
	h.router.GET(SayPath, h.handleSay)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleSay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	values, ok := r.URL.Query()["text"]
	if !ok || len(values) == 0 {
		h.logger.Debug("Rejected speech request",
			"remote", r.RemoteAddr,
			"reason", "missing text parameter")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgMissingParam})
		return
	}

	text := speech.Sanitize(values[0])
	result := h.speaker.Speak(r.Context(), text)

	h.logger.Info("Speech request",
		"remote", r.RemoteAddr,
		"textLength", len(text),
		"success", result.Succeeded)

	resp := SayResponse{Success: result.Succeeded, Message: msgSpoken}
	if !result.Succeeded {
		resp.Message = msgSpeakFailed
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
