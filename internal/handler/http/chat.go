package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Gani-23/KrushiGowrava/internal/chatbot"
	"github.com/Gani-23/KrushiGowrava/pkg/httputil"
)

// ChatHandler relays chat messages to the chatbot service.
type ChatHandler struct {
	relay  *chatbot.Client
	logger *slog.Logger
}

// NewChatHandler creates a new chat HTTP handler.
func NewChatHandler(relay *chatbot.Client, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		relay:  relay,
		logger: logger,
	}
}

// ChatRequest is the JSON request body for a chat message. Either a text
// message or an image data URI must be present.
type ChatRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Image   string `json:"image"`
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if strings.TrimSpace(req.Message) == "" && req.Image == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "message or image is required"},
		})
		return
	}

	// The relay never errors; failures surface as the fallback reply.
	reply := h.relay.Send(r.Context(), chatbot.Message{
		Type:    req.Type,
		Message: req.Message,
		Image:   req.Image,
	})

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reply})
}
