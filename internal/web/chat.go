package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"nhooyr.io/websocket" //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
)

// Responder produces chat replies. It is implemented by the pipeline.
type Responder interface {
	Respond(ctx context.Context, externalID, displayName, text string) string
}

// chatRequest is one inbound WebSocket frame.
type chatRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"text"`
}

// chatResponse is one outbound WebSocket frame.
type chatResponse struct {
	Text string `json:"text"`
}

// ChatHandler upgrades to WebSocket and exchanges chat frames with one
// client. Each frame is a full pipeline turn; frames on one connection are
// handled in order.
type ChatHandler struct {
	responder Responder
}

// NewChatHandler creates the WebSocket chat handler.
func NewChatHandler(responder Responder) *ChatHandler {
	return &ChatHandler{responder: responder}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{ //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
		InsecureSkipVerify: false,
	})
	if err != nil {
		slog.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "") //nolint:staticcheck,errcheck

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var req chatRequest
		if err := json.Unmarshal(data, &req); err != nil || req.UserID == "" || req.Text == "" {
			h.writeError(ctx, conn, "frame must carry user_id and text")
			continue
		}

		reply := h.responder.Respond(ctx, "web:"+req.UserID, req.Name, req.Text)
		h.write(ctx, conn, chatResponse{Text: reply})
	}
}

func (h *ChatHandler) write(ctx context.Context, conn *websocket.Conn, resp chatResponse) { //nolint:staticcheck
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Warn("websocket write failed", "error", err)
	}
}

func (h *ChatHandler) writeError(ctx context.Context, conn *websocket.Conn, msg string) { //nolint:staticcheck
	data, _ := json.Marshal(map[string]string{"error": msg})
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Warn("websocket write failed", "error", err)
	}
}
