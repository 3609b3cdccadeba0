package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
)

// wsChatRequest is one inbound frame on the chat socket. The session id
// from the first frame sticks for the connection when later frames omit
// it.
type wsChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type wsErrorFrame struct {
	Error string `json:"error"`
}

// handleChatWS runs a chat conversation over a WebSocket: one JSON
// request frame in, one turn result frame out. The connection closes
// when the client does.
func (s *Server) handleChatWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		return nil
	})

	sessionID := uuid.NewString()
	userID := "default"

	for {
		var req wsChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.deps.Logger.Debug("chat socket closed", "session_id", sessionID, "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))

		if req.SessionID != "" {
			sessionID = req.SessionID
		}
		if req.UserID != "" {
			userID = req.UserID
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if req.Message == "" {
			if err := conn.WriteJSON(wsErrorFrame{Error: "message is required"}); err != nil {
				return
			}
			continue
		}

		result := s.deps.Engine.ProcessMessage(c.Request.Context(), sessionID, userID, req.Message)
		if err := conn.WriteJSON(result); err != nil {
			return
		}
	}
}
