package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/m3hr4nn/logboss/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// message is the envelope sent over the socket.
type message struct {
	Type     string          `json:"type"` // "summary" or "progress"
	Summary  *model.Summary  `json:"summary,omitempty"`
	Progress *model.Progress `json:"progress,omitempty"`
}

// handleWebSocket sends the current summary, then one message per completed
// file, and a final summary once the scan ends.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Subscribe before the first snapshot so no event falls in between.
	events := s.hub.Subscribe()
	defer s.hub.Unsubscribe(events)

	// Read pump: detect client disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	if err := s.writeSummary(conn); err != nil {
		return
	}

	// Write pump.
	for ev := range events {
		if err := conn.WriteJSON(message{Type: "progress", Progress: &ev}); err != nil {
			s.log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}

	// Hub closed: the scan is over.
	if err := s.writeSummary(conn); err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "scan complete"))
}

func (s *Server) writeSummary(conn *websocket.Conn) error {
	summary := s.stats.Snapshot()
	if err := conn.WriteJSON(message{Type: "summary", Summary: &summary}); err != nil {
		s.log.Debug().Err(err).Msg("websocket write failed")
		return err
	}
	return nil
}
