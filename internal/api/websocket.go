package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/annel0/arpg-engine/internal/host"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 15 * time.Second
	wsReadLimit    = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage сообщение сервера клиенту
type wsMessage struct {
	Type  string      `json:"type"` // snapshot | error
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// safeConn сериализует запись в соединение из нескольких горутин
type safeConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *safeConn) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.conn.WriteJSON(v)
}

func (w *safeConn) WritePing() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

// handleSnapshotStream рассылает снимки новых кадров и принимает намерения
// игрока в формате host.Intent
func (rs *RestServer) handleSnapshotStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rs.logger.Warn("⚠️ WebSocket upgrade: %v", err)
		return
	}
	conn.SetReadLimit(wsReadLimit)
	w := &safeConn{conn: conn}
	rs.logger.Info("🔌 WebSocket подключен: %s", c.ClientIP())

	done := make(chan struct{})
	go rs.pushSnapshots(w, done)

	for {
		var in host.Intent
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				rs.logger.Warn("⚠️ WebSocket чтение: %v", err)
			}
			break
		}
		if err := rs.host.Submit(in); err != nil {
			if werr := w.WriteJSON(wsMessage{Type: "error", Error: err.Error()}); werr != nil {
				break
			}
		}
	}

	close(done)
	conn.Close()
	rs.logger.Info("🔌 WebSocket отключен: %s", c.ClientIP())
}

// pushSnapshots отправляет снимок, только если кадр сменился
func (rs *RestServer) pushSnapshots(w *safeConn, done <-chan struct{}) {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()
	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	sent := false
	var lastFrame uint64
	for {
		select {
		case <-done:
			return
		case <-ping.C:
			if err := w.WritePing(); err != nil {
				return
			}
		case <-ticker.C:
			snap := rs.host.Snapshot()
			if sent && snap.Frame == lastFrame {
				continue
			}
			if err := w.WriteJSON(wsMessage{Type: "snapshot", Data: snap}); err != nil {
				return
			}
			sent = true
			lastFrame = snap.Frame
		}
	}
}
