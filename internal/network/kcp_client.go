package network

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/xtaci/kcp-go/v5"

	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/host"
)

// Client клиент KCP потока снимков
type Client struct {
	conn  *kcp.UDPSession
	codec *Codec
	mu    sync.Mutex
}

// Dial подключается к KCPServer. Параметры FEC должны совпадать с серверными.
func Dial(addr string, config ChannelConfig) (*Client, error) {
	config.applyDefaults()
	conn, err := kcp.DialWithOptions(addr, nil, config.DataShards, config.ParityShards)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	tuneSession(conn)

	codec, err := NewCodec(config.Compress)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, codec: codec}, nil
}

// SendIntent отправляет намерение игрока
func (c *Client) SendIntent(in host.Intent) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.send(&Message{Type: MessageIntent, Data: data})
}

// Ping продлевает соединение без намерений
func (c *Client) Ping() error {
	return c.send(&Message{Type: MessagePing})
}

func (c *Client) send(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.codec.WriteMessage(c.conn, msg)
	return err
}

// Receive ждёт следующее сообщение сервера не дольше timeout
func (c *Client) Receive(timeout time.Duration) (*Message, error) {
	if timeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	}
	msg, _, err := c.codec.ReadMessage(c.conn)
	return msg, err
}

// DecodeSnapshot разбирает данные сообщения типа snapshot
func DecodeSnapshot(msg *Message) (game.Snapshot, error) {
	var snap game.Snapshot
	if msg.Type != MessageSnapshot {
		return snap, fmt.Errorf("ожидался снимок, получено %q", msg.Type)
	}
	err := json.Unmarshal(msg.Data, &snap)
	return snap, err
}

// Close закрывает соединение
func (c *Client) Close() error {
	err := c.conn.Close()
	c.codec.Close()
	return err
}
