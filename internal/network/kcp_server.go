package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xtaci/kcp-go/v5"

	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/host"
	"github.com/annel0/arpg-engine/internal/logging"
)

// SnapshotSource источник кадров и приёмник намерений; реализуется *host.Host
type SnapshotSource interface {
	Snapshot() game.Snapshot
	Submit(in host.Intent) error
}

// KCPServer раздаёт снимки новых кадров подключённым клиентам
// и передаёт их намерения хосту
type KCPServer struct {
	addr     string
	source   SnapshotSource
	config   ChannelConfig
	codec    *Codec
	listener *kcp.Listener
	logger   *logging.Logger

	clients   map[string]*kcpClient
	clientsMu sync.RWMutex

	done    chan struct{}
	stopped atomic.Bool
	wg      sync.WaitGroup

	totalClients    atomic.Uint64
	messagesSent    atomic.Uint64
	messagesRecv    atomic.Uint64
	bytesSent       atomic.Uint64
	bytesReceived   atomic.Uint64
	intentsRejected atomic.Uint64
}

// kcpClient клиентское соединение; запись сериализуется mu
type kcpClient struct {
	id   string
	conn *kcp.UDPSession
	mu   sync.Mutex
}

// NewKCPServer создаёт сервер; слушать порт он начинает в Start
func NewKCPServer(addr string, source SnapshotSource, config ChannelConfig, logger *logging.Logger) (*KCPServer, error) {
	if source == nil {
		return nil, errors.New("network: не задан источник снимков")
	}
	config.applyDefaults()
	if logger == nil {
		logger = logging.GetNetworkLogger()
	}
	codec, err := NewCodec(config.Compress)
	if err != nil {
		return nil, err
	}
	return &KCPServer{
		addr:    addr,
		source:  source,
		config:  config,
		codec:   codec,
		logger:  logger,
		clients: make(map[string]*kcpClient),
		done:    make(chan struct{}),
	}, nil
}

// Start открывает UDP порт и принимает клиентов в фоне
func (s *KCPServer) Start() error {
	listener, err := kcp.ListenWithOptions(s.addr, nil, s.config.DataShards, s.config.ParityShards)
	if err != nil {
		return fmt.Errorf("failed to start KCP server: %w", err)
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("🚀 KCP сервер запущен на %s", listener.Addr())
	return nil
}

// Addr возвращает фактический адрес после Start
func (s *KCPServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop закрывает порт и все соединения
func (s *KCPServer) Stop() error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.clientsMu.Lock()
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.clientsMu.Unlock()

	s.wg.Wait()
	s.codec.Close()
	s.logger.Info("🛑 KCP сервер остановлен")
	return err
}

// ClientCount возвращает число подключённых клиентов
func (s *KCPServer) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Stats возвращает счётчики сервера
func (s *KCPServer) Stats() ConnectionStats {
	return ConnectionStats{
		ActiveClients:   s.ClientCount(),
		TotalClients:    s.totalClients.Load(),
		MessagesSent:    s.messagesSent.Load(),
		MessagesRecv:    s.messagesRecv.Load(),
		BytesSent:       s.bytesSent.Load(),
		BytesReceived:   s.bytesReceived.Load(),
		IntentsRejected: s.intentsRejected.Load(),
	}
}

func (s *KCPServer) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.AcceptKCP()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			s.logger.Error("❌ KCP accept: %v", err)
			continue
		}

		tuneSession(conn)
		c := &kcpClient{id: uuid.NewString(), conn: conn}

		s.clientsMu.Lock()
		if s.stopped.Load() {
			s.clientsMu.Unlock()
			conn.Close()
			return
		}
		s.clients[c.id] = c
		s.clientsMu.Unlock()
		s.totalClients.Add(1)

		s.wg.Add(1)
		go s.serve(c)
	}
}

// tuneSession настраивает KCP для игрового трафика
func tuneSession(conn *kcp.UDPSession) {
	conn.SetStreamMode(true)
	conn.SetWriteDelay(false)
	conn.SetNoDelay(1, 20, 2, 1)
	conn.SetWindowSize(512, 512)
	conn.SetMtu(1400)
}

func (s *KCPServer) serve(c *kcpClient) {
	defer s.wg.Done()
	s.logger.Info("🔗 KCP клиент подключен: %s (%s)", c.id, c.conn.RemoteAddr())

	stop := make(chan struct{})
	var pushWG sync.WaitGroup
	pushWG.Add(1)
	go func() {
		defer pushWG.Done()
		s.pushSnapshots(c, stop)
	}()

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout))
		msg, n, err := s.codec.ReadMessage(c.conn)
		s.bytesReceived.Add(uint64(n))
		if err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Debug("KCP клиент %s: %v", c.id, err)
			}
			break
		}
		s.messagesRecv.Add(1)
		s.handleMessage(c, msg)
	}

	close(stop)
	pushWG.Wait()
	c.conn.Close()

	s.clientsMu.Lock()
	delete(s.clients, c.id)
	s.clientsMu.Unlock()
	s.logger.Info("👋 KCP клиент отключен: %s", c.id)
}

func (s *KCPServer) handleMessage(c *kcpClient, msg *Message) {
	switch msg.Type {
	case MessagePing:
	case MessageIntent:
		var in host.Intent
		if err := json.Unmarshal(msg.Data, &in); err != nil {
			s.reject(c, fmt.Errorf("неверный формат намерения: %w", err))
			return
		}
		if err := s.source.Submit(in); err != nil {
			s.reject(c, err)
		}
	default:
		s.reject(c, fmt.Errorf("неизвестный тип сообщения %q", msg.Type))
	}
}

func (s *KCPServer) reject(c *kcpClient, err error) {
	s.intentsRejected.Add(1)
	if werr := s.send(c, &Message{Type: MessageError, Error: err.Error()}); werr != nil {
		s.logger.Debug("KCP клиент %s: %v", c.id, werr)
	}
}

// pushSnapshots отправляет снимок, только если кадр сменился
func (s *KCPServer) pushSnapshots(c *kcpClient, stop <-chan struct{}) {
	ticker := time.NewTicker(s.config.SnapshotInterval)
	defer ticker.Stop()

	sent := false
	var lastFrame uint64
	for {
		snap := s.source.Snapshot()
		if !sent || snap.Frame != lastFrame {
			data, err := json.Marshal(snap)
			if err != nil {
				s.logger.Error("❌ Сериализация снимка: %v", err)
				return
			}
			if err := s.send(c, &Message{Type: MessageSnapshot, Data: data}); err != nil {
				return
			}
			sent = true
			lastFrame = snap.Frame
		}

		select {
		case <-stop:
			return
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

func (s *KCPServer) send(c *kcpClient, msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := s.codec.WriteMessage(c.conn, msg)
	if err != nil {
		return err
	}
	s.messagesSent.Add(1)
	s.bytesSent.Add(uint64(n))
	return nil
}
