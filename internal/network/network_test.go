package network

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/host"
	"github.com/annel0/arpg-engine/internal/logging"
)

type fakeSource struct {
	mu      sync.Mutex
	frame   uint64
	intents []host.Intent
}

func (f *fakeSource) Snapshot() game.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return game.Snapshot{Frame: f.frame, MapName: "arena"}
}

func (f *fakeSource) Submit(in host.Intent) error {
	if err := in.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents = append(f.intents, in)
	return nil
}

func (f *fakeSource) advance() {
	f.mu.Lock()
	f.frame++
	f.mu.Unlock()
}

func (f *fakeSource) submitted() []host.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]host.Intent(nil), f.intents...)
}

func TestCodecRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		codec, err := NewCodec(compress)
		require.NoError(t, err)
		defer codec.Close()

		big := json.RawMessage(`"` + strings.Repeat("a", 4096) + `"`)
		var buf bytes.Buffer
		_, err = codec.WriteMessage(&buf, &Message{Type: MessageSnapshot, Data: big})
		require.NoError(t, err)
		_, err = codec.WriteMessage(&buf, &Message{Type: MessageError, Error: "x"})
		require.NoError(t, err)

		if compress {
			assert.Less(t, buf.Len(), 4096)
		}

		msg, _, err := codec.ReadMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, MessageSnapshot, msg.Type)
		assert.JSONEq(t, string(big), string(msg.Data))

		msg, _, err = codec.ReadMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, "x", msg.Error)
	}
}

func TestCodecReadsCompressedWithoutOption(t *testing.T) {
	writer, err := NewCodec(true)
	require.NoError(t, err)
	defer writer.Close()
	reader, err := NewCodec(false)
	require.NoError(t, err)
	defer reader.Close()

	var buf bytes.Buffer
	data := json.RawMessage(`"` + strings.Repeat("b", 2048) + `"`)
	_, err = writer.WriteMessage(&buf, &Message{Type: MessageSnapshot, Data: data})
	require.NoError(t, err)

	msg, _, err := reader.ReadMessage(&buf)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(msg.Data))
}

func TestCodecRejectsOversizedFrame(t *testing.T) {
	codec, err := NewCodec(false)
	require.NoError(t, err)
	defer codec.Close()

	header := []byte{0xff, 0xff, 0xff, 0x7f, 0}
	_, _, err = codec.ReadMessage(bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestNewKCPServerRequiresSource(t *testing.T) {
	_, err := NewKCPServer("127.0.0.1:0", nil, DefaultChannelConfig(), nil)
	assert.Error(t, err)
}

func TestKCPServerStream(t *testing.T) {
	src := &fakeSource{frame: 1}
	cfg := DefaultChannelConfig()
	cfg.SnapshotInterval = 10 * time.Millisecond
	cfg.Compress = true

	server, err := NewKCPServer("127.0.0.1:0", src, cfg, logging.NewDiscardLogger("test"))
	require.NoError(t, err)
	require.NoError(t, server.Start())
	defer server.Stop()

	client, err := Dial(server.Addr().String(), cfg)
	require.NoError(t, err)
	defer client.Close()

	// KCP сервер узнаёт о клиенте по первому пакету
	require.NoError(t, client.Ping())

	msg, err := client.Receive(2 * time.Second)
	require.NoError(t, err)
	snap, err := DecodeSnapshot(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Frame)
	assert.Equal(t, "arena", snap.MapName)
	assert.Equal(t, 1, server.ClientCount())

	src.advance()
	msg, err = client.Receive(2 * time.Second)
	require.NoError(t, err)
	snap, err = DecodeSnapshot(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Frame)

	require.NoError(t, client.SendIntent(host.Intent{Kind: host.IntentMove, Direction: "left"}))
	require.Eventually(t, func() bool { return len(src.submitted()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "left", src.submitted()[0].Direction)

	// кадр не меняется, следующим придёт отказ
	require.NoError(t, client.SendIntent(host.Intent{Kind: "teleport"}))
	msg, err = client.Receive(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, MessageError, msg.Type)
	assert.NotEmpty(t, msg.Error)

	stats := server.Stats()
	assert.Equal(t, uint64(1), stats.TotalClients)
	assert.Equal(t, uint64(1), stats.IntentsRejected)
	assert.GreaterOrEqual(t, stats.MessagesRecv, uint64(3))
	assert.GreaterOrEqual(t, stats.MessagesSent, uint64(3))
}

func TestKCPServerStopIdempotent(t *testing.T) {
	server, err := NewKCPServer("127.0.0.1:0", &fakeSource{}, DefaultChannelConfig(), logging.NewDiscardLogger("test"))
	require.NoError(t, err)
	require.NoError(t, server.Start())
	require.NotNil(t, server.Addr())

	assert.NoError(t, server.Stop())
	assert.NoError(t, server.Stop())
	assert.Zero(t, server.ClientCount())
}
