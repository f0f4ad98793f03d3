package network

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Кадр: 4 байта длины тела (little endian), 1 байт флагов, тело JSON.
const (
	headerSize        = 5
	flagZstd     byte = 1 << 0
	maxFrameSize      = 1 << 20
	// compressThreshold меньшие кадры не сжимаются
	compressThreshold = 512
)

// ErrFrameTooLarge кадр длиннее maxFrameSize
var ErrFrameTooLarge = errors.New("network: кадр слишком большой")

// Message сообщение канала в обе стороны
type Message struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Codec кодирует сообщения в кадры. Безопасен для конкурентного использования.
type Codec struct {
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// NewCodec создаёт кодек; compress включает сжатие исходящих кадров.
// Входящие сжатые кадры читаются всегда.
func NewCodec(compress bool) (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(4*maxFrameSize))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &Codec{compress: compress, encoder: enc, decoder: dec}, nil
}

// Encode сериализует сообщение в кадр
func (c *Codec) Encode(msg *Message) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	var flags byte
	if c.compress && len(body) >= compressThreshold {
		body = c.encoder.EncodeAll(body, nil)
		flags |= flagZstd
	}
	if len(body) > maxFrameSize {
		return nil, ErrFrameTooLarge
	}

	frame := make([]byte, headerSize+len(body))
	binary.LittleEndian.PutUint32(frame, uint32(len(body)))
	frame[4] = flags
	copy(frame[headerSize:], body)
	return frame, nil
}

// WriteMessage пишет сообщение одним вызовом Write
func (c *Codec) WriteMessage(w io.Writer, msg *Message) (int, error) {
	frame, err := c.Encode(msg)
	if err != nil {
		return 0, err
	}
	return w.Write(frame)
}

// ReadMessage читает один кадр из потока
func (c *Codec) ReadMessage(r io.Reader) (*Message, int, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, 0, err
	}

	length := binary.LittleEndian.Uint32(header[:4])
	if length > maxFrameSize {
		return nil, headerSize, ErrFrameTooLarge
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, headerSize, err
	}
	n := headerSize + int(length)

	if header[4]&flagZstd != 0 {
		var err error
		body, err = c.decoder.DecodeAll(body, nil)
		if err != nil {
			return nil, n, fmt.Errorf("decompression failed: %w", err)
		}
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, n, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, n, nil
}

// Close освобождает ресурсы zstd
func (c *Codec) Close() {
	c.encoder.Close()
	c.decoder.Close()
}
