package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/annel0/arpg-engine/internal/save"
)

// zstdMagic первые байты кадра zstd
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Codec сериализует сохранения в JSON и при необходимости сжимает их zstd.
// Decode распознаёт оба формата, поэтому включение сжатия не ломает
// старые записи.
type Codec struct {
	compress     bool
	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// NewCodec создаёт кодек
func NewCodec(compress bool) (*Codec, error) {
	c := &Codec{compress: compress}
	var err error
	c.compressor, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	c.decompressor, err = zstd.NewReader(nil)
	if err != nil {
		c.compressor.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}
	return c, nil
}

// Encode сериализует сохранение
func (c *Codec) Encode(d save.SaveData) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации сохранения: %w", err)
	}
	if !c.compress {
		return raw, nil
	}
	return c.compressor.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode восстанавливает сохранение и проверяет его
func (c *Codec) Decode(blob []byte) (save.SaveData, error) {
	raw := blob
	if bytes.HasPrefix(blob, zstdMagic) {
		var err error
		raw, err = c.decompressor.DecodeAll(blob, nil)
		if err != nil {
			return save.SaveData{}, fmt.Errorf("ошибка распаковки сохранения: %w", err)
		}
	}
	var d save.SaveData
	if err := json.Unmarshal(raw, &d); err != nil {
		return save.SaveData{}, fmt.Errorf("ошибка десериализации сохранения: %w", err)
	}
	if err := d.Validate(); err != nil {
		return save.SaveData{}, err
	}
	return d, nil
}

// Close освобождает ресурсы zstd
func (c *Codec) Close() {
	c.compressor.Close()
	c.decompressor.Close()
}
