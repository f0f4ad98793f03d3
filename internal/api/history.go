package api

import (
	"context"
	"sort"
	"sync"

	"github.com/annel0/arpg-engine/internal/eventbus"
)

const defaultHistorySize = 256

// History кольцевой буфер последних событий шины
type History struct {
	mu     sync.RWMutex
	events []eventbus.Envelope
	next   int
	full   bool
}

// NewHistory создаёт буфер на size событий
func NewHistory(size int) *History {
	if size <= 0 {
		size = defaultHistorySize
	}
	return &History{events: make([]eventbus.Envelope, size)}
}

// Attach подписывает буфер на все события шины
func (h *History) Attach(bus eventbus.EventBus) (eventbus.Subscription, error) {
	return bus.Subscribe(context.Background(), eventbus.Filter{}, func(_ context.Context, ev *eventbus.Envelope) {
		h.Add(*ev)
	})
}

// Add добавляет событие, вытесняя самое старое
func (h *History) Add(ev eventbus.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[h.next] = ev
	h.next++
	if h.next == len(h.events) {
		h.next = 0
		h.full = true
	}
}

// Len возвращает число событий в буфере
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.full {
		return len(h.events)
	}
	return h.next
}

// Recent возвращает до limit последних событий (limit <= 0 - все) в порядке
// кадров. Пустой eventType - события всех типов.
func (h *History) Recent(limit int, eventType string) []eventbus.Envelope {
	h.mu.RLock()
	var out []eventbus.Envelope
	if h.full {
		out = append(out, h.events[h.next:]...)
	}
	out = append(out, h.events[:h.next]...)
	h.mu.RUnlock()

	// обработчики шины работают параллельно, порядок прихода не гарантирован
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frame != out[j].Frame {
			return out[i].Frame < out[j].Frame
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	if eventType != "" {
		filtered := out[:0]
		for _, ev := range out {
			if ev.EventType == eventType {
				filtered = append(filtered, ev)
			}
		}
		out = filtered
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
