package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/arpg-engine/internal/game"
)

// PriorityOf возвращает приоритет события движка: смерть, уровни и таланты
// не должны теряться при переполнении буфера.
func PriorityOf(t game.EventType) int {
	switch t {
	case game.EventTypePlayerDied:
		return 9
	case game.EventTypeLevelUp, game.EventTypeTalentUnlocked, game.EventTypeEnemyDied,
		game.EventTypeQuestCompleted, game.EventTypePortalActivated:
		return 7
	case game.EventTypeStatusMessage:
		return 1
	default:
		return 3
	}
}

// NewGameEnvelope упаковывает событие движка в конверт
func NewGameEnvelope(ev game.Event, source string, frame uint64) (*Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("сериализация события %s: %w", ev.GetType(), err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: ev.GetType().String(),
		Frame:     frame,
		Priority:  PriorityOf(ev.GetType()),
		Payload:   payload,
	}, nil
}
