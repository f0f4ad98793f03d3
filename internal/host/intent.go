package host

import (
	"fmt"

	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/physics"
)

// IntentKind вид намерения игрока
type IntentKind string

const (
	IntentMove          IntentKind = "move"
	IntentStop          IntentKind = "stop"
	IntentAbility       IntentKind = "ability"
	IntentConsumable    IntentKind = "consumable"
	IntentInteract      IntentKind = "interact"
	IntentEquip         IntentKind = "equip"
	IntentUnequip       IntentKind = "unequip"
	IntentTalent        IntentKind = "talent"
	IntentStartQuest    IntentKind = "start_quest"
	IntentCompleteQuest IntentKind = "complete_quest"
)

// Intent намерение игрока, пришедшее извне (HTTP, websocket, тесты).
// Применяется в начале следующего кадра.
type Intent struct {
	Kind      IntentKind `json:"kind" binding:"required"`
	Direction string     `json:"direction,omitempty"`
	Ability   string     `json:"ability,omitempty"`
	Slot      int        `json:"slot,omitempty"` // слот расходника (с 1) или ячейка рюкзака (с 0)
	Equipment string     `json:"equipment,omitempty"`
	Tier      int        `json:"tier,omitempty"`
	Option    int        `json:"option,omitempty"`
	Quest     string     `json:"quest,omitempty"`
}

// Validate проверяет форму намерения без обращения к состоянию мира
func (in Intent) Validate() error {
	switch in.Kind {
	case IntentMove:
		_, err := physics.ParseDirection(in.Direction)
		return err
	case IntentAbility:
		if in.Ability == "" {
			return fmt.Errorf("не указана способность")
		}
	case IntentUnequip:
		for _, slot := range game.EquipmentSlots {
			if string(slot) == in.Equipment {
				return nil
			}
		}
		return fmt.Errorf("неизвестный слот экипировки %q", in.Equipment)
	case IntentStartQuest, IntentCompleteQuest:
		if in.Quest == "" {
			return fmt.Errorf("не указан квест")
		}
	case IntentStop, IntentConsumable, IntentInteract, IntentEquip, IntentTalent:
	default:
		return fmt.Errorf("неизвестное намерение %q", in.Kind)
	}
	return nil
}

// Apply применяет намерение к движку. Отказы движка (game.Rejection)
// возвращаются как есть; каталог не паникует на внешних данных.
func Apply(e *game.Engine, in Intent) error {
	if err := in.Validate(); err != nil {
		return err
	}
	switch in.Kind {
	case IntentMove:
		dir, _ := physics.ParseDirection(in.Direction)
		e.MoveInDirection(dir)
	case IntentStop:
		e.StopMoving()
	case IntentAbility:
		a := game.AbilityType(in.Ability)
		if !e.Catalog().HasAbility(a) {
			return fmt.Errorf("неизвестная способность %q", in.Ability)
		}
		return e.TryUseAbility(a)
	case IntentConsumable:
		return e.TryUseConsumable(in.Slot)
	case IntentInteract:
		return e.TryInteract()
	case IntentEquip:
		return e.TryEquipItem(in.Slot)
	case IntentUnequip:
		return e.TryUnequipItem(game.EquipmentSlot(in.Equipment))
	case IntentTalent:
		return e.ChooseTalent(in.Tier, in.Option)
	case IntentStartQuest:
		if !e.StartQuest(game.QuestID(in.Quest)) {
			return fmt.Errorf("квест %q уже взят или выполнен", in.Quest)
		}
	case IntentCompleteQuest:
		if !e.CompleteQuest(game.QuestID(in.Quest)) {
			return fmt.Errorf("квест %q не активен", in.Quest)
		}
	}
	return nil
}
