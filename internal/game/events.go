package game

import (
	"github.com/annel0/arpg-engine/internal/combat"
)

// EventType определяет тип игрового события
type EventType uint8

const (
	EventTypeAbilityUsed        EventType = iota // Игрок применил способность
	EventTypeConsumableUsed                      // Игрок использовал расходник
	EventTypePlayerDamagedEnemy                  // Игрок нанёс урон NPC
	EventTypePlayerLostHealth                    // Игрок получил урон
	EventTypeEnemyDied                           // NPC погиб
	EventTypePlayerDied                          // Игрок погиб
	EventTypeLevelUp                             // Новый уровень
	EventTypeTalentUnlocked                      // Доступен выбор таланта
	EventTypeTalentChosen                        // Талант выбран
	EventTypeItemPickedUp                        // Подобран предмет
	EventTypeConsumablePickedUp                  // Подобран расходник
	EventTypeMoneyPickedUp                       // Подобраны деньги
	EventTypePortalActivated                     // Портал активирован
	EventTypePortalUsed                          // Игрок прошёл через портал
	EventTypeNPCSpawned                          // NPC призван во время игры
	EventTypeStatusMessage                       // Сообщение для интерфейса
	EventTypeQuestStarted                        // Квест взят
	EventTypeQuestCompleted                      // Квест выполнен
)

var eventTypeNames = map[EventType]string{
	EventTypeAbilityUsed:        "ability_used",
	EventTypeConsumableUsed:     "consumable_used",
	EventTypePlayerDamagedEnemy: "player_damaged_enemy",
	EventTypePlayerLostHealth:   "player_lost_health",
	EventTypeEnemyDied:          "enemy_died",
	EventTypePlayerDied:         "player_died",
	EventTypeLevelUp:            "level_up",
	EventTypeTalentUnlocked:     "talent_unlocked",
	EventTypeTalentChosen:       "talent_chosen",
	EventTypeItemPickedUp:       "item_picked_up",
	EventTypeConsumablePickedUp: "consumable_picked_up",
	EventTypeMoneyPickedUp:      "money_picked_up",
	EventTypePortalActivated:    "portal_activated",
	EventTypePortalUsed:         "portal_used",
	EventTypeNPCSpawned:         "npc_spawned",
	EventTypeStatusMessage:      "status_message",
	EventTypeQuestStarted:       "quest_started",
	EventTypeQuestCompleted:     "quest_completed",
}

// String возвращает имя типа события
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event представляет собой интерфейс для всех игровых событий
type Event interface {
	GetType() EventType
}

// DamageSource описывает происхождение урона. Эффекты предметов проверяют
// его, чтобы не срабатывать на собственный урон.
type DamageSource string

const (
	DamageSourceMelee      DamageSource = "melee"
	DamageSourceProjectile DamageSource = "projectile"
	DamageSourceAbility    DamageSource = "ability"
	DamageSourceBuff       DamageSource = "buff"
	DamageSourceItem       DamageSource = "item"
)

type AbilityUsedEvent struct {
	Ability AbilityType `json:"ability"`
}

func (e AbilityUsedEvent) GetType() EventType { return EventTypeAbilityUsed }

type ConsumableUsedEvent struct {
	Consumable ConsumableType `json:"consumable"`
	Slot       int            `json:"slot"`
}

func (e ConsumableUsedEvent) GetType() EventType { return EventTypeConsumableUsed }

// PlayerDamagedEnemyEvent несёт итоговый урон после всех модификаторов
type PlayerDamagedEnemyEvent struct {
	NPC        *NonPlayerCharacter `json:"-"`
	NPCID      uint64              `json:"npc_id"`
	NPCType    NpcType             `json:"npc_type"`
	Amount     float64             `json:"amount"`
	DamageType combat.DamageType   `json:"damage_type"`
	Source     DamageSource        `json:"source"`
}

func (e PlayerDamagedEnemyEvent) GetType() EventType { return EventTypePlayerDamagedEnemy }

type PlayerLostHealthEvent struct {
	Amount     float64           `json:"amount"`
	DamageType combat.DamageType `json:"damage_type"`
	AttackerID uint64            `json:"attacker_id,omitempty"`
}

func (e PlayerLostHealthEvent) GetType() EventType { return EventTypePlayerLostHealth }

type EnemyDiedEvent struct {
	NPC     *NonPlayerCharacter `json:"-"`
	NPCID   uint64              `json:"npc_id"`
	NPCType NpcType             `json:"npc_type"`
	IsBoss  bool                `json:"is_boss"`
}

func (e EnemyDiedEvent) GetType() EventType { return EventTypeEnemyDied }

type PlayerDiedEvent struct{}

func (e PlayerDiedEvent) GetType() EventType { return EventTypePlayerDied }

type LevelUpEvent struct {
	Level int `json:"level"`
}

func (e LevelUpEvent) GetType() EventType { return EventTypeLevelUp }

type TalentUnlockedEvent struct {
	Tier  int `json:"tier"`
	Level int `json:"level"`
}

func (e TalentUnlockedEvent) GetType() EventType { return EventTypeTalentUnlocked }

type TalentChosenEvent struct {
	Tier   int    `json:"tier"`
	Option int    `json:"option"`
	Name   string `json:"name"`
}

func (e TalentChosenEvent) GetType() EventType { return EventTypeTalentChosen }

type ItemPickedUpEvent struct {
	Item     ItemType `json:"item"`
	Equipped bool     `json:"equipped"`
}

func (e ItemPickedUpEvent) GetType() EventType { return EventTypeItemPickedUp }

type ConsumablePickedUpEvent struct {
	Consumable ConsumableType `json:"consumable"`
}

func (e ConsumablePickedUpEvent) GetType() EventType { return EventTypeConsumablePickedUp }

type MoneyPickedUpEvent struct {
	Amount int `json:"amount"`
}

func (e MoneyPickedUpEvent) GetType() EventType { return EventTypeMoneyPickedUp }

type PortalActivatedEvent struct {
	Portal PortalID `json:"portal"`
}

func (e PortalActivatedEvent) GetType() EventType { return EventTypePortalActivated }

type PortalUsedEvent struct {
	From PortalID `json:"from"`
	To   PortalID `json:"to"`
}

func (e PortalUsedEvent) GetType() EventType { return EventTypePortalUsed }

type NPCSpawnedEvent struct {
	NPCID   uint64  `json:"npc_id"`
	NPCType NpcType `json:"npc_type"`
}

func (e NPCSpawnedEvent) GetType() EventType { return EventTypeNPCSpawned }

type StatusMessageEvent struct {
	Text string `json:"text"`
}

func (e StatusMessageEvent) GetType() EventType { return EventTypeStatusMessage }

type QuestStartedEvent struct {
	Quest QuestID `json:"quest"`
}

func (e QuestStartedEvent) GetType() EventType { return EventTypeQuestStarted }

type QuestCompletedEvent struct {
	Quest QuestID `json:"quest"`
}

func (e QuestCompletedEvent) GetType() EventType { return EventTypeQuestCompleted }
