package game

// Rejection - отказ в действии игрока. Это нормальный исход, а не ошибка
// программы: текст показывается в интерфейсе.
type Rejection string

func (r Rejection) Error() string { return string(r) }

const (
	RejectNotEnoughMana     Rejection = "Not enough mana!"
	RejectOnCooldown        Rejection = "Ability is on cooldown!"
	RejectStunned           Rejection = "You are stunned!"
	RejectAbilityNotLearned Rejection = "You don't know that ability!"
	RejectEmptySlot         Rejection = "Nothing in that slot!"
	RejectInvalidSlot       Rejection = "Invalid slot!"
	RejectInventoryFull     Rejection = "Inventory is full!"
	RejectFullHealth        Rejection = "Already at full health!"
	RejectFullMana          Rejection = "Already at full mana!"
	RejectNothingToInteract Rejection = "Nothing to interact with."
	RejectPortalNotActive   Rejection = "The other portal is not activated."
	RejectPortalBlocked     Rejection = "Something blocks the portal exit."
	RejectTalentLocked      Rejection = "Talent tier is locked!"
	RejectTalentChosen      Rejection = "Talent already chosen!"
	RejectInvalidTalent     Rejection = "No such talent!"
	RejectGameOver          Rejection = "Game over."
	RejectCannotEquip       Rejection = "Can't equip that!"
	RejectNoTarget          Rejection = "No target in range."
)
