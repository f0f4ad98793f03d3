package game

// ItemOnGround предмет, лежащий в мире
type ItemOnGround struct {
	Entity *WorldEntity
	Item   *Item
}

// ConsumableOnGround расходник, лежащий в мире
type ConsumableOnGround struct {
	Entity *WorldEntity
	Type   ConsumableType
}

// MoneyPile кучка монет
type MoneyPile struct {
	Entity *WorldEntity
	Amount int
}

// Portal портал. Активированный портал можно использовать как точку назначения.
type Portal struct {
	Entity      *WorldEntity
	ID          PortalID
	Destination PortalID
	Enabled     bool
}
