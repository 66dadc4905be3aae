package cards

import "github.com/geocards/geocards-api/internal/entities"

// EnsureFieldInput defines the request for loading or seeding the field.
// A nil Center uses the default center; Count <= 0 uses the default size.
type EnsureFieldInput struct {
	Center *entities.Coordinate
	Count  int
}

// EnsureFieldOutput defines the response for loading or seeding the field
type EnsureFieldOutput struct {
	Cards     []*entities.Card
	Generated bool
}

// UpdateLocationInput reports a player position
type UpdateLocationInput struct {
	UserID   string
	Location entities.Coordinate
}

// UpdateLocationOutput lists the cards within the nearby radius
type UpdateLocationOutput struct {
	Nearby []*entities.Card
}

// CollectInput defines the request for collecting a card
type CollectInput struct {
	UserID string
	CardID string
}

// CollectOutput defines the response for collecting a card
type CollectOutput struct {
	Card        *entities.Card
	Experience  int
	Level       int
	LeveledUp   bool
	SyncPending bool
}

// ListInventoryInput defines the request for listing owned items
type ListInventoryInput struct {
	UserID string
}

// ListInventoryOutput holds the owned items ordered by id
type ListInventoryOutput struct {
	Items []*entities.InventoryItem
}
