package entities

// Profile is the persisted player record at users/{uid}
type Profile struct {
	Email      string                    `json:"email"`
	Experience int                       `json:"experience"`
	Level      int                       `json:"level"`
	CreatedAt  int64                     `json:"createdAt"`
	LastLogin  int64                     `json:"lastLogin"`
	Inventory  map[string]*InventoryItem `json:"inventory,omitempty"`
	Guild      string                    `json:"guild,omitempty"`
}
