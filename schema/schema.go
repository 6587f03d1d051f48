package schema

type (
	// Fruit represents a tradable item.
	Fruit struct {
		ID              int     `json:"id"`
		Name            string  `json:"name"`
		FlavorProfile   string  `json:"flavor_profile"`
		DimensionOrigin string  `json:"dimension_origin"`
		RarityLevel     int     `json:"rarity_level"`
		BaseValue       float64 `json:"base_value"`
		PhotoURL        *string `json:"photo_url,omitempty"`
	}

	// InventoryItem represents a vendor's holding of one fruit.
	InventoryItem struct {
		FruitID  int   `json:"fruit_id"`
		Quantity int   `json:"quantity"`
		Fruit    Fruit `json:"fruit"`
	}

	// Vendor represents a trading party, one per user.
	Vendor struct {
		ID             int             `json:"id"`
		Name           string          `json:"name"`
		Species        string          `json:"species"`
		HomeDimension  string          `json:"home_dimension"`
		InventoryItems []InventoryItem `json:"inventory_items"`
	}

	// Price represents a dated fruit price.
	Price struct {
		ID      int     `json:"id"`
		FruitID int     `json:"fruit_id"`
		Date    string  `json:"date"`
		Price   float64 `json:"price"`
	}

	// PriceList represents the prices endpoint response.
	PriceList struct {
		Prices []Price `json:"prices"`
	}

	// AddFruitRequest adds quantity of a fruit to the caller's inventory.
	AddFruitRequest struct {
		FruitID  int `json:"fruit_id"`
		Quantity int `json:"quantity"`
	}

	// AddFruitResult represents the add-fruit response.
	AddFruitResult struct {
		Success bool `json:"success"`
	}

	// ErrorDetail represents an upstream error body, either {"detail": ...} or {"error": ...}.
	ErrorDetail struct {
		Detail string `json:"detail,omitempty"`
		Error  string `json:"error,omitempty"`
	}
)
