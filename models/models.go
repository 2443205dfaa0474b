package models

import "time"

// MenuItem is a purchasable food or beverage entry offered by a canteen.
type MenuItem struct {
	ID           string  `json:"id"`
	CanteenID    string  `json:"canteenId"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category,omitempty"`
	Price        float64 `json:"price"`
	IsAvailable  bool    `json:"isAvailable"`
	IsVegetarian bool    `json:"isVegetarian"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}

// Canteen is a vendor-operated food outlet on campus.
type Canteen struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	IsOpen   bool   `json:"isOpen"`
}

// Dietary option labels offered by the menu filters.
const (
	DietaryVegetarian    = "Vegetarian"
	DietaryNonVegetarian = "Non-Vegetarian"
	DietaryVegan         = "Vegan"
	DietaryGlutenFree    = "Gluten-Free"
	DietarySpicy         = "Spicy"
	DietaryContainsNuts  = "Contains Nuts"
)

// DietaryOptions lists the selectable dietary labels in display order.
var DietaryOptions = []string{
	DietaryVegetarian,
	DietaryNonVegetarian,
	DietaryVegan,
	DietaryGlutenFree,
	DietarySpicy,
	DietaryContainsNuts,
}

// FilterSpec narrows a menu listing. The zero value excludes nothing.
type FilterSpec struct {
	CanteenName    string   `json:"canteenName,omitempty"`
	Category       string   `json:"category,omitempty"`
	DietaryOptions []string `json:"dietaryOptions,omitempty"`
	AvailableOnly  bool     `json:"availableOnly,omitempty"`
}

// SortKey selects the ordering of a menu listing.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortPriceAsc   SortKey = "priceAsc"
	SortPriceDesc  SortKey = "priceDesc"
	SortRating     SortKey = "rating"
	SortName       SortKey = "name"
)

// SortKeys lists the recognised sort keys in display order.
var SortKeys = []SortKey{SortPopularity, SortPriceAsc, SortPriceDesc, SortRating, SortName}

// SizeOption is a portion size carrying a price delta relative to the base price.
type SizeOption struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	PriceDelta float64 `json:"priceDelta" yaml:"price_delta"`
}

// AddonOption is an extra that adds to the unit price.
type AddonOption struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// RemovalOption is an ingredient the customer asked to leave out. It has no price effect.
type RemovalOption struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Customization is the set of choices a customer makes for one menu item.
type Customization struct {
	ItemID       string   `json:"itemId,omitempty"`
	BasePrice    float64  `json:"basePrice"`
	SizeID       string   `json:"sizeId,omitempty"`
	AddonIDs     []string `json:"addonIds,omitempty"`
	RemovalIDs   []string `json:"removalIds,omitempty"`
	Quantity     int      `json:"quantity"`
	Instructions string   `json:"instructions,omitempty"`
}

// CartLine is a single customised item held in a cart.
type CartLine struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"itemId"`
	CanteenID    string          `json:"canteenId"`
	Name         string          `json:"name"`
	Size         *SizeOption     `json:"size,omitempty"`
	Addons       []AddonOption   `json:"addons,omitempty"`
	Removals     []RemovalOption `json:"removals,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    float64         `json:"unitPrice"`
	Total        float64         `json:"total"`
	AddedAt      time.Time       `json:"addedAt"`
}
