package models

import "time"

// ListingType categorizes a listing.
type ListingType string

const (
	ListingTypeClothes   ListingType = "clothes"
	ListingTypeTextbooks ListingType = "textbooks"
	ListingTypeTech      ListingType = "tech"
	ListingTypeFurniture ListingType = "furniture"
	ListingTypeTickets   ListingType = "tickets"
	ListingTypeServices  ListingType = "services"
	ListingTypeOther     ListingType = "other"
)

// Valid reports whether t is one of the known listing types.
func (t ListingType) Valid() bool {
	switch t {
	case ListingTypeClothes, ListingTypeTextbooks, ListingTypeTech,
		ListingTypeFurniture, ListingTypeTickets, ListingTypeServices,
		ListingTypeOther:
		return true
	}
	return false
}

// Listing represents a marketplace listing. ViewCount and SaveCount are
// display caches: SaveCount derives from the savedListings ledger and both
// are clamped non-negative.
type Listing struct {
	Base         `bson:",inline"`
	Title        string      `bson:"title" json:"title"`
	Description  string      `bson:"description" json:"description"`
	Price        float64     `bson:"price" json:"price"`
	Type         ListingType `bson:"type" json:"type"`
	ClothingType string      `bson:"clothing_type,omitempty" json:"clothingType,omitempty"`
	Condition    string      `bson:"condition,omitempty" json:"condition,omitempty"`
	Size         string      `bson:"size,omitempty" json:"size,omitempty"`
	Gender       string      `bson:"gender,omitempty" json:"gender,omitempty"`
	UserID       string      `bson:"user_id" json:"userId"`
	CreatedAt    time.Time   `bson:"created_at" json:"-"`
	ImageURLs    []string    `bson:"image_urls" json:"imageUrls"`
	IsPrivate    bool        `bson:"is_private" json:"isPrivate"`
	IsSold       bool        `bson:"is_sold" json:"isSold"`
	ViewCount    int64       `bson:"view_count" json:"viewCount"`
	SaveCount    int64       `bson:"save_count" json:"saveCount"`
}

// ListingStats is the public counter pair for a listing.
type ListingStats struct {
	ViewCount int64 `json:"viewCount"`
	SaveCount int64 `json:"saveCount"`
}
