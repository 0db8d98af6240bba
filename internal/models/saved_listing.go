package models

import "time"

// SavedListing records that a user saved a listing. It is keyed by the
// deterministic (user, listing) composite so at most one record can exist
// per pair without a lookup query. Its existence is the source of truth for
// "is saved"; listing.SaveCount is only a derived display counter.
type SavedListing struct {
	ID        string    `bson:"_id" json:"-"`
	UserID    string    `bson:"user_id" json:"userId"`
	ListingID string    `bson:"listing_id" json:"listingId"`
	SavedAt   time.Time `bson:"saved_at" json:"-"`
}

// SavedListingID derives the composite document id for a (user, listing)
// pair.
func SavedListingID(userID, listingID string) string {
	return userID + "_" + listingID
}
