package models

import "time"

// Conversation is a two-participant message thread scoped to one listing.
// Key is the deterministic dedup key (sorted participant pair + listing); a
// unique index on it guarantees at most one conversation per triple even
// under concurrent creators. LastMessage/LastMessageAt are a denormalized
// summary of the messages ledger.
type Conversation struct {
	Base          `bson:",inline"`
	Key           string    `bson:"key" json:"-"`
	Participants  []string  `bson:"participants" json:"participants"`
	ListingID     string    `bson:"listing_id" json:"listingId"`
	LastMessage   string    `bson:"last_message" json:"lastMessage"`
	LastMessageAt time.Time `bson:"last_message_at" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"-"`
}

// ConversationKey builds the order-insensitive dedup key for a participant
// pair and listing.
func ConversationKey(userA, userB, listingID string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "|" + userB + "|" + listingID
}

// HasParticipant reports whether userID is a member of the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the first participant whose id differs from
// userID, or "" if there is none.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}
