package models

import "time"

// Message is a single entry in a conversation's ledger. Read starts false
// and flips true only when the thread is fetched by the non-sender
// participant.
type Message struct {
	Base           `bson:",inline"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	SenderID       string    `bson:"sender_id" json:"senderId"`
	Content        string    `bson:"content" json:"content"`
	CreatedAt      time.Time `bson:"created_at" json:"-"`
	Read           bool      `bson:"read" json:"read"`
}
