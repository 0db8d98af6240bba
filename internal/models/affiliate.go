package models

import "time"

// Affiliate is a partner link whose clicks are counted transactionally.
// Clicks on missing or inactive affiliates are dropped, not errors.
type Affiliate struct {
	Base       `bson:",inline"`
	Name       string    `bson:"name" json:"name"`
	URL        string    `bson:"url" json:"url"`
	IsActive   bool      `bson:"is_active" json:"isActive"`
	ClickCount int64     `bson:"click_count" json:"clickCount"`
	UpdatedAt  time.Time `bson:"updated_at" json:"-"`
}
