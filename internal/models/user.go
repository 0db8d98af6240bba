package models

import "time"

// User represents a marketplace user. The ID is the identity provider's
// stable uid, assigned on first successful authentication and immutable;
// profile fields are mutable.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	FirstName      string    `bson:"first_name" json:"firstName"`
	LastName       string    `bson:"last_name" json:"lastName"`
	ProfilePicture string    `bson:"profile_picture" json:"profilePicture"`
	Email          string    `bson:"email" json:"email"`
	CreatedAt      time.Time `bson:"created_at" json:"-"`
	UpdatedAt      time.Time `bson:"updated_at" json:"-"`
}

// UserProfile is the denormalized participant summary embedded in
// conversation views.
type UserProfile struct {
	UID            string `json:"uid"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
}

// Profile shapes the user for embedding in enriched responses.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		UID:            u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}
