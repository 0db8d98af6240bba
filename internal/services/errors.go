package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto the HTTP
// error taxonomy; mongo.ErrNoDocuments remains the not-found sentinel.
var (
	// ErrInvalidInput marks validation failures. Wrap it with %w so the
	// handler can return the specific message with a 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelfConversation is returned when a user tries to message themselves.
	ErrSelfConversation = errors.New("cannot message yourself")

	// ErrNotParticipant is returned when a user accesses a conversation they
	// are not a member of.
	ErrNotParticipant = errors.New("not a participant of this conversation")

	// ErrNotOwner is returned when a user mutates a listing they don't own.
	ErrNotOwner = errors.New("listing does not belong to user")

	// ErrNotSchoolAdmin is returned when a non-admin manages school admins.
	ErrNotSchoolAdmin = errors.New("only admins can manage school admins")
)
