// Package services defines the business logic for profiles, interests,
// matches, conversations, the feed, and achievements. This file centralizes
// common service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Profile-related errors.
var (
	// ErrProfileNotFound indicates that the requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists is returned when creating a profile for a subject id
	// that already has one.
	ErrProfileExists = errors.New("profile already exists")

	// ErrInvalidProfile is returned when profile fields fail validation. It is
	// always wrapped with a field-specific message.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Interest and match errors.
var (
	// ErrSelfInterest is returned when a user tries to record interest in
	// themselves.
	ErrSelfInterest = errors.New("cannot like yourself")

	// ErrTargetNotFound indicates that the liked user does not exist.
	ErrTargetNotFound = errors.New("target profile not found")

	// ErrMatchNotFound indicates that the requested match does not exist.
	ErrMatchNotFound = errors.New("match not found")

	// ErrNotParticipant is returned when a user acts on a match they are not
	// part of.
	ErrNotParticipant = errors.New("not a participant of this match")
)

// Conversation errors.
var (
	// ErrEmptyMessage is returned when a message body is empty after trimming.
	ErrEmptyMessage = errors.New("message body is empty")

	// ErrMessageTooLong is returned when a message body exceeds the configured
	// rune limit.
	ErrMessageTooLong = errors.New("message body too long")
)
