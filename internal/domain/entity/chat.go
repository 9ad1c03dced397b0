// Package entity contains the core business objects of the project.
package entity

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// Chat is the conversation opened for a matched pair of profiles.
type Chat struct {
	ID        uuid.UUID
	User1ID   uuid.UUID // The profile whose like completed the match.
	User2ID   uuid.UUID // The profile that liked first.
	CreatedAt time.Time
}

// HasParticipant reports whether profileID is one of the two chat members.
func (c *Chat) HasParticipant(profileID uuid.UUID) bool {
	return c != nil && (c.User1ID == profileID || c.User2ID == profileID)
}

// Pair returns the unordered pair of the chat in canonical order.
func (c *Chat) Pair() ProfilePair {
	return NewProfilePair(c.User1ID, c.User2ID)
}

// ProfilePair is an unordered pair of profiles stored with Low <= High.
type ProfilePair struct {
	Low  uuid.UUID
	High uuid.UUID
}

// NewProfilePair orders a and b so that the same two profiles always yield the same pair.
func NewProfilePair(a, b uuid.UUID) ProfilePair {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return ProfilePair{Low: a, High: b}
	}

	return ProfilePair{Low: b, High: a}
}

// Message is a text sent by one chat participant.
type Message struct {
	ID        uuid.UUID
	ChatID    uuid.UUID
	SenderID  uuid.UUID
	Body      string
	CreatedAt time.Time
}
