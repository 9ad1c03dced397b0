package handler

import (
	"time"

	"spark/internal/domain/entity"

	"github.com/google/uuid"
)

type AccountPayload struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

type RegisterPayload struct {
	Account AccountPayload `json:"account"`
	Profile ProfilePayload `json:"profile"`
}

type TokenPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ProfilePayload struct {
	ID          uuid.UUID   `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Bio         string      `json:"bio"`
	VIP         bool        `json:"vip"`
	Gender      string      `json:"gender"`
	ImageIDs    []uuid.UUID `json:"imageIds"`
	LocationIDs []uuid.UUID `json:"locationIds"`
}

type LocationPayload struct {
	ID          uuid.UUID  `json:"id"`
	PlaceName   string     `json:"placeName"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

type ImagePayload struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profileId"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SwipePayload struct {
	ID        uuid.UUID `json:"id"`
	SwiperID  uuid.UUID `json:"swiperId"`
	SwipedID  uuid.UUID `json:"swipedId"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
}

type SwipeResultPayload struct {
	Matched bool         `json:"matched"`
	Swipe   SwipePayload `json:"swipe"`
	ChatID  *uuid.UUID   `json:"chatId,omitempty"`
}

type ChatPayload struct {
	ID             uuid.UUID `json:"id"`
	Participant1ID uuid.UUID `json:"participant1Id"`
	Participant2ID uuid.UUID `json:"participant2Id"`
}

type MessagePayload struct {
	ID        uuid.UUID `json:"id"`
	SenderID  uuid.UUID `json:"senderId"`
	ChatID    uuid.UUID `json:"chatId"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

func newAccountPayload(account *entity.Account) AccountPayload {
	return AccountPayload{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
}

func newProfilePayload(profile *entity.Profile) ProfilePayload {
	payload := ProfilePayload{
		ID:          profile.ID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Bio:         profile.Bio,
		VIP:         profile.VIP,
		Gender:      profile.Gender.String(),
		ImageIDs:    make([]uuid.UUID, 0, len(profile.ImageIDs)),
		LocationIDs: []uuid.UUID{},
	}
	payload.ImageIDs = append(payload.ImageIDs, profile.ImageIDs...)
	if profile.Location != nil {
		payload.LocationIDs = append(payload.LocationIDs, profile.Location.ID)
	}

	return payload
}

func newLocationPayload(location *entity.Location) LocationPayload {
	payload := LocationPayload{
		ID:        location.ID,
		PlaceName: location.PlaceName,
	}
	if location.Coordinates != nil {
		lat, lon := location.Coordinates.Latitude, location.Coordinates.Longitude
		payload.Latitude = &lat
		payload.Longitude = &lon
	}
	if !location.LastUpdated.IsZero() {
		lastUpdated := location.LastUpdated
		payload.LastUpdated = &lastUpdated
	}

	return payload
}

func newImagePayload(image *entity.Image) ImagePayload {
	return ImagePayload{
		ID:          image.ID,
		ProfileID:   image.ProfileID,
		ContentType: image.ContentType,
		Size:        image.Size,
		Checksum:    image.Checksum,
		CreatedAt:   image.CreatedAt,
	}
}

func newSwipePayload(swipe *entity.Swipe) SwipePayload {
	return SwipePayload{
		ID:        swipe.ID,
		SwiperID:  swipe.SwiperID,
		SwipedID:  swipe.SwipedID,
		Liked:     swipe.Liked,
		CreatedAt: swipe.CreatedAt,
	}
}

func newChatPayload(chat *entity.Chat) ChatPayload {
	return ChatPayload{
		ID:             chat.ID,
		Participant1ID: chat.User1ID,
		Participant2ID: chat.User2ID,
	}
}

func newMessagePayload(message *entity.Message) MessagePayload {
	return MessagePayload{
		ID:        message.ID,
		SenderID:  message.SenderID,
		ChatID:    message.ChatID,
		Body:      message.Body,
		Timestamp: message.CreatedAt,
	}
}

func mapSlice[T, P any](items []T, fn func(T) P) []P {
	out := make([]P, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}

	return out
}
