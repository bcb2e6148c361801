package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookmarkID uniquely identifies a bookmark.
// It wraps uuid.UUID to provide type safety at the domain layer.
type BookmarkID uuid.UUID

// String returns the canonical textual form of the bookmark ID.
func (id BookmarkID) String() string { return uuid.UUID(id).String() }

// Bookmark is a title/URL pair saved by a user.
type Bookmark struct {
	// ID is the unique identifier of the bookmark.
	ID BookmarkID `json:"id"`
	// UserID is the owner of the bookmark.
	UserID UserID `json:"userId"`

	// Title is the user supplied label.
	Title string `json:"title"`
	// URL is the normalized address that passed verification.
	URL string `json:"url"`

	// CreatedAt is the time when the bookmark was stored.
	CreatedAt time.Time `json:"createdAt"`
}

// BookmarkEventType describes what happened to a bookmark.
type BookmarkEventType string

const (
	// BookmarkEventCreated is emitted after a bookmark insert has been committed.
	BookmarkEventCreated BookmarkEventType = "CREATED"
	// BookmarkEventDeleted is emitted after a bookmark delete has been committed.
	BookmarkEventDeleted BookmarkEventType = "DELETED"
)

// BookmarkEvent is a change notification pushed to the owner's subscribers.
type BookmarkEvent struct {
	Type     BookmarkEventType
	Bookmark Bookmark
}
