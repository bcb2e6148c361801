package domain

import "github.com/google/uuid"

// UserID uniquely identifies a user within the system.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
// The value is the subject of the bearer token issued by the identity provider.
type UserID uuid.UUID

// String returns the canonical textual form of the user ID.
func (id UserID) String() string { return uuid.UUID(id).String() }
