// Package store holds the persistence contracts and their gorm-backed
// implementations. Handlers depend on the interfaces only.
package store

import (
	"context"
	"errors"

	"github.com/Shxbhx/RentGhar/internal/model"
)

// Domain-level errors surfaced by the store layer. Handlers map these to
// HTTP responses; anything else is an unexpected persistence failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrAlreadySaved = errors.New("property already saved")
)

// UserUpdate carries a partial user update. Only non-nil fields are applied.
// Password, when present, must already be hashed by the caller.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Number   *string
	Address  *string
}

// PropertyUpdate carries a partial property update. Only non-nil fields are
// applied. Images, when present, replaces the whole stored list with the
// reconciled list.
type PropertyUpdate struct {
	Type           *string
	Title          *string
	Price          *string
	Location       *string
	Category       *string
	Bedroom        *string
	Bathroom       *string
	Kitchen        *string
	Floor          *string
	Balcony        *string
	Sqft           *string
	KeyFeatures    *[]string
	Specifications *string
	Amenities      *[]string
	Nearby         *[]string
	Images         *[]model.PropertyImage
}

// UserStore persists user records and the saved-property relationship.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error)
	// Delete is idempotent: deleting an unknown id is a no-op success.
	Delete(ctx context.Context, id string) error

	// AddSaved appends propertyID to the user's saved list. The list is a
	// logical set: a duplicate add fails with ErrAlreadySaved.
	AddSaved(ctx context.Context, userID, propertyID string) error
	// RemoveSaved drops propertyID from the saved list; removing an absent
	// id is a no-op success.
	RemoveSaved(ctx context.Context, userID, propertyID string) error
}

// PropertyStore persists property listings.
type PropertyStore interface {
	Create(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	// GetByIDs resolves ids in the given order, silently dropping ids that
	// no longer resolve to a record.
	GetByIDs(ctx context.Context, ids []string) ([]model.Property, error)
	List(ctx context.Context, f Filter) ([]model.Property, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error)
	Update(ctx context.Context, id string, upd PropertyUpdate) (*model.Property, error)
	// Delete is idempotent: deleting an unknown id is a no-op success.
	Delete(ctx context.Context, id string) error
}
