package user

import (
	"context"
)

type UserRepository interface {
	// List returns the roster. A roster that was never written yields DefaultRoster.
	List(ctx context.Context) ([]User, error)

	GetByID(ctx context.Context, id string) (User, error)

	// Create appends newUser unless its id already exists; added reports which happened.
	Create(ctx context.Context, newUser User) (added bool, err error)

	// CreateBatch appends every user whose id is not taken and returns how many were added.
	CreateBatch(ctx context.Context, users []User) (int, error)

	// Delete removes the user. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Reset drops the stored roster so List falls back to DefaultRoster.
	Reset(ctx context.Context) error
}
