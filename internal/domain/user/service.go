package user

import (
	"context"
	"io"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)

	// AddUser validates req and stores the user. A duplicate id is ignored, not an error.
	AddUser(ctx context.Context, req CreateUserRequest) (AddUserResponse, error)

	// DeleteUser removes a user without touching their records or alerts.
	DeleteUser(ctx context.Context, id string) error

	// ImportUsers reads "name,type,department[,role]" lines and adds every valid one.
	ImportUsers(ctx context.Context, text string) (ImportUsersResponse, error)

	// ImportUsersXLSX reads the same columns from the first sheet of a workbook.
	ImportUsersXLSX(ctx context.Context, r io.Reader) (ImportUsersResponse, error)
}
