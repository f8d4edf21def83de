package user

import (
	"strings"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
)

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name" validate:"required,max=120"`
	Type       string `json:"type" validate:"required,oneof=employee student"`
	Department string `json:"department" validate:"required,max=120"`
	Role       string `json:"role" validate:"omitempty,oneof=user manager admin"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
}

func (r *CreateUserRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Department = strings.TrimSpace(r.Department)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *CreateUserRequest) Validate() error {
	r.Normalize()

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		tagErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, tagErrs...)
	}

	if r.Phone != "" && !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "invalid phone number format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToUser builds the entity; id must already be assigned.
func (r *CreateUserRequest) ToUser(id string) User {
	role := Role(r.Role)
	if role == "" {
		role = RoleUser
	}
	return User{
		ID:         id,
		Name:       r.Name,
		Type:       Type(r.Type),
		Department: r.Department,
		Role:       role,
		Email:      r.Email,
		Phone:      r.Phone,
	}
}

type AddUserResponse struct {
	User  User `json:"user"`
	Added bool `json:"added"`
}

type ImportUsersResponse struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Users    []User `json:"users"`
}

// ParseImportColumns reads a "name,type,department[,role]" row. ok is false when a
// required column is missing.
func ParseImportColumns(cols []string) (CreateUserRequest, bool) {
	get := func(i int) string {
		if i < len(cols) {
			return strings.TrimSpace(cols[i])
		}
		return ""
	}

	req := CreateUserRequest{
		Name:       get(0),
		Type:       get(1),
		Department: get(2),
		Role:       get(3),
	}
	if req.Name == "" || req.Type == "" || req.Department == "" {
		return CreateUserRequest{}, false
	}
	return req, true
}
