package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepo user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepo}
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.User, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// AddUser implements user.UserService.
func (s *UserServiceImpl) AddUser(ctx context.Context, req user.CreateUserRequest) (user.AddUserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.AddUserResponse{}, err
	}

	id := req.ID
	if id == "" {
		id = newID()
	}
	newUser := req.ToUser(id)

	added, err := s.UserRepository.Create(ctx, newUser)
	if err != nil {
		return user.AddUserResponse{}, fmt.Errorf("failed to add user: %w", err)
	}
	if !added {
		slog.Info("user already exists, add ignored", "user_id", id)
	}

	return user.AddUserResponse{User: newUser, Added: added}, nil
}

// DeleteUser implements user.UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ImportUsers implements user.UserService.
func (s *UserServiceImpl) ImportUsers(ctx context.Context, text string) (user.ImportUsersResponse, error) {
	var rows [][]string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}
	return s.importRows(ctx, rows)
}

// ImportUsersXLSX implements user.UserService.
func (s *UserServiceImpl) ImportUsersXLSX(ctx context.Context, r io.Reader) (user.ImportUsersResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return user.ImportUsersResponse{}, fmt.Errorf("%w: %v", user.ErrUnreadableSheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return user.ImportUsersResponse{}, user.ErrEmptyImport
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return user.ImportUsersResponse{}, fmt.Errorf("%w: %v", user.ErrUnreadableSheet, err)
	}

	// Skip a header row.
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "name") {
		rows = rows[1:]
	}

	nonEmpty := rows[:0]
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			nonEmpty = append(nonEmpty, row)
		}
	}
	return s.importRows(ctx, nonEmpty)
}

// importRows adds every valid "name,type,department[,role]" row. Invalid rows are
// skipped and counted.
func (s *UserServiceImpl) importRows(ctx context.Context, rows [][]string) (user.ImportUsersResponse, error) {
	if len(rows) == 0 {
		return user.ImportUsersResponse{}, user.ErrEmptyImport
	}

	resp := user.ImportUsersResponse{Users: []user.User{}}
	batch := make([]user.User, 0, len(rows))
	for i, cols := range rows {
		req, ok := user.ParseImportColumns(cols)
		if !ok {
			resp.Skipped++
			slog.Debug("import row skipped", "row", i+1, "reason", "missing columns")
			continue
		}
		if err := req.Validate(); err != nil {
			resp.Skipped++
			slog.Debug("import row skipped", "row", i+1, "reason", err.Error())
			continue
		}
		batch = append(batch, req.ToUser(newID()))
	}

	if len(batch) > 0 {
		added, err := s.UserRepository.CreateBatch(ctx, batch)
		if err != nil {
			return user.ImportUsersResponse{}, fmt.Errorf("failed to import users: %w", err)
		}
		resp.Imported = added
		resp.Users = batch
	}

	slog.Info("users imported", "imported", resp.Imported, "skipped", resp.Skipped)
	return resp, nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
