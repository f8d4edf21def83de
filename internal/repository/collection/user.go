package collection

import (
	"context"

	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
)

type userRepositoryImpl struct {
	users jsonCollection[user.User]
}

func NewUserRepository(store storage.BlobStorage) user.UserRepository {
	return &userRepositoryImpl{users: newJSONCollection[user.User](store, UsersKey)}
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	users, exists, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return user.DefaultRoster(), nil
	}
	return users, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (bool, error) {
	added, err := r.CreateBatch(ctx, []user.User{newUser})
	return added == 1, err
}

// CreateBatch implements user.UserRepository.
func (r *userRepositoryImpl) CreateBatch(ctx context.Context, newUsers []user.User) (int, error) {
	added := 0
	err := r.users.update(ctx, func(users []user.User, exists bool) ([]user.User, error) {
		added = 0
		if !exists {
			users = user.DefaultRoster()
		}
		taken := make(map[string]struct{}, len(users)+len(newUsers))
		for _, u := range users {
			taken[u.ID] = struct{}{}
		}
		for _, u := range newUsers {
			if _, ok := taken[u.ID]; ok {
				continue
			}
			taken[u.ID] = struct{}{}
			users = append(users, u)
			added++
		}
		return users, nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.users.update(ctx, func(users []user.User, exists bool) ([]user.User, error) {
		if !exists {
			users = user.DefaultRoster()
		}
		kept := users[:0]
		for _, u := range users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		return kept, nil
	})
}

// Reset implements user.UserRepository.
func (r *userRepositoryImpl) Reset(ctx context.Context) error {
	return r.users.drop(ctx)
}
