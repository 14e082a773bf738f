package directory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserRepository implements UserRepository using in-memory storage
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryUserRepository creates a new in-memory user repository
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[uuid.UUID]User),
	}
}

// CreateUser creates a new user
func (r *InMemoryUserRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	role := params.Role
	if role == "" {
		role = RoleUser
	}
	user := User{
		ID:             uuid.New(),
		Email:          params.Email,
		Name:           params.Name,
		Role:           role,
		CreatedAt:      now,
		LastModifiedAt: now,
	}

	r.users[user.ID] = user
	return user, nil
}

// GetUser gets a user by id
func (r *InMemoryUserRepository) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// FindUsers finds all users
func (r *InMemoryUserRepository) FindUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []User
	for _, user := range r.users {
		if user.DeletedAt != nil {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

// UpdateUser updates a user's name and role
func (r *InMemoryUserRepository) UpdateUser(ctx context.Context, params UpdateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[params.ID]
	if !ok || user.DeletedAt != nil {
		return User{}, ErrUserNotFound
	}

	if params.Name != "" {
		user.Name = params.Name
	}
	if params.Role != "" {
		user.Role = params.Role
	}
	user.LastModifiedAt = time.Now()

	r.users[user.ID] = user
	return user, nil
}

// DeleteUser soft-deletes a user
func (r *InMemoryUserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return ErrUserNotFound
	}

	now := time.Now()
	user.DeletedAt = &now
	r.users[id] = user
	return nil
}
