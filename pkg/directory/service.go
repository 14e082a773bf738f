package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides user directory operations for the admin console.
// It is read-mostly: the impersonation subsystem only calls GetUser.
type Service struct {
	repo UserRepository
}

// NewService creates a new directory service
func NewService(repo UserRepository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateUser(ctx context.Context, email, name, role string) (User, error) {
	if email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	return s.repo.CreateUser(ctx, CreateUserParams{
		Email: email,
		Name:  name,
		Role:  role,
	})
}

func (s *Service) FindUsers(ctx context.Context) ([]User, error) {
	return s.repo.FindUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetUser(ctx, userID)
}

func (s *Service) UpdateUser(ctx context.Context, userID uuid.UUID, name, role string) (User, error) {
	return s.repo.UpdateUser(ctx, UpdateUserParams{
		ID:   userID,
		Name: name,
		Role: role,
	})
}

func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	// Check if user exists
	_, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	return s.repo.DeleteUser(ctx, userID)
}
