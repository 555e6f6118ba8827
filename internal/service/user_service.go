package service

import (
	"context"

	"bloglist/internal/apperror"
	"bloglist/internal/models"
	"bloglist/internal/repository"
)

type UserService struct {
	users repository.UserRepo
}

func NewUserService(users repository.UserRepo) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NewNotFound("user not found")
	}
	return u, nil
}

type MaintenanceService struct {
	reset repository.Resetter
}

func NewMaintenanceService(reset repository.Resetter) *MaintenanceService {
	return &MaintenanceService{reset: reset}
}

func (s *MaintenanceService) Reset(ctx context.Context) error {
	return s.reset.Reset(ctx)
}
