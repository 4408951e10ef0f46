package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, err
}

func (s *UserService) UpdateRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateUserRole(ctx, id, role); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.RevokeUserRefreshTokens(ctx, id); err != nil {
		return err
	}
	return s.Repo.DeleteUser(ctx, id)
}
