package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/hash"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/logging"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/tokens"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"

	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleSeller || role == RoleAdmin
}

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must have at least 6 characters", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Telephone:    req.Telephone,
		PasswordHash: pwHash,
		Role:         RoleCustomer,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair: the presented refresh token is revoked
// and a fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	valid, err := s.Repo.RefreshTokenValid(ctx, refreshToken)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !valid) {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	user, err := s.Repo.GetUser(ctx, uint(userID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// ChangePassword re-authenticates with the current password before
// accepting the new one, then invalidates every outstanding session.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req transport.ChangePasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return fmt.Errorf("%w: password must have at least 6 characters", ErrValidation)
	}
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return fmt.Errorf("%w: current password does not match", ErrUnauthorized)
	}
	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateUserPassword(ctx, userID, pwHash); err != nil {
		return err
	}
	return s.Repo.RevokeUserRefreshTokens(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	subject := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(accessTTL)
	accessToken, err := tokens.NewAccessToken(s.JWTSecret, subject, user.Role, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := tokens.NewRefreshToken(s.RefreshSecret, subject, refreshExp)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, user.ID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
