package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
)

const minPasswordLen = 6

type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  models.RawJSON
	Answer   string
}

// Register stores a new regular user with a hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Answer:   in.Answer,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrEmailNotRegistered
		}
		return nil, "", err
	}

	if !auth.CheckPassword(u.Password, password) {
		return nil, "", ErrInvalidPassword
	}

	token, err := auth.GenerateToken(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return u, token, nil
}

// ResetPassword replaces the password of the user matching email and answer.
func (s *AuthService) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	u, err := s.users.FindByEmailAndAnswer(ctx, email, answer)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrWrongAnswer
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	_, err = s.users.Update(ctx, u)
	return err
}

// ProfileInput holds the editable profile fields. Empty values keep the
// stored ones.
type ProfileInput struct {
	Name     string
	Password string
	Phone    string
	Address  models.RawJSON
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if in.Password != "" && len(in.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if !in.Address.IsZero() {
		u.Address = in.Address
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
	}

	return s.users.Update(ctx, u)
}

// Role returns the role of userID. It backs the admin middleware.
func (s *AuthService) Role(ctx context.Context, userID string) (int, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Role, nil
}

func (s *AuthService) Users(ctx context.Context) ([]models.User, error) {
	return s.users.All(ctx)
}

// Promote gives the user registered under email the admin role.
func (s *AuthService) Promote(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmailNotRegistered
		}
		return nil, err
	}
	if u.IsAdmin() {
		return u, nil
	}
	u.Role = models.RoleAdmin
	return s.users.Update(ctx, u)
}
