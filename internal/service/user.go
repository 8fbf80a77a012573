package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/auth"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// UserService owns account records and the credential check.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, passwords: passwords, logger: logger}
}

// Create registers a new account. Email uniqueness is enforced by the
// repository; empty email or password is rejected up front.
func (s *UserService) Create(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "email is not valid")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", slog.String("userID", user.ID), slog.String("email", email))
	return user, nil
}

// Authenticate verifies credentials and returns the matching user.
// Both an unknown email and a wrong password come back as the same
// validation error so the response does not leak which one failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials", "email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ValidationFailed("credentials", "invalid email or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.ValidationFailed("credentials", "invalid email or password")
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListUsers(ctx, repository.ListOptions{Limit: limit, Offset: offset})
}

// UserUpdate enumerates the mutable account fields. Nil means "leave
// unchanged" so partial updates never clobber stored values.
type UserUpdate struct {
	Email        *string
	Password     *string
	Name         *string
	ProfileMedia *string
	BirthDate    *string
	City         *string
	State        *string
	Country      *string
}

func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, apperror.ValidationFailed("email", "email is not valid")
		}
		user.Email = email
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, apperror.ValidationFailed("password", "password must not be empty")
		}
		hash, err := s.passwords.Hash(*upd.Password)
		if err != nil {
			return nil, apperror.ValidationFailed("password", err.Error())
		}
		user.PasswordHash = hash
	}
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.ProfileMedia != nil {
		user.ProfileMedia = *upd.ProfileMedia
	}
	if upd.BirthDate != nil {
		user.BirthDate = *upd.BirthDate
	}
	if upd.City != nil {
		user.City = *upd.City
	}
	if upd.State != nil {
		user.State = *upd.State
	}
	if upd.Country != nil {
		user.Country = *upd.Country
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.String("userID", id))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	s.logger.Info("user deleted", slog.String("userID", id))
	return nil
}
