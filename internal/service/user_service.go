package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/apperr"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/repository"
)

// SignupInput carries an already validated registration request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	Search(ctx context.Context, query string, page domain.Page) ([]domain.User, int, error)
}

type userService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService hashes passwords with bcryptCost; zero selects bcrypt.DefaultCost.
func NewUserService(users repository.UserRepository, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("User with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(fmt.Errorf("lookup email: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same address.
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.Validation("Email already exists")
		}
		return nil, apperr.Internal(err)
	}

	return sanitizeUser(user), nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials()
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "User not found")
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	update.Name = trim(update.Name)
	update.Bio = trim(update.Bio)
	update.Location = trim(update.Location)
	update.Website = trim(update.Website)

	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, notFoundOrInternal(err, "User not found")
	}
	return sanitizeUser(user), nil
}

func (s *userService) Search(ctx context.Context, query string, page domain.Page) ([]domain.User, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, apperr.Validation("Search query is required")
	}
	users, total, err := s.users.Search(ctx, query, page)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

func errInvalidCredentials() error {
	return apperr.Unauthorized("Invalid email or password", nil)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFoundOrInternal(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(message)
	}
	return apperr.Internal(err)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
