package service

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/repository"
	"ctchen222/Todo-List/internal/session"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UserService defines the interface for account-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (int64, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	sessions  session.Store
	hasher    PasswordHasher
	dummyHash string

	registered metric.Int64Counter
	logins     metric.Int64Counter
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, sessions session.Store, hasher PasswordHasher) UserService {
	// Compared against when the login is unknown, so both failure paths cost one bcrypt run.
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		slog.Warn("failed to prepare dummy password hash", "error", err)
	}

	return &userService{
		userRepo:   userRepo,
		sessions:   sessions,
		hasher:     hasher,
		dummyHash:  dummyHash,
		registered: newCounter("accounts.registered", "Number of accounts created"),
		logins:     newCounter("accounts.logins", "Number of login attempts by outcome"),
	}
}

// Register handles user registration. No session is started.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (int64, error) {
	if err := validate(req); err != nil {
		return 0, err
	}

	// Fast path for a friendly error; the UNIQUE constraint is the real guard.
	existingUser, err := s.userRepo.GetUserByLogin(ctx, req.Login)
	if err != nil {
		return 0, err
	}
	if existingUser != nil {
		return 0, ErrDuplicateLogin
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return 0, err
	}

	user := &models.User{
		Login:        req.Login,
		PasswordHash: hash,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return 0, ErrDuplicateLogin
		}
		return 0, rejectedByStore(err, "login")
	}

	s.registered.Add(ctx, 1)
	slog.InfoContext(ctx, "User registered", "user.id", user.ID)
	return user.ID, nil
}

// Login checks the credentials and starts a session, returning its token.
// An unknown login and a wrong password both yield ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetUserByLogin(ctx, req.Login)
	if err != nil {
		return "", err
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	if !s.hasher.Verify(hash, req.Password) || user == nil {
		s.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
		return "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	s.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "accepted")))
	slog.InfoContext(ctx, "User logged in", "user.id", user.ID)
	return token, nil
}

// Logout ends the session behind token. Without a session it does nothing.
func (s *userService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// CurrentUser resolves token to the user it was issued for.
func (s *userService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
