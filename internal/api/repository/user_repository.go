package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("repository")

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks ctchen222/Todo-List/internal/api/repository UserRepository,TaskRepository

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// CreateUser inserts a new user and fills in the assigned ID.
// A login that is already taken yields ErrUniqueViolation, one the schema
// rejects yields ErrCheckViolation.
func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateUser")
	defer span.End()

	query := `INSERT INTO users (login, password_hash) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Login, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("login %q: %w", user.Login, ErrUniqueViolation)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("login %q: %w", user.Login, ErrCheckViolation)
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new user id: %w", err)
	}
	user.ID = id
	span.SetAttributes(attribute.Int64("user.id", id))
	return nil
}

// GetUserByLogin retrieves a user from the database by their login.
func (r *sqliteUserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByLogin")
	defer span.End()

	var user models.User
	query := `SELECT id, login, password_hash FROM users WHERE login = ?`
	err := r.db.GetContext(ctx, &user, query, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user from the database by their id.
func (r *sqliteUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByID")
	defer span.End()

	var user models.User
	query := `SELECT id, login, password_hash FROM users WHERE id = ?`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}
