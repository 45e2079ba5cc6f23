package repository

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

// Guard is consulted inside the transaction once a task has been loaded.
// Returning false with a nil error skips the mutation without failing;
// returning an error aborts the transaction with that error.
type Guard func(task *models.Task) (bool, error)

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error)
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	Toggle(ctx context.Context, id int64, guard Guard) (*models.Task, error)
	Delete(ctx context.Context, id int64, guard Guard) error
}

type sqliteTaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new SQLite-based TaskRepository.
func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &sqliteTaskRepository{db: db}
}

// Create inserts a task and fills in the assigned ID.
// Text the schema rejects yields ErrCheckViolation.
func (r *sqliteTaskRepository) Create(ctx context.Context, task *models.Task) error {
	ctx, span := tracer.Start(ctx, "TaskRepository.Create")
	defer span.End()

	query := `INSERT INTO tasks (text, done, owner_id) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, task.Text, task.Done, task.OwnerID)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("task text: %w", ErrCheckViolation)
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new task id: %w", err)
	}
	task.ID = id
	span.SetAttributes(attribute.Int64("task.id", id))
	return nil
}

// ListByOwner returns every task of ownerID in insertion order.
func (r *sqliteTaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.ListByOwner")
	defer span.End()

	tasks := []models.Task{}
	query := `SELECT id, text, done, owner_id FROM tasks WHERE owner_id = ? ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &tasks, query, ownerID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// FindByID returns the task with the given id or ErrNotFound.
func (r *sqliteTaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.FindByID")
	defer span.End()

	return findTask(ctx, r.db, id)
}

// Toggle flips the done flag of a task if guard allows it and returns the
// task as it is after the transaction.
func (r *sqliteTaskRepository) Toggle(ctx context.Context, id int64, guard Guard) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Toggle")
	defer span.End()

	var task *models.Task
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		task, err = findTask(ctx, tx, id)
		if err != nil {
			return err
		}
		ok, err := guard(task)
		if err != nil || !ok {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET done = NOT done WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to toggle task: %w", err)
		}
		task.Done = !task.Done
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task permanently if guard allows it.
func (r *sqliteTaskRepository) Delete(ctx context.Context, id int64, guard Guard) error {
	ctx, span := tracer.Start(ctx, "TaskRepository.Delete")
	defer span.End()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		task, err := findTask(ctx, tx, id)
		if err != nil {
			return err
		}
		ok, err := guard(task)
		if err != nil || !ok {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

func (r *sqliteTaskRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func findTask(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Task, error) {
	var task models.Task
	query := `SELECT id, text, done, owner_id FROM tasks WHERE id = ?`
	if err := sqlx.GetContext(ctx, q, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}
