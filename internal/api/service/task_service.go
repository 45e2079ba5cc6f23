package service

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/repository"
	"ctchen222/Todo-List/internal/events"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// TaskService defines the operations a user can perform on their own tasks.
// Every method takes the id of the authenticated user.
type TaskService interface {
	Create(ctx context.Context, userID int64, req *models.CreateTaskRequest) (*models.Task, error)
	List(ctx context.Context, userID int64) ([]models.Task, error)
	Toggle(ctx context.Context, userID, taskID int64) error
	Delete(ctx context.Context, userID, taskID int64) error
}

// TaskOption configures a TaskService.
type TaskOption func(*taskService)

// WithStrictOwnership makes Toggle and Delete fail with ErrForbidden on a
// task owned by someone else, instead of silently doing nothing.
func WithStrictOwnership() TaskOption {
	return func(s *taskService) {
		s.strictOwnership = true
	}
}

// WithPublisher announces task changes through p.
func WithPublisher(p events.Publisher) TaskOption {
	return func(s *taskService) {
		s.publisher = p
	}
}

type taskService struct {
	repo            repository.TaskRepository
	publisher       events.Publisher
	strictOwnership bool

	created metric.Int64Counter
	toggled metric.Int64Counter
	deleted metric.Int64Counter
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo repository.TaskRepository, opts ...TaskOption) TaskService {
	s := &taskService{
		repo:      repo,
		publisher: events.NopPublisher{},
		created:   newCounter("tasks.created", "Number of tasks created"),
		toggled:   newCounter("tasks.toggled", "Number of tasks toggled"),
		deleted:   newCounter("tasks.deleted", "Number of tasks deleted"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// isOwner is the one place deciding who may mutate a task.
func isOwner(userID int64, task *models.Task) bool {
	return task.OwnerID == userID
}

// ownerGuard applies the ownership policy inside the repository transaction.
// mutated reports whether the guard let the change through.
func (s *taskService) ownerGuard(ctx context.Context, userID int64, mutated *bool) repository.Guard {
	return func(task *models.Task) (bool, error) {
		if isOwner(userID, task) {
			*mutated = true
			return true, nil
		}
		if s.strictOwnership {
			return false, ErrForbidden
		}
		slog.WarnContext(ctx, "ignoring change to task owned by another user", "user.id", userID, "task.id", task.ID)
		return false, nil
	}
}

func (s *taskService) Create(ctx context.Context, userID int64, req *models.CreateTaskRequest) (*models.Task, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	task := &models.Task{
		Text:    req.Text,
		Done:    false,
		OwnerID: userID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, rejectedByStore(err, "task")
	}

	s.created.Add(ctx, 1)
	s.publish(ctx, events.TaskCreated, task)
	return task, nil
}

func (s *taskService) List(ctx context.Context, userID int64) ([]models.Task, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *taskService) Toggle(ctx context.Context, userID, taskID int64) error {
	var mutated bool
	task, err := s.repo.Toggle(ctx, taskID, s.ownerGuard(ctx, userID, &mutated))
	if err != nil {
		return translateRepoError(err)
	}
	if mutated {
		s.toggled.Add(ctx, 1)
		s.publish(ctx, events.TaskToggled, task)
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, userID, taskID int64) error {
	var mutated bool
	if err := s.repo.Delete(ctx, taskID, s.ownerGuard(ctx, userID, &mutated)); err != nil {
		return translateRepoError(err)
	}
	if mutated {
		s.deleted.Add(ctx, 1)
		s.publish(ctx, events.TaskDeleted, &models.Task{ID: taskID, OwnerID: userID})
	}
	return nil
}

// publish is best effort: a lost event never fails the request.
func (s *taskService) publish(ctx context.Context, eventType string, task *models.Task) {
	payload := events.TaskPayload{TaskID: task.ID, OwnerID: task.OwnerID, Done: task.Done}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish task event", "event", eventType, "task.id", task.ID, "error", err)
	}
}

func translateRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
