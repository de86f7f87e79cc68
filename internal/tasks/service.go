// Package tasks implements the owner-scoped task operations on top of a
// task store. Every mutation loads the record first, reports ErrNotFound for
// unknown ids and ErrForbidden for records owned by someone else, and only
// then touches the store.
//
// Load, check and write are not atomic. Concurrent writes to one task come
// from its single owner and resolve as last write wins.
package tasks

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

// Repository is the persistence contract the service depends on.
type Repository interface {
	ListTasks(ctx context.Context, ownerID string, status *models.Status) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Fields carries caller-supplied task attributes. Nil pointers and unset
// optionals leave the corresponding attribute untouched.
type Fields struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     models.OptionalString
	DueTime     models.OptionalString
}

// Service exposes list, create, update and delete for a single user's tasks.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service backed by repo.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns every task owned by userID. A statusFilter that is not a known
// status is ignored and the result is unfiltered.
func (s *Service) List(ctx context.Context, userID, statusFilter string) ([]models.Task, error) {
	var filter *models.Status
	if statusFilter != "" {
		if status, err := models.ParseStatus(statusFilter); err == nil {
			filter = &status
		} else {
			s.logger.Debug("ignoring status filter", slog.String("status", statusFilter))
		}
	}

	tasks, err := s.repo.ListTasks(ctx, userID, filter)
	if err != nil {
		return nil, &StoreError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}

// Create persists a new task owned by userID.
func (s *Service) Create(ctx context.Context, userID string, fields Fields) (models.Task, error) {
	task := models.Task{OwnerID: userID, Status: models.StatusPending}
	if err := apply(&task, fields); err != nil {
		return models.Task{}, err
	}
	if err := validate(task); err != nil {
		return models.Task{}, err
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, &StoreError{Op: "create task", Err: err}
	}
	return created, nil
}

// Update applies the supplied fields to an existing task owned by userID.
func (s *Service) Update(ctx context.Context, userID, id string, fields Fields) (models.Task, error) {
	task, err := s.load(ctx, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	if err := apply(&task, fields); err != nil {
		return models.Task{}, err
	}
	if err := validate(task); err != nil {
		return models.Task{}, err
	}

	updated, err := s.repo.UpdateTask(ctx, task)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, &StoreError{Op: "update task", Err: err}
	}
	return updated, nil
}

// Delete permanently removes a task owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.load(ctx, userID, id); err != nil {
		return err
	}

	err := s.repo.DeleteTask(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "delete task", Err: err}
	}
	s.logger.Info("task deleted", slog.String("id", id), slog.String("owner", userID))
	return nil
}

// load fetches a task and checks existence before ownership.
func (s *Service) load(ctx context.Context, userID, id string) (models.Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, &StoreError{Op: "load task", Err: err}
	}
	if err := authorize(task, userID); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func authorize(task models.Task, userID string) error {
	if task.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func apply(task *models.Task, fields Fields) error {
	if fields.Title != nil {
		task.Title = strings.TrimSpace(*fields.Title)
	}
	if fields.Description != nil {
		task.Description = strings.TrimSpace(*fields.Description)
	}
	if fields.Status != nil {
		status, err := models.ParseStatus(*fields.Status)
		if err != nil {
			return &ValidationError{Field: "status", Message: "must be one of Pending, In Progress, Completed"}
		}
		task.Status = status
	}
	if fields.DueDate.Set {
		date, err := normalizeDate(fields.DueDate)
		if err != nil {
			return err
		}
		task.DueDate = date
	}
	if fields.DueTime.Set {
		task.DueTime = ""
		if !fields.DueTime.Null {
			task.DueTime = strings.TrimSpace(fields.DueTime.Value)
		}
	}
	return nil
}

func validate(task models.Task) error {
	if task.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if !task.Status.Valid() {
		return &ValidationError{Field: "status", Message: "must be one of Pending, In Progress, Completed"}
	}
	return nil
}

// normalizeDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date. Null and blank values clear the date.
func normalizeDate(v models.OptionalString) (string, error) {
	raw := strings.TrimSpace(v.Value)
	if v.Null || raw == "" {
		return "", nil
	}
	if d, err := time.Parse(models.DateLayout, raw); err == nil {
		return d.Format(models.DateLayout), nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.Format(models.DateLayout), nil
	}
	return "", &ValidationError{Field: "due_date", Message: "must be a date in YYYY-MM-DD format"}
}
