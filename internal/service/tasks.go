package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Aryansemwal011/web-dev-project/internal/models"
	"github.com/Aryansemwal011/web-dev-project/internal/repository"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrTaskNotFound = errors.New("task not found")
)

// Форматы совпадают с тем, что присылают <input type="date"> и <input type="time">
const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// Create заводит новую задачу для владельца. Дата и время валидируются
// по точным шаблонам YYYY-MM-DD и HH:MM.
func (s *TaskService) Create(ctx context.Context, ownerID int64, title, description, dateStr, timeStr string) (*models.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if _, err := time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("%w: invalid due date %q", ErrValidation, dateStr)
	}
	if _, err := time.Parse(timeLayout, timeStr); err != nil {
		return nil, fmt.Errorf("%w: invalid due time %q", ErrValidation, timeStr)
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		DueDate:     dateStr,
		DueTime:     timeStr,
		Complete:    false,
		OwnerID:     ownerID,
	}

	id, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = id
	return task, nil
}

// List возвращает задачи владельца в порядке создания
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	return s.repo.ListTasksByOwner(ctx, ownerID)
}

// Toggle переключает флаг complete. Чужая или несуществующая задача
// неразличимы: обе дают ErrTaskNotFound.
func (s *TaskService) Toggle(ctx context.Context, ownerID, id int64) error {
	err := s.repo.ToggleTask(ctx, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTaskNotFound
	}
	return err
}

// Delete удаляет задачу владельца
func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	err := s.repo.DeleteTask(ctx, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTaskNotFound
	}
	return err
}
