package repository

import (
	"context"

	"github.com/Aryansemwal011/web-dev-project/internal/models"
)

type UserRepository interface {
	// CreateUser возвращает id созданного пользователя
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	// GetUserByUsername возвращает (nil, nil), если пользователь не найден
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) (int64, error)
	ListTasksByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error)
	// ToggleTask и DeleteTask возвращают sql.ErrNoRows, если задача
	// не существует либо принадлежит другому пользователю
	ToggleTask(ctx context.Context, id, ownerID int64) error
	DeleteTask(ctx context.Context, id, ownerID int64) error
}

type Repository interface {
	UserRepository
	TaskRepository
	Close() error
}
