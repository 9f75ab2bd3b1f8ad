package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Aryansemwal011/web-dev-project/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// Register создаёт нового пользователя. Имя сравнивается точно,
// с учётом регистра.
func (s *UserService) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, ErrValidation
	}

	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return 0, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, username, string(hash))
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// Authenticate проверяет учётные данные и возвращает id пользователя.
// Отсутствующий пользователь и неверный пароль не различаются.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (int64, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return 0, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}
