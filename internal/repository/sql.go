package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Aryansemwal011/web-dev-project/internal/models"
)

// SQLRepository обслуживает драйверы с плейсхолдером "?": sqlite3 и mysql.
// Для postgres ($1, RETURNING) есть отдельная реализация.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

func NewSQLRepository(driver, dsn string) (*SQLRepository, error) {
	if driver == "sqlite3" {
		// Внешние ключи в sqlite по умолчанию выключены
		dsn += "?_foreign_keys=on"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	r := &SQLRepository{db: db, driver: driver}
	if err := r.migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return r, nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func (r *SQLRepository) migrate(ctx context.Context) error {
	var createUsers, createTasks string
	switch r.driver {
	case "mysql":
		createUsers = `CREATE TABLE IF NOT EXISTS users (
            id BIGINT PRIMARY KEY AUTO_INCREMENT,
            username VARCHAR(255) NOT NULL UNIQUE,
            password_hash VARCHAR(255) NOT NULL
        )`
		createTasks = `CREATE TABLE IF NOT EXISTS tasks (
            id BIGINT PRIMARY KEY AUTO_INCREMENT,
            title VARCHAR(255) NOT NULL,
            description TEXT,
            due_date VARCHAR(10) NOT NULL,
            due_time VARCHAR(5) NOT NULL,
            complete BOOLEAN NOT NULL DEFAULT FALSE,
            user_id BIGINT NOT NULL,
            FOREIGN KEY(user_id) REFERENCES users(id)
        )`
	default: // sqlite3
		createUsers = `CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL
        )`
		createTasks = `CREATE TABLE IF NOT EXISTS tasks (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            due_date TEXT NOT NULL,
            due_time TEXT NOT NULL,
            complete BOOLEAN NOT NULL DEFAULT FALSE,
            user_id INTEGER NOT NULL REFERENCES users(id)
        )`
	}
	if _, err := r.db.ExecContext(ctx, createUsers); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, createTasks)
	return err
}

func (r *SQLRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *SQLRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *SQLRepository) CreateTask(ctx context.Context, task *models.Task) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, due_date, due_time, complete, user_id)
         VALUES (?, ?, ?, ?, ?, ?)`,
		task.Title, task.Description, task.DueDate, task.DueTime, task.Complete, task.OwnerID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *SQLRepository) ListTasksByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, due_date, due_time, complete, user_id
         FROM tasks WHERE user_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(&task.ID, &task.Title, &task.Description,
			&task.DueDate, &task.DueTime, &task.Complete, &task.OwnerID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *SQLRepository) ToggleTask(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET complete = NOT complete WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLRepository) DeleteTask(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
