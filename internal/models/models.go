package models

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD
	DueTime     string `json:"due_time"` // HH:MM
	Complete    bool   `json:"complete"`
	OwnerID     int64  `json:"-"`
}
