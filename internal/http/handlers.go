package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Aryansemwal011/web-dev-project/internal/export"
	"github.com/Aryansemwal011/web-dev-project/internal/middleware"
	"github.com/Aryansemwal011/web-dev-project/internal/models"
	"github.com/Aryansemwal011/web-dev-project/internal/service"
	"github.com/Aryansemwal011/web-dev-project/internal/session"
)

type Handler struct {
	users     *service.UserService
	tasks     *service.TaskService
	exporter  *export.Exporter
	sessions  *session.Manager
	logger    *logrus.Logger
	templates *template.Template
}

func NewHandler(us *service.UserService, ts *service.TaskService, ex *export.Exporter, sm *session.Manager, logger *logrus.Logger) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{
		users:     us,
		tasks:     ts,
		exporter:  ex,
		sessions:  sm,
		logger:    logger,
		templates: tmpl,
	}, nil
}

// Routes регистрирует все маршруты приложения
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("POST /add", h.AddTask)
	mux.HandleFunc("GET /update/{id}", h.ToggleTask)
	mux.HandleFunc("GET /delete/{id}", h.DeleteTask)
	mux.HandleFunc("GET /export", h.ExportTasks)
	mux.Handle("GET /metrics", middleware.MetricsHandler())
	return mux
}

func (h *Handler) logEntry(r *http.Request, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"component":  "http_handler",
		"handler":    handler,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

// currentUser возвращает identity сессии. Анонимный запрос
// перенаправляется на /login, хендлер при этом должен выйти.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	identity, ok := h.sessions.Current(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return session.Identity{}, false
	}
	return identity, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logEntry(r, "render").WithError(err).Error("failed to render template")
	}
}

type listView struct {
	Username  string
	Tasks     []*models.Task
	CSRFToken string
}

type formView struct {
	CSRFToken string
}

// Home обрабатывает GET / - список задач текущего пользователя
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	logEntry := h.logEntry(r, "Home")

	tasks, err := h.tasks.List(r.Context(), identity.UserID)
	if err != nil {
		logEntry.WithError(err).Error("failed to list tasks")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logEntry.WithField("count", len(tasks)).Debug("tasks listed")
	h.render(w, r, "base.html", listView{
		Username:  identity.Username,
		Tasks:     tasks,
		CSRFToken: middleware.CSRFToken(r.Context()),
	})
}

// LoginForm обрабатывает GET /login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", formView{CSRFToken: middleware.CSRFToken(r.Context())})
}

// Login обрабатывает POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "Login")

	username := r.FormValue("username")
	password := r.FormValue("password")

	userID, err := h.users.Authenticate(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		logEntry.WithField("username", username).Warn("invalid credentials")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to authenticate user")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Establish(w, userID, username); err != nil {
		logEntry.WithError(err).Error("failed to establish session")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logEntry.WithField("user_id", userID).Info("login successful")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterForm обрабатывает GET /register
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", formView{CSRFToken: middleware.CSRFToken(r.Context())})
}

// Register обрабатывает POST /register. Успешная регистрация
// не создаёт сессию: пользователь должен войти сам.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "Register")

	username := r.FormValue("username")
	password := r.FormValue("password")

	userID, err := h.users.Register(r.Context(), username, password)
	if errors.Is(err, service.ErrUsernameTaken) {
		logEntry.WithField("username", username).Warn("username already taken")
		http.Error(w, "Username already exists", http.StatusConflict)
		return
	}
	if errors.Is(err, service.ErrValidation) {
		logEntry.Warn("username and password are required")
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to register user")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logEntry.WithField("user_id", userID).Info("user registered")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout обрабатывает GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// AddTask обрабатывает POST /add
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	logEntry := h.logEntry(r, "AddTask")

	task, err := h.tasks.Create(r.Context(), identity.UserID,
		r.FormValue("title"), r.FormValue("description"),
		r.FormValue("date"), r.FormValue("time"))
	if errors.Is(err, service.ErrValidation) {
		logEntry.WithError(err).Warn("invalid task input")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to create task")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logEntry.WithField("task_id", task.ID).Info("task created")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func taskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// ToggleTask обрабатывает GET /update/{id}
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	logEntry := h.logEntry(r, "ToggleTask")

	id, err := taskID(r)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	err = h.tasks.Toggle(r.Context(), identity.UserID, id)
	if errors.Is(err, service.ErrTaskNotFound) {
		logEntry.WithField("task_id", id).Warn("task not found")
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to toggle task")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logEntry.WithField("task_id", id).Info("task toggled")
	http.Redirect(w, r, "/", http.StatusFound)
}

// DeleteTask обрабатывает GET /delete/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	logEntry := h.logEntry(r, "DeleteTask")

	id, err := taskID(r)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	err = h.tasks.Delete(r.Context(), identity.UserID, id)
	if errors.Is(err, service.ErrTaskNotFound) {
		logEntry.WithField("task_id", id).Warn("task not found")
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to delete task")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logEntry.WithField("task_id", id).Info("task deleted")
	http.Redirect(w, r, "/", http.StatusFound)
}

// ExportTasks обрабатывает GET /export?format=json|csv|pdf
func (h *Handler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	logEntry := h.logEntry(r, "ExportTasks")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	data, contentType, err := h.exporter.Export(r.Context(), identity.UserID, format)
	if errors.Is(err, export.ErrUnknownFormat) {
		logEntry.WithField("format", format).Warn("unknown export format")
		http.Error(w, "unknown export format", http.StatusBadRequest)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to export tasks")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logEntry.WithField("format", format).Info("tasks exported")
	w.Header().Set("Content-Type", contentType)
	if format != "json" {
		w.Header().Set("Content-Disposition", "attachment; filename=tasks."+format)
	}
	w.Write(data)
}
