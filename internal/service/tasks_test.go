package service

import (
	"context"
	"errors"
	"testing"
)

func TestCreateTask_ValidInput(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaskService(repo)
	ctx := context.Background()

	ownerID, err := repo.CreateUser(ctx, "alice", "h")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	task, err := svc.Create(ctx, ownerID, "buy milk", "2%", "2024-05-01", "09:30")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("expected task id to be assigned")
	}
	if task.Complete {
		t.Fatal("expected new task to be incomplete")
	}

	tasks, err := svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected exactly one task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "buy milk" || got.Description != "2%" ||
		got.DueDate != "2024-05-01" || got.DueTime != "09:30" || got.Complete {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestCreateTask_InvalidInput(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaskService(repo)
	ctx := context.Background()

	ownerID, err := repo.CreateUser(ctx, "alice", "h")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	cases := []struct {
		name      string
		title     string
		date      string
		timeOfDay string
	}{
		{"empty title", "", "2024-05-01", "09:30"},
		{"bad date", "t", "01-05-2024", "09:30"},
		{"not a date", "t", "tomorrow", "09:30"},
		{"bad time", "t", "2024-05-01", "9:30 AM"},
		{"empty time", "t", "2024-05-01", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, ownerID, tc.title, "", tc.date, tc.timeOfDay)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	// Невалидный ввод не оставляет строк
	tasks, err := svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}

func TestToggleTask_PairRestoresOriginal(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaskService(repo)
	ctx := context.Background()

	ownerID, err := repo.CreateUser(ctx, "alice", "h")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	task, err := svc.Create(ctx, ownerID, "t", "", "2024-05-01", "09:30")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Toggle(ctx, ownerID, task.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	tasks, _ := svc.List(ctx, ownerID)
	if !tasks[0].Complete {
		t.Fatal("expected complete=true after toggle")
	}

	if err := svc.Toggle(ctx, ownerID, task.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	tasks, _ = svc.List(ctx, ownerID)
	if tasks[0].Complete {
		t.Fatal("expected complete=false after second toggle")
	}
}

func TestToggleAndDelete_ForeignOrMissingTask(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaskService(repo)
	ctx := context.Background()

	aliceID, err := repo.CreateUser(ctx, "alice", "h")
	if err != nil {
		t.Fatalf("CreateUser alice: %v", err)
	}
	bobID, err := repo.CreateUser(ctx, "bob", "h")
	if err != nil {
		t.Fatalf("CreateUser bob: %v", err)
	}

	task, err := svc.Create(ctx, aliceID, "alice's task", "", "2024-05-01", "09:30")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Чужая задача и несуществующая задача неразличимы
	if err := svc.Toggle(ctx, bobID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign toggle, got %v", err)
	}
	if err := svc.Delete(ctx, bobID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign delete, got %v", err)
	}
	if err := svc.Toggle(ctx, aliceID, 9999); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for missing id, got %v", err)
	}

	// Задача Алисы не пострадала
	tasks, err := svc.List(ctx, aliceID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Complete {
		t.Fatalf("expected alice's task untouched, got %+v", tasks)
	}
}

func TestDeleteTask_RemovedFromList(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaskService(repo)
	ctx := context.Background()

	ownerID, err := repo.CreateUser(ctx, "alice", "h")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	task, err := svc.Create(ctx, ownerID, "t", "", "2024-05-01", "09:30")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, ownerID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	tasks, err := svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list, got %+v", tasks)
	}
}
