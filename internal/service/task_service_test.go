package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/repository"
	"github.com/taskflow/eventcore/internal/service"
)

func newTaskService() (*service.TaskService, *repository.MemoryTaskRepository, *publisher.Queue) {
	repo := repository.NewMemoryTaskRepository()
	q := publisher.NewQueue(8, 8)
	pub := publisher.NewTaskPublisher(q, true, zap.NewNop())
	return service.NewTaskService(repo, pub, zap.NewNop()), repo, q
}

func TestTaskService_Create_PublishesCreatedEvent(t *testing.T) {
	svc, _, q := newTaskService()

	task, err := svc.Create(context.Background(), "u1", domain.CreateTaskRequest{
		Title: "Buy milk", Priority: domain.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.UserID != "u1" || task.IsComplete {
		t.Fatalf("unexpected task: %+v", task)
	}

	high, normal := q.Depths()
	if high != 0 || normal != 1 {
		t.Fatalf("expected one normal-priority publish, got high=%d normal=%d", high, normal)
	}
}

func TestTaskService_Create_RejectsInvalidPriority(t *testing.T) {
	svc, _, _ := newTaskService()

	_, err := svc.Create(context.Background(), "u1", domain.CreateTaskRequest{
		Title: "Buy milk", Priority: "extreme",
	})
	if err != domain.ErrInvalidPriority {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestTaskService_Get_RejectsForeignOwner(t *testing.T) {
	svc, _, _ := newTaskService()
	task, _ := svc.Create(context.Background(), "u1", domain.CreateTaskRequest{Title: "Buy milk", Priority: domain.PriorityLow})

	_, err := svc.Get(context.Background(), "u2", task.ID)
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTaskService_Complete_PublishesUpdatedThenCompleted(t *testing.T) {
	svc, _, q := newTaskService()
	task, _ := svc.Create(context.Background(), "u1", domain.CreateTaskRequest{Title: "Buy milk", Priority: domain.PriorityLow})

	completed, err := svc.Complete(context.Background(), "u1", task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !completed.IsComplete {
		t.Fatal("expected task to be marked complete")
	}

	high, normal := q.Depths()
	if high != 2 || normal != 1 {
		t.Fatalf("expected 2 high-priority (updated, completed) + 1 normal (created), got high=%d normal=%d", high, normal)
	}
}

func TestTaskService_Complete_SecondCallIsConflict(t *testing.T) {
	svc, _, _ := newTaskService()
	task, _ := svc.Create(context.Background(), "u1", domain.CreateTaskRequest{Title: "Buy milk", Priority: domain.PriorityLow})

	if _, err := svc.Complete(context.Background(), "u1", task.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.Complete(context.Background(), "u1", task.ID); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict on second complete, got %v", err)
	}
}

func TestTaskService_Delete_RejectsForeignOwner(t *testing.T) {
	svc, _, _ := newTaskService()
	task, _ := svc.Create(context.Background(), "u1", domain.CreateTaskRequest{Title: "Buy milk", Priority: domain.PriorityLow})

	if err := svc.Delete(context.Background(), "u2", task.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
