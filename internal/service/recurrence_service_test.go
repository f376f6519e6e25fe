package service_test

import (
	"context"
	"testing"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/repository"
	"github.com/taskflow/eventcore/internal/service"
	"go.uber.org/zap"
)

func TestRecurrenceService_Create_ComputesNextDueAt(t *testing.T) {
	taskRepo := repository.NewMemoryTaskRepository()
	pub := publisher.NewTaskPublisher(publisher.NewQueue(4, 4), true, zap.NewNop())
	taskSvc := service.NewTaskService(taskRepo, pub, zap.NewNop())
	task, _ := taskSvc.Create(context.Background(), "u1", domain.CreateTaskRequest{Title: "Standup", Priority: domain.PriorityLow})

	svc := service.NewRecurrenceService(repository.NewMemoryRecurrenceRepository(), taskRepo)
	rule, err := svc.Create(context.Background(), "u1", task.ID, domain.CreateRecurrenceRequest{
		Frequency: domain.FrequencyDaily, Interval: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !rule.NextDueAt.After(task.CreatedAt) {
		t.Fatalf("expected next_due_at to be after creation, got %v vs %v", rule.NextDueAt, task.CreatedAt)
	}
}

func TestRecurrenceService_Create_RequiresCronForCustomFrequency(t *testing.T) {
	taskRepo := repository.NewMemoryTaskRepository()
	pub := publisher.NewTaskPublisher(publisher.NewQueue(4, 4), true, zap.NewNop())
	taskSvc := service.NewTaskService(taskRepo, pub, zap.NewNop())
	task, _ := taskSvc.Create(context.Background(), "u1", domain.CreateTaskRequest{Title: "Standup", Priority: domain.PriorityLow})

	svc := service.NewRecurrenceService(repository.NewMemoryRecurrenceRepository(), taskRepo)
	_, err := svc.Create(context.Background(), "u1", task.ID, domain.CreateRecurrenceRequest{
		Frequency: domain.FrequencyCustom, Interval: 1,
	})
	if err != domain.ErrCronRequired {
		t.Fatalf("expected ErrCronRequired, got %v", err)
	}
}

func TestRecurrenceService_Create_RejectsForeignTask(t *testing.T) {
	taskRepo := repository.NewMemoryTaskRepository()
	pub := publisher.NewTaskPublisher(publisher.NewQueue(4, 4), true, zap.NewNop())
	taskSvc := service.NewTaskService(taskRepo, pub, zap.NewNop())
	task, _ := taskSvc.Create(context.Background(), "u1", domain.CreateTaskRequest{Title: "Standup", Priority: domain.PriorityLow})

	svc := service.NewRecurrenceService(repository.NewMemoryRecurrenceRepository(), taskRepo)
	_, err := svc.Create(context.Background(), "u2", task.ID, domain.CreateRecurrenceRequest{
		Frequency: domain.FrequencyDaily, Interval: 1,
	})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
