package service_test

import (
	"context"
	"testing"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/repository"
	"github.com/taskflow/eventcore/internal/service"
)

func TestCategoryService_Create_RejectsInvalidColor(t *testing.T) {
	svc := service.NewCategoryService(repository.NewMemoryCategoryRepository())

	_, err := svc.Create(context.Background(), "u1", domain.CreateCategoryRequest{Name: "Home", Color: "blue"})
	if err != domain.ErrInvalidColor {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

func TestCategoryService_Create_ListsByUser(t *testing.T) {
	svc := service.NewCategoryService(repository.NewMemoryCategoryRepository())

	if _, err := svc.Create(context.Background(), "u1", domain.CreateCategoryRequest{Name: "Home", Color: "#3b82f6"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "u2", domain.CreateCategoryRequest{Name: "Work", Color: "#ef4444"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Home" {
		t.Fatalf("expected only u1's category, got %+v", list)
	}
}

func TestCategoryService_Delete_RejectsForeignOwner(t *testing.T) {
	svc := service.NewCategoryService(repository.NewMemoryCategoryRepository())
	c, _ := svc.Create(context.Background(), "u1", domain.CreateCategoryRequest{Name: "Home", Color: "#3b82f6"})

	if err := svc.Delete(context.Background(), "u2", c.ID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
}
