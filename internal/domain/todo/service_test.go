package todo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeCategoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: map[int64]*Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id int64) (*Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCategoryRepo) ListByUserAndDueDate(_ context.Context, userID int64, dueDate time.Time) ([]*Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Category
	for _, c := range r.items {
		if c.UserID == userID && c.DueDate.Equal(dueDate) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeDetailRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*Detail
}

func newFakeDetailRepo() *fakeDetailRepo {
	return &fakeDetailRepo{items: map[int64]*Detail{}}
}

func (r *fakeDetailRepo) Create(_ context.Context, d *Detail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	d.ID = r.nextID
	clone := *d
	r.items[d.ID] = &clone
	return nil
}

func (r *fakeDetailRepo) FindByID(_ context.Context, id int64) (*Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func (r *fakeDetailRepo) ListByCategory(_ context.Context, categoryID int64) ([]*Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Detail
	for _, d := range r.items {
		if d.CategoryID == categoryID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeDetailRepo) Update(_ context.Context, d *Detail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *d
	r.items[d.ID] = &clone
	return nil
}

func (r *fakeDetailRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeDetailRepo) DeleteByCategory(_ context.Context, categoryID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.items {
		if d.CategoryID == categoryID {
			delete(r.items, id)
		}
	}
	return nil
}

func newTestTodoService(t *testing.T) (*Service, *fakeCategoryRepo, *fakeDetailRepo) {
	t.Helper()
	cats := newFakeCategoryRepo()
	dets := newFakeDetailRepo()
	svc, err := NewService(cats, dets, nil)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc, cats, dets
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestAddAndListCategories(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestTodoService(t)

	c, err := svc.AddCategory(ctx, 1, "exercise", date("2026-08-29"))
	if err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}
	if c.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := svc.Categories(ctx, 1, date("2026-08-29"))
	if err != nil {
		t.Fatalf("Categories error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "exercise" {
		t.Fatalf("unexpected listing: %+v", got)
	}

	// Different due date and different user both see nothing.
	if got, _ := svc.Categories(ctx, 1, date("2026-08-30")); len(got) != 0 {
		t.Fatalf("expected empty listing for other date")
	}
	if got, _ := svc.Categories(ctx, 2, date("2026-08-29")); len(got) != 0 {
		t.Fatalf("expected empty listing for other user")
	}
}

func TestCategoryOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestTodoService(t)

	c, err := svc.AddCategory(ctx, 1, "study", date("2026-08-29"))
	if err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}

	if _, err := svc.Category(ctx, 2, c.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("foreign user must get not-found, got %v", err)
	}
	if err := svc.DeleteCategory(ctx, 2, c.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("foreign delete must fail, got %v", err)
	}
}

func TestDetailLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, dets := newTestTodoService(t)

	c, err := svc.AddCategory(ctx, 1, "exercise", date("2026-08-29"))
	if err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}

	_, d, err := svc.AddDetail(ctx, 1, c.ID, "cardio")
	if err != nil {
		t.Fatalf("AddDetail error: %v", err)
	}
	if d.Completed {
		t.Fatalf("new detail must start incomplete")
	}

	// Patch only the completion flag; description survives.
	done := true
	_, updated, err := svc.UpdateDetail(ctx, 1, c.ID, d.ID, nil, &done)
	if err != nil {
		t.Fatalf("UpdateDetail error: %v", err)
	}
	if !updated.Completed || updated.Description != "cardio" {
		t.Fatalf("partial update broke fields: %+v", updated)
	}

	// Patch only the description; flag survives.
	desc := "weights"
	_, updated, err = svc.UpdateDetail(ctx, 1, c.ID, d.ID, &desc, nil)
	if err != nil {
		t.Fatalf("UpdateDetail error: %v", err)
	}
	if updated.Description != "weights" || !updated.Completed {
		t.Fatalf("partial update broke fields: %+v", updated)
	}

	if err := svc.DeleteDetail(ctx, 1, c.ID, d.ID); err != nil {
		t.Fatalf("DeleteDetail error: %v", err)
	}
	if len(dets.items) != 0 {
		t.Fatalf("expected detail removed")
	}
	if err := svc.DeleteDetail(ctx, 1, c.ID, d.ID); !errors.Is(err, ErrDetailNotFound) {
		t.Fatalf("expected ErrDetailNotFound, got %v", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	svc, cats, dets := newTestTodoService(t)

	c, _ := svc.AddCategory(ctx, 1, "exercise", date("2026-08-29"))
	_, _, _ = svc.AddDetail(ctx, 1, c.ID, "cardio")
	_, _, _ = svc.AddDetail(ctx, 1, c.ID, "weights")

	if err := svc.DeleteCategory(ctx, 1, c.ID); err != nil {
		t.Fatalf("DeleteCategory error: %v", err)
	}
	if len(cats.items) != 0 || len(dets.items) != 0 {
		t.Fatalf("expected cascade delete, have %d categories %d details", len(cats.items), len(dets.items))
	}
}

func TestDetailOfForeignCategory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestTodoService(t)

	mine, _ := svc.AddCategory(ctx, 1, "mine", date("2026-08-29"))
	theirs, _ := svc.AddCategory(ctx, 2, "theirs", date("2026-08-29"))
	_, d, err := svc.AddDetail(ctx, 2, theirs.ID, "secret")
	if err != nil {
		t.Fatalf("AddDetail error: %v", err)
	}

	// A detail id from another category must not be reachable.
	if _, _, err := svc.UpdateDetail(ctx, 1, mine.ID, d.ID, nil, nil); !errors.Is(err, ErrDetailNotFound) {
		t.Fatalf("expected ErrDetailNotFound, got %v", err)
	}
	if _, _, err := svc.Details(ctx, 1, theirs.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
