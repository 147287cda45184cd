package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/secureqr/secureqr/internal/models"
)

func TestMemoryRepository_UserRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, "Alice", "alice@example.com", "hashed")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("FindByEmail ID = %q; want %q", byEmail.ID, user.ID)
	}

	byID, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("FindByID email = %q; want %q", byID.Email, "alice@example.com")
	}

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("FindByEmail(unknown) error = %v; want ErrNotFound", err)
	}
}

func TestMemoryRepository_ConcurrentDuplicateSignup(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, "Bob", "bob@example.com", "hashed")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, models.ErrDuplicateEmail):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("created = %d; want exactly 1", created)
	}
	if duplicates != attempts-1 {
		t.Errorf("duplicates = %d; want %d", duplicates, attempts-1)
	}
}

func TestMemoryRepository_History(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Insert(ctx, "u1", "http://a.example", models.StatusSafe); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	rec2, err := repo.Insert(ctx, "u1", "http://b.example", models.StatusUnsafe)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if _, err := repo.Insert(ctx, "u2", "http://c.example", models.StatusSafe); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	records, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2", len(records))
	}
	// Newest first.
	if records[0].URL != "http://b.example" {
		t.Errorf("records[0].URL = %q; want newest first", records[0].URL)
	}

	// Deleting with the wrong owner fails and leaves the record.
	if err := repo.DeleteByID(ctx, "u2", rec2.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeleteByID(wrong owner) error = %v; want ErrNotFound", err)
	}
	if err := repo.DeleteByID(ctx, "u1", rec2.ID); err != nil {
		t.Errorf("DeleteByID returned error: %v", err)
	}

	deleted, err := repo.DeleteAllForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("DeleteAllForUser returned error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d; want 1", deleted)
	}

	// u2's history is untouched.
	records, err = repo.ListByUser(ctx, "u2")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("u2 has %d records; want 1", len(records))
	}
}
