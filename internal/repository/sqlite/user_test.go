package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Name:         "Ana",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "dup@example.com")

	duplicate := &model.User{Email: "dup@example.com", PasswordHash: "hash"}
	err := db.CreateUser(context.Background(), duplicate)
	if err == nil {
		t.Fatal("CreateUser() should fail for a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "lookup@example.com")

	found, err := db.GetUserByEmail(context.Background(), "lookup@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "update@example.com")

	user.Name = "New Name"
	user.City = "Chicago"
	if err := db.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Name != "New Name" {
		t.Errorf("Name = %q, want %q", found.Name, "New Name")
	}
	if found.City != "Chicago" {
		t.Errorf("City = %q, want %q", found.City, "Chicago")
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.User{ID: "nope", Email: "ghost@example.com"}
	err := db.UpdateUser(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateUser() error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "delete@example.com")

	if err := db.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := db.GetUserByID(context.Background(), user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestUserList_Pagination(t *testing.T) {
	db := newTestDB(t)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		createTestUser(t, db, email)
	}

	page, err := db.ListUsers(context.Background(), repository.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("ListUsers(limit=2) returned %d users", len(page))
	}

	rest, err := db.ListUsers(context.Background(), repository.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("ListUsers(offset=2) returned %d users, want 1", len(rest))
	}
}
