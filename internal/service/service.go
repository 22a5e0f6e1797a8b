// Package service defines the backend-agnostic interface for list, task and
// account operations.
package service

import (
	"context"

	"golang.org/x/oauth2"
)

// Service defines the operations the commands need from the task server.
// Commands never import the HTTP client directly.
type Service interface {
	// Register creates an account. Unauthenticated.
	Register(ctx context.Context, req RegisterRequest) (User, error)

	// Login exchanges credentials for a bearer token. Unauthenticated.
	// The token is returned, not stored; persisting it is up to the caller.
	Login(ctx context.Context, username, password string) (*oauth2.Token, error)

	// CurrentUser returns the account behind the stored credential.
	CurrentUser(ctx context.Context) (User, error)

	// Identity is CurrentUser for display: any failure yields nil.
	Identity(ctx context.Context) *User

	// ChangePassword changes the account password.
	// Fails locally, without a request, when the new password is unusable.
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error

	// Logout removes the stored credential and cached user. No request is made.
	Logout(ctx context.Context) error

	// ListLists returns all lists in server order.
	ListLists(ctx context.Context) ([]List, error)

	// GetList returns a list by ID.
	GetList(ctx context.Context, id string) (List, error)

	// CreateList creates a new list.
	CreateList(ctx context.Context, req CreateListRequest) (List, error)

	// UpdateList applies a partial update to a list.
	UpdateList(ctx context.Context, id string, update ListUpdate) (List, error)

	// DeleteList deletes a list by ID.
	DeleteList(ctx context.Context, id string) error

	// ListAllTasks returns every task the user can see.
	ListAllTasks(ctx context.Context) ([]Task, error)

	// ListTasks returns the tasks of one list in server order.
	ListTasks(ctx context.Context, listID string) ([]Task, error)

	// GetTask returns a task by ID.
	GetTask(ctx context.Context, id string) (Task, error)

	// CreateTask creates a task in req.ListID.
	CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error)

	// UpdateTask applies a partial update to a task.
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (Task, error)

	// ToggleTask flips the completed flag of a task.
	ToggleTask(ctx context.Context, id string) (Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, id string) error
}

// ImportSource reads lists and their open tasks from another task provider.
// List.ID and Task.ListID are the provider's own identifiers.
type ImportSource interface {
	ListLists(ctx context.Context) ([]List, error)
	ListOpenTasks(ctx context.Context, listID string) ([]Task, error)
}
