// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"todo/internal/service"
)

// ErrNotFound is returned when a resource is not found. It carries a 404
// like the real client's error.
var ErrNotFound error = &service.APIError{StatusCode: http.StatusNotFound, Message: "Not found"}

// FakeService is an in-memory implementation of service.Service for testing.
// IDs are assigned sequentially: l1, l2, ... for lists and t1, t2, ... for tasks.
type FakeService struct {
	mu        sync.RWMutex
	lists     []service.List
	tasks     []service.Task
	passwords map[string]string
	users     map[string]service.User
	nextID    int

	// LoggedOut is set by Logout.
	LoggedOut bool

	// CurrentUsername is the user returned by CurrentUser.
	CurrentUsername string

	// Error injection for testing
	RegisterErr       error
	LoginErr          error
	CurrentUserErr    error
	ChangePasswordErr error
	ListListsErr      error
	GetListErr        error
	CreateListErr     error
	UpdateListErr     error
	DeleteListErr     error
	ListTasksErr      map[string]error // listID -> error
	ListAllTasksErr   error
	GetTaskErr        error
	CreateTaskErr     error
	UpdateTaskErr     error
	ToggleTaskErr     error
	DeleteTaskErr     error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		passwords:    make(map[string]string),
		users:        make(map[string]service.User),
		ListTasksErr: make(map[string]error),
	}
}

func (f *FakeService) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

// AddUser adds an account that Login accepts.
func (f *FakeService) AddUser(username, email, password string) service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := service.User{ID: f.id("u"), Username: username, Email: email}
	f.users[username] = u
	f.passwords[username] = password
	return u
}

// AddList adds a list and returns it.
func (f *FakeService) AddList(name, description string) service.List {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := service.List{ID: f.id("l"), Name: name, Description: description}
	f.lists = append(f.lists, l)
	return l
}

// AddTask adds a task to a list and returns it.
func (f *FakeService) AddTask(listID, title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.id("t"), Title: title, Completed: completed, ListID: listID}
	f.tasks = append(f.tasks, t)
	return t
}

// Task returns a stored task by ID.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// List returns a stored list by ID.
func (f *FakeService) List(id string) (service.List, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, l := range f.lists {
		if l.ID == id {
			return l, true
		}
	}
	return service.List{}, false
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, req service.RegisterRequest) (service.User, error) {
	if f.RegisterErr != nil {
		return service.User{}, f.RegisterErr
	}
	f.mu.RLock()
	_, exists := f.users[req.Username]
	f.mu.RUnlock()
	if exists {
		return service.User{}, &service.APIError{StatusCode: http.StatusBadRequest, Message: "Username already exists"}
	}
	return f.AddUser(req.Username, req.Email, req.Password), nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.passwords[username]; !ok || pw != password {
		return nil, &service.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return &oauth2.Token{AccessToken: "token-" + username, TokenType: "bearer"}, nil
}

// CurrentUser implements service.Service.
func (f *FakeService) CurrentUser(ctx context.Context) (service.User, error) {
	if f.CurrentUserErr != nil {
		return service.User{}, f.CurrentUserErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[f.CurrentUsername]
	if !ok {
		return service.User{}, ErrNotFound
	}
	return u, nil
}

// Identity implements service.Service.
func (f *FakeService) Identity(ctx context.Context) *service.User {
	u, err := f.CurrentUser(ctx)
	if err != nil {
		return nil
	}
	return &u
}

// ChangePassword implements service.Service.
func (f *FakeService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := service.ValidatePasswordChange(currentPassword, newPassword); err != nil {
		return err
	}
	if f.ChangePasswordErr != nil {
		return f.ChangePasswordErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[f.CurrentUsername] != currentPassword {
		return &service.APIError{StatusCode: http.StatusBadRequest, Message: "Current password is incorrect"}
	}
	f.passwords[f.CurrentUsername] = newPassword
	return nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoggedOut = true
	return nil
}

// ListLists implements service.Service.
func (f *FakeService) ListLists(ctx context.Context) ([]service.List, error) {
	if f.ListListsErr != nil {
		return nil, f.ListListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.List, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

// GetList implements service.Service.
func (f *FakeService) GetList(ctx context.Context, id string) (service.List, error) {
	if f.GetListErr != nil {
		return service.List{}, f.GetListErr
	}
	l, ok := f.List(id)
	if !ok {
		return service.List{}, ErrNotFound
	}
	return l, nil
}

// CreateList implements service.Service.
func (f *FakeService) CreateList(ctx context.Context, req service.CreateListRequest) (service.List, error) {
	if f.CreateListErr != nil {
		return service.List{}, f.CreateListErr
	}
	return f.AddList(req.Name, req.Description), nil
}

// UpdateList implements service.Service.
func (f *FakeService) UpdateList(ctx context.Context, id string, update service.ListUpdate) (service.List, error) {
	if f.UpdateListErr != nil {
		return service.List{}, f.UpdateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lists {
		if f.lists[i].ID == id {
			if update.Name != nil {
				f.lists[i].Name = *update.Name
			}
			if update.Description != nil {
				f.lists[i].Description = *update.Description
			}
			return f.lists[i], nil
		}
	}
	return service.List{}, ErrNotFound
}

// DeleteList implements service.Service.
func (f *FakeService) DeleteList(ctx context.Context, id string) error {
	if f.DeleteListErr != nil {
		return f.DeleteListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, l := range f.lists {
		if l.ID == id {
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			var kept []service.Task
			for _, t := range f.tasks {
				if t.ListID != id {
					kept = append(kept, t)
				}
			}
			f.tasks = kept
			return nil
		}
	}
	return ErrNotFound
}

// ListAllTasks implements service.Service.
func (f *FakeService) ListAllTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListAllTasksErr != nil {
		return nil, f.ListAllTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err, ok := f.ListTasksErr[listID]; ok && err != nil {
		return nil, err
	}

	found := false
	for _, l := range f.lists {
		if l.ID == listID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	var result []service.Task
	for _, t := range f.tasks {
		if t.ListID == listID {
			result = append(result, t)
		}
	}
	return result, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	t, ok := f.Task(id)
	if !ok {
		return service.Task{}, ErrNotFound
	}
	return t, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, req service.CreateTaskRequest) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	if _, ok := f.List(req.ListID); !ok {
		return service.Task{}, ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.id("t"), Title: req.Title, Description: req.Description, ListID: req.ListID}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, update service.TaskUpdate) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if update.Title != nil {
				f.tasks[i].Title = *update.Title
			}
			if update.Description != nil {
				f.tasks[i].Description = *update.Description
			}
			if update.Completed != nil {
				f.tasks[i].Completed = *update.Completed
			}
			return f.tasks[i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id string) (service.Task, error) {
	if f.ToggleTaskErr != nil {
		return service.Task{}, f.ToggleTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = !f.tasks[i].Completed
			return f.tasks[i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
