package apiclient

import (
	"context"
	"net/http"

	"todo/internal/service"
)

// ListAllTasks returns every task visible to the user.
func (c *Client) ListAllTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	err := c.call(ctx, "task-get-all", http.MethodGet, "/tasks", nil, &tasks)
	return tasks, err
}

// ListTasks returns the tasks of one list.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	var tasks []service.Task
	err := c.call(ctx, "task-get-by-list-"+listID, http.MethodGet, "/lists/"+escape(listID)+"/tasks", nil, &tasks)
	return tasks, err
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "task-get-"+id, http.MethodGet, "/tasks/"+escape(id), nil, &task)
	return task, err
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, req service.CreateTaskRequest) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "task-create", http.MethodPost, "/tasks", req, &task)
	return task, err
}

// UpdateTask applies a partial update, including the completed flag.
func (c *Client) UpdateTask(ctx context.Context, id string, update service.TaskUpdate) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "task-update-"+id, http.MethodPut, "/tasks/"+escape(id), update, &task)
	return task, err
}

// ToggleTask flips the completed flag.
func (c *Client) ToggleTask(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "task-toggle-"+id, http.MethodPatch, "/tasks/"+escape(id)+"/toggle", nil, &task)
	return task, err
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.call(ctx, "task-delete-"+id, http.MethodDelete, "/tasks/"+escape(id), nil, nil)
}
