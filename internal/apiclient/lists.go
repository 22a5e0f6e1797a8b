package apiclient

import (
	"context"
	"net/http"

	"todo/internal/service"
)

// ListLists returns all lists.
func (c *Client) ListLists(ctx context.Context) ([]service.List, error) {
	var lists []service.List
	err := c.call(ctx, "list-get-all", http.MethodGet, "/lists", nil, &lists)
	return lists, err
}

// GetList returns one list.
func (c *Client) GetList(ctx context.Context, id string) (service.List, error) {
	var list service.List
	err := c.call(ctx, "list-get-"+id, http.MethodGet, "/lists/"+escape(id), nil, &list)
	return list, err
}

// CreateList creates a list.
func (c *Client) CreateList(ctx context.Context, req service.CreateListRequest) (service.List, error) {
	var list service.List
	err := c.call(ctx, "list-create", http.MethodPost, "/lists", req, &list)
	return list, err
}

// UpdateList applies a partial update.
func (c *Client) UpdateList(ctx context.Context, id string, update service.ListUpdate) (service.List, error) {
	var list service.List
	err := c.call(ctx, "list-update-"+id, http.MethodPut, "/lists/"+escape(id), update, &list)
	return list, err
}

// DeleteList deletes a list.
func (c *Client) DeleteList(ctx context.Context, id string) error {
	return c.call(ctx, "list-delete-"+id, http.MethodDelete, "/lists/"+escape(id), nil, nil)
}
