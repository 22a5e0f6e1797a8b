// Package googletasks reads task lists and open tasks from the Google Tasks
// API. It is the source side of import-google and never writes to Google.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/service"
)

const (
	// OAuthClientFile holds the desktop OAuth client downloaded from Google.
	OAuthClientFile = "oauth_client.json"

	// TokenFile holds the Google token written by Authorize.
	TokenFile = "token.json"

	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the timeout for each paged listing.
	APITimeout = 30 * time.Second

	tasksScope = tasks.TasksReadonlyScope
)

// Source implements service.ImportSource using the Google Tasks API.
type Source struct {
	svc *tasks.Service
}

var _ service.ImportSource = (*Source)(nil)

// New creates a Source from the OAuth client and token stored in dir.
func New(ctx context.Context, dir string) (*Source, error) {
	oauthConfig, err := loadOAuthConfig(dir)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(filepath.Join(dir, TokenFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s not found in %s (run: todo google-login)", TokenFile, dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TokenFile, err)
	}

	// Token source refreshes the access token as needed.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Source{svc: svc}, nil
}

// NewWithHTTPClient creates a Source with a custom HTTP client and, when
// endpoint is non-empty, a custom API root (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Source, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Source{svc: svc}, nil
}

// ListLists returns all task lists in API order. List.Name carries the
// Google title.
func (s *Source) ListLists(ctx context.Context) ([]service.List, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.List
	err := s.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, service.List{
				ID:   list.Id,
				Name: list.Title,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// ListOpenTasks returns every open task of a list, following page tokens.
// Notes become the task description.
func (s *Source) ListOpenTasks(ctx context.Context, listID string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := s.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false)

	var result []service.Task
	err := call.Pages(ctx, func(resp *tasks.Tasks) error {
		for _, task := range resp.Items {
			result = append(result, service.Task{
				ID:          task.Id,
				Title:       task.Title,
				Description: task.Notes,
				ListID:      listID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

func loadOAuthConfig(dir string) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(filepath.Join(dir, OAuthClientFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s not found in %s", OAuthClientFile, dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", OAuthClientFile, err)
	}
	cfg, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", OAuthClientFile, err)
	}
	return cfg, nil
}

// wrapError turns API errors into user-facing messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("google token expired or revoked (run: todo google-login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}
	return err
}
