package service

// List is a named collection of tasks.
type List struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateListRequest is the body of POST /lists.
type CreateListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListUpdate is a partial list update. Nil fields are left unchanged.
type ListUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Task is a single task item belonging to a list.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	ListID      string `json:"list_id"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ListID      string `json:"list_id"`
}

// TaskUpdate is a partial task update. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// User is the account behind the current credential.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PasswordChangeRequest is the body of PUT /auth/change-password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// String returns a pointer to s, for building partial updates.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building partial updates.
func Bool(b bool) *bool { return &b }
