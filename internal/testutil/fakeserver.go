package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todo/internal/service"
)

// RecordedRequest is one request seen by FakeServer.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          []byte
}

type fakeUser struct {
	service.User
	hash []byte
}

type cannedResponse struct {
	status int
	body   string
}

type userKey struct{}

// FakeServer is an in-memory task server speaking the REST API under /api.
// Tokens are HS256 JWTs with the username in "sub".
type FakeServer struct {
	srv    *httptest.Server
	secret []byte

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration

	mu       sync.Mutex
	users    map[string]*fakeUser
	lists    []service.List
	tasks    []service.Task
	requests []RecordedRequest
	canned   map[string]cannedResponse
}

// NewFakeServer starts a FakeServer that is closed when the test ends.
func NewFakeServer(t testing.TB) *FakeServer {
	t.Helper()
	s := &FakeServer{
		secret:   []byte("fake-server-secret"),
		TokenTTL: 30 * time.Minute,
		users:    make(map[string]*fakeUser),
		canned:   make(map[string]cannedResponse),
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API base URL, including the /api prefix.
func (s *FakeServer) URL() string {
	return s.srv.URL + "/api"
}

// Client returns an HTTP client for the server.
func (s *FakeServer) Client() *http.Client {
	return s.srv.Client()
}

// AddUser registers an account directly.
func (s *FakeServer) AddUser(username, email, password string) service.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &fakeUser{
		User: service.User{ID: uuid.NewString(), Username: username, Email: email},
		hash: hash,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = u
	return u.User
}

// IssueToken signs a token for username valid for ttl (negative ttl gives an expired token).
func (s *FakeServer) IssueToken(username string, ttl time.Duration) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

// AddList stores a list directly and returns it.
func (s *FakeServer) AddList(name, description string) service.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := service.List{ID: uuid.NewString(), Name: name, Description: description}
	s.lists = append(s.lists, l)
	return l
}

// AddTask stores a task directly and returns it.
func (s *FakeServer) AddTask(listID, title string, completed bool) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := service.Task{ID: uuid.NewString(), Title: title, Completed: completed, ListID: listID}
	s.tasks = append(s.tasks, t)
	return t
}

// Respond makes every "METHOD /api/path" request answer with status and body
// instead of reaching the normal handler.
func (s *FakeServer) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[method+" "+path] = cannedResponse{status: status, body: body}
}

// Requests returns a copy of all recorded requests.
func (s *FakeServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Lists returns a copy of the stored lists.
func (s *FakeServer) Lists() []service.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.List, len(s.lists))
	copy(out, s.lists)
	return out
}

// Tasks returns a copy of the stored tasks.
func (s *FakeServer) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *FakeServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/change-password", s.handleChangePassword)

			r.Get("/lists", s.handleListLists)
			r.Post("/lists", s.handleCreateList)
			r.Get("/lists/{id}", s.handleGetList)
			r.Put("/lists/{id}", s.handleUpdateList)
			r.Delete("/lists/{id}", s.handleDeleteList)
			r.Get("/lists/{id}/tasks", s.handleListTasks)

			r.Get("/tasks", s.handleAllTasks)
			r.Post("/tasks", s.handleCreateTask)
			r.Get("/tasks/{id}", s.handleGetTask)
			r.Put("/tasks/{id}", s.handleUpdateTask)
			r.Delete("/tasks/{id}", s.handleDeleteTask)
			r.Patch("/tasks/{id}/toggle", s.handleToggleTask)
		})
	})
	return r
}

// record logs the request and serves canned responses.
func (s *FakeServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		canned, ok := s.canned[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(canned.status)
			io.WriteString(w, canned.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *FakeServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}
		if tokenString == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		u, ok := s.users[claims.Subject]
		s.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "User not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	})
}

func (s *FakeServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Password) < service.MinPasswordLength {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]string{{"msg": "String should have at least 6 characters"}},
		})
		return
	}
	s.mu.Lock()
	_, exists := s.users[req.Username]
	s.mu.Unlock()
	if exists {
		writeDetail(w, http.StatusBadRequest, "Username already exists")
		return
	}
	writeJSON(w, http.StatusCreated, s.AddUser(req.Username, req.Email, req.Password))
}

func (s *FakeServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	u, ok := s.users[req.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": s.IssueToken(u.Username, s.TokenTTL),
		"token_type":   "bearer",
	})
}

func (s *FakeServer) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r).User)
}

func (s *FakeServer) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req service.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	u := currentUser(r)
	if bcrypt.CompareHashAndPassword(u.hash, []byte(req.CurrentPassword)) != nil {
		writeDetail(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if req.CurrentPassword == req.NewPassword {
		writeDetail(w, http.StatusBadRequest, "New password must be different from current password")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.mu.Lock()
	u.hash = hash
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (s *FakeServer) handleListLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Lists())
}

func (s *FakeServer) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req service.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.AddList(req.Name, req.Description))
}

func (s *FakeServer) findList(id string) (int, bool) {
	for i, l := range s.lists {
		if l.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *FakeServer) findTask(id string) (int, bool) {
	for i, t := range s.tasks {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *FakeServer) handleGetList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, ok := s.findList(chi.URLParam(r, "id"))
	var l service.List
	if ok {
		l = s.lists[i]
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "List not found")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *FakeServer) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var upd service.ListUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	i, ok := s.findList(chi.URLParam(r, "id"))
	var l service.List
	if ok {
		if upd.Name != nil {
			s.lists[i].Name = *upd.Name
		}
		if upd.Description != nil {
			s.lists[i].Description = *upd.Description
		}
		l = s.lists[i]
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "List not found")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *FakeServer) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	i, ok := s.findList(id)
	if ok {
		s.lists = append(s.lists[:i], s.lists[i+1:]...)
		kept := s.tasks[:0]
		for _, t := range s.tasks {
			if t.ListID != id {
				kept = append(kept, t)
			}
		}
		s.tasks = kept
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "List not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *FakeServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.findList(id)
	out := []service.Task{}
	for _, t := range s.tasks {
		if t.ListID == id {
			out = append(out, t)
		}
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "List not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *FakeServer) handleAllTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tasks())
}

func (s *FakeServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	s.mu.Lock()
	_, ok := s.findList(req.ListID)
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "List not found")
		return
	}
	t := s.AddTask(req.ListID, req.Title, false)
	if req.Description != "" {
		s.mu.Lock()
		i, _ := s.findTask(t.ID)
		s.tasks[i].Description = req.Description
		t = s.tasks[i]
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *FakeServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, ok := s.findTask(chi.URLParam(r, "id"))
	var t service.Task
	if ok {
		t = s.tasks[i]
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *FakeServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var upd service.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	i, ok := s.findTask(chi.URLParam(r, "id"))
	var t service.Task
	if ok {
		if upd.Title != nil {
			s.tasks[i].Title = *upd.Title
		}
		if upd.Description != nil {
			s.tasks[i].Description = *upd.Description
		}
		if upd.Completed != nil {
			s.tasks[i].Completed = *upd.Completed
		}
		t = s.tasks[i]
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *FakeServer) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, ok := s.findTask(chi.URLParam(r, "id"))
	var t service.Task
	if ok {
		s.tasks[i].Completed = !s.tasks[i].Completed
		t = s.tasks[i]
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *FakeServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, ok := s.findTask(chi.URLParam(r, "id"))
	if ok {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func currentUser(r *http.Request) *fakeUser {
	return r.Context().Value(userKey{}).(*fakeUser)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
