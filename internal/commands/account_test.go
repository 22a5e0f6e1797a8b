package commands_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"todo/internal/auth"
	"todo/internal/commands"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

func storeToken(t *testing.T, env *commands.Env, token string) {
	t.Helper()
	if err := auth.SaveToken(context.Background(), env.Store, &oauth2.Token{AccessToken: token}); err != nil {
		t.Fatalf("save token: %v", err)
	}
}

func TestRegisterCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.RegisterCmd{}, newEnv(t, svc),
		"--password", "secret1", "alice", "alice@example.com")
	assertResult(t, stdout, stderr, code, "registered alice (run: todo login alice)\n", "", exitcode.Success)

	// Password from stdin.
	env := newEnv(t, svc)
	env.In = strings.NewReader("secret2\n")
	stdout, stderr, code = runCommand(t, &commands.RegisterCmd{}, env, "bob", "bob@example.com")
	assertResult(t, stdout, stderr, code, "registered bob (run: todo login bob)\n", "", exitcode.Success)

	svc.CurrentUsername = "bob"
	if err := svc.ChangePassword(context.Background(), "secret2", "secret3"); err != nil {
		t.Errorf("stdin password was not used: %v", err)
	}
}

func TestRegisterCommand_Errors(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "alice@example.com", "secret1")

	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantCode int
	}{
		{name: "missing email", args: []string{"--password", "pw1234", "carol"}, wantErr: "error: username and email required\n", wantCode: exitcode.UserError},
		{name: "no password", args: []string{"carol", "carol@example.com"}, wantErr: "error: password required (use --password or pipe it on stdin)\n", wantCode: exitcode.UserError},
		{name: "taken", args: []string{"--password", "pw1234", "alice", "a@example.com"}, wantErr: "error: Username already exists\n", wantCode: exitcode.UserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.RegisterCmd{}, newEnv(t, svc), tt.args...)
			assertResult(t, stdout, stderr, code, "", tt.wantErr, tt.wantCode)
		})
	}
}

func TestLoginCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "alice@example.com", "secret1")
	svc.CurrentUsername = "alice"

	env := newEnv(t, svc)
	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, "--password", "secret1", "alice")
	assertResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	ctx := context.Background()
	tok, err := auth.LoadToken(ctx, env.Store)
	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	if tok.AccessToken != "token-alice" {
		t.Errorf("expected token-alice, got %q", tok.AccessToken)
	}
	user := auth.LoadUser(ctx, env.Store)
	if user == nil || user.Username != "alice" {
		t.Errorf("expected cached user alice, got %+v", user)
	}
}

func TestLoginCommand_PasswordFromStdin(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "alice@example.com", "secret1")

	env := newEnv(t, svc)
	env.In = strings.NewReader("secret1\n")
	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, "alice")
	assertResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	// CurrentUser fails (no CurrentUsername), which only skips the cache.
	if !auth.HasToken(context.Background(), env.Store) {
		t.Error("token should be stored")
	}
	if auth.LoadUser(context.Background(), env.Store) != nil {
		t.Error("no user should be cached")
	}
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "alice@example.com", "secret1")

	env := newEnv(t, svc)
	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, "--password", "wrong", "alice")
	assertResult(t, stdout, stderr, code, "", "error: Invalid credentials\n", exitcode.AuthError)

	if auth.HasToken(context.Background(), env.Store) {
		t.Error("no token should be stored after a failed login")
	}
}

func TestLoginCommand_Network(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = &service.NetworkError{Method: "POST", Path: "/auth/login", Err: errors.New("connection refused")}

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, newEnv(t, svc), "--password", "x", "alice")
	assertResult(t, stdout, stderr, code, "", "error: network error: connection refused\n", exitcode.BackendError)
}

func TestLoginCommand_MissingUsername(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, newEnv(t, testutil.NewFakeService()))
	assertResult(t, stdout, stderr, code, "", "error: username required\n", exitcode.UserError)
}

func TestLogoutCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	env := newEnv(t, svc)

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, env)
	assertResult(t, stdout, stderr, code, "not logged in\n", "", exitcode.Success)
	if svc.LoggedOut {
		t.Error("Logout should not be called without a token")
	}

	storeToken(t, env, "tok123")
	stdout, stderr, code = runCommand(t, &commands.LogoutCmd{}, env)
	assertResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if !svc.LoggedOut {
		t.Error("expected Logout to be called")
	}
}

func TestWhoamiCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "alice@example.com", "secret1")

	t.Run("no token", func(t *testing.T) {
		stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, newEnv(t, svc))
		assertResult(t, stdout, stderr, code, "not logged in\n", "", exitcode.Success)
	})

	t.Run("server identity", func(t *testing.T) {
		svc.CurrentUsername = "alice"
		env := newEnv(t, svc)
		storeToken(t, env, "tok123")
		stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, env)
		assertResult(t, stdout, stderr, code, "alice <alice@example.com>\n", "", exitcode.Success)
	})

	t.Run("cached fallback", func(t *testing.T) {
		failing := testutil.NewFakeService()
		failing.CurrentUserErr = &service.NetworkError{Method: "GET", Path: "/auth/me", Err: errors.New("down")}
		env := newEnv(t, failing)
		storeToken(t, env, "tok123")
		if err := auth.SaveUser(context.Background(), env.Store, service.User{ID: "u9", Username: "bob"}); err != nil {
			t.Fatal(err)
		}
		stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, env)
		assertResult(t, stdout, stderr, code, "bob\n", "", exitcode.Success)
	})

	t.Run("nothing known", func(t *testing.T) {
		failing := testutil.NewFakeService()
		failing.CurrentUserErr = errors.New("down")
		env := newEnv(t, failing)
		storeToken(t, env, "tok123")
		stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, env)
		assertResult(t, stdout, stderr, code, "not logged in\n", "", exitcode.Success)
	})
}

func signedToken(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestStatusCommand(t *testing.T) {
	expires := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		user  *service.User
		now   time.Time
		want  string
	}{
		{
			name: "not logged in",
			want: "server:  http://localhost:8000/api\nsession: not logged in\n",
		},
		{
			name:  "opaque",
			token: "tok123",
			want:  "server:  http://localhost:8000/api\nsession: opaque token\n",
		},
		{
			name:  "valid jwt",
			token: signedToken(t, "alice", expires),
			user:  &service.User{ID: "u1", Username: "alice"},
			now:   expires.Add(-time.Minute),
			want: "server:  http://localhost:8000/api\nuser:    alice\nsubject: alice\n" +
				"session: valid until 2026-01-02T15:04:05Z\n",
		},
		{
			name:  "expired jwt",
			token: signedToken(t, "alice", expires),
			now:   expires.Add(time.Second),
			want: "server:  http://localhost:8000/api\nsubject: alice\n" +
				"session: expired at 2026-01-02T15:04:05Z (run: todo login)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, testutil.NewFakeService())
			if tt.token != "" {
				storeToken(t, env, tt.token)
			}
			if tt.user != nil {
				if err := auth.SaveUser(context.Background(), env.Store, *tt.user); err != nil {
					t.Fatal(err)
				}
			}

			cmd := &commands.StatusCmd{}
			now := tt.now
			cmd.SetNow(func() time.Time { return now })
			stdout, stderr, code := runCommand(t, cmd, env)
			assertResult(t, stdout, stderr, code, tt.want, "", exitcode.Success)
		})
	}
}

func TestPasswdCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "alice@example.com", "secret1")
	svc.CurrentUsername = "alice"

	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantErr  string
		wantCode int
	}{
		{name: "same password", args: []string{"--current", "secret1", "--new", "secret1"},
			wantErr: "error: new password must be different from current password\n", wantCode: exitcode.UserError},
		{name: "too short", args: []string{"--current", "secret1", "--new", "abc"},
			wantErr: "error: new password must be at least 6 characters\n", wantCode: exitcode.UserError},
		{name: "no current", args: []string{"--new", "secret2"},
			wantErr: "error: current password required\n", wantCode: exitcode.UserError},
		{name: "wrong current", args: []string{"--current", "nope12", "--new", "secret2"},
			wantErr: "error: Current password is incorrect\n", wantCode: exitcode.UserError},
		{name: "changed", args: []string{"--current", "secret1", "--new", "secret2"},
			wantOut: "ok\n", wantCode: exitcode.Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.PasswdCmd{}, newEnv(t, svc), tt.args...)
			assertResult(t, stdout, stderr, code, tt.wantOut, tt.wantErr, tt.wantCode)
		})
	}

	if _, err := svc.Login(context.Background(), "alice", "secret2"); err != nil {
		t.Errorf("new password should work: %v", err)
	}
}

func TestPasswdCommand_PasswordsFromStdin(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantOut  string
		wantErr  string
		wantCode int
		wantPw   string
	}{
		{name: "both from stdin", stdin: "secret1\nsecret2\n",
			wantOut: "ok\n", wantCode: exitcode.Success, wantPw: "secret2"},
		{name: "new from stdin", args: []string{"--current", "secret1"}, stdin: "secret3\r\n",
			wantOut: "ok\n", wantCode: exitcode.Success, wantPw: "secret3"},
		{name: "current from stdin", args: []string{"--new", "secret4"}, stdin: "secret1\n",
			wantOut: "ok\n", wantCode: exitcode.Success, wantPw: "secret4"},
		{name: "new missing", stdin: "secret1\n",
			wantErr: "error: new password must be at least 6 characters\n", wantCode: exitcode.UserError, wantPw: "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			svc.AddUser("alice", "alice@example.com", "secret1")
			svc.CurrentUsername = "alice"
			env := newEnv(t, svc)
			env.In = strings.NewReader(tt.stdin)

			stdout, stderr, code := runCommand(t, &commands.PasswdCmd{}, env, tt.args...)
			assertResult(t, stdout, stderr, code, tt.wantOut, tt.wantErr, tt.wantCode)

			if _, err := svc.Login(context.Background(), "alice", tt.wantPw); err != nil {
				t.Errorf("password should be %q: %v", tt.wantPw, err)
			}
		})
	}
}

// fakeSource is an in-memory service.ImportSource.
type fakeSource struct {
	lists []service.List
	tasks map[string][]service.Task
	err   error
}

func (f *fakeSource) ListLists(ctx context.Context) ([]service.List, error) {
	return f.lists, f.err
}

func (f *fakeSource) ListOpenTasks(ctx context.Context, listID string) ([]service.Task, error) {
	return f.tasks[listID], nil
}

func TestImportGoogleCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	src := &fakeSource{
		lists: []service.List{{ID: "g1", Name: "Inbox"}},
		tasks: map[string][]service.Task{
			"g1": {
				{ID: "x1", Title: "Call mom", Description: "sunday", ListID: "g1"},
				{ID: "x2", Title: "  ", ListID: "g1"},
			},
		},
	}

	env := newEnv(t, svc)
	var gotDir string
	env.OpenSource = func(ctx context.Context, dir string) (service.ImportSource, error) {
		gotDir = dir
		return src, nil
	}

	stdout, stderr, code := runCommand(t, &commands.ImportGoogleCmd{}, env)
	assertResult(t, stdout, stderr, code, "imported 1 lists, 1 tasks\n", "", exitcode.Success)

	if gotDir != env.Config.GoogleDir() {
		t.Errorf("expected default google dir %q, got %q", env.Config.GoogleDir(), gotDir)
	}
	l, ok := svc.List("l1")
	if !ok || l.Name != "Inbox" || l.Description != "Imported from Google Tasks" {
		t.Errorf("unexpected imported list: %+v", l)
	}
	task, ok := svc.Task("t2")
	if !ok || task.Title != "Call mom" || task.Description != "sunday" || task.ListID != "l1" {
		t.Errorf("unexpected imported task: %+v", task)
	}
}

func TestImportGoogleCommand_DryRun(t *testing.T) {
	svc := testutil.NewFakeService()
	src := &fakeSource{
		lists: []service.List{{ID: "g1", Name: "Inbox"}},
		tasks: map[string][]service.Task{"g1": {{ID: "x1", Title: "Call mom"}}},
	}
	env := newEnv(t, svc)
	env.OpenSource = func(ctx context.Context, dir string) (service.ImportSource, error) {
		if dir != "/tmp/google" {
			t.Errorf("expected --google-dir to be used, got %q", dir)
		}
		return src, nil
	}

	stdout, stderr, code := runCommand(t, &commands.ImportGoogleCmd{}, env, "--dry-run", "--google-dir", "/tmp/google")
	assertResult(t, stdout, stderr, code, "Inbox: 1 tasks\nimported 1 lists, 1 tasks\n", "", exitcode.Success)

	if lists, _ := svc.ListLists(context.Background()); len(lists) != 0 {
		t.Errorf("dry run should not create lists, got %d", len(lists))
	}
}

func TestImportGoogleCommand_Errors(t *testing.T) {
	svc := testutil.NewFakeService()

	env := newEnv(t, svc)
	stdout, stderr, code := runCommand(t, &commands.ImportGoogleCmd{}, env)
	assertResult(t, stdout, stderr, code, "", "error: google import not available\n", exitcode.UserError)

	env.OpenSource = func(ctx context.Context, dir string) (service.ImportSource, error) {
		return nil, errors.New("oauth_client.json not found")
	}
	stdout, stderr, code = runCommand(t, &commands.ImportGoogleCmd{}, env)
	assertResult(t, stdout, stderr, code, "", "error: google: oauth_client.json not found\n", exitcode.AuthError)

	env.OpenSource = func(ctx context.Context, dir string) (service.ImportSource, error) {
		return &fakeSource{err: errors.New("quota exceeded")}, nil
	}
	stdout, stderr, code = runCommand(t, &commands.ImportGoogleCmd{}, env)
	assertResult(t, stdout, stderr, code, "", "error: google: quota exceeded\n", exitcode.BackendError)
}

func TestGoogleLoginCommand(t *testing.T) {
	env := newEnv(t, testutil.NewFakeService())

	stdout, stderr, code := runCommand(t, &commands.GoogleLoginCmd{}, env)
	assertResult(t, stdout, stderr, code, "", "error: google import not available\n", exitcode.UserError)

	var gotDir string
	env.AuthorizeSource = func(ctx context.Context, dir string, prompt io.Writer) error {
		gotDir = dir
		return nil
	}
	stdout, stderr, code = runCommand(t, &commands.GoogleLoginCmd{}, env)
	assertResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if gotDir != env.Config.GoogleDir() {
		t.Errorf("expected %q, got %q", env.Config.GoogleDir(), gotDir)
	}

	env.AuthorizeSource = func(ctx context.Context, dir string, prompt io.Writer) error {
		return errors.New("oauth callback timed out")
	}
	stdout, stderr, code = runCommand(t, &commands.GoogleLoginCmd{}, env, "--google-dir", "/elsewhere")
	assertResult(t, stdout, stderr, code, "", "error: google: oauth callback timed out\n", exitcode.AuthError)
}
