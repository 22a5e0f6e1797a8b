package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"todo/internal/apiclient"
	"todo/internal/auth"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/storage"
	"todo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService
// and store.
func testFactory(svc *testutil.FakeService, store storage.Store) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, hooks cli.Hooks) (*cli.Backend, error) {
		return &cli.Backend{Service: svc, Store: store}, nil
	}
}

// serverFactory wires the real API client against a fake server.
func serverFactory(srv *testutil.FakeServer, store storage.Store) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, hooks cli.Hooks) (*cli.Backend, error) {
		client, err := apiclient.New(apiclient.Options{
			BaseURL:        srv.URL(),
			Store:          store,
			OnUnauthorized: hooks.OnUnauthorized,
			HTTPClient:     srv.Client(),
			Logger:         hooks.Logger,
			Monitor:        hooks.Monitor,
		})
		if err != nil {
			return nil, err
		}
		return &cli.Backend{Service: client, Store: store}, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	// Keep config.New away from the real user config.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvStore, "")

	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func login(t *testing.T, store storage.Store, token string) {
	t.Helper()
	if err := auth.SaveToken(context.Background(), store, &oauth2.Token{AccessToken: token}); err != nil {
		t.Fatal(err)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), storage.NewMemoryStore()))

	_, stderr, code := run(t, d, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_UnknownCommandSuggests(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), storage.NewMemoryStore()))

	_, stderr, code := run(t, d, "lsts")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: lsts (did you mean lists?)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), storage.NewMemoryStore()))

	_, stderr, code := run(t, d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), storage.NewMemoryStore()))

	stdout, stderr, code := run(t, d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), storage.NewMemoryStore()))

	stdout, stderr, code := run(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), storage.NewMemoryStore()))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"help", "--unknown"}, want: "error: unknown flag: -unknown\n"},
		{name: "missing value", args: []string{"add", "--list"}, want: "error: flag needs an argument: -list\n"},
		{name: "bad bool", args: []string{"edit", "--completed=maybe", "t1"}, want: "error: invalid boolean value \"maybe\" for -completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := run(t, d, tt.args...)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if !strings.HasPrefix(stderr, tt.want) {
				t.Errorf("expected prefix %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Groceries", "")
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, storage.NewMemoryStore()))

	for _, args := range [][]string{nil, {"lists"}, {"toggle", "t1"}} {
		stdout, stderr, code := run(t, d, args...)
		if code != exitcode.AuthError {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.AuthError, code)
		}
		if stdout != "" {
			t.Errorf("%v: expected no stdout, got %q", args, stdout)
		}
		if stderr != "error: not logged in (run: todo login)\n" {
			t.Errorf("%v: unexpected stderr %q", args, stderr)
		}
	}
}

func TestDispatcher_NoArgsRunsOverview(t *testing.T) {
	svc := testutil.NewFakeService()
	l := svc.AddList("Groceries", "")
	svc.AddTask(l.ID, "Milk", false)
	store := storage.NewMemoryStore()
	login(t, store, "tok123")
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, store))

	stdout, stderr, code := run(t, d)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr)
	}
	expected := "------------\nGroceries [l1]\n------------\n    [ ] Milk [t2]\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_PasswordFromInput(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "alice@example.com", "secret1")
	store := storage.NewMemoryStore()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, store))
	d.SetInput(strings.NewReader("secret1\n"))

	stdout, stderr, code := run(t, d, "login", "alice")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if !store.Has(storage.KeyAccessToken) {
		t.Error("token should be stored")
	}
}

func TestDispatcher_EndToEnd(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddUser("alice", "alice@example.com", "secret1")
	store := storage.NewMemoryStore()
	d := cli.NewDispatcher(commands.DefaultRegistry, serverFactory(srv, store))

	stdout, stderr, code := run(t, d, "login", "--password", "secret1", "alice")
	if code != exitcode.Success || stdout != "ok\n" {
		t.Fatalf("login: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}
	if u := auth.LoadUser(context.Background(), store); u == nil || u.Username != "alice" {
		t.Errorf("expected cached user alice, got %+v", u)
	}

	stdout, stderr, code = run(t, d, "createlist", "Groceries")
	if code != exitcode.Success || !strings.HasPrefix(stdout, "Groceries [") {
		t.Fatalf("createlist: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	stdout, stderr, code = run(t, d, "add", "--list", "Groceries", "Milk")
	if code != exitcode.Success || !strings.HasPrefix(stdout, "[ ] Milk [") {
		t.Fatalf("add: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	stdout, stderr, code = run(t, d, "lists", "--timings")
	if code != exitcode.Success {
		t.Fatalf("lists: code %d, stderr %q", code, stderr)
	}
	if !strings.HasPrefix(stdout, "Groceries [") {
		t.Errorf("lists: unexpected stdout %q", stdout)
	}
	for _, want := range []string{"Performance report", "list-get-all:", "Count:   1"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("timings report should contain %q, got %q", want, stderr)
		}
	}

	stdout, _, code = run(t, d, "whoami")
	if code != exitcode.Success || stdout != "alice <alice@example.com>\n" {
		t.Errorf("whoami: code %d, stdout %q", code, stdout)
	}
}

func TestDispatcher_SessionExpired(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Respond(http.MethodGet, "/api/lists", http.StatusUnauthorized, `{"detail":"expired"}`)
	store := storage.NewMemoryStore()
	login(t, store, "tok123")
	d := cli.NewDispatcher(commands.DefaultRegistry, serverFactory(srv, store))

	stdout, stderr, code := run(t, d, "lists")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "session expired (run: todo login)\nerror: auth error: expired\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if store.Has(storage.KeyAccessToken) {
		t.Error("token should be cleared after 401")
	}
}

func TestDispatcher_SessionExpiredDuringOverview(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	a := srv.AddList("A", "")
	b := srv.AddList("B", "")
	srv.Respond(http.MethodGet, "/api/lists/"+a.ID+"/tasks", http.StatusUnauthorized, `{"detail":"expired"}`)
	srv.Respond(http.MethodGet, "/api/lists/"+b.ID+"/tasks", http.StatusUnauthorized, `{"detail":"expired"}`)
	srv.Respond(http.MethodGet, "/api/lists", http.StatusOK,
		`[{"id":"`+a.ID+`","name":"A","description":""},{"id":"`+b.ID+`","name":"B","description":""}]`)
	store := storage.NewMemoryStore()
	login(t, store, "tok123")
	d := cli.NewDispatcher(commands.DefaultRegistry, serverFactory(srv, store))

	_, stderr, code := run(t, d)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if n := strings.Count(stderr, "session expired"); n != 1 {
		t.Errorf("expected one session hint, got %d in %q", n, stderr)
	}
}

func TestDispatcher_OverviewGolden(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddUser("alice", "alice@example.com", "secret1")
	work := srv.AddList("Work", "q3 goals")
	home := srv.AddList("Home", "")
	srv.AddTask(work.ID, "Write report", false)
	srv.AddTask(work.ID, "Book travel", true)
	srv.AddTask(home.ID, "Fix tap", false)
	srv.AddList("Someday", "")
	store := storage.NewMemoryStore()
	login(t, store, srv.IssueToken("alice", time.Hour))
	d := cli.NewDispatcher(commands.DefaultRegistry, serverFactory(srv, store))

	stdout, stderr, code := run(t, d)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	testutil.GoldenScrubbed(t, "overview", stdout)
}
