package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskhub/internal/config"
	"github.com/idilsaglam/taskhub/internal/model"
)

// setupEnv isolates HOME and the data dir, and returns the URL of a fresh
// in-memory API.
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKHUB_DATA_DIR", t.TempDir())
	t.Setenv("TASKHUB_API_URL", "")
	t.Setenv("TASKHUB_STORAGE", "")

	srv, closeFn, err := buildServer(context.Background(), config.ServerConfig{})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		closeFn()
	})
	return ts.URL
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--color", "never"}, args...)
	code := run(context.Background(), args, &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	r := runCLI(t, "version")
	assert.Equal(t, exitOK, r.code)
	assert.Contains(t, r.stdout, "taskhub dev")
}

func TestUsageErrors(t *testing.T) {
	setupEnv(t)
	cases := [][]string{
		{"nope"},
		{"version", "--bogus"},
		{"tasks", "add"},
		{"local", "done"},
		{"local", "done", "abc"},
		{"local", "done", "99"},
		{"local", "--storage", "tape", "ls"},
		{"--color", "sometimes", "version"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			r := runCLI(t, args...)
			assert.Equal(t, exitUsage, r.code, r.stderr)
			assert.Contains(t, r.stderr, "✖")
		})
	}
}

func TestTasksAgainstServer(t *testing.T) {
	api := setupEnv(t)

	r := runCLI(t, "--api", api, "tasks", "ls")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Backend läuft")
	assert.Contains(t, r.stdout, "2 open · 1 done")

	r = runCLI(t, "--api", api, "tasks", "add", " Buy", "milk ")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added")
	assert.Contains(t, r.stdout, "Buy milk")

	r = runCLI(t, "--api", api, "tasks", "done", "1")
	require.Equal(t, exitOK, r.code, r.stderr)

	r = runCLI(t, "--api", api, "tasks", "ls", "--group")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "2 open · 2 done")
	assert.Contains(t, r.stdout, "Pending")

	r = runCLI(t, "--api", api, "tasks", "update", "#1", "--title", "Backend läuft stabil")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Backend läuft stabil")

	r = runCLI(t, "--api", api, "tasks", "get", "#1")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Backend läuft stabil")

	r = runCLI(t, "--api", api, "tasks", "rm", "1")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed Buy milk")

	r = runCLI(t, "--api", api, "tasks", "get", "#424242")
	assert.Equal(t, exitError, r.code)
	assert.Contains(t, r.stderr, "not found")

	r = runCLI(t, "--api", api, "tasks", "update", "1")
	assert.Equal(t, exitUsage, r.code)
}

func TestTasksMock(t *testing.T) {
	setupEnv(t)
	r := runCLI(t, "tasks", "--mock", "--mock-delay", "0", "ls")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Mock API: Start")
	assert.Contains(t, r.stdout, "API-Schicht einführen")

	r = runCLI(t, "tasks", "--mock", "--mock-delay", "0", "update", "1", "--done")
	assert.Equal(t, exitUsage, r.code)
}

func TestServerUnreachable(t *testing.T) {
	setupEnv(t)
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	r := runCLI(t, "--api", url, "tasks", "ls")
	assert.Equal(t, exitError, r.code)
	assert.NotEmpty(t, r.stderr)
}

func TestPersons(t *testing.T) {
	api := setupEnv(t)

	r := runCLI(t, "--api", api, "persons", "ls")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Max Mustermann")
	assert.Contains(t, r.stdout, "Erika Musterfrau")

	r = runCLI(t, "--api", api, "persons", "add", "--vorname", "Anna", "--nachname", "Beispiel")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "created")
	fields := strings.Fields(strings.TrimSpace(r.stdout))
	id := fields[len(fields)-1]

	r = runCLI(t, "--api", api, "persons", "edit", id, "--aktiv=false")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "○ Anna Beispiel")

	r = runCLI(t, "--api", api, "persons", "get", id)
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Anna Beispiel")

	r = runCLI(t, "--api", api, "persons", "rm", id)
	require.Equal(t, exitOK, r.code, r.stderr)

	// the list fetched after the delete is cached locally
	r = runCLI(t, "--api", "http://127.0.0.1:1", "persons", "ls", "--cached")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Max Mustermann")
	assert.NotContains(t, r.stdout, "Anna")

	r = runCLI(t, "--api", api, "persons", "add", "--nachname", "Ohne")
	assert.Equal(t, exitError, r.code)
	assert.Contains(t, r.stderr, "vorname must not be empty")

	r = runCLI(t, "--api", api, "persons", "get", "not-a-uuid")
	assert.Equal(t, exitUsage, r.code)
}

func TestLocal(t *testing.T) {
	setupEnv(t)

	r := runCLI(t, "local", "ls")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Pinia installieren")
	assert.Contains(t, r.stdout, "1 open · 2 done")

	r = runCLI(t, "local", "add", "Buy", "milk")
	require.Equal(t, exitOK, r.code, r.stderr)

	r = runCLI(t, "local", "done", "1")
	require.Equal(t, exitOK, r.code, r.stderr)

	r = runCLI(t, "local", "ls")
	assert.Contains(t, r.stdout, " 1. ☑ Buy milk")
	assert.Contains(t, r.stdout, "1 open · 3 done")

	r = runCLI(t, "local", "rm", "4")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed Persistenz aktivieren")

	_, err := os.Stat(filepath.Join(os.Getenv("TASKHUB_DATA_DIR"), "tasks-v1.json"))
	require.NoError(t, err)

	r = runCLI(t, "local", "clear")
	require.Equal(t, exitOK, r.code, r.stderr)
	r = runCLI(t, "local", "ls")
	assert.Contains(t, r.stdout, "No tasks yet")
}

func TestLocalBadger(t *testing.T) {
	setupEnv(t)
	r := runCLI(t, "local", "--storage", "badger", "add", "in badger")
	require.Equal(t, exitOK, r.code, r.stderr)
	r = runCLI(t, "local", "--storage", "badger", "ls")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "in badger")

	// the file backend is a separate list
	r = runCLI(t, "local", "ls")
	assert.NotContains(t, r.stdout, "in badger")
}

func TestExport(t *testing.T) {
	api := setupEnv(t)

	r := runCLI(t, "export", "tasks", "--local", "--format", "csv")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(r.stdout, "id,title,done\n"))
	assert.Contains(t, r.stdout, "3,Persistenz aktivieren,false")

	r = runCLI(t, "--api", api, "export", "tasks")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"title": "Backend läuft"`)

	r = runCLI(t, "--api", api, "export", "persons", "-F", "pdf")
	assert.Equal(t, exitUsage, r.code)

	out := filepath.Join(t.TempDir(), "personen.pdf")
	r = runCLI(t, "--api", api, "export", "persons", "-F", "pdf", "-o", out)
	require.Equal(t, exitOK, r.code, r.stderr)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))

	r = runCLI(t, "--api", api, "export", "tasks", "-F", "xml")
	assert.Equal(t, exitError, r.code)
}

func TestRemote(t *testing.T) {
	api := setupEnv(t)

	r := runCLI(t, "remote", "show")
	assert.Contains(t, r.stdout, "http://localhost:5052 (default)")

	r = runCLI(t, "remote", "set", "ftp://nope")
	assert.Equal(t, exitUsage, r.code)

	r = runCLI(t, "remote", "set", api)
	require.Equal(t, exitOK, r.code, r.stderr)
	r = runCLI(t, "remote", "show")
	assert.Contains(t, r.stdout, api+" (file)")

	// client commands now find the server without --api
	r = runCLI(t, "tasks", "ls")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Backend läuft")

	r = runCLI(t, "remote", "clear")
	require.Equal(t, exitOK, r.code, r.stderr)
	r = runCLI(t, "remote", "show")
	assert.Contains(t, r.stdout, "(default)")
}

func TestTUINeedsTerminal(t *testing.T) {
	setupEnv(t)
	r := runCLI(t, "tui", "--mock")
	assert.Equal(t, exitUsage, r.code)
	r = runCLI(t, "tui", "--mock", "--local")
	assert.Equal(t, exitUsage, r.code)
}

func TestBuildServerWithSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "taskhub.db")
	cfg := config.ServerConfig{DBDriver: "sqlite", DBDSN: dsn}

	srv, closeFn, err := buildServer(context.Background(), cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())

	resp, err := http.Post(ts.URL+"/api/tasks", "application/json", strings.NewReader(`{"title":"persisted"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	ts.Close()
	require.NoError(t, closeFn())

	// reopen: seeds are not re-added and the new task survived
	srv, closeFn, err = buildServer(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	ts = httptest.NewServer(srv.Handler())
	defer ts.Close()

	var out bytes.Buffer
	code := run(context.Background(), []string{"--color", "never", "--api", ts.URL, "tasks", "ls"}, &out, &bytes.Buffer{})
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "persisted")
	assert.Equal(t, 1, strings.Count(out.String(), "Backend läuft"))
}

func TestResolveTask(t *testing.T) {
	tasks := []model.Task{{ID: 10, Title: "a"}, {ID: 20, Title: "b"}}

	got, err := resolveTask(tasks, "2")
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.ID)

	got, err = resolveTask(tasks, "#10")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)

	_, err = resolveTask(tasks, "#30")
	assert.Error(t, err)

	for _, ref := range []string{"0", "3", "x", "#x"} {
		_, err = resolveTask(tasks, ref)
		var ue usageError
		assert.ErrorAs(t, err, &ue, ref)
	}
}
