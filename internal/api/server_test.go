package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/idilsaglam/taskhub/internal/service"
	"github.com/idilsaglam/taskhub/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	maxID   = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	erikaID = uuid.MustParse("22222222-2222-4222-8222-222222222222")
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	tasks, err := service.NewTasks(ctx, memstore.New(model.TaskKey), service.WithTaskLogger(logging.Discard()))
	require.NoError(t, err)
	persons, err := service.NewPersons(ctx, memstore.New(model.PersonKey,
		model.Person{ID: maxID, Vorname: "Max", Nachname: "Mustermann", Aktiv: true},
		model.Person{ID: erikaID, Vorname: "Erika", Nachname: "Musterfrau"},
	), logging.Discard())
	require.NoError(t, err)

	srv := httptest.NewServer(New(tasks, persons, WithLogger(logging.Discard())).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func message(t *testing.T, b []byte) string {
	t.Helper()
	var e model.ErrorBody
	require.NoError(t, json.Unmarshal(b, &e))
	return e.Message
}

// =============================================================================
// Tasks
// =============================================================================

func TestListTasksNewestFirst(t *testing.T) {
	srv := newTestServer(t)
	resp, b := do(t, http.MethodGet, srv.URL+"/api/tasks", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var tasks []model.Task
	require.NoError(t, json.Unmarshal(b, &tasks))
	require.Len(t, tasks, 3)
	assert.Equal(t, int64(3), tasks[0].ID)
}

func TestCreateTask(t *testing.T) {
	srv := newTestServer(t)

	t.Run("empty_title", func(t *testing.T) {
		for _, body := range []string{`{"title":""}`, `{"title":"   "}`, `{}`} {
			resp, b := do(t, http.MethodPost, srv.URL+"/api/tasks", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
			assert.Equal(t, "title must not be empty", message(t, b))
		}
	})

	t.Run("malformed_body", func(t *testing.T) {
		resp, b := do(t, http.MethodPost, srv.URL+"/api/tasks", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid request body", message(t, b))
	})

	t.Run("trimmed", func(t *testing.T) {
		resp, b := do(t, http.MethodPost, srv.URL+"/api/tasks", `{"title":" Buy milk "}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var task model.Task
		require.NoError(t, json.Unmarshal(b, &task))
		assert.Equal(t, "Buy milk", task.Title)
		assert.False(t, task.Done)

		resp, _ = do(t, http.MethodGet, srv.URL+"/api/tasks/"+jsonID(task.ID), "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestToggleTask(t *testing.T) {
	srv := newTestServer(t)

	resp, b := do(t, http.MethodPost, srv.URL+"/api/tasks/2/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var task model.Task
	require.NoError(t, json.Unmarshal(b, &task))
	assert.True(t, task.Done)

	_, b = do(t, http.MethodPost, srv.URL+"/api/tasks/2/toggle", "")
	require.NoError(t, json.Unmarshal(b, &task))
	assert.False(t, task.Done)

	resp, b = do(t, http.MethodPost, srv.URL+"/api/tasks/999/toggle", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "task not found", message(t, b))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/tasks/abc/toggle", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTask(t *testing.T) {
	srv := newTestServer(t)

	resp, b := do(t, http.MethodPut, srv.URL+"/api/tasks/1", `{"title":"Backend läuft weiter","done":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var task model.Task
	require.NoError(t, json.Unmarshal(b, &task))
	assert.Equal(t, model.Task{ID: 1, Title: "Backend läuft weiter"}, task)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/tasks/77", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteTask(t *testing.T) {
	srv := newTestServer(t)

	resp, b := do(t, http.MethodDelete, srv.URL+"/api/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, b)

	resp, b = do(t, http.MethodDelete, srv.URL+"/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "task not found", message(t, b))

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// Persons
// =============================================================================

func TestPersons(t *testing.T) {
	srv := newTestServer(t)

	for _, root := range PersonRoots {
		t.Run("list"+root, func(t *testing.T) {
			resp, b := do(t, http.MethodGet, srv.URL+root, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var persons []model.Person
			require.NoError(t, json.Unmarshal(b, &persons))
			assert.Len(t, persons, 2)
		})
	}

	t.Run("get", func(t *testing.T) {
		resp, b := do(t, http.MethodGet, srv.URL+"/api/Personen/"+maxID.String(), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var p model.Person
		require.NoError(t, json.Unmarshal(b, &p))
		assert.Equal(t, "Max", p.Vorname)

		resp, _ = do(t, http.MethodGet, srv.URL+"/api/Personen/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = do(t, http.MethodGet, srv.URL+"/api/Personen/not-a-guid", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("create", func(t *testing.T) {
		id := uuid.NewString()
		body := `{"id":"` + id + `","vorname":"Ada","nachname":"Lovelace","aktiv":true}`
		resp, b := do(t, http.MethodPost, srv.URL+"/api/Personen", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "/api/Personen/"+id, resp.Header.Get("Location"))
		var p model.Person
		require.NoError(t, json.Unmarshal(b, &p))
		assert.Equal(t, id, p.ID.String())

		resp, b = do(t, http.MethodPost, srv.URL+"/api/Personen", body)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "a person with this id already exists", message(t, b))
	})

	t.Run("update", func(t *testing.T) {
		body := `{"id":"` + erikaID.String() + `","vorname":"Erika","nachname":"Musterfrau","aktiv":true}`
		resp, b := do(t, http.MethodPut, srv.URL+"/api/v1/Personen/"+erikaID.String(), body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var p model.Person
		require.NoError(t, json.Unmarshal(b, &p))
		assert.True(t, p.Aktiv)

		resp, b = do(t, http.MethodPut, srv.URL+"/api/Personen/"+maxID.String(), body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "id in URL and body do not match", message(t, b))

		missing := uuid.NewString()
		resp, _ = do(t, http.MethodPut, srv.URL+"/api/Personen/"+missing, `{"vorname":"A","nachname":"B"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		resp, _ := do(t, http.MethodDelete, srv.URL+"/api/Personen/"+maxID.String(), "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = do(t, http.MethodDelete, srv.URL+"/api/Personen/"+maxID.String(), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// =============================================================================
// Ops endpoints
// =============================================================================

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, b := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))

	do(t, http.MethodGet, srv.URL+"/api/tasks", "")
	resp, b = do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), `taskhub_http_requests_total{code="200",route="GET /api/tasks"}`)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
