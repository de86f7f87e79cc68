package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/auth"
	"tasktracker/internal/models"
	"tasktracker/internal/storage/sqlite"
	"tasktracker/internal/tasks"
	"tasktracker/internal/view"
)

const (
	testSecret = "server-test-secret"
	missingID  = "0b8e5a52-95a4-4c47-8f4e-3f1f8f0a9d21"
)

type testEnv struct {
	t   *testing.T
	srv *Server
}

func newTestEnv(t *testing.T, staticDir string) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		current = current.Add(time.Millisecond)
		return current
	}
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"), logger, sqlite.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := New(tasks.NewService(store, logger), auth.NewVerifier(testSecret, ""), logger, staticDir)
	return &testEnv{t: t, srv: srv}
}

func (e *testEnv) token(userID string) string {
	e.t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(e.t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(userID))
	}
	rec := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) create(userID string, body any) models.Task {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/tasks", userID, body)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Task models.Task `json:"task"`
	}
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Task
}

func decodeTasks(t *testing.T, rec *httptest.ResponseRecorder) []models.Task {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Tasks
}

func TestHealthDoesNotRequireAuth(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(http.MethodGet, "/api/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTaskRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t, "")
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/" + missingID},
		{http.MethodDelete, "/api/tasks/" + missingID},
	} {
		rec := env.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.path)
	}
}

func TestCreateTask(t *testing.T) {
	env := newTestEnv(t, "")

	task := env.create("alice", map[string]any{"title": "A", "due_date": "2024-06-01", "due_time": "14:30"})
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "alice", task.OwnerID)
	assert.Equal(t, "A", task.Title)
	assert.Equal(t, "2024-06-01", task.DueDate)
	assert.Equal(t, "14:30", task.DueTime)
	assert.Equal(t, models.StatusPending, task.Status)

	listed := decodeTasks(t, env.do(http.MethodGet, "/api/tasks", "alice", nil))
	require.Len(t, listed, 1)
	assert.Equal(t, task, listed[0])
}

func TestCreateTaskIgnoresClientOwnerAndID(t *testing.T) {
	env := newTestEnv(t, "")

	task := env.create("alice", map[string]any{"title": "mine", "owner_id": "bob", "id": missingID})
	assert.Equal(t, "alice", task.OwnerID)
	assert.NotEqual(t, missingID, task.ID)
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t, "")

	for name, body := range map[string]any{
		"missing title":  map[string]any{"description": "x"},
		"blank title":    map[string]any{"title": "  "},
		"invalid status": map[string]any{"title": "x", "status": "Done"},
		"bad date":       map[string]any{"title": "x", "due_date": "tomorrow"},
		"malformed json": `{"title":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/tasks", "alice", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestListTasksFilterAndIsolation(t *testing.T) {
	env := newTestEnv(t, "")

	env.create("alice", map[string]any{"title": "none"})
	env.create("alice", map[string]any{"title": "second", "due_date": "2024-01-02", "status": "Completed"})
	env.create("alice", map[string]any{"title": "first", "due_date": "2024-01-01"})
	env.create("bob", map[string]any{"title": "bob's"})

	all := decodeTasks(t, env.do(http.MethodGet, "/api/tasks", "alice", nil))
	require.Len(t, all, 3)
	assert.Equal(t, []string{"first", "second", "none"}, []string{all[0].Title, all[1].Title, all[2].Title})

	completed := decodeTasks(t, env.do(http.MethodGet, "/api/tasks?status=Completed", "alice", nil))
	require.Len(t, completed, 1)
	assert.Equal(t, "second", completed[0].Title)

	inProgress := decodeTasks(t, env.do(http.MethodGet, "/api/tasks?status=In%20Progress", "alice", nil))
	assert.Empty(t, inProgress)

	unfiltered := decodeTasks(t, env.do(http.MethodGet, "/api/tasks?status=bogus", "alice", nil))
	assert.Len(t, unfiltered, 3)

	bobs := decodeTasks(t, env.do(http.MethodGet, "/api/tasks", "bob", nil))
	require.Len(t, bobs, 1)
	assert.Equal(t, "bob's", bobs[0].Title)
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv(t, "")
	task := env.create("alice", map[string]any{"title": "draft", "due_date": "2024-06-01", "due_time": "09:00"})

	rec := env.do(http.MethodPut, "/api/tasks/"+task.ID, "alice", map[string]any{"status": "In Progress", "owner_id": "bob"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Task models.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, task.ID, resp.Task.ID)
	assert.Equal(t, "alice", resp.Task.OwnerID)
	assert.Equal(t, "draft", resp.Task.Title)
	assert.Equal(t, models.StatusInProgress, resp.Task.Status)
	assert.Equal(t, "09:00", resp.Task.DueTime)

	rec = env.do(http.MethodPut, "/api/tasks/"+task.ID, "alice", `{"due_time":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Task.DueTime)
	assert.Equal(t, "2024-06-01", resp.Task.DueDate)

	rec = env.do(http.MethodPut, "/api/tasks/"+task.ID, "alice", map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDeleteStatusCodes(t *testing.T) {
	env := newTestEnv(t, "")
	task := env.create("alice", map[string]any{"title": "mine"})

	tests := []struct {
		name   string
		method string
		id     string
		user   string
		want   int
	}{
		{name: "update unknown id", method: http.MethodPut, id: missingID, user: "alice", want: http.StatusNotFound},
		{name: "update unknown id as other user", method: http.MethodPut, id: missingID, user: "bob", want: http.StatusNotFound},
		{name: "update foreign task", method: http.MethodPut, id: task.ID, user: "bob", want: http.StatusForbidden},
		{name: "update malformed id", method: http.MethodPut, id: "42", user: "alice", want: http.StatusBadRequest},
		{name: "delete unknown id", method: http.MethodDelete, id: missingID, user: "bob", want: http.StatusNotFound},
		{name: "delete foreign task", method: http.MethodDelete, id: task.ID, user: "bob", want: http.StatusForbidden},
		{name: "delete malformed id", method: http.MethodDelete, id: "42", user: "alice", want: http.StatusBadRequest},
		{name: "delete own task", method: http.MethodDelete, id: task.ID, user: "alice", want: http.StatusOK},
		{name: "delete again", method: http.MethodDelete, id: task.ID, user: "alice", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.method, "/api/tasks/"+tt.id, tt.user, map[string]any{"title": "x"})
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTimelineAndSummary(t *testing.T) {
	env := newTestEnv(t, "")
	env.srv.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }

	env.create("alice", map[string]any{"title": "late", "due_date": "2024-06-01", "due_time": "09:00"})
	env.create("alice", map[string]any{"title": "soon", "due_date": "2024-06-01", "due_time": "12:00", "status": "In Progress"})
	env.create("alice", map[string]any{"title": "next", "due_date": "2024-06-02"})
	env.create("alice", map[string]any{"title": "someday", "status": "Completed"})

	rec := env.do(http.MethodGet, "/api/tasks/timeline", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Groups []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
			Tasks []struct {
				Title    string  `json:"title"`
				Urgency  string  `json:"urgency"`
				DueLabel *string `json:"due_label"`
			} `json:"tasks"`
		} `json:"groups"`
		Summary view.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Groups, 3)
	assert.Equal(t, "2024-06-01", resp.Groups[0].Key)
	assert.Equal(t, "2024-06-02", resp.Groups[1].Key)
	assert.Equal(t, view.NoDateKey, resp.Groups[2].Key)

	require.Len(t, resp.Groups[0].Tasks, 2)
	assert.Equal(t, "late", resp.Groups[0].Tasks[0].Title)
	assert.Equal(t, "overdue", resp.Groups[0].Tasks[0].Urgency)
	require.NotNil(t, resp.Groups[0].Tasks[0].DueLabel)
	assert.Equal(t, "Jun 1, 2024 at 9:00 AM", *resp.Groups[0].Tasks[0].DueLabel)
	assert.Equal(t, "today", resp.Groups[0].Tasks[1].Urgency)
	assert.Equal(t, "upcoming", resp.Groups[1].Tasks[0].Urgency)
	assert.Equal(t, "none", resp.Groups[2].Tasks[0].Urgency)
	assert.Nil(t, resp.Groups[2].Tasks[0].DueLabel)

	assert.Equal(t, view.Summary{Pending: 2, InProgress: 1, Completed: 1, Total: 4}, resp.Summary)

	rec = env.do(http.MethodGet, "/api/tasks/summary", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":{"pending":2,"in_progress":1,"completed":1,"total":4}}`, rec.Body.String())
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>tasks</html>"), 0o644))
	env := newTestEnv(t, dir)

	rec := env.do(http.MethodGet, "/dashboard", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tasks")

	rec = env.do(http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"route not found"}`, rec.Body.String())
}

func TestAPIOnlyMode(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(http.MethodGet, "/dashboard", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
