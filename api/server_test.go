package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Aidin1998/minitask/api"
	apperrors "github.com/Aidin1998/minitask/common/errors"
	"github.com/Aidin1998/minitask/internal/config"
	"github.com/Aidin1998/minitask/internal/tasks"
	"github.com/Aidin1998/minitask/pkg/models"
	"github.com/Aidin1998/minitask/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var serverConfig = config.ServerConfig{Host: "127.0.0.1", Port: 5000}

// helper to set up router
func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	srv := api.NewServer(logger, serverConfig, tasks.NewService(logger, db))
	return srv.Router()
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestServiceInfo(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	w := do(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	info := decode[models.ServiceInfo](t, w)
	assert.Equal(t, "Mini Task Manager API is running 🚀", info.Message)
	assert.Equal(t, []string{"/tasks"}, info.Endpoints)
}

func TestServiceInfoWithoutDatabase(t *testing.T) {
	router := setupRouter(t, testutil.ClosedDB(t))

	w := do(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/tasks")
}

func TestTaskLifecycle(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	w := do(router, http.MethodPost, "/tasks", `{"title":"buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Task](t, w)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "buy milk", created.Title)

	w = do(router, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"title":"buy milk"}]`, w.Body.String())

	w = do(router, http.MethodDelete, "/tasks/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task 1 deleted"}`, w.Body.String())

	w = do(router, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(router, http.MethodDelete, "/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task 1 not found"}`, w.Body.String())
}

func TestCreatedTasksAreListedWithUniqueIDs(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))
	titles := []string{"a", "b with spaces", "ünïcödé", strings.Repeat("x", 200)}

	seen := map[int64]string{}
	for _, title := range titles {
		body, _ := json.Marshal(models.CreateTaskRequest{Title: title})
		w := do(router, http.MethodPost, "/tasks", string(body))
		require.Equal(t, http.StatusCreated, w.Code)
		task := decode[models.Task](t, w)
		_, dup := seen[task.ID]
		assert.False(t, dup)
		seen[task.ID] = title
	}

	list := decode[[]models.Task](t, do(router, http.MethodGet, "/tasks", ""))
	require.Len(t, list, len(titles))
	for _, task := range list {
		assert.Equal(t, seen[task.ID], task.Title)
	}
}

func TestDeleteNonExistent(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	w := do(router, http.MethodDelete, "/tasks/999999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task 999999 not found", decode[apperrors.ErrorResponse](t, w).Error)
}

func TestDeleteInvalidID(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	for _, id := range []string{"abc", "0", "-4", "+1", "002", "1.5", "99999999999999999999"} {
		w := do(router, http.MethodDelete, "/tasks/"+id, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "invalid task id", decode[apperrors.ErrorResponse](t, w).Error)
	}
}

func TestCreateWithoutTitle(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	for _, body := range []string{`{}`, `{"title":null}`, `{"title":""}`, `{"title":"   "}`} {
		w := do(router, http.MethodPost, "/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "title is required", decode[apperrors.ErrorResponse](t, w).Error, body)
	}

	list := decode[[]models.Task](t, do(router, http.MethodGet, "/tasks", ""))
	assert.Empty(t, list)
}

func TestCreateMalformedBody(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	for _, body := range []string{`{"title":`, `{"title":5}`, `[1,2]`} {
		w := do(router, http.MethodPost, "/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "invalid JSON body", decode[apperrors.ErrorResponse](t, w).Error, body)
	}
}

func TestDatabaseFailureIsSanitized(t *testing.T) {
	router := setupRouter(t, testutil.ClosedDB(t))

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/tasks", ""},
		{http.MethodPost, "/tasks", `{"title":"x"}`},
		{http.MethodDelete, "/tasks/1", ""},
	} {
		w := do(router, tc.method, tc.path, tc.body)
		assert.GreaterOrEqual(t, w.Code, 500, tc.path)
		msg := decode[apperrors.ErrorResponse](t, w).Error
		assert.NotContains(t, msg, "sql:", tc.path)
	}
}

type unavailableTasks struct{}

var errDown = apperrors.Unavailable.Explain("database unreachable").Wrap(fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused"))

func (unavailableTasks) List(context.Context) ([]models.Task, error)          { return nil, errDown }
func (unavailableTasks) Create(context.Context, string) (*models.Task, error) { return nil, errDown }
func (unavailableTasks) Delete(context.Context, int64) error                  { return errDown }
func (unavailableTasks) Ping(context.Context) error                           { return errDown }

func TestUnavailableDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := api.NewServer(zap.NewNop(), serverConfig, unavailableTasks{}).Router()

	w := do(router, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"database unavailable"}`, w.Body.String())

	w = do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "down", decode[models.HealthStatus](t, w).Database)
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	w := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.HealthStatus{Status: "ok", Database: "up"}, decode[models.HealthStatus](t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))
	do(router, http.MethodGet, "/tasks", "")

	w := do(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "minitask_http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	w := do(router, http.MethodGet, "/", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	w := do(router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route not found", decode[apperrors.ErrorResponse](t, w).Error)

	w = do(router, http.MethodPut, "/tasks", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPanicRendersErrorBody(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestSwaggerDocument(t *testing.T) {
	router := setupRouter(t, testutil.NewTaskDB(t))

	w := do(router, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc), w.Body.String())
	assert.Equal(t, "Mini Task Manager API", doc.Info.Title)
	for _, path := range []string{"/", "/tasks", "/tasks/{id}", "/health", "/metrics"} {
		assert.Contains(t, doc.Paths, path)
	}
}
