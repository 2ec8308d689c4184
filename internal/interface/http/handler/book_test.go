package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type bookBody struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type listBody struct {
	Items []bookBody `json:"items"`
	Total int        `json:"total"`
}

// setupRouter 内存存储 + 完整中间件链
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return setupRouterWithLogger(t, zap.NewNop())
}

func setupRouterWithLogger(t *testing.T, log *zap.Logger) *gin.Engine {
	t.Helper()

	catalog := book.NewCatalog(memory.NewBookStore())
	publisher := messaging.NewNopPublisher()

	h := handler.NewBookHandler(
		appbook.NewListBooksUseCase(catalog),
		appbook.NewGetBookUseCase(catalog),
		appbook.NewCreateBookUseCase(catalog, publisher, log),
		appbook.NewReplaceBookUseCase(catalog, publisher, log),
		appbook.NewPatchBookUseCase(catalog, publisher, log),
		appbook.NewDeleteBookUseCase(catalog, publisher, log),
	)

	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	return router.NewRouter(cfg, log, h)
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func seed(t *testing.T, r http.Handler) []bookBody {
	t.Helper()

	bodies := []string{
		`{"title":"Clean Code","author":"Robert C. Martin"}`,
		`{"title":"Deep Work","author":"Cal Newport"}`,
		`{"title":"Atomic Habits","author":"James Clear"}`,
	}
	books := make([]bookBody, 0, len(bodies))
	for _, body := range bodies {
		w, env := do(t, r, http.MethodPost, "/books", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var b bookBody
		require.NoError(t, json.Unmarshal(env.Data, &b))
		books = append(books, b)
	}
	return books
}

func TestPing(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestCreateBook(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/books", `{"title":"Dune","author":"Frank Herbert"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", env.Message)

	var created bookBody
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Dune", created.Title)

	// 大小写不同也算重复
	w, env = do(t, r, http.MethodPost, "/books", `{"title":"DUNE","author":"Someone"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeTitleDuplicate, env.Code)

	for _, body := range []string{
		`{"title":"","author":"x"}`,
		`{"author":"x"}`,
		`{"title":"x"}`,
		`not json`,
	} {
		w, _ := do(t, r, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestListBooks(t *testing.T) {
	r := setupRouter(t)
	seed(t, r)

	w, env := do(t, r, http.MethodGet, "/books?limit=1&skip=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page listBody
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Deep Work", page.Items[0].Title)

	_, env = do(t, r, http.MethodGet, "/books?author=martin", "")
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Clean Code", page.Items[0].Title)

	// 越界返回空数组
	w, _ = do(t, r, http.MethodGet, "/books?skip=100", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	for _, query := range []string{"limit=0", "limit=51", "skip=-1", "limit=abc"} {
		w, _ := do(t, r, http.MethodGet, "/books?"+query, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestGetBook(t *testing.T) {
	r := setupRouter(t)
	books := seed(t, r)

	w, env := do(t, r, http.MethodGet, "/books/"+itoa(books[0].ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got bookBody
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, books[0], got)

	w, env = do(t, r, http.MethodGet, "/books/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeBookNotFound, env.Code)

	w, _ = do(t, r, http.MethodGet, "/books/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceBook(t *testing.T) {
	r := setupRouter(t)
	books := seed(t, r)
	path := "/books/" + itoa(books[0].ID)

	// 改成自己的书名(大小写不同)是允许的
	w, env := do(t, r, http.MethodPut, path, `{"title":"clean code","author":"Uncle Bob"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got bookBody
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "clean code", got.Title)
	assert.Equal(t, "Uncle Bob", got.Author)

	w, _ = do(t, r, http.MethodPut, path, `{"title":"Deep Work","author":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPut, path, `{"title":"only title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 未知ID:请求体合法或非法都返回404
	w, _ = do(t, r, http.MethodPut, "/books/999", `{"title":"x","author":"y"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodPut, "/books/999", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodPut, "/books/999", `not json`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchBook(t *testing.T) {
	r := setupRouter(t)
	books := seed(t, r)
	path := "/books/" + itoa(books[1].ID)

	w, env := do(t, r, http.MethodPatch, path, `{"title":"Deep Work 2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got bookBody
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Deep Work 2", got.Title)
	assert.Equal(t, "Cal Newport", got.Author)

	w, env = do(t, r, http.MethodPatch, path, `{"author":"C. Newport"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Deep Work 2", got.Title)
	assert.Equal(t, "C. Newport", got.Author)

	// 空对象不做修改
	w, env = do(t, r, http.MethodPatch, path, `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, bookBody{ID: books[1].ID, Title: "Deep Work 2", Author: "C. Newport"}, got)

	// 显式null、空字符串、书名冲突
	for _, body := range []string{`{"title":null}`, `{"author":""}`, `{"title":"ATOMIC HABITS"}`, `{"title":5}`} {
		w, _ := do(t, r, http.MethodPatch, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w, _ = do(t, r, http.MethodPatch, "/books/999", `{"title":null}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodPatch, "/books/999", `{"title":"fine"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBook(t *testing.T) {
	r := setupRouter(t)
	books := seed(t, r)
	path := "/books/" + itoa(books[2].ID)

	w, _ := do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 新建的图书拿到新ID
	w, env := do(t, r, http.MethodPost, "/books", `{"title":"Atomic Habits","author":"James Clear"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created bookBody
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Greater(t, created.ID, books[2].ID)
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouter(t)
	do(t, r, http.MethodGet, "/books", "")

	w, _ := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), "book_operations_total")
}

func TestPanicIsLoggedAs500(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := setupRouterWithLogger(t, zap.New(core))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w, _ := do(t, r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[0].ContextMap()["status"])
	assert.Equal(t, "/boom", entries[0].ContextMap()["path"])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
