package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/subject-catalog/internal/config"
	"github.com/stemsi/subject-catalog/internal/handler"
	"github.com/stemsi/subject-catalog/internal/middleware"
	"github.com/stemsi/subject-catalog/internal/model"
	"github.com/stemsi/subject-catalog/internal/repository"
	"github.com/stemsi/subject-catalog/internal/response"
	"github.com/stemsi/subject-catalog/internal/service"
)

const fixtureDoc = `{
  "subject": [
    {"id": 1, "name": "Lập trình ReactJS", "credit": 3, "category": "Chuyên ngành", "teacher": "Nguyễn Văn A"},
    {"id": 2, "name": "TypeScript", "credit": 2, "category": "Chuyên ngành", "teacher": "Trần Thị B"},
    {"id": 3, "name": "React Native", "credit": 3, "category": "Chuyên ngành", "teacher": "Lê Văn C"},
    {"id": 4, "name": "Cấu trúc dữ liệu", "credit": 4, "category": "Cơ sở", "teacher": "Phạm Văn D"}
  ]
}`

func newTestRouter(t *testing.T, limiter middleware.Limiter) *gin.Engine {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureDoc), 0644))

	log := zerolog.Nop()
	svc := service.NewSubjectService(repository.NewSubjectRepository(path, log), log)
	handlers := &Handlers{
		Subject: handler.NewSubjectHandler(svc),
		System:  handler.NewSystemHandler(path),
	}
	cfg := &config.Config{GinMode: gin.TestMode}
	return SetupRouter(handlers, limiter, cfg, log)
}

func do(r http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSubjects(t *testing.T, w *httptest.ResponseRecorder) []model.Subject {
	t.Helper()
	var out []model.Subject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func subjectIDs(subjects []model.Subject) []int {
	out := []int{}
	for _, s := range subjects {
		out = append(out, s.ID)
	}
	return out
}

func TestListSubjects(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name      string
		target    string
		wantIDs   []int
		wantTotal string
	}{
		{"defaults", "/api/subjects", []int{1, 2, 3, 4}, "4"},
		{"search", "/api/subjects?q=typescript", []int{2}, "1"},
		{"all teachers", "/api/subjects?teacher=T%E1%BA%A5t%20c%E1%BA%A3", []int{1, 2, 3, 4}, "4"},
		{"second page", "/api/subjects?limit=2&page=2", []int{3, 4}, "4"},
		{"teacher filter", "/api/subjects?teacher=L%C3%AA%20V%C4%83n%20C", []int{3}, "1"},
		{"non-numeric paging", "/api/subjects?page=abc&limit=xyz", []int{1, 2, 3, 4}, "4"},
		{"page past the end", "/api/subjects?page=9", []int{}, "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.target, "")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantTotal, w.Header().Get(response.HeaderTotalCount))
			assert.Equal(t, tt.wantIDs, subjectIDs(decodeSubjects(t, w)))
		})
	}
}

func TestListSubjects_ExposesTotalToBrowsers(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/subjects", "", "Origin", "http://localhost:5173")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), response.HeaderTotalCount)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestTeachers(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/teachers", "")
	require.Equal(t, http.StatusOK, w.Code)

	var teachers []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teachers))
	assert.Equal(t, []string{"Tất cả", "Nguyễn Văn A", "Trần Thị B", "Lê Văn C", "Phạm Văn D"}, teachers)
}

func TestGetSubject(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/subjects/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var s model.Subject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "TypeScript", s.Name)

	w = do(r, http.MethodGet, "/api/subjects/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Không tìm thấy")

	w = do(r, http.MethodGet, "/api/subjects/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrNotFound))
}

func TestCreateSubject(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/subjects",
		`{"name":" Giải tích ","credit":"3","category":"Đại cương","teacher":"Phạm Văn D"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s model.Subject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, model.Subject{ID: 5, Name: "Giải tích", Credit: 3, Category: model.CategoryGeneral, Teacher: "Phạm Văn D"}, s)

	w = do(r, http.MethodGet, "/api/subjects?limit=10", "")
	assert.Equal(t, "5", w.Header().Get(response.HeaderTotalCount))
}

func TestCreateSubject_ValidationFailure(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/subjects",
		`{"name":"ab","credit":3,"category":"Cơ sở","teacher":"Nguyễn Văn A"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.ErrValidation, body.Code)
	assert.Equal(t, []string{"name phải là chuỗi và > 3 ký tự"}, body.Errors)

	w = do(r, http.MethodGet, "/api/subjects", "")
	assert.Equal(t, "4", w.Header().Get(response.HeaderTotalCount))
}

func TestCreateSubject_EmptyBodyListsEveryRule(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/subjects", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Errors, 4)
}

func TestCreateSubject_MalformedBody(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/subjects", `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrInvalidPayload))
}

func TestUpdateSubject(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPut, "/api/subjects/3",
		`{"name":"React Native nâng cao","credit":4,"category":"Chuyên ngành","teacher":"Lê Văn C"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var s model.Subject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 3, s.ID)
	assert.Equal(t, float64(4), s.Credit)

	w = do(r, http.MethodPut, "/api/subjects/99",
		`{"name":"React Native nâng cao","credit":4,"category":"Chuyên ngành","teacher":"Lê Văn C"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/api/subjects/3", `{"name":"React","credit":0,"category":"x","teacher":"Lê Văn C"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"credit phải là số > 0", "category không hợp lệ"}, body.Errors)
}

func TestDeleteSubject(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodDelete, "/api/subjects/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodDelete, "/api/subjects/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/subjects/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/subjects", "")
	assert.Equal(t, "3", w.Header().Get(response.HeaderTotalCount))
}

func TestWriteRateLimit(t *testing.T) {
	r := newTestRouter(t, middleware.NewMemoryLimiter(1, time.Hour))

	w := do(r, http.MethodDelete, "/api/subjects/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/api/subjects/2", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Reads are never limited.
	w = do(r, http.MethodGet, "/api/subjects", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndRequestID(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/health", "", response.HeaderRequestID, "abc-123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(response.HeaderRequestID))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = do(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(response.HeaderRequestID))
}
