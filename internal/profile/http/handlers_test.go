package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/portfolio-dev/portfolio/internal/api/http"
	"github.com/portfolio-dev/portfolio/internal/profile/repository"
	"github.com/portfolio-dev/portfolio/internal/profile/service"
	"github.com/portfolio-dev/portfolio/internal/storage/postgres"
)

type memStore struct{ keys []string }

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	m.keys = append(m.keys, key)
	return "https://files.example/" + key, nil
}

func (m *memStore) Delete(context.Context, string) error { return nil }

var cvCols = []string{"id", "file_name", "object_key", "cv_url", "is_active", "uploaded_at"}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	apihttp.RegisterValidators()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	db := sqlx.NewDb(raw, "sqlmock")

	store := &memStore{}
	svc := service.NewProfileService(
		repository.NewContactsRepository(db),
		repository.NewCVRepository(db),
		repository.NewMessageRepository(db),
		postgres.NewSettingsRepository(db),
		store,
		nil,
	)
	h := New(svc, nil)

	r := gin.New()
	h.RegisterAPI(r.Group("/api"))
	h.RegisterImages(r.Group("/images"))
	return r, mock, store
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUploadCV_RejectsText(t *testing.T) {
	r, _, store := setupRouter(t)

	body, ct := multipartBody(t, "cvFile", "notes.txt", []byte("just some text"))
	req := httptest.NewRequest(http.MethodPost, "/api/cv", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Please upload a PDF or DOCX file", out["error"])
	assert.Equal(t, "Invalid file type", out["title"])
	assert.Empty(t, store.keys)
}

func TestUploadCV_MissingFile(t *testing.T) {
	r, _, _ := setupRouter(t)

	body, ct := multipartBody(t, "other", "a.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/cv", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cvFile", decode(t, rec)["field"])
}

func TestUploadCV_StoresPDF(t *testing.T) {
	r, mock, store := setupRouter(t)

	mock.ExpectQuery(`INSERT INTO cv_files`).
		WillReturnRows(sqlmock.NewRows(cvCols).AddRow("cv-1", "resume.pdf", "cv/k", "https://files.example/cv/k", false, time.Now()))

	body, ct := multipartBody(t, "cvFile", "resume.pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/cv", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "cv-1", out["_id"])
	assert.Equal(t, false, out["isActive"])
	assert.NotContains(t, out, "objectKey")
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "cv/"))
}

func TestActivateCV(t *testing.T) {
	r, mock, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/cv/cv-1", strings.NewReader(`{"isActive":false}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE cv_files SET is_active = false`).WithArgs("cv-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE cv_files SET is_active = true`).WithArgs("cv-1").
		WillReturnRows(sqlmock.NewRows(cvCols).AddRow("cv-1", "a.pdf", "cv/a", "u", true, time.Now()))
	mock.ExpectCommit()

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/cv/cv-1", strings.NewReader(`{"isActive":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["isActive"])
}

func TestActiveCV_NotFound(t *testing.T) {
	r, mock, _ := setupRouter(t)
	mock.ExpectQuery(`WHERE is_active`).WillReturnRows(sqlmock.NewRows(cvCols))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cv/home", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ok"])
}

func TestCreateMessage_Validation(t *testing.T) {
	r, _, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages",
		strings.NewReader(`{"name":"Ada","email":"not-an-email","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decode(t, rec)["field"])
}

func TestUploadProfileImage(t *testing.T) {
	r, mock, store := setupRouter(t)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	mock.ExpectExec(`INSERT INTO dashboard_settings`).WillReturnResult(sqlmock.NewResult(0, 1))

	body, ct := multipartBody(t, "image", "me.png", png)
	req := httptest.NewRequest(http.MethodPost, "/images/profile", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, decode(t, rec)["imageURL"], "https://files.example/images/profile?v=")
	assert.Equal(t, []string{"images/profile"}, store.keys)
}

func TestUploadProjectImage_RejectsPDF(t *testing.T) {
	r, _, store := setupRouter(t)

	body, ct := multipartBody(t, "image", "doc.pdf", []byte("%PDF-1.4\n"))
	req := httptest.NewRequest(http.MethodPost, "/images/projects", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please upload an image file", decode(t, rec)["error"])
	assert.Empty(t, store.keys)
}

func TestUploadProfileImage_TooLarge(t *testing.T) {
	r, _, _ := setupRouter(t)

	big := make([]byte, 3<<20)
	body, ct := multipartBody(t, "image", "big.png", big)
	req := httptest.NewRequest(http.MethodPost, "/images/profile", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Maximum file size is 2MB", decode(t, rec)["error"])
}
