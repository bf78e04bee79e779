package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/ordering"
	"github.com/portfolio-dev/portfolio/internal/upload"
)

func TestRESTResource_CRUD(t *testing.T) {
	var gotPatch map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/skills":
			_, _ = io.WriteString(w, `[{"_id":"s1","category":"Backend","skills":["Go"],"icon":"server","sorting":"2"}]`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/skills/s1":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPatch))
			_, _ = io.WriteString(w, `{"_id":"s1","sorting":1}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/skills/s1":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"ok":false,"error":"resource not found"}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	res := New(srv.URL).Skills()
	ctx := context.Background()

	list, err := res.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.Sorting(2), list[0].Sorting)

	out, err := res.Update(ctx, "s1", ordering.Patch{"sorting": 1})
	require.NoError(t, err)
	assert.Equal(t, domain.Sorting(1), out.Sorting)
	assert.Equal(t, map[string]any{"sorting": 1.0}, gotPatch)

	err = res.Delete(ctx, "s1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_PropagatesRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(requestIDHeader)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	ctx := logging.WithRequestID(context.Background(), "rid-7")
	_, err := New(srv.URL).Projects().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rid-7", seen)
}

func TestClient_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	m := NewMetrics(prometheus.NewRegistry())
	c := New(srv.URL, WithMetrics(m))
	_, err := c.Categories().List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/categs", "200")))
}

func TestUploadCV_RejectedBeforeRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.UploadCV(context.Background(), File{Name: "notes.txt", ContentType: "text/plain", Size: 10, Body: strings.NewReader("x")})
	var uerr *upload.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Invalid file type", uerr.Title)

	_, err = c.UploadCV(context.Background(), File{Name: "cv.pdf", Size: upload.MaxCVBytes + 1, Body: strings.NewReader("%PDF")})
	assert.ErrorIs(t, err, upload.ErrCVSize)

	assert.Equal(t, int32(0), calls.Load())
}

func TestUploadCV_SingleMultipartRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/cv", r.URL.Path)
		fh, hdr, err := r.FormFile("cvFile")
		require.NoError(t, err)
		defer fh.Close()
		data, _ := io.ReadAll(fh)
		assert.Equal(t, "%PDF-1.4 body", string(data))
		assert.Equal(t, "resume.pdf", hdr.Filename)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"cv1","fileName":"resume.pdf","cvURL":"https://f/cv1","isActive":false}`)
	}))
	defer srv.Close()

	cv, err := New(srv.URL).UploadCV(context.Background(), File{
		Name: "resume.pdf", ContentType: "application/pdf", Size: 13, Body: strings.NewReader("%PDF-1.4 body"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cv1", cv.ID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLogin(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"success":`+map[bool]string{true: "true", false: "false"}[status == http.StatusOK]+`}`)
	}))
	defer srv.Close()
	c := New(srv.URL)

	ok, err := c.Login(context.Background(), "pw")
	require.NoError(t, err)
	assert.True(t, ok)

	status = http.StatusUnauthorized
	ok, err = c.Login(context.Background(), "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	status = http.StatusTooManyRequests
	_, err = c.Login(context.Background(), "bad")
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestActiveCV_NoneIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"ok":false,"error":"resource not found"}`)
	}))
	defer srv.Close()

	cv, err := New(srv.URL).ActiveCV(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cv)
}

func TestAPIError_CarriesUploadMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error":"Please upload an image file","title":"Invalid file type"}`)
	}))
	defer srv.Close()

	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"
	_, err := New(srv.URL).UploadProfileImage(context.Background(), File{Name: "me.png", Size: int64(len(png)), Body: strings.NewReader(png)})
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid file type", ae.Title)
}
