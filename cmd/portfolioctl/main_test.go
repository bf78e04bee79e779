package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method, path string
	body         map[string]any
}

func fakeServer(t *testing.T) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[
				{"_id":"s1","category":"Backend","skills":["Go"],"icon":"server","sorting":1},
				{"_id":"s2","category":"Frontend","skills":["CSS"],"icon":"palette","sorting":2}]`)
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"_id":"s3"}`)
		default:
			_, _ = io.WriteString(w, `{"_id":"x"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	srv, _ := fakeServer(t)

	out, _, err := execute(t, "list", "skills", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "SORTING")
	assert.Contains(t, out, "Backend")
	assert.Contains(t, out, "Frontend")
}

func TestFilter(t *testing.T) {
	srv, _ := fakeServer(t)

	out, _, err := execute(t, "filter", "skills", "Frontend", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Frontend")
	assert.NotContains(t, out, "Backend")
}

func TestAdd_NumbersFromCacheSize(t *testing.T) {
	srv, calls := fakeServer(t)

	_, stderr, err := execute(t, "add", "skills", "category=Data", "skills=SQL, Redis", "icon=database", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Skill added successfully.")

	var post *recorded
	for _, c := range calls() {
		if c.method == http.MethodPost {
			c := c
			post = &c
		}
	}
	require.NotNil(t, post)
	assert.Equal(t, "Data", post.body["category"])
	assert.Equal(t, []any{"SQL", "Redis"}, post.body["skills"])
	assert.Equal(t, 3.0, post.body["sorting"])
}

func TestMove_Up(t *testing.T) {
	srv, calls := fakeServer(t)

	_, _, err := execute(t, "move", "skills", "s2", "up", "--server", srv.URL)
	require.NoError(t, err)

	var puts []recorded
	for _, c := range calls() {
		if c.method == http.MethodPut {
			puts = append(puts, c)
		}
	}
	require.Len(t, puts, 2)
	assert.Equal(t, "/api/skills/s2", puts[0].path)
	assert.Equal(t, map[string]any{"sorting": 1.0}, puts[0].body)
	assert.Equal(t, "/api/skills/s1", puts[1].path)
}

func TestMove_BadDirection(t *testing.T) {
	_, _, err := execute(t, "move", "skills", "s2", "sideways")
	assert.Error(t, err)
}

func TestEdit_SendsOnlyGivenFields(t *testing.T) {
	srv, calls := fakeServer(t)

	_, _, err := execute(t, "edit", "skills", "s1", "icon=code", "--server", srv.URL)
	require.NoError(t, err)

	got := calls()
	require.NotEmpty(t, got)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, map[string]any{"icon": "code"}, got[0].body)
}

func TestUnknownResource(t *testing.T) {
	_, _, err := execute(t, "list", "widgets")
	assert.ErrorContains(t, err, "unknown resource")
}

func TestUploadCV_RejectsTextFile(t *testing.T) {
	srv, calls := fakeServer(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, _, err := execute(t, "upload-cv", path, "--server", srv.URL)
	assert.ErrorContains(t, err, "Invalid file type")
	assert.Empty(t, calls())
}

func TestParseSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories: [Web, CLI]
skills:
  - category: Backend
    skills: [Go, PostgreSQL]
    icon: server
projects:
  - title: Portfolio
    description: This site
    category: Web
    skills: [Go]
`), 0o600))

	seed, err := parseSeed(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Web", "CLI"}, seed.Categories)
	require.Len(t, seed.Skills, 1)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, seed.Skills[0].Skills)
	require.Len(t, seed.Projects, 1)
	assert.Equal(t, "Web", seed.Projects[0].Category)
}

func TestImport_AppendsInFileOrder(t *testing.T) {
	srv, calls := fakeServer(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills:\n  - category: Data\n    skills: [SQL]\n"), 0o600))

	out, _, err := execute(t, "import", path, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "1 skill groups")

	var posts []recorded
	for _, c := range calls() {
		if c.method == http.MethodPost {
			posts = append(posts, c)
		}
	}
	require.Len(t, posts, 1)
	assert.Equal(t, "/api/skills", posts[0].path)
	assert.Equal(t, 3.0, posts[0].body["sorting"])
}
