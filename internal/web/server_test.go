package web

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimircode/mimircode/internal/config"
	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/pkg/types"
)

type stubClient struct{}

func (stubClient) Complete(_ context.Context, _ llm.Request) types.Result {
	return types.Result{Kind: types.ResultOK, Text: "generated text"}
}
func (stubClient) Endpoint() string { return "http://stub:11434/api/generate" }
func (stubClient) Model() string    { return "stub" }
func (stubClient) Close() error     { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.TempDir = t.TempDir()
	srv, err := NewServer(cfg, stubClient{}, nil)
	require.NoError(t, err)
	return srv
}

func sourceArchive(t *testing.T, files map[string]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return &buf
}

func uploadRequest(t *testing.T, url, task string, archive *bytes.Buffer) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("task", task))
	fw, err := mw.CreateFormFile("archive", "source.zip")
	require.NoError(t, err)
	_, err = io.Copy(fw, archive)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func waitForJob(t *testing.T, ts *httptest.Server, id string) Job {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/api/v1/jobs/" + id)
		require.NoError(t, err)
		var job Job
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
		_ = resp.Body.Close()
		if job.State == JobDone || job.State == JobFailed {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return Job{}
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJobLifecycle(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	src := sourceArchive(t, map[string]string{
		"app.py":      "print('hi')\n",
		"lib/util.py": "pass\n",
	})
	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/v1/jobs", "documentation", src))
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var created Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	_ = resp.Body.Close()
	require.NotEmpty(t, created.ID)
	assert.Equal(t, types.TaskDocumentation, created.Task)

	job := waitForJob(t, ts, created.ID)
	require.Equal(t, JobDone, job.State)
	require.NotNil(t, job.Stats)
	assert.Equal(t, 2, job.Stats.FilesProcessed)

	// Download the generated archive and check its content listing.
	resp, err = http.Get(fmt.Sprintf("%s/api/v1/jobs/%s/download", ts.URL, created.ID))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["TABLE_OF_CONTENTS.md"])
	assert.True(t, names["app_doc.md"])
	assert.True(t, names["lib/util_doc.md"])
}

func TestCreateJobRejectsUnknownTask(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	src := sourceArchive(t, map[string]string{"a.py": "pass\n"})
	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/v1/jobs", "no-such-task", src))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateJobRejectsBadArchive(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	bad := bytes.NewBufferString("this is not a zip")
	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/v1/jobs", "documentation", bad))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadBeforeDone(t *testing.T) {
	srv := newTestServer(t)
	job := srv.jobs.create(types.TaskDocumentation, "", "src", "out")

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/jobs/%s/download", ts.URL, job.ID))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateReturnsDetachedSnapshot(t *testing.T) {
	m := newJobManager()
	job := m.create(types.TaskDocumentation, "jobdir", "src", "out")

	m.setRunning(job.ID)

	// The snapshot handed to the creator is unaffected by later updates.
	assert.Equal(t, JobPending, job.State)
	live, ok := m.get(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobRunning, live.State)
}

func TestDeleteJobRemovesWorkingDirectory(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	src := sourceArchive(t, map[string]string{"app.py": "print('hi')\n"})
	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/v1/jobs", "documentation", src))
	require.NoError(t, err)
	var created Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	_ = resp.Body.Close()

	job := waitForJob(t, ts, created.ID)
	require.Equal(t, JobDone, job.State)

	// The upload and extracted source are gone once the run ends; only
	// the output directory remains until the job is deleted.
	entries, err := os.ReadDir(srv.cfg.TempDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	jobDir := filepath.Join(srv.cfg.TempDir, entries[0].Name())
	inner, err := os.ReadDir(jobDir)
	require.NoError(t, err)
	require.Len(t, inner, 1)
	assert.Equal(t, "output", inner[0].Name())

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/jobs/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = os.Stat(jobDir)
	assert.True(t, os.IsNotExist(err), "job directory must be removed")

	resp, err = http.Get(ts.URL + "/api/v1/jobs/" + created.ID)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteActiveJobConflict(t *testing.T) {
	srv := newTestServer(t)
	job := srv.jobs.create(types.TaskDocumentation, "", "src", "out")

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/jobs/"+job.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetJobNotFound(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/jobs/missing")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
