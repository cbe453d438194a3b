package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/mimircode/mimircode/internal/archive"
	"github.com/mimircode/mimircode/internal/config"
	"github.com/mimircode/mimircode/internal/docgen"
	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/internal/store"
	"github.com/mimircode/mimircode/pkg/types"
)

// maxUploadBytes caps the size of an uploaded source archive.
const maxUploadBytes = 256 << 20

// Server exposes the generation pipeline over HTTP: upload an archive,
// poll the job, download the result. Jobs run in the background; the
// pipeline inside each job stays sequential.
type Server struct {
	cfg   *config.Config
	gen   *docgen.Generator
	db    store.Store
	jobs  *jobManager
	close func()
}

// NewServer wires a Server. The store may be nil, which disables the run
// history endpoints' content but not the server.
func NewServer(cfg *config.Config, client llm.Client, db store.Store) (*Server, error) {
	var recorder docgen.RunRecorder
	if db != nil {
		recorder = db
	}
	gen, err := docgen.New(cfg, client, recorder)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:   cfg,
		gen:   gen,
		db:    db,
		jobs:  newJobManager(),
		close: func() { _ = client.Close() },
	}, nil
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Delete("/jobs/{id}", s.handleDeleteJob)
		r.Get("/jobs/{id}/download", s.handleDownload)
		r.Get("/runs", s.handleListRuns)
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", s.cfg.ListenAddr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.close()
		return err
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateJob accepts a multipart upload with an "archive" zip and a
// "task" field, extracts the archive and starts generation in the
// background.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	task, err := types.ParseTask(r.FormValue("task"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upload, _, err := r.FormFile("archive")
	if err != nil {
		writeError(w, http.StatusBadRequest, "archive file is required")
		return
	}
	defer func() { _ = upload.Close() }()

	jobDir, err := os.MkdirTemp(s.tempRoot(), "job-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create working directory")
		return
	}

	zipPath := filepath.Join(jobDir, "source.zip")
	if err := saveUpload(upload, zipPath); err != nil {
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	sourceDir := filepath.Join(jobDir, "source")
	if _, err := archive.Extract(zipPath, sourceDir); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not extract archive: %v", err))
		return
	}

	// create returns a snapshot, so serializing it cannot race with the
	// background goroutine's state updates.
	job := s.jobs.create(task, jobDir, sourceDir, filepath.Join(jobDir, "output"))
	go s.runJob(job.ID, task, jobDir, sourceDir, job.outputDir)

	writeJSON(w, http.StatusAccepted, job)
}

// runJob executes one generation run in the background. The request
// context is gone by now, so the job runs under its own context.
func (s *Server) runJob(jobID string, task types.Task, jobDir, sourceDir, outputDir string) {
	s.jobs.setRunning(jobID)
	log.Info().Str("job", jobID).Str("task", task.String()).Msg("job started")

	stats, err := s.gen.Run(context.Background(), task, sourceDir, outputDir)

	// The upload and extracted tree are no longer needed once the run
	// ends; only the output stays for download.
	_ = os.Remove(filepath.Join(jobDir, "source.zip"))
	_ = os.RemoveAll(sourceDir)

	if err != nil {
		log.Error().Str("job", jobID).Err(err).Msg("job failed")
		s.jobs.setFailed(jobID, err.Error())
		return
	}

	s.jobs.setDone(jobID, stats)
	log.Info().Str("job", jobID).Int("processed", stats.FilesProcessed).Msg("job complete")
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleDeleteJob removes a finished job and its working directory.
// Active jobs must finish first.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if job.State == JobPending || job.State == JobRunning {
		writeError(w, http.StatusConflict, fmt.Sprintf("job is %s", job.State))
		return
	}

	job, _ = s.jobs.remove(job.ID)
	if job.jobDir != "" {
		if err := os.RemoveAll(job.jobDir); err != nil {
			log.Warn().Str("job", job.ID).Err(err).Msg("could not remove job directory")
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.jobs.list())
}

// handleDownload streams the job's output directory as a zip archive.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if job.State != JobDone {
		writeError(w, http.StatusConflict, fmt.Sprintf("job is %s", job.State))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.zip"`, job.Task, job.ID))
	if err := archive.Pack(job.outputDir, w); err != nil {
		log.Error().Str("job", job.ID).Err(err).Msg("failed to stream output archive")
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, []*store.Run{})
		return
	}
	runs, err := s.db.ListRuns(r.Context(), 50)
	if err != nil {
		log.Error().Err(err).Msg("failed to list runs")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) tempRoot() string {
	if s.cfg.TempDir != "" {
		if err := os.MkdirAll(s.cfg.TempDir, 0755); err == nil {
			return s.cfg.TempDir
		}
	}
	return os.TempDir()
}

func saveUpload(src io.Reader, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
