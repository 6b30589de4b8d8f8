package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flipbook/pkg/buildinfo"
	"github.com/matzehuels/flipbook/pkg/errors"
	"github.com/matzehuels/flipbook/pkg/jobs"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

// maxRequestBytes bounds job request bodies.
const maxRequestBytes = 1 << 20

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		writeError(w, http.StatusServiceUnavailable, errors.New(errors.ErrCodeCanceled, "server is shutting down"))
		return
	}

	opts := s.defaults
	opts.Logger, opts.Progress = nil, nil
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode job request"))
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := errors.ValidateInputDir(opts.Input); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	task := s.runner.Start(s.ctx, opts)
	now := s.now()
	job := jobs.New(task.ID, opts.Input, opts.Output, opts.Frames, now)
	job.Touch(now, s.ttl)
	if err := s.store.Set(r.Context(), job); err != nil {
		task.Cancel()
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "store job"))
		return
	}
	resp := *job

	s.mu.Lock()
	s.tasks[job.ID] = task
	s.mu.Unlock()
	s.wg.Add(1)
	go s.track(job, task)

	s.logger.Info("job queued", "id", job.ID, "input", opts.Input, "frames", opts.Frames)
	w.Header().Set("Location", "/v1/jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "list jobs"))
		return
	}
	if list == nil {
		list = []*jobs.Job{}
	}
	writeJSON(w, http.StatusOK, struct {
		Jobs []*jobs.Job `json:"jobs"`
	}{list})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	task, running := s.tasks[job.ID]
	s.mu.Unlock()
	if running {
		task.Cancel()
		writeJSON(w, http.StatusAccepted, job)
		return
	}

	if err := s.store.Delete(r.Context(), job.ID); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "delete job"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "load job"))
		return nil, false
	}
	if job == nil {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "job %s not found", id))
		return nil, false
	}
	return job, true
}

// track records a task's progress and outcome on its job. It is the only
// writer of the job after creation.
func (s *Server) track(job *jobs.Job, task *pipeline.Task) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.tasks, job.ID)
		s.mu.Unlock()
	}()

	ctx := context.Background()
	for pct := range task.Progress() {
		job.MarkRunning(pct)
		s.save(ctx, job)
	}

	result, err := task.Wait()
	if err != nil {
		job.MarkFailed(jobError(err))
		s.logger.Warn("job failed", "id", job.ID, "code", job.Error.Code, "error", err)
	} else {
		job.MarkSucceeded(result.Plan.Columns, result.Plan.Rows, result.ManifestPath, result.CacheHit)
		s.logger.Info("job finished",
			"id", job.ID,
			"columns", result.Plan.Columns,
			"rows", result.Plan.Rows,
			"output", result.Output)
	}
	s.save(ctx, job)
}

func (s *Server) save(ctx context.Context, job *jobs.Job) {
	job.Touch(s.now(), s.ttl)
	if err := s.store.Set(ctx, job); err != nil {
		s.logger.Warn("store job", "id", job.ID, "error", err)
	}
}

func jobError(err error) *jobs.Error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	e := &jobs.Error{Code: string(code), Message: strings.TrimPrefix(err.Error(), string(code)+": ")}
	if idx, ok := errors.FrameIndex(err); ok {
		e.Frame = &idx
	}
	return e
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case strings.HasPrefix(string(code), "INVALID_"),
		code == errors.ErrCodeFileNotFound,
		code == errors.ErrCodeNoFramesFound:
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeDecodeFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
