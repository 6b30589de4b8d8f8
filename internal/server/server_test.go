package server

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/flipbook/pkg/errors"
	"github.com/matzehuels/flipbook/pkg/jobs"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, nil, logger), nil, logger,
		WithDefaults(pipeline.Options{Width: 64, Height: 64, Filter: "nearest"}))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown()
	})
	return s, ts
}

func writeFrames(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		img := imaging.New(4, 4, color.NRGBA{uint8(10 * i), 0, 0, 255})
		if err := imaging.Save(img, filepath.Join(dir, fmt.Sprintf("%03d.png", i))); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestCreateJobSucceeds(t *testing.T) {
	s, ts := newTestServer(t)
	input := writeFrames(t, 12)
	output := filepath.Join(t.TempDir(), "atlas.png")

	req := fmt.Sprintf(`{"input":%q,"output":%q,"frames":12,"manifest":true}`, input, output)
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/jobs", req)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	queued := decode[jobs.Job](t, body)
	if queued.ID == "" || queued.Status != jobs.StatusQueued {
		t.Errorf("queued job = %+v", queued)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/jobs/"+queued.ID {
		t.Errorf("Location = %q", loc)
	}

	s.wg.Wait()

	resp, body = do(t, http.MethodGet, ts.URL+"/v1/jobs/"+queued.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	job := decode[jobs.Job](t, body)
	if job.Status != jobs.StatusSucceeded || job.Progress != 100 {
		t.Fatalf("job = %+v", job)
	}
	if job.Columns != 3 || job.Rows != 4 {
		t.Errorf("grid = %dx%d, want 3x4", job.Columns, job.Rows)
	}
	if job.Manifest == "" {
		t.Error("manifest path should be recorded")
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("atlas not written: %v", err)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/v1/jobs", "")
	list := decode[struct{ Jobs []jobs.Job }](t, body)
	if resp.StatusCode != http.StatusOK || len(list.Jobs) != 1 {
		t.Errorf("list = %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodDelete, ts.URL+"/v1/jobs/"+queued.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/jobs/"+queued.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d", resp.StatusCode)
	}
}

func TestCreateJobDecodeFailure(t *testing.T) {
	s, ts := newTestServer(t)
	input := writeFrames(t, 12)
	if err := os.WriteFile(filepath.Join(input, "007.png"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "atlas.png")

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/jobs",
		fmt.Sprintf(`{"input":%q,"output":%q,"frames":12,"workers":1}`, input, output))
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	id := decode[jobs.Job](t, body).ID
	s.wg.Wait()

	_, body = do(t, http.MethodGet, ts.URL+"/v1/jobs/"+id, "")
	job := decode[jobs.Job](t, body)
	if job.Status != jobs.StatusFailed || job.Error == nil {
		t.Fatalf("job = %+v", job)
	}
	if job.Error.Code != string(errors.ErrCodeDecodeFailure) {
		t.Errorf("code = %s", job.Error.Code)
	}
	if job.Error.Frame == nil || *job.Error.Frame != 7 {
		t.Errorf("frame = %v, want 7", job.Error.Frame)
	}
	if !strings.Contains(job.Error.Message, "007.png") {
		t.Errorf("message should name the frame file: %s", job.Error.Message)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("failed job should not write an atlas")
	}
}

func TestCreateJobRejected(t *testing.T) {
	_, ts := newTestServer(t)
	input := writeFrames(t, 1)
	out := filepath.Join(t.TempDir(), "atlas.png")

	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `{"input":`, errors.ErrCodeInvalidInput},
		{"unknown field", fmt.Sprintf(`{"input":%q,"output":%q,"colour":"red"}`, input, out), errors.ErrCodeInvalidInput},
		{"bad extension", fmt.Sprintf(`{"input":%q,"output":"atlas.gif"}`, input), errors.ErrCodeInvalidPath},
		{"bad filter", fmt.Sprintf(`{"input":%q,"output":%q,"filter":"sinc"}`, input, out), errors.ErrCodeInvalidFilter},
		{"zero frames", fmt.Sprintf(`{"input":%q,"output":%q,"frames":0}`, input, out), errors.ErrCodeInvalidFrameCount},
		{"missing input", fmt.Sprintf(`{"input":%q,"output":%q}`, filepath.Join(input, "nope"), out), errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/v1/jobs", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			e := decode[errorResponse](t, body)
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", e.Code, tt.code, e.Message)
			}
		})
	}
}

func TestGetUnknownJob(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/v1/jobs/does-not-exist", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if e := decode[errorResponse](t, body); e.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidFrameCount, http.StatusBadRequest},
		{errors.ErrCodeInvalidPath, http.StatusBadRequest},
		{errors.ErrCodeNoFramesFound, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeDecodeFailure, http.StatusUnprocessableEntity},
		{errors.ErrCodeEncodeFailure, http.StatusInternalServerError},
		{errors.ErrCodeLayoutInvariant, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if got := statusFor(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Errorf("statusFor(plain) = %d", got)
	}
}
