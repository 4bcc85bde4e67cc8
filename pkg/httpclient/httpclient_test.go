package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPostLaunchReport(t *testing.T) {
	var got LaunchReport
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	report := &LaunchReport{
		JobID:      "4242",
		Hostname:   "gpu01",
		NumNodes:   2,
		NumGPUs:    8,
		MasterAddr: "gpu01",
		MasterPort: 29500,
		ExitCode:   0,
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
	}
	require.NoError(t, PostLaunchReport(context.Background(), srv.URL, report))
	require.Equal(t, "4242", got.JobID)
	require.Equal(t, 8, got.NumGPUs)
}

func TestPostLaunchReportRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := PostLaunchReport(context.Background(), srv.URL, &LaunchReport{JobID: "1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "422")
}

func TestPostLaunchReportEmptyURL(t *testing.T) {
	require.Error(t, PostLaunchReport(context.Background(), "", &LaunchReport{}))
}

func TestHasReportURL(t *testing.T) {
	t.Setenv("DSRUN_REPORT_URL", "")
	require.False(t, HasReportURL())
	t.Setenv("DSRUN_REPORT_URL", "http://localhost:8000/api/v1/launches")
	require.True(t, HasReportURL())
}
