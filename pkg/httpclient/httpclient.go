/*
Copyright 2025 The YisCore Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package httpclient posts launch records to the companion platform API so
// the training dashboard can show who launched what, where, and how it ended.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yiscore/dsrun/consts"
)

// LaunchReport is the record sent after the launcher exits.
type LaunchReport struct {
	JobID          string    `json:"job_id"`
	Hostname       string    `json:"hostname"`
	NumNodes       int       `json:"num_nodes"`
	NumGPUs        int       `json:"num_gpus"`
	MasterAddr     string    `json:"master_addr"`
	MasterPort     int       `json:"master_port"`
	Hostfile       string    `json:"hostfile"`
	TrainingScript string    `json:"training_script"`
	ExitCode       int       `json:"exit_code"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

func GetReportURL() string {
	return os.Getenv(consts.ReportURLEnv)
}

func HasReportURL() bool {
	return GetReportURL() != ""
}

// getDefaultClient returns a default HTTP client
func getDefaultClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// CheckConnectivity checks if the report endpoint is reachable
func CheckConnectivity(url string) error {
	if url == "" {
		url = GetReportURL()
		if url == "" {
			return fmt.Errorf("%s environment variable is not set", consts.ReportURLEnv)
		}
	}
	resp, err := getDefaultClient().Get(url)
	if err != nil {
		return fmt.Errorf("HTTP endpoint %s is not reachable: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 500 {
		return nil
	}
	return fmt.Errorf("HTTP endpoint %s returned status %d", url, resp.StatusCode)
}

// PostLaunchReport sends the report as JSON. Delivery is best effort; callers
// log the error and keep the launcher's exit code.
func PostLaunchReport(ctx context.Context, url string, report *LaunchReport) error {
	if url == "" {
		return fmt.Errorf("report URL is empty")
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal launch report: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build report request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := getDefaultClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to post launch report to %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("launch report rejected by %s (status: %d): %s", url, resp.StatusCode, string(body))
	}
	logrus.WithField("component", "httpclient").Infof("posted launch report for job %s to %s", report.JobID, url)
	return nil
}
