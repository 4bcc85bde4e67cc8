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
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const MetricPrefix = "dsrun"

// LaunchMetrics exposes the state of the launch this process supervises.
type LaunchMetrics struct {
	LaunchGauge *GaugeVecMetricExporter
}

func newLaunchMetrics() *LaunchMetrics {
	return &LaunchMetrics{
		LaunchGauge: NewGaugeVecMetricExporter(MetricPrefix, []string{"job_id"}),
	}
}

var launchMetrics *LaunchMetrics
var once sync.Once

func GetLaunchMetrics() *LaunchMetrics {
	once.Do(func() {
		launchMetrics = newLaunchMetrics()
	})
	return launchMetrics
}

// SetRunning flips the running gauge for a job (1 while the launcher lives).
func (m *LaunchMetrics) SetRunning(jobID string, running bool) {
	val := 0.0
	if running {
		val = 1.0
	}
	m.LaunchGauge.SetMetric("launch_running", []string{jobID}, val)
}

func (m *LaunchMetrics) SetExitCode(jobID string, code int) {
	m.LaunchGauge.SetMetric("launch_exit_code", []string{jobID}, float64(code))
}

func (m *LaunchMetrics) SetWorldSize(jobID string, numNodes, numGPUs int) {
	m.LaunchGauge.SetMetric("launch_num_nodes", []string{jobID}, float64(numNodes))
	m.LaunchGauge.SetMetric("launch_gpus_per_node", []string{jobID}, float64(numGPUs))
}

// InitPrometheus starts the /metrics listener. It blocks, so callers run it
// in a goroutine next to the launch.
func InitPrometheus(port int) {
	http.Handle("/metrics", promhttp.Handler())
	logrus.WithField("component", "metrics").Infof("Prometheus metrics server starting on port %d", port)
	if err := http.ListenAndServe(":"+strconv.Itoa(port), nil); err != nil {
		logrus.WithField("component", "metrics").Errorf("failed to start Prometheus metrics server: %v", err)
	}
}
