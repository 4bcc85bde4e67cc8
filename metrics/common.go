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
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// GaugeVecMetricExporter registers gauges lazily and stamps every sample with
// the node label, so multi-node scrapes stay distinguishable.
type GaugeVecMetricExporter struct {
	prefix     string
	labelKeys  []string
	MetricsMap map[string]*prometheus.GaugeVec
	lock       sync.Mutex
	nodeName   string
}

func NewGaugeVecMetricExporter(prefix string, labelKeys []string) *GaugeVecMetricExporter {
	if labelKeys == nil {
		labelKeys = []string{}
	}
	labelKeys = append(labelKeys, "node")
	nodeName, err := os.Hostname()
	if err != nil {
		nodeName = "unknown"
	}
	return &GaugeVecMetricExporter{
		prefix:     prefix,
		labelKeys:  labelKeys,
		nodeName:   nodeName,
		MetricsMap: make(map[string]*prometheus.GaugeVec),
	}
}

// SetMetric sets a metric value for a metric name with a list of label values.
func (e *GaugeVecMetricExporter) SetMetric(name string, labelVals []string, value float64) {
	e.lock.Lock()
	defer e.lock.Unlock()
	labelVals = append(labelVals, e.nodeName)
	fullName := sanitizeMetricName(e.prefix + "_" + name)
	gaugeVec, exists := e.MetricsMap[fullName]
	if !exists {
		gaugeVec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: fullName,
		}, e.labelKeys)
		prometheus.MustRegister(gaugeVec)
		e.MetricsMap[fullName] = gaugeVec
	}
	gaugeVec.WithLabelValues(labelVals...).Set(value)
}

// sanitizeMetricName replaces characters Prometheus rejects in metric names.
func sanitizeMetricName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, "+", "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "[", "_")
	name = strings.ReplaceAll(name, "]", "")
	return name
}
