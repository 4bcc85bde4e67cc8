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
package utils

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func InitLogger(level logrus.Level, isJSON bool) {
	// set log level
	logrus.SetLevel(level)

	// set log output: stdout by default
	logrus.SetOutput(os.Stdout)

	// set formatter: support JSON format or custom text format
	if isJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			ForceColors:     true,
		})
	}
}

// EnableFileLogging mirrors log output into a rotating file under dir while
// keeping stdout, so launch records survive the job's output file cleanup.
func EnableFileLogging(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "dsrun.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, rotating))
	return nil
}
