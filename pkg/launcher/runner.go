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
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

var forwardedSignals = []os.Signal{
	unix.SIGINT,
	unix.SIGTERM,
	unix.SIGHUP,
	unix.SIGUSR1,
	unix.SIGUSR2,
}

// Run starts the launcher argv with extraEnv appended to the inherited
// environment and waits for it. Stdio is passed through untouched so training
// output lands in the job's SLURM output file. SIGINT/SIGTERM and the USR
// signals SLURM uses for preemption warnings are forwarded to the child.
// The child's exit code is returned; error is reserved for failures to start
// or supervise it.
func Run(ctx context.Context, argv []string, extraEnv []string) (int, error) {
	if len(argv) == 0 {
		return -1, fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	logrus.WithField("component", "launcher").Infof("started %s (pid %d)", argv[0], cmd.Process.Pid)

	signals := make(chan os.Signal, 8)
	signal.Notify(signals, forwardedSignals...)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case s := <-signals:
				logrus.WithField("component", "launcher").Infof("forwarding signal %v", s)
				if err := cmd.Process.Signal(s); err != nil {
					logrus.WithField("component", "launcher").Warnf("failed to forward %v: %v", s, err)
				}
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)
	signal.Stop(signals)

	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() == context.DeadlineExceeded {
			return exitErr.ExitCode(), fmt.Errorf("%s timed out", argv[0])
		}
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run %s: %w", argv[0], err)
}
