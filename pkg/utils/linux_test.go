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
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecCommand_Success(t *testing.T) {
	output, err := ExecCommand(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(output) != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", output)
	}
}

func TestExecCommand_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	_, err := ExecCommand(ctx, "sleep", "1")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", ctx.Err())
	}
}

func TestExecCommand_CommandError(t *testing.T) {
	if _, err := ExecCommand(context.Background(), "false"); err == nil {
		t.Fatal("expected an error, got nil")
	}
}
