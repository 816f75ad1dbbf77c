// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package localexec implements local command execution.
package localexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/makegen/execute"
	"go.chromium.org/infra/build/makegen/o11y/clog"
	"go.chromium.org/infra/build/makegen/sync/semaphore"
)

// LocalExec implements execute.Executor interface that runs commands locally.
type LocalExec struct{}

var _ execute.Executor = LocalExec{}

// Run runs cmd with DefaultExec.
func Run(ctx context.Context, cmd *execute.Cmd) error {
	return LocalExec{}.Run(ctx, cmd)
}

// Run runs a cmd.
func (LocalExec) Run(ctx context.Context, cmd *execute.Cmd) error {
	res, err := run(ctx, cmd)
	if err != nil {
		return err
	}
	cmd.StdoutWriter().Write(res.stdout)
	cmd.StderrWriter().Write(res.stderr)
	cmd.Duration = res.duration

	clog.Infof(ctx, "exit=%d stdout=%d stderr=%d duration=%s", res.exitCode, len(res.stdout), len(res.stderr), res.duration)

	if res.exitCode != 0 {
		return &execute.ExitError{ExitCode: res.exitCode}
	}
	return nil
}

// forkSema limits concurrent fork/exec.
var forkSema = semaphore.New("fork", runtime.NumCPU())

type result struct {
	exitCode int
	stdout   []byte
	stderr   []byte
	duration time.Duration
}

func run(ctx context.Context, cmd *execute.Cmd) (*result, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("no arguments in the command. ID: %s", cmd.ID)
	}
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Env = cmd.Env
	c.Dir = filepath.Join(cmd.ExecRoot, cmd.Dir)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	s := time.Now()

	err := forkSema.Do(ctx, func(ctx context.Context) error {
		return c.Start()
	})
	if err == nil {
		err = c.Wait()
	}
	log.V(1).Infof("%s %v", cmd.ID, err)
	code, err := exitCode(err)
	if err != nil {
		return nil, fmt.Errorf("failed to run %q: %w", cmd.Args, err)
	}
	res := &result{
		exitCode: code,
		stdout:   stdout.Bytes(),
		stderr:   stderr.Bytes(),
		duration: time.Since(s),
	}
	if res.exitCode != 0 {
		res.stderr = append(res.stderr, []byte(fmt.Sprintf("\ncmd: %q dir: %q", cmd.Args, c.Dir))...)
	}
	return res, nil
}

// exitCode returns exit code for err of cmd.Wait.
// It returns error if the cmd couldn't run, e.g. command not found.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var eerr *exec.ExitError
	if !errors.As(err, &eerr) {
		return 0, err
	}
	if w, ok := eerr.ProcessState.Sys().(syscall.WaitStatus); ok {
		return w.ExitStatus(), nil
	}
	return 1, nil
}
