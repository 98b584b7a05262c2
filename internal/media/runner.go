package media

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// RunResult is the captured output of one external command invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts process execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (RunResult, error)
}

// StreamRunner additionally delivers combined output line by line while the
// process runs, for engines that report progress through log markers.
type StreamRunner interface {
	Runner
	RunStream(ctx context.Context, onLine func(line string), name string, args ...string) (RunResult, error)
}

// ExecRunner executes commands via os/exec.
type ExecRunner struct{}

// NewExecRunner returns the production command runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes one command and captures stdout/stderr and exit code.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// RunStream executes one command, forwarding each combined output line to
// onLine as it arrives. The full output is still captured in the result.
func (r *ExecRunner) RunStream(ctx context.Context, onLine func(line string), name string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	pr, pw := io.Pipe()
	var combined bytes.Buffer
	// One shared writer for both streams: os/exec only spawns a single
	// copy goroutine when Stdout and Stderr are the same value, which is
	// what keeps writes to the buffer serialized.
	sink := io.MultiWriter(&combined, pw)
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return RunResult{ExitCode: -1}, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
	}()

	err := cmd.Wait()
	pw.Close()
	<-done
	pr.Close()

	result := RunResult{
		Stdout:   combined.String(),
		ExitCode: exitCode(err),
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// exitCode extracts the process exit code, -1 when the process never ran.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
