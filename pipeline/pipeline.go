// Package pipeline runs the two external stages that turn C sources into API
// XML: a preprocessor whose standard output is streamed into the standard
// input of a transformer, which appends its result to an intermediate file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gapi-tools/gapi/format"
)

// Stage names one of the two external programs.
type Stage string

const (
	StagePreprocess Stage = "preprocessor"
	StageTransform  Stage = "transformer"
)

const DefaultBufferSize = 32 * 1024

type Config struct {
	// Interpreter runs both scripts. When empty the scripts are executed
	// directly.
	Interpreter string
	// Preprocessor is invoked as: Preprocessor FILE... where the file list
	// is the job's files joined by spaces and split again on whitespace.
	Preprocessor string
	// Transformer is invoked as: Transformer NAMESPACE INTERMEDIATE LIBRARY
	Transformer string
	// Dir is the working directory of both stages; empty means the current
	// directory.
	Dir string
	// Stdout receives the transformer's standard output, Stderr the
	// standard error of both stages. Nil means os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// BufferSize bounds the copy buffer between the stages.
	BufferSize int
}

// Job is one namespace's worth of work.
type Job struct {
	Files        []string
	Namespace    string
	Library      string
	Intermediate string
}

// Result describes a finished run. Exit codes are informational: a failing
// stage shows up later as a missing or malformed intermediate file.
type Result struct {
	Forwarded      int64
	PreprocessExit int
	TransformExit  int
	Elapsed        time.Duration
}

type Orchestrator struct {
	cfg Config
}

func New(cfg Config) *Orchestrator {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &Orchestrator{cfg: cfg}
}

// Run executes job and blocks until the transformer has consumed all of the
// preprocessor's output and exited.
func (o *Orchestrator) Run(ctx context.Context, job Job) error {
	_, err := o.RunWithResult(ctx, job)
	return err
}

func (o *Orchestrator) RunWithResult(ctx context.Context, job Job) (Result, error) {
	start := time.Now()

	stderr := &syncWriter{w: o.cfg.Stderr}

	preStatus := NewStatusWriter(stderr)
	pre := o.command(ctx, o.cfg.Preprocessor, fileArgs(job.Files)...)
	pre.Stderr = preStatus

	parseStatus := NewStatusWriter(stderr)
	parse := o.command(ctx, o.cfg.Transformer, job.Namespace, job.Intermediate, job.Library)
	parse.Stdout = o.cfg.Stdout
	parse.Stderr = parseStatus

	stdout, err := pre.StdoutPipe()
	if err != nil {
		return Result{}, &ProcessLaunchError{Stage: StagePreprocess, Args: pre.Args, Err: err}
	}

	stdin, err := parse.StdinPipe()
	if err != nil {
		return Result{}, &ProcessLaunchError{Stage: StageTransform, Args: parse.Args, Err: err}
	}

	slog.Debug("starting pipeline", "namespace", job.Namespace, "library", job.Library, "files", len(job.Files))
	slog.Debug("preprocessor", "cmd", pre)
	if err := pre.Start(); err != nil {
		stdin.Close()
		return Result{}, &ProcessLaunchError{Stage: StagePreprocess, Args: pre.Args, Err: err}
	}

	slog.Debug("transformer", "cmd", parse)
	if err := parse.Start(); err != nil {
		// reap the preprocessor so it doesn't outlive the failed run
		if kerr := pre.Process.Kill(); kerr != nil {
			slog.Warn("unable to stop preprocessor", "error", kerr)
		}
		_, _ = io.Copy(io.Discard, stdout)
		_ = pre.Wait()
		return Result{}, &ProcessLaunchError{Stage: StageTransform, Args: parse.Args, Err: err}
	}

	// the copy loop reaps the preprocessor once its output is exhausted while
	// the transformer is reaped alongside; a transformer exiting early closes
	// its input and the copy loop falls back to draining
	var res Result
	var g errgroup.Group
	g.Go(func() error {
		defer func() {
			if err := stdin.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				slog.Debug("closing transformer input", "error", err)
			}
		}()

		n, err := o.forward(stdin, stdout)
		res.Forwarded = n
		if err != nil {
			// keep reading so the preprocessor can finish writing and exit
			slog.Warn("transformer stopped reading input", "namespace", job.Namespace, "error", err)
			n, _ := io.CopyBuffer(io.Discard, stdout, make([]byte, o.cfg.BufferSize))
			slog.Debug("discarded preprocessor output", "bytes", n)
		}

		// every byte has been read, so it is now safe to reap the preprocessor
		res.PreprocessExit = exitCode(StagePreprocess, pre.Wait(), preStatus)
		return nil
	})

	g.Go(func() error {
		res.TransformExit = exitCode(StageTransform, parse.Wait(), parseStatus)
		return nil
	})

	if err := g.Wait(); err != nil {
		return res, err
	}
	res.Elapsed = time.Since(start)

	slog.Debug("pipeline finished", "namespace", job.Namespace, "forwarded", format.HumanBytes(res.Forwarded), "elapsed", res.Elapsed)
	return res, nil
}

func (o *Orchestrator) command(ctx context.Context, script string, args ...string) *exec.Cmd {
	name := script
	if o.cfg.Interpreter != "" {
		name = o.cfg.Interpreter
		args = append([]string{script}, args...)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = o.cfg.Dir
	cmd.SysProcAttr = sysProcAttr()
	return cmd
}

// fileArgs flattens files into whitespace-separated words, so a path written
// across several lines in the manifest still arrives as a single argument.
func fileArgs(files []string) []string {
	return strings.Fields(strings.Join(files, " "))
}

// forward streams src into dst until src reports EOF, reading at most
// BufferSize bytes at a time. It never waits for the producer to exit first,
// so output still sitting in the pipe when the producer exits is not lost.
func (o *Orchestrator) forward(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, o.cfg.BufferSize)
	n, err := io.CopyBuffer(dst, src, buf)
	if err != nil {
		return n, fmt.Errorf("forwarded %s: %w", format.HumanBytes(n), err)
	}
	return n, nil
}

func exitCode(stage Stage, err error, status *StatusWriter) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		slog.Warn(string(stage)+" exited with non-zero status", "code", code, "last_error", status.LastErrMsg())
		return code
	}

	slog.Warn(string(stage)+" did not finish cleanly", "error", err)
	return -1
}
