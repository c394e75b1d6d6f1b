// Package ffmpeg runs the ffmpeg command-line tool as an external process.
package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/user/framereel/pkg/ports"
)

// Runner implements ports.CommandRunner by invoking an ffmpeg binary.
type Runner struct {
	path string
}

// New creates a Runner for the binary found by Find(explicitPath).
func New(explicitPath string) (*Runner, error) {
	path, err := Find(explicitPath)
	if err != nil {
		return nil, err
	}
	return &Runner{path: path}, nil
}

// NewWithPath creates a Runner for the given binary without searching.
func NewWithPath(path string) *Runner {
	return &Runner{path: path}
}

// Path returns the binary the runner invokes.
func (r *Runner) Path() string {
	return r.path
}

// Run executes ffmpeg with args, unchanged, and collects its output lines.
func (r *Runner) Run(ctx context.Context, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, r.path, args...)

	// ffmpeg writes its log to stderr and listings to stdout; keep both in order.
	var out lockedBuffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := ports.CommandResult{Lines: splitLines(out.Bytes())}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			if result.ExitCode < 0 {
				// Killed by a signal, typically a cancelled context.
				result.ExitCode = 255
			}
			return result, nil
		}
		return result, fmt.Errorf("%w: %s: %v", ErrStart, r.path, err)
	}

	return result, nil
}

func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Progress updates use carriage returns within a single line.
		for _, part := range strings.Split(scanner.Text(), "\r") {
			if part = strings.TrimRight(part, " "); part != "" {
				lines = append(lines, part)
			}
		}
	}
	return lines
}

// lockedBuffer lets stdout and stderr share one buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}

// Ensure Runner implements ports.CommandRunner
var _ ports.CommandRunner = (*Runner)(nil)
