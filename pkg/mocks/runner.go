package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/user/framereel/pkg/ports"
)

// CommandRunner is a mock implementation of ports.CommandRunner.
// It answers "-encoders" probes with EncodersListing and every other
// invocation with EncodeResult.
type CommandRunner struct {
	mu sync.Mutex

	RunFunc func(ctx context.Context, args ...string) (ports.CommandResult, error)

	EncodersListing []string
	ProbeErr        error
	EncodeResult    ports.CommandResult
	EncodeErr       error

	// Calls records the arguments of every Run call.
	Calls [][]string
}

func (m *CommandRunner) Run(ctx context.Context, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, append([]string(nil), args...))
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, args...)
	}
	if slices.Contains(args, "-encoders") {
		if m.ProbeErr != nil {
			return ports.CommandResult{}, m.ProbeErr
		}
		return ports.CommandResult{Lines: m.EncodersListing}, nil
	}
	return m.EncodeResult, m.EncodeErr
}

// LastCall returns the arguments of the most recent call joined by spaces.
func (m *CommandRunner) LastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	return strings.Join(m.Calls[len(m.Calls)-1], " ")
}

var _ ports.CommandRunner = (*CommandRunner)(nil)
