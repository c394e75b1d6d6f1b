package ports

import "context"

// CommandResult holds the outcome of an external process invocation.
type CommandResult struct {
	// ExitCode is the process exit status (0 on success).
	ExitCode int
	// Lines contains the combined stdout/stderr output split into lines.
	Lines []string
}

// Succeeded reports whether the process exited with status 0.
func (r CommandResult) Succeeded() bool {
	return r.ExitCode == 0
}

// CommandRunner runs an external tool with the given arguments.
type CommandRunner interface {
	// Run executes the tool and waits for it to exit.
	// A non-zero exit status is reported through CommandResult, not as an error;
	// the error is reserved for failures to start the process at all.
	Run(ctx context.Context, args ...string) (CommandResult, error)
}
