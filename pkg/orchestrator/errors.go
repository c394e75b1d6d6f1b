package orchestrator

import "fmt"

// ExitError reports a non-zero encoder exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("encoder exited with status %d", e.Code)
}
