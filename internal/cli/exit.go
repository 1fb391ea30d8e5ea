package cli

import "fmt"

// ExitOverTarget is the exit code of `summary --check` when the day's
// footprint exceeds the daily target.
const ExitOverTarget = 2

// ExitError asks main to exit with Code instead of the generic failure code.
type ExitError struct {
	Code   int
	Reason string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d: %s", e.Code, e.Reason)
}
