package task

// ExitError wraps an error with a specific process exit code.
//
// Most failures still exit with code 1. Tool failures keep the tool's own
// exit status so scripts wrapping the runner observe the same code the tool
// produced.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// exitCodeOr maps unusable tool exit codes (signals, start failures) to a
// plain failure code.
func exitCodeOr(code, fallback int) int {
	if code <= 0 {
		return fallback
	}
	return code
}
