package manifest

import "fmt"

// FormatError reports a malformed manifest: TOML syntax errors, duplicate
// keys, missing required tables, or invalid version-constraint strings.
// Parse failures are fatal to the caller.
type FormatError struct {
	Path string // document location, e.g. "tool.poetry.dependencies.requests"
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("manifest format: %v", e.Err)
	}
	return fmt.Sprintf("manifest format: %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// formatErrorf builds a FormatError at the given document path.
func formatErrorf(path, format string, args ...interface{}) *FormatError {
	return &FormatError{Path: path, Err: fmt.Errorf(format, args...)}
}
