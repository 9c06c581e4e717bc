package loader

import "fmt"

// LoaderError represents an error that occurs during document loading
type LoaderError struct {
	Op      string
	Path    string
	Message string
	Err     error
}

func (e *LoaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loader: %s %s: %s: %v", e.Op, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("loader: %s %s: %s", e.Op, e.Path, e.Message)
}

func (e *LoaderError) Unwrap() error {
	return e.Err
}

// NewLoaderError creates a new LoaderError
func NewLoaderError(op, path, message string, err error) *LoaderError {
	return &LoaderError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}
