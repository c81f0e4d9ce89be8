package types

import "fmt"

// UnsupportedFormatError is returned when no registered reader or writer
// claims the input. It is recoverable: the caller may retry against a
// differently assembled registry.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported file format: %s", e.Reason)
	}
	return fmt.Sprintf("%s: unsupported file format: %s", e.Path, e.Reason)
}

// MalformedFileError is returned when a handler claimed an input through
// its cheap pre-checks but the full decode failed. Claiming is a
// commitment: this error is never masked to let a later handler try.
type MalformedFileError struct {
	Path   string
	Offset int64
	Reason string
}

func (e *MalformedFileError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s: malformed file at offset %d: %s", e.Path, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: malformed file: %s", e.Path, e.Reason)
}

// UnsupportedWriteError is returned when no registered writer can
// serialize a description.
type UnsupportedWriteError struct {
	Type   FileType
	Reason string
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Type)
}
