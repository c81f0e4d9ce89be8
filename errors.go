package stubkit

import (
	"github.com/stubkit/stubkit/internal/types"
)

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exported so callers can errors.As against the public package only.
type UnsupportedFormatError = types.UnsupportedFormatError

// MalformedFileError is an alias to types.MalformedFileError.
// Re-exported so callers can errors.As against the public package only.
type MalformedFileError = types.MalformedFileError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
// Re-exported so callers can errors.As against the public package only.
type UnsupportedWriteError = types.UnsupportedWriteError
