package translate

import (
	"errors"
	"fmt"
)

var (
	// ErrEnvironmentUnavailable means the working directory could not be read.
	ErrEnvironmentUnavailable = errors.New("current working directory unavailable")

	// ErrNonUTF8Path means the working directory is not valid UTF-8 and
	// cannot be embedded in a message.
	ErrNonUTF8Path = errors.New("cannot parse current working directory (invalid utf8?)")

	// ErrMisroutedLocalCommand means a client-local command reached the
	// translator. Callers must handle such commands before translating.
	ErrMisroutedLocalCommand = errors.New("completions have to be handled before translation")

	// ErrUnsupportedCommand means the translator has no case for a command type.
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// Error is returned by Translate. Op is the name of the command being
// translated and Err one of the package sentinels, possibly wrapping the
// underlying cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
