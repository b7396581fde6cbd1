package report

// errors.go contains the error kinds surfaced by the report lifecycle.

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks filesystem faults: permissions, missing paths, full disks.
	ErrIO = errors.New("io error")
	// ErrHistoryEmpty marks a previous history directory that exists but
	// holds no files, which points at a corrupted or partial previous report.
	ErrHistoryEmpty = errors.New("previous history not found")
	// ErrParse marks a summary document that cannot be decoded.
	ErrParse = errors.New("parse error")
	// ErrRender marks a renderer process that exited non-zero.
	ErrRender = errors.New("render failed")
	// ErrSymlinkCycle marks a directory symlink that points back into its own
	// ancestry. It is reported as an IO fault.
	ErrSymlinkCycle = errors.New("symlink cycle")
)

// Error is a lifecycle failure of a given kind on a given path.
type Error struct {
	Kind error  // one of the Err* kinds above
	Op   string // operation that failed, e.g. "copy" or "set title"
	Path string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func ioError(op, path string, err error) error {
	return &Error{Kind: ErrIO, Op: op, Path: path, Err: err}
}

func parseError(path string, err error) error {
	return &Error{Kind: ErrParse, Op: "read summary", Path: path, Err: err}
}

// RenderError is returned when the renderer exits with a non-zero code.
// Output holds the combined stdout and stderr of the process, unparsed.
type RenderError struct {
	ExitCode int
	Output   string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: renderer exited with code %d", ErrRender, e.ExitCode)
}

func (e *RenderError) Unwrap() error { return ErrRender }
