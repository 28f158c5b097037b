// Package checkpoint decorates errors with the caller position they passed through,
// which results in something similar to a stacktrace.
// Each error added to a checkpoint can be checked by errors.Is and retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps an error by a new checkpoint which only adds the caller position.
// It returns nil, if err == nil.
func From(err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return newCheckpoint(nil, err)
}

// Wrap adds a checkpoint to prev and describes it by err.
// Returns nil if prev == nil. If err is nil, it still creates a checkpoint.
// This allows to predefine errors for each stage of an operation and use them later:
//
//	var ErrReadFAT = errors.New("could not read the FAT")
//
//	func readFAT() error {
//		err := readSectors(...)
//		return checkpoint.Wrap(err, ErrReadFAT)
//	}
//
// Afterwards errors.Is matches ErrReadFAT as well as the error returned by readSectors.
func Wrap(prev, err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if prev == nil || prev == io.EOF {
		return prev
	}

	return newCheckpoint(err, prev)
}

// Message renders the chain of err without caller positions on a single line,
// outermost description first, e.g. "could not read the FAT: i/o error: unexpected EOF".
func Message(err error) string {
	var parts []string
	for err != nil {
		c, ok := err.(*checkpoint)
		if !ok {
			parts = append(parts, err.Error())
			break
		}
		if c.err != nil {
			parts = append(parts, c.err.Error())
		}
		err = c.prev
	}

	return strings.Join(parts, ": ")
}

func newCheckpoint(err, prev error) *checkpoint {
	// Skip newCheckpoint and From/Wrap.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:  err,
		prev: prev,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) position() string {
	if !e.callerOk {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

func (e *checkpoint) Error() string {
	// Use different formatting for the prev error if it was not also a checkpoint.
	prevErrString := e.prev.Error()
	if _, ok := e.prev.(*checkpoint); !ok {
		prevErrString = "File: unknown\n\t" + strings.ReplaceAll(prevErrString, "\n", "\n\t")
	}

	if e.err == nil {
		return fmt.Sprintf("File: %s\n%v", e.position(), prevErrString)
	}
	return fmt.Sprintf("File: %s\n\t%v\n%v", e.position(), e.err, prevErrString)
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}
