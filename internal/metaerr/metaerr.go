// Package metaerr defines the error-kind taxonomy shared by every engine
// (spec §7). Frame- and item-level parse failures are never surfaced
// through these — they are skipped locally by the caller. Kinds here are
// for container-level structural failures, render-time failures and
// writer failures, all of which are always surfaced.
package metaerr

import "fmt"

// Kind names one of the uniform error categories from spec §7.
type Kind string

const (
	TruncatedInput     Kind = "truncated_input"
	BadMagic           Kind = "bad_magic"
	InvalidField       Kind = "invalid_field"
	OversizeField      Kind = "oversize_field"
	UnsupportedVersion Kind = "unsupported_version"
	MalformedChecksum  Kind = "malformed_checksum"
	DecompressionFailed Kind = "decompression_failed"
	EncodingFailed     Kind = "encoding_failed"
	DecodingFailed     Kind = "decoding_failed"
	IoFailure          Kind = "io_failure"
	OperationCancelled Kind = "operation_cancelled"
)

// Error is the uniform envelope every fallible leaf wraps a failure in
// before bubbling it up — plain error values, never exceptions, matching
// the teacher's idiom of returning (T, error) everywhere.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is supports errors.Is(err, metaerr.Kind) style matching via a sentinel
// comparison against Kind values embedded in wrapped *Error instances.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		break
	}
	return false
}
