// Package tagmodel implements the unified tag model (spec §3.2, §4.C):
// a polymorphic record over a fixed capability set of named properties,
// with bidirectional mapping to each format's native representation,
// cross-tag copy and per-format validation.
package tagmodel

import "github.com/corvidaudio/metatag/internal/binutil"

// TagType is a bit in a flags enum identifying a tag variant.
type TagType uint16

const (
	TypeId3v1 TagType = 1 << iota
	TypeId3v2
	TypeXiph
	TypeApple
	TypeAsf
	TypeApe
	TypeRiffInfo
	TypeBext
)

// Severity classifies a validation issue.
type Severity byte

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// Issue is one finding from Tag.Validate.
type Issue struct {
	Field    string
	Severity Severity
	Message  string
}

// Tag is the capability interface every concrete variant implements. The
// teacher's Metadata interface (tag.go) is read-only; this generalizes it
// to the mutable, renderable model spec §3.2/§4.C requires while keeping
// its shape (small interface, simple getters) recognizable.
type Tag interface {
	// Type identifies the concrete variant.
	Type() TagType

	// Props exposes the mutable canonical property set directly; callers
	// mutate fields in place and call Render to serialize the result.
	Props() *Properties

	// Supports reports whether this variant's native representation can
	// carry the named canonical property (by Properties field name).
	Supports(field string) bool

	// IsEmpty reports whether the tag carries no properties at all.
	IsEmpty() bool

	// Clear resets every property to its zero value.
	Clear()

	// Render serializes the tag to its native wire format.
	Render() (binutil.View, error)

	// Validate checks per-format constraints (spec §4.C/§4.N).
	Validate() []Issue
}

// CopyOptions controls which property categories CopyTo transfers.
type CopyOptions struct {
	Categories Category
}

// DefaultCopyOptions copies everything.
func DefaultCopyOptions() CopyOptions {
	return CopyOptions{Categories: CategoryAll}
}
