package docstore

import (
	"errors"
	"fmt"
	"strings"
)

// Path is an immutable hierarchical document path. Documents live at
// alternating collection/document segments, e.g.
// "customers/{uid}/subscriptions/{id}". The slash-joined form serves as the
// document's primary key, and reference-typed fields store the same form to
// point at other documents.
type Path struct {
	segments []string
}

// NewPath builds a path from the given segments. Segments are used verbatim;
// use ParsePath to validate untrusted input.
func NewPath(segments ...string) Path {
	return Path{segments: append([]string(nil), segments...)}
}

// ParsePath parses a slash-separated document path. It rejects empty input
// and paths with empty segments.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, errors.Join(ErrInvalidPath, errors.New("path is empty"))
	}
	segments := strings.Split(s, "/")
	for _, seg := range segments {
		if seg == "" {
			return Path{}, errors.Join(ErrInvalidPath, fmt.Errorf("path %q contains an empty segment", s))
		}
	}
	return Path{segments: segments}, nil
}

// String returns the slash-joined form of the path.
func (p Path) String() string {
	return strings.Join(p.segments, "/")
}

// ID returns the path's own key, i.e. its last segment.
// Returns an empty string for the zero path.
func (p Path) ID() string {
	return p.KeyUp(0)
}

// KeyUp returns the segment n positions above the last one.
// KeyUp(0) is the path's own key, KeyUp(1) is the containing collection name,
// KeyUp(2) is the parent document's key, and so on. Returns an empty string
// when n is out of range.
func (p Path) KeyUp(n int) string {
	idx := len(p.segments) - 1 - n
	if idx < 0 || idx >= len(p.segments) {
		return ""
	}
	return p.segments[idx]
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return Path{}
	}
	return NewPath(p.segments[:len(p.segments)-1]...)
}

// Child returns the path extended with the given segments.
func (p Path) Child(segments ...string) Path {
	combined := make([]string, 0, len(p.segments)+len(segments))
	combined = append(combined, p.segments...)
	combined = append(combined, segments...)
	return Path{segments: combined}
}

// Collection returns the flattened collection name for a document path:
// the collection-position segments joined with dots. For example, the path
// "customers/u1/subscriptions/s1" maps to the "customers.subscriptions"
// collection.
func (p Path) Collection() string {
	var names []string
	for i := 0; i < len(p.segments); i += 2 {
		names = append(names, p.segments[i])
	}
	return strings.Join(names, ".")
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Len returns the number of segments in the path.
func (p Path) Len() int {
	return len(p.segments)
}

// IsZero reports whether the path has no segments.
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}
