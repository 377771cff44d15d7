package regrp

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPattern reports unbalanced group delimiters or a dangling
	// escape marker.
	ErrMalformedPattern = errors.New("malformed pattern")

	// ErrGroupNotFound reports an ordinal larger than the number of capturing
	// groups reachable from the top level.
	ErrGroupNotFound = errors.New("capture group not found")

	// ErrNestedGroup reports an ordinal that names a group sitting inside
	// another group, which cannot be split out on its own.
	ErrNestedGroup = errors.New("cannot split apart nested groups")
)

// Error carries the position and request details of a parse or split
// failure. Kind is one of the package sentinels, so errors.Is works on it.
type Error struct {
	Kind    error
	Pattern string
	Pos     int // offset of the offending character, -1 when not applicable
	Group   int // requested ordinal, -1 for parse errors
	Msg     string
}

func (e *Error) Error() string {
	switch {
	case e.Pos >= 0 && e.Msg != "":
		return fmt.Sprintf("%v: %s at offset %d", e.Kind, e.Msg, e.Pos)
	case e.Pos >= 0:
		return fmt.Sprintf("%v at offset %d", e.Kind, e.Pos)
	case e.Group >= 0 && e.Msg != "":
		return fmt.Sprintf("%v: group %d %s", e.Kind, e.Group, e.Msg)
	case e.Group >= 0:
		return fmt.Sprintf("%v: group %d", e.Kind, e.Group)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func syntaxError(source string, pos int, msg string) *Error {
	return &Error{Kind: ErrMalformedPattern, Pattern: source, Pos: pos, Group: -1, Msg: msg}
}

func groupError(kind error, group int, msg string) *Error {
	return &Error{Kind: kind, Pos: -1, Group: group, Msg: msg}
}
