package regrp

import (
	"errors"
	"fmt"
)

// Extent returns the span covered by the whole pattern. Parsed patterns
// always start at offset 0.
func (p Pattern) Extent() Span {
	if len(p) == 0 {
		return Span{}
	}
	return Span{Start: p[0].Span().Start, End: p[len(p)-1].Span().End}
}

// Locate returns the span of the capturing group with the given ordinal,
// delimiters included.
//
// Group 0 selects the first capturing group, or the whole pattern when there
// is none. A group that only exists inside another group (capturing or not)
// fails with ErrNestedGroup, since isolating it would separate the enclosing
// group's delimiters from its content.
func (p Pattern) Locate(group int) (Span, error) {
	if group < 0 {
		return Span{}, groupError(ErrGroupNotFound, group, "is negative")
	}

	want := group
	if want == 0 {
		want = 1
	}

	span, found, _, err := locate(p, want, group)
	if err != nil {
		return Span{}, err
	}
	if found {
		return span, nil
	}
	if group == 0 {
		return p.Extent(), nil
	}

	return Span{}, groupError(ErrGroupNotFound, group, "")
}

// locate scans one level of p for the want-th capturing group, counting from
// zero at this level. It returns the number of capturing groups consumed when
// nothing was found.
func locate(p Pattern, want, requested int) (Span, bool, int, error) {
	seen := 0

	for _, n := range p {
		g, ok := n.(*Group)
		if !ok {
			continue
		}

		if g.Capturing {
			seen++
		}
		if seen == want {
			return g.Pos, true, seen, nil
		}

		inner, found, consumed, err := locate(g.Inner, want-seen, requested)
		if err != nil {
			return Span{}, false, 0, err
		}
		if found {
			msg := fmt.Sprintf("at offset %d is inside the group at offset %d", inner.Start, g.Pos.Start)
			return Span{}, false, 0, groupError(ErrNestedGroup, requested, msg)
		}

		seen += consumed
	}

	return Span{}, false, seen, nil
}

// Split parses source and cuts it around the requested capturing group. The
// target includes the group's own parentheses; with group 0 and no capturing
// group the whole source is the target.
func Split(source string, group int) (prefix, target, suffix string, err error) {
	pattern, err := Parse(source)
	if err != nil {
		return "", "", "", err
	}

	span, err := pattern.Locate(group)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Pattern = source
		}
		return "", "", "", err
	}

	return source[:span.Start], source[span.Start:span.End], source[span.End:], nil
}

// SplitByGroup is Split with absent rather than empty prefix and suffix, so a
// caller can tell "no prefix" apart from an empty-string prefix.
func SplitByGroup(group int, pattern string) (prefix *string, target string, suffix *string, err error) {
	p, t, s, err := Split(pattern, group)
	if err != nil {
		return nil, "", nil, err
	}
	return nonEmpty(p), t, nonEmpty(s), nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
