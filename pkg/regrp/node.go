package regrp

// Span is a half-open range [Start, End) of absolute byte offsets into the
// source pattern.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the slice of source covered by the span.
func (s Span) Text(source string) string {
	return source[s.Start:s.End]
}

// Node is one element of a parsed Pattern: *Literal, *Escape or *Group.
type Node interface {
	Span() Span
	node()
}

// Pattern is an ordered, gap-free sequence of nodes.
type Pattern []Node

// Literal is a maximal run of characters that are neither group delimiters
// nor the escape marker.
type Literal struct {
	Pos Span
}

// Escape is the escape marker plus the single character it protects.
type Escape struct {
	Pos Span
}

// Group is a parenthesized subpattern. Pos.Start is the offset of '(' and
// Pos.End is one past the matching ')'.
type Group struct {
	Pos       Span
	Capturing bool
	Modifier  Span // zero when the group has no inline modifier
	Inner     Pattern
}

func (n *Literal) Span() Span { return n.Pos }
func (n *Escape) Span() Span  { return n.Pos }
func (n *Group) Span() Span   { return n.Pos }

func (*Literal) node() {}
func (*Escape) node()  {}
func (*Group) node()   {}

// Content returns the span between the group's delimiters, modifier included.
func (n *Group) Content() Span {
	return Span{Start: n.Pos.Start + 1, End: n.Pos.End - 1}
}

// Walk visits every node of p depth-first in source order. Returning false
// from fn skips the children of the visited group.
func Walk(p Pattern, fn func(Node) bool) {
	for _, n := range p {
		if !fn(n) {
			continue
		}
		if g, ok := n.(*Group); ok {
			Walk(g.Inner, fn)
		}
	}
}

// CaptureCount returns the number of capturing groups anywhere in p.
func CaptureCount(p Pattern) int {
	count := 0
	Walk(p, func(n Node) bool {
		if g, ok := n.(*Group); ok && g.Capturing {
			count++
		}
		return true
	})
	return count
}
