package regrp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Literal(t *testing.T) {
	p, err := Parse("abc")
	require.NoError(t, err)

	require.Len(t, p, 1)
	assert.Equal(t, &Literal{Pos: Span{Start: 0, End: 3}}, p[0])
}

func TestParse_Empty(t *testing.T) {
	p, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, p)
	assert.Equal(t, Span{}, p.Extent())
}

func TestParse_Escapes(t *testing.T) {
	p, err := Parse(`a\(b`)
	require.NoError(t, err)

	require.Len(t, p, 3)
	assert.Equal(t, &Literal{Pos: Span{Start: 0, End: 1}}, p[0])
	assert.Equal(t, &Escape{Pos: Span{Start: 1, End: 3}}, p[1])
	assert.Equal(t, &Literal{Pos: Span{Start: 3, End: 4}}, p[2])
}

func TestParse_EscapedMultibyteRune(t *testing.T) {
	p, err := Parse(`\é(x)`)
	require.NoError(t, err)

	require.Len(t, p, 2)
	assert.Equal(t, &Escape{Pos: Span{Start: 0, End: 3}}, p[0])
	assert.Equal(t, Span{Start: 3, End: 6}, p[1].Span())
}

func TestParse_EscapedDelimiterInsideGroup(t *testing.T) {
	p, err := Parse(`(a\))`)
	require.NoError(t, err)

	require.Len(t, p, 1)
	g, ok := p[0].(*Group)
	require.True(t, ok)
	assert.Equal(t, Span{Start: 0, End: 5}, g.Pos)
	assert.True(t, g.Capturing)
	require.Len(t, g.Inner, 2)
	assert.Equal(t, &Literal{Pos: Span{Start: 1, End: 2}}, g.Inner[0])
	assert.Equal(t, &Escape{Pos: Span{Start: 2, End: 4}}, g.Inner[1])
}

func TestParse_Groups(t *testing.T) {
	p, err := Parse("(?:x)(y)")
	require.NoError(t, err)
	require.Len(t, p, 2)

	nonCapturing := p[0].(*Group)
	assert.False(t, nonCapturing.Capturing)
	assert.Equal(t, Span{Start: 0, End: 5}, nonCapturing.Pos)
	assert.Equal(t, Span{Start: 1, End: 3}, nonCapturing.Modifier)
	assert.Equal(t, Pattern{&Literal{Pos: Span{Start: 3, End: 4}}}, nonCapturing.Inner)

	capturing := p[1].(*Group)
	assert.True(t, capturing.Capturing)
	assert.Equal(t, Span{Start: 5, End: 8}, capturing.Pos)
	assert.Equal(t, Span{}, capturing.Modifier)
	assert.Equal(t, Span{Start: 6, End: 7}, capturing.Content())
}

func TestParse_Modifiers(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		capturing bool
	}{
		{"plain group", "(a)", true},
		{"empty group", "()", true},
		{"non-capturing", "(?:a)", false},
		{"case insensitive flag", "(?i)", false},
		{"scoped flags", "(?i:a)", false},
		{"negated flags", "(?-s:a)", false},
		{"several flags", "(?imsU)", false},
		{"named group", "(?P<name>a)", true},
		{"angle named group", "(?<name>a)", true},
		{"lone question mark", "(?)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.pattern)
			require.NoError(t, err)
			require.Len(t, p, 1)

			g, ok := p[0].(*Group)
			require.True(t, ok)
			assert.Equal(t, tt.capturing, g.Capturing)
			assert.Equal(t, Span{Start: 0, End: len(tt.pattern)}, g.Pos)
		})
	}
}

func TestParse_Nested(t *testing.T) {
	p, err := Parse("ab(cd(ef)gh)ij")
	require.NoError(t, err)
	require.Len(t, p, 3)

	outer := p[1].(*Group)
	assert.Equal(t, Span{Start: 2, End: 12}, outer.Pos)
	require.Len(t, outer.Inner, 3)

	inner := outer.Inner[1].(*Group)
	assert.Equal(t, Span{Start: 5, End: 9}, inner.Pos)
	assert.Equal(t, Span{Start: 12, End: 14}, p[2].Span())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		pos     int
	}{
		{"unclosed group", "a(b", 1},
		{"unclosed outer group", "((a)", 0},
		{"stray closing", "a)b", 1},
		{"stray closing after group", "(a))", 3},
		{"trailing escape", `abc\`, 3},
		{"trailing escape in group", `(a\`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedPattern))

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.pos, e.Pos)
			assert.Equal(t, tt.pattern, e.Pattern)
		})
	}
}

// Nodes are contiguous and cover the source exactly.
func TestParse_NodesCoverSource(t *testing.T) {
	patterns := []string{
		"",
		"abc",
		`a\(b\)c(d)e`,
		"foo(?:bar)(baz)",
		`(?i)\b(?P<key>[a-z]{8}(?:-[0-9]+)?)\b`,
		"(()())",
	}

	var check func(t *testing.T, p Pattern, start, end int)
	check = func(t *testing.T, p Pattern, start, end int) {
		pos := start
		for _, n := range p {
			span := n.Span()
			assert.Equal(t, pos, span.Start)
			assert.Greater(t, span.End, span.Start)
			if g, ok := n.(*Group); ok {
				check(t, g.Inner, g.Pos.Start+1+g.Modifier.Len(), g.Pos.End-1)
			}
			pos = span.End
		}
		assert.Equal(t, end, pos)
	}

	for _, pattern := range patterns {
		p, err := Parse(pattern)
		require.NoError(t, err, pattern)
		check(t, p, 0, len(pattern))
	}
}

func TestCaptureCount(t *testing.T) {
	p, err := Parse(`(a(?:b(c))(?i)d)\(e\)(f)`)
	require.NoError(t, err)
	assert.Equal(t, 3, CaptureCount(p))
}

func TestWalk_SkipChildren(t *testing.T) {
	p, err := Parse("(a(b))(c)")
	require.NoError(t, err)

	var visited []Span
	Walk(p, func(n Node) bool {
		visited = append(visited, n.Span())
		return false
	})

	assert.Equal(t, []Span{{Start: 0, End: 6}, {Start: 6, End: 9}}, visited)
}
