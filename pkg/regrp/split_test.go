package regrp

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genericAPIKey mirrors the shape of real-world detection rules: inline flags,
// several non-capturing groups, escaped delimiters and one capturing group.
const genericAPIKey = `(?i)[\w.-]{0,50}?(?:access|auth)(?:[ \t\w.-]{0,20})[\s'"]{0,3}(?:=|>|:{1,3}=|\|\||:|=>|\?=|,)[\x60'"\s=]{0,5}([a-z0-9]{32})(?:[\x60'"\s;]|\\[nr]|$)`

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		group   int
		prefix  string
		target  string
		suffix  string
	}{
		{"no groups, group zero", "nogroups", 0, "", "nogroups", ""},
		{"empty pattern", "", 0, "", "", ""},
		{"escaped parens", `a\(b\)c(d)e`, 1, `a\(b\)c`, "(d)", "e"},
		{"non-capturing skipped", "foo(?:bar)(baz)", 1, "foo(?:bar)", "(baz)", ""},
		{"outer of nested", "ab(cd(ef)gh)ij", 1, "ab", "(cd(ef)gh)", "ij"},
		{"zero picks first", "ab(cd(ef)gh)ij", 0, "ab", "(cd(ef)gh)", "ij"},
		{"second sibling", "(a)(b)(c)", 2, "(a)", "(b)", "(c)"},
		{"last sibling", "(a)(b)(c)", 3, "(a)(b)", "(c)", ""},
		{"after nested captures", "(a(b))(c)", 3, "(a(b))", "(c)", ""},
		{"after non-capturing with capture", "(?:a(b))(c)", 2, "(?:a(b))", "(c)", ""},
		{"inline flags only", "(?i)(x)", 0, "(?i)", "(x)", ""},
		{"no capturing groups", "(?i)abc(?:def)", 0, "", "(?i)abc(?:def)", ""},
		{"named group", `key=(?P<secret>[a-z]+);`, 1, "key=", "(?P<secret>[a-z]+)", ";"},
		{"group with escaped close", `x(a\)b)y`, 1, "x", `(a\)b)`, "y"},
		{"aws key id", `\b((?:A3T[A-Z0-9]|AKIA)[A-Z0-9]{16})\b`, 1, `\b`, `((?:A3T[A-Z0-9]|AKIA)[A-Z0-9]{16})`, `\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, target, suffix, err := Split(tt.pattern, tt.group)
			require.NoError(t, err)

			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.target, target)
			assert.Equal(t, tt.suffix, suffix)
			assert.Equal(t, tt.pattern, prefix+target+suffix)
		})
	}
}

func TestSplit_RealWorldRule(t *testing.T) {
	wantPrefix, wantSuffix, found := strings.Cut(genericAPIKey, `([a-z0-9]{32})`)
	require.True(t, found)

	for _, group := range []int{0, 1} {
		prefix, target, suffix, err := Split(genericAPIKey, group)
		require.NoError(t, err)

		assert.Equal(t, wantPrefix, prefix)
		assert.Equal(t, `([a-z0-9]{32})`, target)
		assert.Equal(t, wantSuffix, suffix)
	}

	_, _, _, err := Split(genericAPIKey, 2)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestSplit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		group   int
		want    error
	}{
		{"no groups, group one", "nogroups", 1, ErrGroupNotFound},
		{"past last group", "(a)(b)", 3, ErrGroupNotFound},
		{"negative group", "(a)", -1, ErrGroupNotFound},
		{"nested in capturing", "ab(cd(ef)gh)ij", 2, ErrNestedGroup},
		{"nested in non-capturing", "(?:a(b))(c)", 1, ErrNestedGroup},
		{"zero with nested first capture", "(?:a(b))(c)", 0, ErrNestedGroup},
		{"deeply nested", "((?:(a)))", 2, ErrNestedGroup},
		{"unbalanced open", "a(b", 0, ErrMalformedPattern},
		{"unbalanced close", "a)b", 0, ErrMalformedPattern},
		{"dangling escape", `(a)\`, 1, ErrMalformedPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, target, suffix, err := Split(tt.pattern, tt.group)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, prefix)
			assert.Empty(t, target)
			assert.Empty(t, suffix)
		})
	}
}

func TestSplit_ErrorDetails(t *testing.T) {
	_, _, _, err := Split("ab(cd(ef)gh)ij", 2)
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, ErrNestedGroup, e.Kind)
	assert.Equal(t, 2, e.Group)
	assert.Equal(t, -1, e.Pos)
	assert.Equal(t, "ab(cd(ef)gh)ij", e.Pattern)
	assert.Contains(t, err.Error(), "group 2")
	assert.Contains(t, err.Error(), "offset 5")
}

func TestSplit_ZeroMatchesOne(t *testing.T) {
	patterns := []string{
		"(a)",
		"x(a)(b)y",
		`a\(b\)c(d)e`,
		"foo(?:bar)(baz)",
		genericAPIKey,
	}

	for _, pattern := range patterns {
		p0, t0, s0, err0 := Split(pattern, 0)
		p1, t1, s1, err1 := Split(pattern, 1)
		require.NoError(t, err0)
		require.NoError(t, err1)
		assert.Equal(t, []string{p1, t1, s1}, []string{p0, t0, s0}, pattern)
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	patterns := []string{
		"",
		"plain",
		"(a)(b(c))(?:d(e))(f)",
		`\((a)\)((?i)b)`,
		"(((x)))",
		`(?i)\b(?P<key>[a-z]{8}(?:-[0-9]+)?)\b`,
		genericAPIKey,
	}

	for _, pattern := range patterns {
		p, err := Parse(pattern)
		require.NoError(t, err)

		for group := 0; group <= CaptureCount(p)+1; group++ {
			prefix, target, suffix, err := Split(pattern, group)
			if err != nil {
				continue
			}
			assert.Equal(t, pattern, prefix+target+suffix, "pattern %q group %d", pattern, group)

			p2, t2, s2, err := Split(pattern, group)
			require.NoError(t, err)
			assert.Equal(t, []string{prefix, target, suffix}, []string{p2, t2, s2})
		}
	}
}

func TestLocate(t *testing.T) {
	p, err := Parse("ab(cd(ef)gh)ij")
	require.NoError(t, err)

	span, err := p.Locate(1)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 2, End: 12}, span)
	assert.Equal(t, "(cd(ef)gh)", span.Text("ab(cd(ef)gh)ij"))
	assert.Equal(t, 10, span.Len())
}

func TestLocate_ZeroWithoutCaptures(t *testing.T) {
	p, err := Parse("(?:a)b")
	require.NoError(t, err)

	span, err := p.Locate(0)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 6}, span)
}

func TestSplitByGroup(t *testing.T) {
	prefix, target, suffix, err := SplitByGroup(1, "(a)")
	require.NoError(t, err)
	assert.Nil(t, prefix)
	assert.Equal(t, "(a)", target)
	assert.Nil(t, suffix)

	prefix, target, suffix, err = SplitByGroup(0, "x(a)y")
	require.NoError(t, err)
	require.NotNil(t, prefix)
	require.NotNil(t, suffix)
	assert.Equal(t, "x", *prefix)
	assert.Equal(t, "(a)", target)
	assert.Equal(t, "y", *suffix)

	prefix, target, suffix, err = SplitByGroup(0, "nogroups")
	require.NoError(t, err)
	assert.Nil(t, prefix)
	assert.Equal(t, "nogroups", target)
	assert.Nil(t, suffix)

	_, _, _, err = SplitByGroup(2, "ab(cd(ef)gh)ij")
	assert.ErrorIs(t, err, ErrNestedGroup)
}

func TestSplit_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prefix, target, suffix, err := Split(genericAPIKey, 1)
			assert.NoError(t, err)
			assert.Equal(t, genericAPIKey, prefix+target+suffix)
		}()
	}
	wg.Wait()
}
