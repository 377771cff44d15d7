// Package regrp locates capture groups in regex source text and splits a
// pattern around one of them.
//
// Only grouping and escaping are understood. Character classes, quantifiers,
// alternation and anchors are treated as opaque literal text, and the pattern
// is never compiled or rewritten. Every offset produced by the package is an
// absolute byte offset into the original string, so
//
//	prefix + target + suffix == pattern
//
// holds for every successful split.
package regrp

import "unicode/utf8"

const (
	groupOpen  = '('
	groupClose = ')'
	escape     = '\\'
	modifier   = '?'
)

// isFlag reports whether c may follow '?' in an inline modifier that turns a
// group into a non-capturing one, e.g. (?:...), (?i), (?-s:...), (?Ui).
func isFlag(c byte) bool {
	switch c {
	case 'i', 'm', 's', 'x', 'U', 'J', 'n', '-', ':':
		return true
	}
	return false
}

func isSpecial(c byte) bool {
	return c == groupOpen || c == groupClose || c == escape
}

type parser struct {
	src string
	pos int
}

// Parse builds the structural tree of source. It fails with
// ErrMalformedPattern when a group is left open, a ')' has no matching '(',
// or the pattern ends with a lone escape marker.
func Parse(source string) (Pattern, error) {
	p := &parser{src: source}

	pattern, err := p.parsePattern()
	if err != nil {
		return nil, err
	}

	// parsePattern only stops early on a ')' that closes nothing.
	if p.pos < len(p.src) {
		return nil, syntaxError(source, p.pos, "unmatched closing parenthesis")
	}

	return pattern, nil
}

func (p *parser) parsePattern() (Pattern, error) {
	var pattern Pattern

	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case groupClose:
			return pattern, nil

		case groupOpen:
			g, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			pattern = append(pattern, g)

		case escape:
			start := p.pos
			if start+1 >= len(p.src) {
				return nil, syntaxError(p.src, start, "trailing escape")
			}
			_, size := utf8.DecodeRuneInString(p.src[start+1:])
			p.pos = start + 1 + size
			pattern = append(pattern, &Escape{Pos: Span{Start: start, End: p.pos}})

		default:
			start := p.pos
			for p.pos < len(p.src) && !isSpecial(p.src[p.pos]) {
				p.pos++
			}
			pattern = append(pattern, &Literal{Pos: Span{Start: start, End: p.pos}})
		}
	}

	return pattern, nil
}

func (p *parser) parseGroup() (*Group, error) {
	g := &Group{Pos: Span{Start: p.pos}}
	p.pos++

	if p.pos < len(p.src) && p.src[p.pos] == modifier {
		end := p.pos + 1
		for end < len(p.src) && isFlag(p.src[end]) {
			end++
		}
		if end > p.pos+1 {
			g.Modifier = Span{Start: p.pos, End: end}
			p.pos = end
		}
	}
	g.Capturing = g.Modifier.Len() == 0

	inner, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.src) {
		return nil, syntaxError(p.src, g.Pos.Start, "missing closing parenthesis")
	}

	p.pos++ // consume ')'
	g.Pos.End = p.pos
	g.Inner = inner

	return g, nil
}
