package identifier

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses a canonical identifier into its structural description. Any
// grammar violation is returned as a *FormatError.
func Parse(s string) (*Identifier, error) {
	p := &parser{input: s}
	if len(s) < 2 || s[1] != ':' {
		return nil, p.fail(0, "missing kind prefix")
	}
	kind := Kind(upper(s[0]))
	switch kind {
	case KindType, KindField, KindEvent, KindProperty, KindMethod:
	default:
		return nil, p.fail(0, "unknown kind %q", s[0])
	}
	if len(s) == 2 {
		return nil, p.fail(2, "empty identifier")
	}
	if err := p.checkBalance(2, len(s)); err != nil {
		return nil, err
	}

	id := &Identifier{Kind: kind}
	if kind == KindType {
		t, err := p.parseType(2, len(s))
		if err != nil {
			return nil, err
		}
		if t.IsPlaceholder() {
			return nil, p.fail(2, "type identifier cannot be a generic parameter")
		}
		id.Type = t
		return id, nil
	}

	end := len(s)
	if i := p.lastTop(2, end, '~'); i >= 0 {
		ret, err := p.parseType(i+1, end)
		if err != nil {
			return nil, err
		}
		id.Return = ret
		end = i
	}
	if end > 2 && s[end-1] == ')' {
		open := p.opener(2, end-1)
		if open < 0 {
			return nil, p.fail(end-1, "unbalanced parameter list")
		}
		params, err := p.parseList(open+1, end-1)
		if err != nil {
			return nil, err
		}
		id.Parameters = params
		id.HasParameters = true
		end = open
	}
	if j := arityMarker(s, 2, end); j >= 0 {
		n, err := strconv.Atoi(s[j+2 : end])
		if err != nil {
			return nil, p.fail(j+2, "invalid method arity")
		}
		id.Arity = n
		end = j
	}

	dot := p.lastTop(2, end, '.')
	if dot < 0 {
		return nil, p.fail(2, "member identifier needs a declaring type")
	}
	if dot+1 == end {
		return nil, p.fail(end, "empty member name")
	}
	if i := p.firstTop(dot+1, end, "()[],@*~` "); i >= 0 {
		return nil, p.fail(i, "unexpected %q in member name", s[i])
	}
	t, err := p.parseType(2, dot)
	if err != nil {
		return nil, err
	}
	if t.Form != ExprNamed {
		return nil, p.fail(2, "declaring type must be a named type")
	}
	id.Type = t
	id.Member = s[dot+1 : end]
	return id, nil
}

// ParseType parses a bare type expression such as System.Int32[] or `0.
func ParseType(s string) (*TypeExpr, error) {
	p := &parser{input: s}
	if err := p.checkBalance(0, len(s)); err != nil {
		return nil, err
	}
	return p.parseType(0, len(s))
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) *Identifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

type parser struct {
	input string
}

func (p *parser) fail(offset int, format string, args ...any) error {
	return &FormatError{Input: p.input, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func closerFor(c byte) byte {
	switch c {
	case '{':
		return '}'
	case '[':
		return ']'
	case '(':
		return ')'
	}
	return 0
}

// checkBalance verifies that every delimiter in [start, end) is closed by
// its own kind in nesting order.
func (p *parser) checkBalance(start, end int) error {
	var stack []int
	for i := start; i < end; i++ {
		switch c := p.input[i]; c {
		case '{', '[', '(':
			stack = append(stack, i)
		case '}', ']', ')':
			if len(stack) == 0 {
				return p.fail(i, "unbalanced %q", c)
			}
			top := stack[len(stack)-1]
			if closerFor(p.input[top]) != c {
				return p.fail(i, "%q does not close %q", c, p.input[top])
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return p.fail(top, "unclosed %q", p.input[top])
	}
	return nil
}

// splitTop returns the positions of sep at nesting depth zero.
func (p *parser) splitTop(start, end int, sep byte) []int {
	var cuts []int
	depth := 0
	for i := start; i < end; i++ {
		switch c := p.input[i]; c {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		default:
			if c == sep && depth == 0 {
				cuts = append(cuts, i)
			}
		}
	}
	return cuts
}

// firstTop returns the first position of any of chars at depth zero, or -1.
func (p *parser) firstTop(start, end int, chars string) int {
	depth := 0
	for i := start; i < end; i++ {
		c := p.input[i]
		if depth == 0 && strings.IndexByte(chars, c) >= 0 {
			return i
		}
		switch c {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		}
	}
	return -1
}

func (p *parser) lastTop(start, end int, sep byte) int {
	cuts := p.splitTop(start, end, sep)
	if len(cuts) == 0 {
		return -1
	}
	return cuts[len(cuts)-1]
}

// opener finds the delimiter matching the closer at index closeAt.
func (p *parser) opener(start, closeAt int) int {
	depth := 0
	for i := closeAt - 1; i >= start; i-- {
		switch p.input[i] {
		case '}', ']', ')':
			depth++
		case '{', '[', '(':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// arityMarker returns the index of a ``N suffix ending at end, or -1.
func arityMarker(s string, start, end int) int {
	i := end
	for i > start && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == end || i-2 < start || s[i-1] != '`' || s[i-2] != '`' {
		return -1
	}
	return i - 2
}

func (p *parser) parseType(start, end int) (*TypeExpr, error) {
	if start >= end {
		return nil, p.fail(start, "empty type")
	}
	switch p.input[end-1] {
	case '@':
		elem, err := p.parseType(start, end-1)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Form: ExprByRef, Element: elem}, nil
	case '*':
		elem, err := p.parseType(start, end-1)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Form: ExprPointer, Element: elem}, nil
	case ']':
		open := p.opener(start, end-1)
		if open < 0 {
			return nil, p.fail(end-1, "unbalanced array rank")
		}
		rank, err := p.parseRank(open+1, end-1)
		if err != nil {
			return nil, err
		}
		elem, err := p.parseType(start, open)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Form: ExprArray, Element: elem, Rank: rank}, nil
	}
	if p.input[start] == '`' {
		return p.parsePlaceholder(start, end)
	}
	return p.parseNamed(start, end)
}

func (p *parser) parseRank(start, end int) (int, error) {
	if start == end {
		return 1, nil
	}
	for i := start; i < end; i++ {
		if c := p.input[i]; c != ',' && c != ':' && (c < '0' || c > '9') {
			return 0, p.fail(i, "unexpected %q in array rank", c)
		}
	}
	return strings.Count(p.input[start:end], ",") + 1, nil
}

func (p *parser) parsePlaceholder(start, end int) (*TypeExpr, error) {
	form, digits := ExprTypeParameter, start+1
	if digits < end && p.input[digits] == '`' {
		form, digits = ExprMethodParameter, digits+1
	}
	if digits == end {
		return nil, p.fail(digits, "missing generic parameter position")
	}
	for i := digits; i < end; i++ {
		if c := p.input[i]; c < '0' || c > '9' {
			return nil, p.fail(i, "unexpected %q in generic parameter position", c)
		}
	}
	n, err := strconv.Atoi(p.input[digits:end])
	if err != nil {
		return nil, p.fail(digits, "invalid generic parameter position")
	}
	return &TypeExpr{Form: form, Position: n}, nil
}

func (p *parser) parseNamed(start, end int) (*TypeExpr, error) {
	expr := &TypeExpr{Form: ExprNamed}
	bounds := append(append([]int{start - 1}, p.splitTop(start, end, '.')...), end)
	for i := 0; i+1 < len(bounds); i++ {
		seg, err := p.parseSegment(bounds[i]+1, bounds[i+1])
		if err != nil {
			return nil, err
		}
		expr.Segments = append(expr.Segments, seg)
	}
	return expr, nil
}

func (p *parser) parseSegment(start, end int) (Segment, error) {
	if start >= end {
		return Segment{}, p.fail(start, "empty path segment")
	}
	brace := strings.IndexByte(p.input[start:end], '{')
	if brace < 0 {
		if err := p.checkName(start, end); err != nil {
			return Segment{}, err
		}
		return Segment{Name: p.input[start:end]}, nil
	}
	brace += start
	if p.input[end-1] != '}' || p.opener(brace, end-1) != brace {
		return Segment{}, p.fail(brace, "generic argument list must end the path segment")
	}
	if err := p.checkName(start, brace); err != nil {
		return Segment{}, err
	}
	if strings.IndexByte(p.input[start:brace], '`') >= 0 {
		return Segment{}, p.fail(start, "constructed segment cannot carry an arity suffix")
	}
	args, err := p.parseList(brace+1, end-1)
	if err != nil {
		return Segment{}, err
	}
	if len(args) == 0 {
		return Segment{}, p.fail(brace, "empty generic argument list")
	}
	return Segment{Name: p.input[start:brace], Arguments: args}, nil
}

// checkName validates a plain name, allowing a single `N arity suffix.
func (p *parser) checkName(start, end int) error {
	if start >= end {
		return p.fail(start, "empty name")
	}
	name := p.input[start:end]
	if i := strings.IndexAny(name, "{}()[],@*~: \t"); i >= 0 {
		return p.fail(start+i, "unexpected %q in name", name[i])
	}
	tick := strings.IndexByte(name, '`')
	if tick < 0 {
		return nil
	}
	if tick == 0 {
		return p.fail(start, "name cannot start with a backtick")
	}
	digits := name[tick+1:]
	if digits == "" {
		return p.fail(start+tick, "missing arity after backtick")
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return p.fail(start+tick+1+i, "unexpected %q in arity", digits[i])
		}
	}
	return nil
}

func (p *parser) parseList(start, end int) ([]*TypeExpr, error) {
	if start == end {
		return nil, nil
	}
	bounds := append(append([]int{start - 1}, p.splitTop(start, end, ',')...), end)
	list := make([]*TypeExpr, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		t, err := p.parseType(bounds[i]+1, bounds[i+1])
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}
