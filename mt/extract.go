package mt

import (
	"strconv"
	"strings"
)

const (
	stringOpen  = "<<"
	stringClose = ">>"
)

type groupKind int

const (
	groupSub groupKind = iota
	groupBlock
	groupString
	groupCapture
)

func (k groupKind) opener() string {
	switch k {
	case groupSub:
		return "("
	case groupBlock:
		return "{"
	case groupCapture:
		return "["
	default:
		return stringOpen
	}
}

func (k groupKind) closer() string {
	switch k {
	case groupSub:
		return ")"
	case groupBlock:
		return "}"
	case groupCapture:
		return "]"
	default:
		return stringClose
	}
}

// Capture is one entry of a [...] capture list: the enclosing variable Outer
// is visible inside the group as Inner.
type Capture struct {
	Outer string
	Inner string
}

// Group is one extracted (...) sub-expression or {...} block.
type Group struct {
	Source    string
	Captures  []Capture
	Annotated bool
	// annotation is the raw capture list text including the whitespace
	// before the opener, kept so Inline reproduces the input.
	annotation string
}

// Extracted is resolved source with every top-level nested construct replaced
// by a numbered placeholder: (N) for Subs, {N} for Blocks, <<N>> for Strings.
type Extracted struct {
	Text    string
	Subs    []Group
	Blocks  []Group
	Strings []string
}

type openGroup struct {
	kind  groupKind
	start int
}

type extractor struct {
	src string
	ext *Extracted
	out []byte

	stack []groupKind
	top   openGroup

	pending *Group

	// Recovery point: where the outermost unresolved group began in src and
	// how much output had been produced at that moment.
	restartAt  int
	restartOut int
	restartLen int
}

// Extract scans src once, moving every top-level (...), {...} and <<...>>
// construct into its side table. Nested constructs are captured whole and
// are extracted only when their own fragment is processed. Unterminated
// groups are recovered by treating their opener as plain text.
func Extract(src string) (*Extracted, error) {
	x := &extractor{src: src, ext: &Extracted{}}
	pos := 0
	for {
		done, err := x.scan(pos)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		x.out = x.out[:x.restartOut]
		x.out = append(x.out, src[x.restartAt:x.restartAt+x.restartLen]...)
		pos = x.restartAt + x.restartLen
		x.stack = x.stack[:0]
		x.pending = nil
	}
	x.ext.Text = strings.TrimSpace(string(x.out))
	return x.ext, nil
}

// scan runs from pos to the end of input and reports whether every opened
// group was closed.
func (x *extractor) scan(pos int) (bool, error) {
	src := x.src
	for i := pos; i < len(src); {
		if n := len(x.stack); n > 0 && x.stack[n-1] == groupString {
			switch {
			case strings.HasPrefix(src[i:], stringOpen):
				x.stack = append(x.stack, groupString)
				i += len(stringOpen)
			case strings.HasPrefix(src[i:], stringClose):
				next, err := x.close(i, len(stringClose))
				if err != nil {
					return false, err
				}
				i = next
			default:
				i++
			}
			continue
		}

		kind, width, isOpener := openerAt(src, i)
		if isOpener {
			x.open(kind, i, width)
			i += width
			continue
		}
		if kind, width, ok := closerAt(src, i); ok && len(x.stack) > 0 && x.stack[len(x.stack)-1] == kind {
			next, err := x.close(i, width)
			if err != nil {
				return false, err
			}
			i = next
			continue
		}
		if len(x.stack) == 0 {
			x.out = append(x.out, src[i])
		}
		i++
	}
	return len(x.stack) == 0, nil
}

func (x *extractor) open(kind groupKind, at, width int) {
	if len(x.stack) == 0 {
		x.top = openGroup{kind: kind, start: at + width}
		if x.pending == nil {
			x.restartAt, x.restartOut, x.restartLen = at, len(x.out), width
		}
	}
	x.stack = append(x.stack, kind)
}

// close pops the innermost group at src[at:at+width] and, when that returns
// depth to zero, records the finished top-level group. It returns the index
// scanning resumes from.
func (x *extractor) close(at, width int) (int, error) {
	x.stack = x.stack[:len(x.stack)-1]
	next := at + width
	if len(x.stack) > 0 {
		return next, nil
	}
	content := x.src[x.top.start:at]
	switch x.top.kind {
	case groupString:
		x.ext.Strings = append(x.ext.Strings, content)
		x.writePlaceholder(groupString, len(x.ext.Strings)-1)
	case groupCapture:
		captures, err := parseCaptures(content)
		if err != nil {
			return 0, err
		}
		j := next
		for j < len(x.src) && isSpace(x.src[j]) {
			j++
		}
		if j >= len(x.src) || (x.src[j] != '(' && x.src[j] != '{') {
			return 0, errorf(SyntaxError, "capture list [%s] must be followed by ( or {", content)
		}
		x.pending = &Group{
			Captures:   captures,
			Annotated:  true,
			annotation: x.src[x.top.start-1 : j],
		}
		return j, nil
	default:
		group := Group{Source: content}
		if x.pending != nil {
			group.Captures = x.pending.Captures
			group.Annotated = true
			group.annotation = x.pending.annotation
			x.pending = nil
		}
		if x.top.kind == groupSub {
			x.ext.Subs = append(x.ext.Subs, group)
			x.writePlaceholder(groupSub, len(x.ext.Subs)-1)
		} else {
			x.ext.Blocks = append(x.ext.Blocks, group)
			x.writePlaceholder(groupBlock, len(x.ext.Blocks)-1)
		}
	}
	return next, nil
}

func (x *extractor) writePlaceholder(kind groupKind, index int) {
	x.out = append(x.out, kind.opener()...)
	x.out = strconv.AppendInt(x.out, int64(index), 10)
	x.out = append(x.out, kind.closer()...)
}

func openerAt(src string, i int) (groupKind, int, bool) {
	switch {
	case strings.HasPrefix(src[i:], stringOpen):
		return groupString, len(stringOpen), true
	case src[i] == '(':
		return groupSub, 1, true
	case src[i] == '{':
		return groupBlock, 1, true
	case src[i] == '[':
		return groupCapture, 1, true
	}
	return 0, 0, false
}

func closerAt(src string, i int) (groupKind, int, bool) {
	switch src[i] {
	case ')':
		return groupSub, 1, true
	case '}':
		return groupBlock, 1, true
	case ']':
		return groupCapture, 1, true
	}
	return 0, 0, false
}

func parseCaptures(content string) ([]Capture, error) {
	fields := strings.Fields(content)
	captures := make([]Capture, 0, len(fields))
	for _, field := range fields {
		outer, inner, aliased := strings.Cut(field, ":")
		if !aliased {
			inner = outer
		}
		if !isIdentifier(outer) || !isIdentifier(inner) {
			return nil, errorf(SyntaxError, "invalid capture %q", field)
		}
		captures = append(captures, Capture{Outer: outer, Inner: inner})
	}
	return captures, nil
}

// Inline substitutes every placeholder in text with the construct it stands
// for, reproducing the source the placeholders were extracted from.
func (e *Extracted) Inline(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); {
		kind, width, ok := openerAt(text, i)
		if ok && kind != groupCapture {
			if index, end, found := placeholderAt(text, i+width, kind); found {
				if s, ok := e.expand(kind, index); ok {
					b.WriteString(s)
					i = end
					continue
				}
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func (e *Extracted) expand(kind groupKind, index int) (string, bool) {
	switch kind {
	case groupString:
		if index < len(e.Strings) {
			return stringOpen + e.Strings[index] + stringClose, true
		}
	case groupSub:
		if index < len(e.Subs) {
			g := e.Subs[index]
			return g.annotation + "(" + g.Source + ")", true
		}
	case groupBlock:
		if index < len(e.Blocks) {
			g := e.Blocks[index]
			return g.annotation + "{" + g.Source + "}", true
		}
	}
	return "", false
}

// placeholderAt reads the decimal index and closer of a placeholder whose
// digits begin at i. It returns the index and the offset just past the closer.
func placeholderAt(text string, i int, kind groupKind) (int, int, bool) {
	j := i
	for j < len(text) && text[j] >= '0' && text[j] <= '9' {
		j++
	}
	if j == i || !strings.HasPrefix(text[j:], kind.closer()) {
		return 0, 0, false
	}
	index, err := strconv.Atoi(text[i:j])
	if err != nil {
		return 0, 0, false
	}
	return index, j + len(kind.closer()), true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
