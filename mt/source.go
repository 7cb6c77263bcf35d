package mt

import "strings"

// StripComments removes `// line` and `/* block */` comments that are not
// inside string literals. Line comments keep their newline so blank-line
// program boundaries survive.
func StripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	depth := 0
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], stringOpen):
			depth++
			b.WriteString(stringOpen)
			i += len(stringOpen)
		case depth > 0 && strings.HasPrefix(src[i:], stringClose):
			depth--
			b.WriteString(stringClose)
			i += len(stringClose)
		case depth == 0 && strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end
		case depth == 0 && strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += 2 + end + 2
		default:
			b.WriteByte(src[i])
			i++
		}
	}
	return b.String()
}

// SplitPrograms cuts comment-free source into thread program bodies at blank
// lines. Blank lines inside a multi-line <<...>> literal belong to the
// literal. Empty units are dropped.
func SplitPrograms(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	var (
		units   []string
		current []string
		depth   int
	)
	flush := func() {
		body := strings.TrimSpace(strings.Join(current, "\n"))
		if body != "" {
			units = append(units, body)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(src, "\n") {
		if depth == 0 && strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		depth = literalDepth(line, depth)
		current = append(current, line)
	}
	flush()
	return units
}

// literalDepth returns the <<...>> nesting after scanning line from depth.
func literalDepth(line string, depth int) int {
	for i := 0; i < len(line); {
		switch {
		case strings.HasPrefix(line[i:], stringOpen):
			depth++
			i += len(stringOpen)
		case depth > 0 && strings.HasPrefix(line[i:], stringClose):
			depth--
			i += len(stringClose)
		default:
			i++
		}
	}
	return depth
}
