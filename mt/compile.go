package mt

import "strings"

const (
	pipeSeparator  = '@'
	resetSeparator = ';'
	declareKeyword = "var"
)

type statement struct {
	tokens []string
	// source is the statement text with placeholders; Extracted.Inline
	// restores it for error frames.
	source string
	// reset marks a statement that follows ';' and starts without input.
	reset bool
}

// pipeline is a compiled statement sequence plus the side tables its
// placeholders index into. Pipelines are immutable once compiled and may be
// shared between thread programs.
type pipeline struct {
	ext   *Extracted
	stmts []statement
}

func compilePipeline(source string) (*pipeline, error) {
	ext, err := Extract(ResolveShorthands(source))
	if err != nil {
		return nil, err
	}
	p := &pipeline{ext: ext}
	text := ext.Text
	start := 0
	pendingReset := false
	emit := func(end int) {
		raw := strings.TrimSpace(text[start:end])
		if raw == "" {
			return
		}
		p.stmts = append(p.stmts, statement{tokens: strings.Fields(raw), source: raw, reset: pendingReset})
		pendingReset = false
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case pipeSeparator:
			emit(i)
			start = i + 1
		case resetSeparator:
			emit(i)
			start = i + 1
			pendingReset = true
		}
	}
	emit(len(text))
	return p, nil
}

// check compiles every nested sub-expression and block so syntax errors
// surface without running anything.
func (p *pipeline) check(compile func(string) (*pipeline, error)) error {
	groups := make([]Group, 0, len(p.ext.Subs)+len(p.ext.Blocks))
	groups = append(groups, p.ext.Subs...)
	groups = append(groups, p.ext.Blocks...)
	for _, g := range groups {
		nested, err := compile(g.Source)
		if err != nil {
			return annotate(err, g.Source)
		}
		if err := nested.check(compile); err != nil {
			return annotate(err, g.Source)
		}
	}
	return nil
}
