package mt

import (
	"context"
	"strings"
)

// Execution carries the state of one running thread program.
type Execution struct {
	engine       *Engine
	ctx          context.Context
	program      ThreadProgram
	loopLimit    int
	recursionCap int
	depth        int
}

func (e *Engine) newExecution(ctx context.Context, program ThreadProgram) *Execution {
	return &Execution{
		engine:       e,
		ctx:          ctx,
		program:      program,
		loopLimit:    e.config.LoopLimit,
		recursionCap: e.config.RecursionLimit,
	}
}

// Context returns the context the program runs under.
func (exec *Execution) Context() context.Context { return exec.ctx }

// Program returns the thread program being executed.
func (exec *Execution) Program() ThreadProgram { return exec.program }

// Invoke calls a lambda value with args, re-entering dispatch.
func (exec *Execution) Invoke(fn Value, args ...Value) (Value, error) {
	desc := fn.Lambda()
	if desc == nil {
		return NewNull(), errorf(TypeError, "cannot invoke %s %s", fn.tag, quoteValue(fn))
	}
	return exec.dispatch(desc, args, nil)
}

// runPipeline evaluates statements in order. '@' feeds each result into the
// next statement; ';' starts the next statement without input. The first
// failure stops the pipeline and is annotated with the failing statement.
func (exec *Execution) runPipeline(p *pipeline, env *Env, input *Value) (Value, error) {
	exec.depth++
	defer func() { exec.depth-- }()
	if exec.recursionCap > 0 && exec.depth > exec.recursionCap {
		return NewNull(), errorf(RecursionError, "nesting depth exceeded (limit %d)", exec.recursionCap)
	}

	current := NewNull()
	hasInput := input != nil
	if hasInput {
		current = *input
	}
	for _, st := range p.stmts {
		if err := exec.ctx.Err(); err != nil {
			return NewNull(), annotate(wrapError(RuntimeError, err, "program interrupted"), p.ext.Inline(st.source))
		}
		if st.reset {
			hasInput = false
		}
		var in *Value
		if hasInput {
			v := current
			in = &v
		}
		result, err := exec.evalStatement(p, st, env, in)
		if err != nil {
			return NewNull(), annotate(err, p.ext.Inline(st.source))
		}
		current, hasInput = result, true
	}
	return current, nil
}

// evalStatement resolves the head and arguments left to right, then calls
// the head when it is callable or yields it as the statement's value.
func (exec *Execution) evalStatement(p *pipeline, st statement, env *Env, input *Value) (Value, error) {
	values := make([]Value, 0, len(st.tokens))
	for i := 0; i < len(st.tokens); i++ {
		tok := st.tokens[i]
		if tok == declareKeyword && i+1 < len(st.tokens) {
			name := st.tokens[i+1]
			if !isIdentifier(name) {
				return NewNull(), errorf(SyntaxError, "invalid variable name %q", name)
			}
			values = append(values, NewLambda(assigner(name, env.Declare(name))))
			i++
			continue
		}
		v, err := exec.resolveToken(p, tok, env)
		if err != nil {
			return NewNull(), err
		}
		values = append(values, v)
	}

	head, args := values[0], values[1:]
	if desc := head.Lambda(); desc != nil {
		return exec.dispatch(desc, args, input)
	}
	if len(args) > 0 {
		if head.tag == TagString && isIdentifier(st.tokens[0]) {
			return NewNull(), errorf(UndefinedFunction, "undefined function %s", st.tokens[0])
		}
		return NewNull(), errorf(DefinitionError, "%s %s is not callable but was given arguments %s", head.tag, quoteValue(head), formatArgs(args))
	}
	return head, nil
}

func (exec *Execution) resolveToken(p *pipeline, tok string, env *Env) (Value, error) {
	if kind, width, ok := openerAt(tok, 0); ok && kind != groupCapture {
		if index, end, found := placeholderAt(tok, width, kind); found && end == len(tok) {
			return exec.resolvePlaceholder(p, kind, index, env)
		}
	}
	switch {
	case strings.HasPrefix(tok, "=$") && isIdentifier(tok[2:]):
		name := tok[2:]
		cell, ok := env.Lookup(name)
		if !ok {
			cell = env.Declare(name)
		}
		return NewLambda(assigner(name, cell)), nil
	case strings.HasPrefix(tok, "$") && isIdentifier(tok[1:]):
		return env.Get(tok[1:])
	}
	if desc, ok := exec.engine.registry.Lookup(tok); ok {
		return NewLambda(desc), nil
	}
	return ParseLiteral(tok), nil
}

// resolvePlaceholder evaluates sub-expressions immediately in a derived
// scope, turns blocks into closures without running them, and returns
// string literals verbatim.
func (exec *Execution) resolvePlaceholder(p *pipeline, kind groupKind, index int, env *Env) (Value, error) {
	switch kind {
	case groupString:
		if index < len(p.ext.Strings) {
			return NewString(p.ext.Strings[index]), nil
		}
	case groupSub:
		if index < len(p.ext.Subs) {
			g := p.ext.Subs[index]
			scope, err := env.derive(g)
			if err != nil {
				return NewNull(), err
			}
			sub, err := exec.engine.compile(g.Source)
			if err != nil {
				return NewNull(), err
			}
			return exec.runPipeline(sub, scope, nil)
		}
	case groupBlock:
		if index < len(p.ext.Blocks) {
			c, err := newClosure(p.ext.Blocks[index], env)
			if err != nil {
				return NewNull(), err
			}
			return NewLambda(c.desc), nil
		}
	}
	return NewNull(), errorf(SyntaxError, "dangling placeholder %s%d%s", kind.opener(), index, kind.closer())
}
