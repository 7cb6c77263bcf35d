package mt

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	selfName       = "self"
	argsName       = "args"
	blockNameLimit = 24
)

// Closure is a deferred block bound to the scope it was created in. The
// block body is compiled the first time the closure runs.
type Closure struct {
	source   string
	env      *Env
	compiled *pipeline
	desc     *Descriptor
}

// newClosure derives the block's scope from env per its capture list and
// binds self so the block can recurse.
func newClosure(g Group, env *Env) (*Closure, error) {
	scope, err := env.derive(g)
	if err != nil {
		return nil, err
	}
	c := &Closure{source: g.Source, env: scope}
	c.desc = &Descriptor{
		Name:   blockName(g.Source),
		Params: []Param{rest(TagsAny)},
		Result: ResultRaw,
		Fn:     c.call,
	}
	scope.Define(selfName, NewLambda(c.desc))
	return c, nil
}

// call runs the block in a fresh scope per invocation. The first argument is
// the block's piped input; all arguments are bound to args.
func (c *Closure) call(exec *Execution, args []Value) (Value, error) {
	if c.compiled == nil {
		p, err := exec.engine.compile(c.source)
		if err != nil {
			return NewNull(), err
		}
		c.compiled = p
	}
	env := c.env.Snapshot()
	env.Define(argsName, NewList(slices.Clone(args)))
	var input *Value
	if len(args) > 0 {
		input = &args[0]
	}
	return exec.runPipeline(c.compiled, env, input)
}

func blockName(source string) string {
	body := strings.Join(strings.Fields(source), " ")
	if len(body) > blockNameLimit {
		body = body[:blockNameLimit] + "..."
	}
	return "{" + body + "}"
}

// assigner writes cell when called with a value and yields that value.
// Called with nothing it leaves the cell as declared.
func assigner(name string, cell *Cell) *Descriptor {
	return &Descriptor{
		Name:   "=$" + name,
		Params: []Param{opt(TagsAny)},
		Result: ResultRaw,
		Fn: func(_ *Execution, args []Value) (Value, error) {
			if len(args) == 0 {
				return NewNull(), nil
			}
			cell.Set(args[0])
			return args[0], nil
		},
	}
}

// regexMatcher returns every match of re in its string input.
func regexMatcher(re *regexp.Regexp) *Descriptor {
	return &Descriptor{
		Name:   "regex " + strconv.Quote(re.String()),
		Params: []Param{req(TagsOf(TagString))},
		Result: ResultFixed(TagList),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			matches := re.FindAllString(args[0].Str(), -1)
			out := make([]Value, len(matches))
			for i, m := range matches {
				out[i] = NewString(m)
			}
			return NewList(out), nil
		},
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
