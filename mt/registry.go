package mt

import (
	"fmt"
	"slices"
	"strings"
)

// NativeFunc implements a registered function. args have already been
// checked against the descriptor's parameters.
type NativeFunc func(exec *Execution, args []Value) (Value, error)

// Param constrains one argument slot.
type Param struct {
	Tags     TagSet
	Optional bool
	Variadic bool
}

func (p Param) String() string {
	s := p.Tags.String()
	switch {
	case p.Variadic:
		s += "..."
	case p.Optional:
		s += "?"
	}
	return s
}

func req(tags TagSet) Param  { return Param{Tags: tags} }
func opt(tags TagSet) Param  { return Param{Tags: tags, Optional: true} }
func rest(tags TagSet) Param { return Param{Tags: tags, Optional: true, Variadic: true} }

type resultMode int

const (
	resultRaw resultMode = iota
	resultFixed
	resultFromFirst
)

// ResultPolicy decides how a function's raw result is tagged.
type ResultPolicy struct {
	mode resultMode
	tag  Tag
}

var (
	// ResultRaw passes the raw result through unchanged.
	ResultRaw = ResultPolicy{mode: resultRaw}
	// ResultFromFirst converts the result to the first argument's tag.
	ResultFromFirst = ResultPolicy{mode: resultFromFirst}
)

// ResultFixed converts every result to tag.
func ResultFixed(tag Tag) ResultPolicy {
	return ResultPolicy{mode: resultFixed, tag: tag}
}

func (r ResultPolicy) String() string {
	switch r.mode {
	case resultFixed:
		return r.tag.String()
	case resultFromFirst:
		return "first"
	default:
		return "raw"
	}
}

// Descriptor describes one callable: a native function, a partial
// application of one, or a compiled block.
type Descriptor struct {
	Name     string
	Params   []Param
	PipeSlot int
	Result   ResultPolicy
	Curry    bool
	Fn       NativeFunc

	// bound is how many leading arguments a partial application has already
	// fixed; it offsets slot numbers in error messages.
	bound int
}

// MinArity is the number of required parameters.
func (d *Descriptor) MinArity() int {
	n := 0
	for _, p := range d.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// MaxArity is the parameter count, or -1 when the last parameter is variadic.
func (d *Descriptor) MaxArity() int {
	if n := len(d.Params); n > 0 && d.Params[n-1].Variadic {
		return -1
	}
	return len(d.Params)
}

// Signature renders the parameter list, e.g. "(int|float, int|float)".
func (d *Descriptor) Signature() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (d *Descriptor) paramAt(slot int) (Param, bool) {
	if slot < len(d.Params) {
		return d.Params[slot], true
	}
	if n := len(d.Params); n > 0 && d.Params[n-1].Variadic {
		return d.Params[n-1], true
	}
	return Param{}, false
}

// Registry is the closed table of named native functions.
type Registry struct {
	funcs map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]*Descriptor)}
}

// Register adds desc. Registering a name twice or a malformed parameter list
// is a programming error and panics.
func (r *Registry) Register(desc *Descriptor) {
	if _, exists := r.funcs[desc.Name]; exists {
		panic(fmt.Sprintf("mt: function %s registered twice", desc.Name))
	}
	seenOptional := false
	for i, p := range desc.Params {
		if p.Variadic && i != len(desc.Params)-1 {
			panic(fmt.Sprintf("mt: %s: only the last parameter may be variadic", desc.Name))
		}
		if seenOptional && !p.Optional {
			panic(fmt.Sprintf("mt: %s: required parameter after optional", desc.Name))
		}
		seenOptional = seenOptional || p.Optional
	}
	r.funcs[desc.Name] = desc
}

func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	desc, ok := r.funcs[name]
	return desc, ok
}

// Descriptors returns every registered function sorted by name.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.funcs))
	for _, desc := range r.funcs {
		out = append(out, desc)
	}
	slices.SortFunc(out, func(a, b *Descriptor) int { return strings.Compare(a.Name, b.Name) })
	return out
}
