package mt

import (
	"slices"
	"strings"
)

// dispatch weaves the piped input into args at the descriptor's pipe slot,
// validates arity and argument tags, invokes the function and tags its result.
func (exec *Execution) dispatch(desc *Descriptor, args []Value, input *Value) (Value, error) {
	if input != nil {
		slot := min(desc.PipeSlot, len(args))
		args = slices.Insert(slices.Clone(args), slot, *input)
	}
	if desc.Curry && len(args) < desc.MinArity() {
		if err := desc.checkTypes(args); err != nil {
			return NewNull(), err
		}
		return NewLambda(newPartial(desc, args)), nil
	}
	if err := desc.checkArity(args); err != nil {
		return NewNull(), err
	}
	if err := desc.checkTypes(args); err != nil {
		return NewNull(), err
	}
	raw, err := desc.Fn(exec, args)
	if err != nil {
		return NewNull(), err
	}
	return desc.Result.apply(raw, args)
}

func (d *Descriptor) checkArity(args []Value) error {
	minArgs, maxArgs := d.MinArity(), d.MaxArity()
	if len(args) >= minArgs && (maxArgs < 0 || len(args) <= maxArgs) {
		return nil
	}
	var bounds string
	switch {
	case maxArgs < 0:
		bounds = "at least " + itoa(minArgs)
	case minArgs == maxArgs:
		bounds = itoa(minArgs)
	default:
		bounds = itoa(minArgs) + " to " + itoa(maxArgs)
	}
	return errorf(ArityError, "%s expects %s arguments, got %d: %s", d.Name, bounds, len(args), formatArgs(args))
}

func (d *Descriptor) checkTypes(args []Value) error {
	for i, arg := range args {
		p, ok := d.paramAt(i)
		if !ok {
			return nil
		}
		if !p.Tags.Has(arg.tag) {
			return errorf(TypeError, "%s: argument %d expects %s, got %s %s", d.Name, i+d.bound, p.Tags, arg.tag, quoteValue(arg))
		}
	}
	return nil
}

func (r ResultPolicy) apply(raw Value, args []Value) (Value, error) {
	switch r.mode {
	case resultFixed:
		return Convert(raw, r.tag)
	case resultFromFirst:
		if len(args) > 0 {
			return Convert(raw, args[0].tag)
		}
	}
	return raw, nil
}

// newPartial captures prefix as the leading arguments of base. The partial
// is itself curried, so applications compose until base's arity is met.
func newPartial(base *Descriptor, prefix []Value) *Descriptor {
	bound := slices.Clone(prefix)
	var params []Param
	switch {
	case len(bound) < len(base.Params):
		params = base.Params[len(bound):]
	case base.MaxArity() < 0:
		params = base.Params[len(base.Params)-1:]
	}
	return &Descriptor{
		Name:     base.Name,
		Params:   params,
		PipeSlot: max(base.PipeSlot-len(bound), 0),
		Result:   ResultRaw,
		Curry:    true,
		bound:    base.bound + len(bound),
		Fn: func(exec *Execution, args []Value) (Value, error) {
			full := append(slices.Clone(bound), args...)
			return exec.dispatch(base, full, nil)
		},
	}
}

func formatArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = quoteValue(arg)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
