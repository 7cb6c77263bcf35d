package mt

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func registerStrings(r *Registry) {
	str := TagsOf(TagString)
	r.Register(&Descriptor{
		Name:   "concat",
		Params: []Param{rest(TagsAny)},
		Result: ResultFixed(TagString),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			var b strings.Builder
			for _, arg := range args {
				b.WriteString(arg.String())
			}
			return NewString(b.String()), nil
		},
	})
	// join and split take the separator first so a piped list or string
	// lands in the second slot.
	r.Register(&Descriptor{
		Name:     "join",
		Params:   []Param{req(str), req(TagsOf(TagList))},
		PipeSlot: 1,
		Result:   ResultFixed(TagString),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			items := args[1].List()
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = item.String()
			}
			return NewString(strings.Join(parts, args[0].Str())), nil
		},
	})
	r.Register(&Descriptor{
		Name:     "split",
		Params:   []Param{req(str), req(str)},
		PipeSlot: 1,
		Result:   ResultFixed(TagList),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			parts := strings.Split(args[1].Str(), args[0].Str())
			out := make([]Value, len(parts))
			for i, part := range parts {
				out[i] = NewString(part)
			}
			return NewList(out), nil
		},
	})

	transform := func(name string, fn func(string) string) {
		r.Register(&Descriptor{
			Name:   name,
			Params: []Param{req(str)},
			Result: ResultFixed(TagString),
			Fn: func(_ *Execution, args []Value) (Value, error) {
				return NewString(fn(args[0].Str())), nil
			},
		})
	}
	// Casers carry state and are not shared across thread programs.
	transform("upper", func(s string) string { return cases.Upper(language.Und).String(s) })
	transform("lower", func(s string) string { return cases.Lower(language.Und).String(s) })
	transform("trim", strings.TrimSpace)
}
