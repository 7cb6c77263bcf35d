package mt

// registerBuiltins installs the native library into r.
func registerBuiltins(r *Registry) {
	registerNumeric(r)
	registerComparison(r)
	registerControl(r)
	registerCollections(r)
	registerStrings(r)
	registerHost(r)
	registerData(r)

	r.Register(&Descriptor{
		Name:   "to",
		Params: []Param{req(TagsAny), req(TagsOf(TagString, TagLambda))},
		Result: ResultRaw,
		Fn:     builtinTo,
	})
	r.Register(&Descriptor{
		Name:   "type",
		Params: []Param{req(TagsAny)},
		Result: ResultFixed(TagString),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			return NewString(args[0].tag.String()), nil
		},
	})
}

func builtinTo(_ *Execution, args []Value) (Value, error) {
	return ConvertTo(args[0], targetName(args[1]))
}

// targetName reads a bare name argument. Names that are also function names,
// such as list, map or json, resolve to lambdas and are matched by name.
func targetName(v Value) string {
	if desc := v.Lambda(); desc != nil {
		return desc.Name
	}
	return v.Str()
}

func registerComparison(r *Registry) {
	ordered := TagsOf(TagInt, TagFloat, TagString)
	compare := func(name string, accept func(int) bool) {
		r.Register(&Descriptor{
			Name:   name,
			Params: []Param{req(ordered), req(ordered)},
			Result: ResultFixed(TagBool),
			Curry:  true,
			Fn: func(_ *Execution, args []Value) (Value, error) {
				c, err := compareValues(name, args[0], args[1])
				if err != nil {
					return NewNull(), err
				}
				return NewBool(accept(c)), nil
			},
		})
	}
	compare("greater", func(c int) bool { return c > 0 })
	compare("less", func(c int) bool { return c < 0 })
	compare("greaterEqual", func(c int) bool { return c >= 0 })
	compare("lessEqual", func(c int) bool { return c <= 0 })

	r.Register(&Descriptor{
		Name:   "equal",
		Params: []Param{req(TagsAny), req(TagsAny)},
		Result: ResultFixed(TagBool),
		Curry:  true,
		Fn: func(_ *Execution, args []Value) (Value, error) {
			return NewBool(args[0].Equal(args[1])), nil
		},
	})
	r.Register(&Descriptor{
		Name:   "notEqual",
		Params: []Param{req(TagsAny), req(TagsAny)},
		Result: ResultFixed(TagBool),
		Curry:  true,
		Fn: func(_ *Execution, args []Value) (Value, error) {
			return NewBool(!args[0].Equal(args[1])), nil
		},
	})

	boolean := TagsOf(TagBool)
	r.Register(&Descriptor{
		Name:   "and",
		Params: []Param{req(boolean), req(boolean)},
		Result: ResultFixed(TagBool),
		Curry:  true,
		Fn: func(_ *Execution, args []Value) (Value, error) {
			return NewBool(args[0].Bool() && args[1].Bool()), nil
		},
	})
	r.Register(&Descriptor{
		Name:   "or",
		Params: []Param{req(boolean), req(boolean)},
		Result: ResultFixed(TagBool),
		Curry:  true,
		Fn: func(_ *Execution, args []Value) (Value, error) {
			return NewBool(args[0].Bool() || args[1].Bool()), nil
		},
	})
	r.Register(&Descriptor{
		Name:   "not",
		Params: []Param{req(boolean)},
		Result: ResultFixed(TagBool),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			return NewBool(!args[0].Bool()), nil
		},
	})
}

// compareValues orders two numbers or two strings. Mixing a number with a
// string is a TypeError; nothing is coerced.
func compareValues(name string, a, b Value) (int, error) {
	if a.tag == TagString || b.tag == TagString {
		if a.tag != b.tag {
			return 0, errorf(TypeError, "%s: cannot compare %s %s with %s %s", name, a.tag, quoteValue(a), b.tag, quoteValue(b))
		}
		switch {
		case a.Str() < b.Str():
			return -1, nil
		case a.Str() > b.Str():
			return 1, nil
		}
		return 0, nil
	}
	if a.tag == TagInt && b.tag == TagInt {
		switch {
		case a.Int() < b.Int():
			return -1, nil
		case a.Int() > b.Int():
			return 1, nil
		}
		return 0, nil
	}
	x, y := a.Float(), b.Float()
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}
