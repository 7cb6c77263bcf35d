package mt

func registerControl(r *Registry) {
	block := TagsOf(TagLambda)
	r.Register(&Descriptor{
		Name:   "if",
		Params: []Param{req(TagsOf(TagBool)), req(block), opt(block)},
		Result: ResultRaw,
		Fn:     builtinIf,
	})
	r.Register(&Descriptor{
		Name:   "while",
		Params: []Param{req(TagsAny), req(block), req(block)},
		Result: ResultRaw,
		Fn:     builtinWhile,
	})
}

// builtinIf invokes exactly one branch without input. A false condition with
// no else branch yields Null.
func builtinIf(exec *Execution, args []Value) (Value, error) {
	if args[0].Bool() {
		return exec.Invoke(args[1])
	}
	if len(args) > 2 {
		return exec.Invoke(args[2])
	}
	return NewNull(), nil
}

// builtinWhile threads state through cond and body until cond yields false.
func builtinWhile(exec *Execution, args []Value) (Value, error) {
	state, cond, body := args[0], args[1], args[2]
	for iterations := 0; ; iterations++ {
		ok, err := exec.Invoke(cond, state)
		if err != nil {
			return NewNull(), err
		}
		if ok.tag != TagBool {
			return NewNull(), errorf(TypeError, "while: condition must yield bool, got %s %s", ok.tag, quoteValue(ok))
		}
		if !ok.Bool() {
			return state, nil
		}
		if iterations >= exec.loopLimit {
			return NewNull(), errorf(InfiniteLoop, "while: loop exceeded %d iterations", exec.loopLimit)
		}
		if state, err = exec.Invoke(body, state); err != nil {
			return NewNull(), err
		}
	}
}
