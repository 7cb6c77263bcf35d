package mt

import (
	"maps"
	"slices"
	"unicode/utf8"
)

func registerCollections(r *Registry) {
	list := TagsOf(TagList)
	lambda := TagsOf(TagLambda)
	integer := TagsOf(TagInt)
	indexable := TagsOf(TagList, TagMap, TagString)

	r.Register(&Descriptor{
		Name:   "list",
		Params: []Param{rest(TagsAny)},
		Result: ResultFixed(TagList),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			return NewList(slices.Clone(args)), nil
		},
	})
	r.Register(&Descriptor{
		Name:   "dict",
		Params: []Param{rest(TagsAny)},
		Result: ResultFixed(TagMap),
		Fn:     builtinDict,
	})
	r.Register(&Descriptor{
		Name:   "append",
		Params: []Param{req(list), rest(TagsAny)},
		Result: ResultFixed(TagList),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			items := slices.Clone(args[0].List())
			return NewList(append(items, args[1:]...)), nil
		},
	})
	r.Register(&Descriptor{
		Name:   "put",
		Params: []Param{req(TagsOf(TagList, TagMap)), req(TagsOf(TagInt, TagString)), req(TagsAny)},
		Result: ResultFromFirst,
		Fn:     builtinPut,
	})
	r.Register(&Descriptor{
		Name:   "keys",
		Params: []Param{req(TagsOf(TagMap))},
		Result: ResultFixed(TagList),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			keys := sortedKeys(args[0].Map())
			out := make([]Value, len(keys))
			for i, k := range keys {
				out[i] = NewString(k)
			}
			return NewList(out), nil
		},
	})
	r.Register(&Descriptor{
		Name:   "values",
		Params: []Param{req(TagsOf(TagMap))},
		Result: ResultFixed(TagList),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			entries := args[0].Map()
			keys := sortedKeys(entries)
			out := make([]Value, len(keys))
			for i, k := range keys {
				out[i] = entries[k]
			}
			return NewList(out), nil
		},
	})
	r.Register(&Descriptor{
		Name:   "range",
		Params: []Param{req(integer), opt(integer), opt(integer)},
		Result: ResultFixed(TagList),
		Fn:     builtinRange,
	})

	r.Register(&Descriptor{
		Name:   "index",
		Params: []Param{req(indexable), req(TagsOf(TagInt, TagString))},
		Result: ResultRaw,
		Fn:     builtinIndex,
	})
	r.Register(&Descriptor{
		Name:   "slice",
		Params: []Param{req(TagsOf(TagList, TagString)), req(integer), opt(integer)},
		Result: ResultFromFirst,
		Fn:     builtinSlice,
	})
	r.Register(&Descriptor{
		Name:   "length",
		Params: []Param{req(indexable)},
		Result: ResultFixed(TagInt),
		Fn: func(_ *Execution, args []Value) (Value, error) {
			v := args[0]
			switch v.tag {
			case TagList:
				return NewInt(int64(len(v.List()))), nil
			case TagMap:
				return NewInt(int64(len(v.Map()))), nil
			}
			return NewInt(int64(utf8.RuneCountInString(v.Str()))), nil
		},
	})

	r.Register(&Descriptor{
		Name:   "map",
		Params: []Param{req(list), req(lambda)},
		Result: ResultFixed(TagList),
		Fn:     builtinMap,
	})
	r.Register(&Descriptor{
		Name:   "filter",
		Params: []Param{req(list), req(lambda)},
		Result: ResultFixed(TagList),
		Fn:     builtinFilter,
	})
	r.Register(&Descriptor{
		Name:   "reduce",
		Params: []Param{req(list), req(lambda), req(TagsAny)},
		Result: ResultRaw,
		Fn:     builtinReduce,
	})
}

func builtinDict(_ *Execution, args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return NewNull(), errorf(ArityError, "dict expects key value pairs, got %d arguments: %s", len(args), formatArgs(args))
	}
	out := make(map[string]Value, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		out[args[i].String()] = args[i+1]
	}
	return NewMap(out), nil
}

func builtinPut(_ *Execution, args []Value) (Value, error) {
	container, key, val := args[0], args[1], args[2]
	if container.tag == TagMap {
		out := maps.Clone(container.Map())
		if out == nil {
			out = make(map[string]Value, 1)
		}
		out[key.String()] = val
		return NewMap(out), nil
	}
	items := container.List()
	pos, err := listPosition("put", key, len(items))
	if err != nil {
		return NewNull(), err
	}
	out := slices.Clone(items)
	out[pos] = val
	return NewList(out), nil
}

func builtinIndex(_ *Execution, args []Value) (Value, error) {
	container, key := args[0], args[1]
	switch container.tag {
	case TagMap:
		val, ok := container.Map()[key.String()]
		if !ok {
			return NewNull(), errorf(IndexError, "index: key %q not in map", key.String())
		}
		return val, nil
	case TagString:
		chars := []rune(container.Str())
		pos, err := listPosition("index", key, len(chars))
		if err != nil {
			return NewNull(), err
		}
		return NewString(string(chars[pos])), nil
	}
	items := container.List()
	pos, err := listPosition("index", key, len(items))
	if err != nil {
		return NewNull(), err
	}
	return items[pos], nil
}

// listPosition validates key as a position into a sequence of length n.
func listPosition(name string, key Value, n int) (int, error) {
	if key.tag != TagInt {
		return 0, errorf(TypeError, "%s: position must be int, got %s %s", name, key.tag, quoteValue(key))
	}
	pos := key.Int()
	if pos < 0 || pos >= int64(n) {
		return 0, errorf(IndexError, "%s: index %d out of range for length %d", name, pos, n)
	}
	return int(pos), nil
}

// builtinSlice takes [start, end) with negative bounds counted from the end
// and out-of-range bounds clamped. String bounds count characters.
func builtinSlice(_ *Execution, args []Value) (Value, error) {
	seq := args[0]
	var chars []rune
	n := len(seq.List())
	if seq.tag == TagString {
		chars = []rune(seq.Str())
		n = len(chars)
	}
	start := clampBound(args[1].Int(), n)
	end := n
	if len(args) > 2 {
		end = clampBound(args[2].Int(), n)
	}
	end = max(end, start)
	if seq.tag == TagString {
		return NewString(string(chars[start:end])), nil
	}
	return NewList(slices.Clone(seq.List()[start:end])), nil
}

func clampBound(bound int64, n int) int {
	if bound < 0 {
		bound += int64(n)
	}
	return int(min(max(bound, 0), int64(n)))
}

func builtinRange(_ *Execution, args []Value) (Value, error) {
	start, end, step := int64(0), args[0].Int(), int64(1)
	if len(args) > 1 {
		start, end = args[0].Int(), args[1].Int()
	}
	if len(args) > 2 {
		step = args[2].Int()
	}
	if step == 0 {
		return NewNull(), errorf(RuntimeError, "range: step must not be zero")
	}
	var out []Value
	for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
		if len(out) >= maxRangeLength {
			return NewNull(), errorf(RuntimeError, "range: more than %d elements", maxRangeLength)
		}
		out = append(out, NewInt(i))
	}
	return NewList(out), nil
}

const maxRangeLength = 1 << 20

func builtinMap(exec *Execution, args []Value) (Value, error) {
	items, fn := args[0].List(), args[1]
	out := make([]Value, len(items))
	for i, item := range items {
		v, err := exec.Invoke(fn, item)
		if err != nil {
			return NewNull(), err
		}
		out[i] = v
	}
	return NewList(out), nil
}

func builtinFilter(exec *Execution, args []Value) (Value, error) {
	items, fn := args[0].List(), args[1]
	out := make([]Value, 0, len(items))
	for _, item := range items {
		keep, err := exec.Invoke(fn, item)
		if err != nil {
			return NewNull(), err
		}
		if keep.tag != TagBool {
			return NewNull(), errorf(TypeError, "filter: predicate must yield bool, got %s %s", keep.tag, quoteValue(keep))
		}
		if keep.Bool() {
			out = append(out, item)
		}
	}
	return NewList(out), nil
}

// builtinReduce folds left, calling fn with the accumulator as input and the
// item as its second argument.
func builtinReduce(exec *Execution, args []Value) (Value, error) {
	items, fn, acc := args[0].List(), args[1], args[2]
	for _, item := range items {
		next, err := exec.Invoke(fn, acc, item)
		if err != nil {
			return NewNull(), err
		}
		acc = next
	}
	return acc, nil
}
