package mt

import (
	"math"
	"strings"
	"time"
)

func registerHost(r *Registry) {
	r.Register(&Descriptor{
		Name:   "print",
		Params: []Param{req(TagsAny), rest(TagsAny)},
		Result: ResultRaw,
		Fn:     builtinPrint,
	})
	// wait takes the delay first so a piped value lands in the second slot
	// and passes through once the delay elapses.
	r.Register(&Descriptor{
		Name:     "wait",
		Params:   []Param{req(TagsNumber), opt(TagsAny)},
		PipeSlot: 1,
		Result:   ResultRaw,
		Fn:       builtinWait,
	})
	r.Register(&Descriptor{
		Name:   "fetch",
		Params: []Param{req(TagsOf(TagString))},
		Result: ResultRaw,
		Fn:     builtinFetch,
	})
}

// builtinPrint writes its arguments space separated and yields the first.
func builtinPrint(exec *Execution, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	exec.engine.host.Print(strings.Join(parts, " "))
	return args[0], nil
}

func builtinWait(exec *Execution, args []Value) (Value, error) {
	ms := args[0].Float()
	if math.IsNaN(ms) || ms < 0 {
		ms = 0
	}
	d := time.Duration(min(ms, float64(math.MaxInt64/int64(time.Millisecond))) * float64(time.Millisecond))
	if err := exec.engine.host.Wait(exec.ctx, d); err != nil {
		return NewNull(), wrapError(HostError, err, "wait %s", d)
	}
	if len(args) > 1 {
		return args[1], nil
	}
	return NewNull(), nil
}

func builtinFetch(exec *Execution, args []Value) (Value, error) {
	url := args[0].Str()
	v, err := exec.engine.host.Fetch(exec.ctx, url)
	if err != nil {
		return NewNull(), wrapError(HostError, err, "fetch %s", url)
	}
	return v, nil
}
