package mt

import (
	"math"
	"math/bits"
)

type intOp func(a, b int64) (int64, bool)
type floatOp func(a, b float64) float64

func registerNumeric(r *Registry) {
	binary := func(name string, ints intOp, floats floatOp) {
		r.Register(&Descriptor{
			Name:   name,
			Params: []Param{req(TagsNumber), req(TagsNumber)},
			Result: ResultRaw,
			Curry:  true,
			Fn: func(_ *Execution, args []Value) (Value, error) {
				return arithmetic(args[0], args[1], ints, floats)
			},
		})
	}
	binary("add", addInt, func(a, b float64) float64 { return a + b })
	binary("subtract", subInt, func(a, b float64) float64 { return a - b })
	binary("multiply", mulInt, func(a, b float64) float64 { return a * b })
	binary("power", powInt, math.Pow)

	r.Register(&Descriptor{
		Name:   "divide",
		Params: []Param{req(TagsNumber), req(TagsNumber)},
		Result: ResultRaw,
		Curry:  true,
		Fn:     builtinDivide,
	})
	r.Register(&Descriptor{
		Name:   "modulo",
		Params: []Param{req(TagsNumber), req(TagsNumber)},
		Result: ResultRaw,
		Curry:  true,
		Fn:     builtinModulo,
	})

	unary := func(name string, result ResultPolicy, fn func(float64) float64) {
		r.Register(&Descriptor{
			Name:   name,
			Params: []Param{req(TagsNumber)},
			Result: result,
			Curry:  true,
			Fn: func(_ *Execution, args []Value) (Value, error) {
				return NewFloat(fn(args[0].Float())), nil
			},
		})
	}
	unary("sqrt", ResultFixed(TagFloat), math.Sqrt)
	unary("floor", ResultFixed(TagInt), math.Floor)
	unary("ceil", ResultFixed(TagInt), math.Ceil)
	unary("round", ResultFixed(TagInt), roundHalfUp)
	r.Register(&Descriptor{
		Name:   "abs",
		Params: []Param{req(TagsNumber)},
		Result: ResultRaw,
		Curry:  true,
		Fn: func(_ *Execution, args []Value) (Value, error) {
			if args[0].tag == TagInt {
				n := args[0].Int()
				if n == math.MinInt64 {
					return NewFloat(-float64(n)), nil
				}
				if n < 0 {
					n = -n
				}
				return NewInt(n), nil
			}
			return NewFloat(math.Abs(args[0].Float())), nil
		},
	})
}

// arithmetic keeps Int operands exact and falls back to Float when either
// operand is a Float or the Int result would overflow.
func arithmetic(a, b Value, ints intOp, floats floatOp) (Value, error) {
	if a.tag == TagInt && b.tag == TagInt {
		if n, ok := ints(a.Int(), b.Int()); ok {
			return NewInt(n), nil
		}
	}
	return NewFloat(floats(a.Float(), b.Float())), nil
}

func builtinDivide(_ *Execution, args []Value) (Value, error) {
	a, b := args[0], args[1]
	if b.Float() == 0 {
		return NewNull(), errorf(RuntimeError, "divide: division by zero")
	}
	if a.tag == TagInt && b.tag == TagInt {
		x, y := a.Int(), b.Int()
		switch {
		case y == -1 && x != math.MinInt64:
			return NewInt(-x), nil
		case y != -1 && x%y == 0:
			return NewInt(x / y), nil
		}
	}
	return NewFloat(a.Float() / b.Float()), nil
}

func builtinModulo(_ *Execution, args []Value) (Value, error) {
	a, b := args[0], args[1]
	if b.Float() == 0 {
		return NewNull(), errorf(RuntimeError, "modulo: division by zero")
	}
	if a.tag == TagInt && b.tag == TagInt {
		if b.Int() == -1 {
			return NewInt(0), nil
		}
		return NewInt(a.Int() % b.Int()), nil
	}
	return NewFloat(math.Mod(a.Float(), b.Float())), nil
}

func addInt(a, b int64) (int64, bool) {
	sum := a + b
	return sum, (sum > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	diff := a - b
	return diff, (diff < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uint64(absInt(a)), uint64(absInt(b)))
	if hi != 0 || lo > math.MaxInt64 || a == math.MinInt64 || b == math.MinInt64 {
		return 0, false
	}
	n := int64(lo)
	if (a < 0) != (b < 0) {
		n = -n
	}
	return n, true
}

// powInt computes exact integer powers for non-negative exponents.
func powInt(base, exp int64) (int64, bool) {
	if exp < 0 {
		return 0, false
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

func absInt(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}
