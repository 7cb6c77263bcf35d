package mt

func NewNull() Value              { return Value{tag: TagNull} }
func NewBool(b bool) Value        { return Value{tag: TagBool, data: b} }
func NewInt(i int64) Value        { return Value{tag: TagInt, data: i} }
func NewFloat(f float64) Value    { return Value{tag: TagFloat, data: f} }
func NewString(s string) Value    { return Value{tag: TagString, data: s} }
func NewList(items []Value) Value { return Value{tag: TagList, data: items} }
func NewMap(m map[string]Value) Value {
	return Value{tag: TagMap, data: m}
}

// NewLambda wraps a callable descriptor so it can travel through pipelines
// and variables like any other value.
func NewLambda(desc *Descriptor) Value {
	return Value{tag: TagLambda, data: desc}
}
