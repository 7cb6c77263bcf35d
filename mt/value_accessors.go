package mt

func (v Value) Tag() Tag { return v.tag }

func (v Value) IsNull() bool { return v.tag == TagNull }

func (v Value) Bool() bool {
	if v.tag == TagBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.tag {
	case TagInt:
		return v.data.(int64)
	case TagFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.tag {
	case TagFloat:
		return v.data.(float64)
	case TagInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) Str() string {
	if v.tag != TagString {
		return ""
	}
	return v.data.(string)
}

func (v Value) List() []Value {
	if v.tag != TagList {
		return nil
	}
	return v.data.([]Value)
}

func (v Value) Map() map[string]Value {
	if v.tag != TagMap {
		return nil
	}
	return v.data.(map[string]Value)
}

func (v Value) Lambda() *Descriptor {
	if v.tag != TagLambda {
		return nil
	}
	return v.data.(*Descriptor)
}
