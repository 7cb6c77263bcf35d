package mt

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

func (t Tag) String() string {
	if t >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

func (s TagSet) String() string {
	if s == TagsAny {
		return "any"
	}
	var parts []string
	for t := TagNull; t <= TagLambda; t++ {
		if s.Has(t) {
			parts = append(parts, t.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// String renders the canonical text form used by print and string conversion.
func (v Value) String() string {
	switch v.tag {
	case TagNull:
		return "null"
	case TagBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case TagInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case TagFloat:
		return formatFloat(v.data.(float64))
	case TagString:
		return v.data.(string)
	case TagList:
		items := v.data.([]Value)
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TagMap:
		entries := v.data.(map[string]Value)
		if len(entries) == 0 {
			return "{}"
		}
		keys := sortedKeys(entries)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + entries[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TagLambda:
		return "<lambda " + v.data.(*Descriptor).Name + ">"
	default:
		return fmt.Sprintf("<%v>", v.tag)
	}
}

// Equal compares structurally. Int and Float compare numerically; every
// other pair of differing tags is unequal.
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag {
		if TagsNumber.Has(v.tag) && TagsNumber.Has(other.tag) {
			return v.Float() == other.Float()
		}
		return false
	}
	switch v.tag {
	case TagNull:
		return true
	case TagBool:
		return v.Bool() == other.Bool()
	case TagInt:
		return v.data.(int64) == other.data.(int64)
	case TagFloat:
		return v.data.(float64) == other.data.(float64)
	case TagString:
		return v.data.(string) == other.data.(string)
	case TagList:
		return slices.EqualFunc(v.List(), other.List(), Value.Equal)
	case TagMap:
		left, right := v.Map(), other.Map()
		if len(left) != len(right) {
			return false
		}
		for k, lv := range left {
			rv, ok := right[k]
			if !ok || !lv.Equal(rv) {
				return false
			}
		}
		return true
	default:
		return v.data == other.data
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
