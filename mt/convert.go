package mt

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// wrapKey is the key any non-map value is stored under when converted to a map.
const wrapKey = "value"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TypeOf returns the discriminant tag of v.
func TypeOf(v Value) Tag { return v.tag }

// Convert applies the conversion table. Conversions never happen implicitly;
// every coercion in the runtime goes through here.
func Convert(v Value, target Tag) (Value, error) {
	if v.tag == target {
		return v, nil
	}
	switch target {
	case TagString:
		return NewString(v.String()), nil
	case TagList:
		return NewList([]Value{v}), nil
	case TagMap:
		return NewMap(map[string]Value{wrapKey: v}), nil
	case TagInt:
		return toInt(v)
	case TagFloat:
		return toFloat(v)
	case TagBool:
		return toBool(v)
	}
	return NewNull(), conversionFailed(v, target.String())
}

// ConvertTo converts by target name: any tag name, or the parse targets
// "date" and "regex".
func ConvertTo(v Value, target string) (Value, error) {
	switch target {
	case "date":
		return toDate(v)
	case "regex":
		return toRegex(v)
	}
	tag, ok := ParseTag(target)
	if !ok {
		return NewNull(), errorf(ConversionError, "unknown conversion target %q", target)
	}
	return Convert(v, tag)
}

func conversionFailed(v Value, target string) *Error {
	return errorf(ConversionError, "cannot convert %s %s to %s", v.tag, quoteValue(v), target)
}

func toInt(v Value) (Value, error) {
	switch v.tag {
	case TagFloat:
		f := v.data.(float64)
		if math.Trunc(f) != f || f < math.MinInt64 || f >= math.MaxInt64 {
			return NewNull(), conversionFailed(v, "int")
		}
		return NewInt(int64(f)), nil
	case TagBool:
		if v.Bool() {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	case TagString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
		if err != nil {
			return NewNull(), conversionFailed(v, "int")
		}
		return NewInt(n), nil
	}
	return NewNull(), conversionFailed(v, "int")
}

func toFloat(v Value) (Value, error) {
	switch v.tag {
	case TagInt:
		return NewFloat(float64(v.data.(int64))), nil
	case TagBool:
		if v.Bool() {
			return NewFloat(1), nil
		}
		return NewFloat(0), nil
	case TagString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return NewNull(), conversionFailed(v, "float")
		}
		return NewFloat(f), nil
	}
	return NewNull(), conversionFailed(v, "float")
}

func toBool(v Value) (Value, error) {
	switch v.tag {
	case TagString:
		switch v.Str() {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		}
	case TagInt:
		return NewBool(v.data.(int64) != 0), nil
	case TagFloat:
		return NewBool(v.data.(float64) != 0), nil
	}
	return NewNull(), conversionFailed(v, "bool")
}

func toDate(v Value) (Value, error) {
	if v.tag != TagString {
		return NewNull(), conversionFailed(v, "date")
	}
	raw := strings.TrimSpace(v.Str())
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return NewMap(map[string]Value{
			"year":    NewInt(int64(t.Year())),
			"month":   NewInt(int64(t.Month())),
			"day":     NewInt(int64(t.Day())),
			"hour":    NewInt(int64(t.Hour())),
			"minute":  NewInt(int64(t.Minute())),
			"second":  NewInt(int64(t.Second())),
			"weekday": NewString(t.Weekday().String()),
			"unix":    NewInt(t.Unix()),
		}), nil
	}
	return NewNull(), conversionFailed(v, "date")
}

func toRegex(v Value) (Value, error) {
	if v.tag != TagString {
		return NewNull(), conversionFailed(v, "regex")
	}
	re, err := regexp.Compile(v.Str())
	if err != nil {
		return NewNull(), errorf(ConversionError, "invalid regex %q: %v", v.Str(), err)
	}
	return NewLambda(regexMatcher(re)), nil
}

// ParseLiteral turns a bare source token into a value. Tokens that start like
// numbers become Int when they parse exactly as one, Float otherwise.
func ParseLiteral(token string) Value {
	trimmed := strings.TrimSpace(token)
	switch trimmed {
	case "":
		return NewNull()
	case "true":
		return NewBool(true)
	case "false":
		return NewBool(false)
	case "null":
		return NewNull()
	}
	if looksNumeric(trimmed) {
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return NewInt(n)
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return NewFloat(f)
		}
	}
	return NewString(token)
}

func looksNumeric(s string) bool {
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
	}
	return i < len(s) && s[i] >= '0' && s[i] <= '9'
}

func quoteValue(v Value) string {
	if v.tag == TagString {
		return strconv.Quote(v.Str())
	}
	return v.String()
}
