package mt

// Tag is the discriminant of a Value.
type Tag int

const (
	TagNull Tag = iota
	TagBool
	TagInt
	TagFloat
	TagString
	TagList
	TagMap
	TagLambda
)

// Value is the tagged variant every script value is represented by.
type Value struct {
	tag  Tag
	data any
}

// TagSet is a slot constraint: the set of tags a function parameter accepts.
type TagSet uint16

const (
	TagsAny    TagSet = 1<<(TagLambda+1) - 1
	TagsNumber        = TagSet(1<<TagInt | 1<<TagFloat)
)

// TagsOf builds a constraint accepting exactly the given tags.
func TagsOf(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s |= 1 << t
	}
	return s
}

func (s TagSet) Has(t Tag) bool {
	return s&(1<<t) != 0
}

var tagNames = [...]string{
	TagNull:   "null",
	TagBool:   "bool",
	TagInt:    "int",
	TagFloat:  "float",
	TagString: "string",
	TagList:   "list",
	TagMap:    "map",
	TagLambda: "lambda",
}

// ParseTag maps a tag name such as "int" back to its Tag.
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return TagNull, false
}
