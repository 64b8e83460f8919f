package emit

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// An Attr is a single attribute of an element.  Values may be booleans (true emits a bare attribute, false omits
// it), nil (omitted), or anything that can be converted to a string.
type Attr struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// A constructs an Attr, which reads better than a composite literal in long attribute lists.
func A(name string, value any) Attr { return Attr{name, value} }

// Attrs is the attribute set of one element.  Attributes are emitted in slice order.
type Attrs []Attr

// ID returns an attribute set with an id.
func ID(id string) Attrs { return Attrs{{`id`, id}} }

// Class returns an attribute set with a class.
func Class(class string) Attrs { return Attrs{{`class`, class}} }

// With returns a copy of the attribute set with more attributes appended.
func (attrs Attrs) With(more ...Attr) Attrs {
	return append(append(make(Attrs, 0, len(attrs)+len(more)), attrs...), more...)
}

// attribute value kinds, folded into the structural hash so that true and "true" differ.
const (
	absentValue = "\x00a\x00"
	flagValue   = "\x00f\x00"
	textValue   = "\x00t\x00"
)

// attrValue classifies an attribute value and converts it to unescaped text.
func attrValue(value any) (string, string) {
	switch v := value.(type) {
	case nil:
		return ``, absentValue
	case bool:
		if v {
			return ``, flagValue
		}
		return ``, absentValue
	}
	str, _ := stringify(value)
	return str, textValue
}

// stringify converts a value into text, returning false for nil.
func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return ``, false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

// hash computes the structural hash of an attribute set.  Each pair is hashed on its own and the pair hashes are
// summed, so the result does not depend on the order of the pairs.
func (attrs Attrs) hash() uint64 {
	var d xxhash.Digest
	var sum uint64
	for _, attr := range attrs {
		str, kind := attrValue(attr.Value)
		d.Reset()
		_, _ = d.WriteString(attr.Name)
		_, _ = d.WriteString(kind)
		_, _ = d.WriteString(str)
		sum += d.Sum64()
	}
	sum ^= uint64(len(attrs))
	sum *= 0x9e3779b97f4a7c15
	return sum ^ (sum >> 32)
}
