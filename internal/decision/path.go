package decision

import "strings"

// SetOrAdd writes value at the dotted path inside target and returns target.
// Missing intermediate objects are created. A leaf that already holds a
// slice gets value appended; any other leaf is overwritten.
//
//	SetOrAdd("foo.bar", {}, 10)                 -> {foo: {bar: 10}}
//	SetOrAdd("foo.bar", {foo: {bar: 9}}, 10)    -> {foo: {bar: 10}}
//	SetOrAdd("foo.bar", {foo: {bar: [9]}}, 10)  -> {foo: {bar: [9, 10]}}
func SetOrAdd(path string, target map[string]any, value any) map[string]any {
	first, rest, nested := strings.Cut(path, ".")
	if !nested {
		if items, ok := target[first].([]any); ok {
			target[first] = append(items, value)
		} else {
			target[first] = value
		}
		return target
	}

	child, ok := target[first].(map[string]any)
	if !ok {
		child = map[string]any{}
		target[first] = child
	}
	SetOrAdd(rest, child, value)
	return target
}

// Resolve reads the value at the dotted path. The bool is false when any
// segment is missing.
func Resolve(path string, obj map[string]any) (any, bool) {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
