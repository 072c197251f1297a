package avro

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"time"
)

type validator struct {
	violations []string
}

func (v *validator) fail(path, format string, args ...interface{}) {
	if path == "" {
		path = "(root)"
	}
	v.violations = append(v.violations, path+": "+fmt.Sprintf(format, args...))
}

func (v *validator) validate(n *node, value interface{}, path string) {
	switch n.kind {
	case "null":
		if value != nil {
			v.fail(path, "expected null, got %s", typeName(value))
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			v.fail(path, "expected boolean, got %s", typeName(value))
		}
	case "int":
		v.integer(n, value, path, math.MinInt32, math.MaxInt32)
	case "long":
		v.integer(n, value, path, math.MinInt64, math.MaxInt64)
	case "float", "double":
		if !isNumber(value) {
			v.fail(path, "expected %s, got %s", n.kind, typeName(value))
		}
	case "string":
		if _, ok := value.(string); !ok {
			v.fail(path, "expected string, got %s", typeName(value))
		}
	case "bytes":
		v.bytes(n, value, path)
	case "fixed":
		v.fixed(n, value, path)
	case "enum":
		s, ok := value.(string)
		if !ok {
			v.fail(path, "expected enum %s, got %s", n.name, typeName(value))
			return
		}
		if !n.symbols[s] {
			v.fail(path, "%q is not a symbol of enum %s", s, n.name)
		}
	case "array":
		v.array(n, value, path)
	case "map":
		v.mapping(n, value, path)
	case "record":
		v.record(n, value, path)
	case "union":
		v.union(n, value, path)
	default:
		v.fail(path, "unsupported schema type %s", n.kind)
	}
}

func (v *validator) integer(n *node, value interface{}, path string, min, max int64) {
	switch n.logical {
	case "date", "timestamp-millis", "timestamp-micros", "local-timestamp-millis", "local-timestamp-micros":
		if _, ok := value.(time.Time); ok {
			return
		}
	case "time-millis", "time-micros":
		if _, ok := value.(time.Duration); ok {
			return
		}
	}

	i, ok := toInt64(value)
	if !ok {
		v.fail(path, "expected %s, got %s", n.kind, typeName(value))
		return
	}
	if i < min || i > max {
		v.fail(path, "value %d out of range for %s", i, n.kind)
	}
}

func (v *validator) bytes(n *node, value interface{}, path string) {
	switch value.(type) {
	case []byte, string:
		return
	case *big.Rat:
		if n.logical == "decimal" {
			return
		}
	}
	v.fail(path, "expected bytes, got %s", typeName(value))
}

func (v *validator) fixed(n *node, value interface{}, path string) {
	var size int
	switch b := value.(type) {
	case []byte:
		size = len(b)
	case string:
		size = len(b)
	case *big.Rat:
		if n.logical == "decimal" {
			return
		}
		v.fail(path, "expected fixed %s, got %s", n.name, typeName(value))
		return
	default:
		v.fail(path, "expected fixed %s, got %s", n.name, typeName(value))
		return
	}
	if size != n.size {
		v.fail(path, "expected %d bytes for fixed %s, got %d", n.size, n.name, size)
	}
}

func (v *validator) array(n *node, value interface{}, path string) {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		v.fail(path, "expected array, got %s", typeName(value))
		return
	}
	for i := 0; i < rv.Len(); i++ {
		v.validate(n.items, rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i))
	}
}

func (v *validator) mapping(n *node, value interface{}, path string) {
	rv := reflect.ValueOf(value)
	if value == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		v.fail(path, "expected map, got %s", typeName(value))
		return
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.validate(n.values, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface(), join(path, k))
	}
}

func (v *validator) record(n *node, value interface{}, path string) {
	m, ok := value.(map[string]interface{})
	if !ok {
		v.fail(path, "expected record %s, got %s", n.name, typeName(value))
		return
	}

	declared := make(map[string]bool, len(n.fields))
	for _, f := range n.fields {
		declared[f.name] = true
		fv, present := m[f.name]
		if !present {
			if !f.hasDefault {
				v.fail(join(path, f.name), "missing required field")
			}
			continue
		}
		v.validate(f.typ, fv, join(path, f.name))
	}

	var extra []string
	for k := range m {
		if !declared[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		v.fail(join(path, k), "field not declared in record %s", n.name)
	}
}

// union accepts nil when the union has a null member, or goavro's native
// union form: a map with a single key naming the member type.
func (v *validator) union(n *node, value interface{}, path string) {
	if value == nil {
		for _, m := range n.members {
			if m.kind == "null" {
				return
			}
		}
		v.fail(path, "null is not a member of the union")
		return
	}

	m, ok := value.(map[string]interface{})
	if !ok || len(m) != 1 {
		v.fail(path, "expected union value as nil or a single-key map naming the member type, got %s", typeName(value))
		return
	}
	for key, inner := range m {
		for _, member := range n.members {
			if member.unionKey() == key {
				v.validate(member, inner, path)
				return
			}
		}
		v.fail(path, "%q is not a member of the union", key)
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func typeName(value interface{}) string {
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).String()
}

func toInt64(value interface{}) (int64, bool) {
	switch i := value.(type) {
	case int:
		return int64(i), true
	case int8:
		return int64(i), true
	case int16:
		return int64(i), true
	case int32:
		return int64(i), true
	case int64:
		return i, true
	case uint8:
		return int64(i), true
	case uint16:
		return int64(i), true
	case uint32:
		return int64(i), true
	case float32:
		if float32(int64(i)) == i {
			return int64(i), true
		}
	case float64:
		if float64(int64(i)) == i {
			return int64(i), true
		}
	}
	return 0, false
}

func isNumber(value interface{}) bool {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64, uint8, uint16, uint32:
		return true
	}
	return false
}
